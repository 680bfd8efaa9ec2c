package handlers

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/r0manch/tunebot/bot/greeting"
)

const queryPrompt = "Send me a song name 🎶"

// Start greets the user and prompts for a query.
func (h *Handlers) Start(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	return h.startFlow(teleMessenger{c}, user.ID, user.Username, user.FirstName)
}

func (h *Handlers) startFlow(m messenger, userID int64, username, firstName string) error {
	h.Usage.Touch(userID)
	hello := greeting.For(h.Now(), username, firstName)
	return m.Send(fmt.Sprintf("%s\n\n%s", hello, queryPrompt))
}
