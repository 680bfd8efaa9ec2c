package handlers

import (
	tele "gopkg.in/telebot.v4"

	"github.com/r0manch/tunebot/core/telegram/keyboard"
)

const chooseFormatPrompt = "What would you like to listen/watch?"

// OnQuery stores the message text as the user's pending query and offers the
// format choices. Any non-command text lands here.
func (h *Handlers) OnQuery(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	return h.queryFlow(teleMessenger{c}, user.ID, c.Text())
}

func (h *Handlers) queryFlow(m messenger, userID int64, text string) error {
	h.Usage.Touch(userID)
	h.Sessions.SetQuery(userID, text)
	return m.SendMarkup(chooseFormatPrompt, formatKeyboard())
}

func formatKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "🎵 Music", Unique: CallbackMusic},
		{Text: "🎬 Video", Unique: CallbackVideo},
		{Text: "🎶 Both", Unique: CallbackBoth},
	})
}
