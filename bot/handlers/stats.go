package handlers

import (
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// Stats reports how many distinct users the bot has seen since it started.
func (h *Handlers) Stats(c tele.Context) error {
	return h.statsFlow(teleMessenger{c})
}

func (h *Handlers) statsFlow(m messenger) error {
	return m.Send(fmt.Sprintf("📊 Unique users since start: %d", h.Usage.Count()))
}
