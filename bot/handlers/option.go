package handlers

import (
	"context"
	"fmt"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/r0manch/tunebot/bot/fetch"
	"github.com/r0manch/tunebot/bot/session"
	"github.com/r0manch/tunebot/core/logger"
	tghelpers "github.com/r0manch/tunebot/core/telegram/helpers"
)

const (
	noQueryMessage     = "No song found. Send me a song name first 🎶"
	downloadingMessage = "⏳ Downloading, please wait…"
)

// OnOption returns a callback handler for one format button.
func (h *Handlers) OnOption(format session.Format) tele.HandlerFunc {
	return func(c tele.Context) error {
		user := c.Sender()
		if user == nil {
			return nil
		}
		ctx := tghelpers.BuildContext(c)
		return h.optionFlow(ctx, teleMessenger{c}, user.ID, format)
	}
}

// leg is one fetch-and-deliver unit. "Both" runs two legs independently, a
// failed leg never blocks the other.
type leg struct {
	kind    fetch.Kind
	deliver func(m messenger, r fetch.Result) error
	label   string
}

func legsFor(format session.Format) []leg {
	audio := leg{
		kind:  fetch.KindAudio,
		label: "audio",
		deliver: func(m messenger, r fetch.Result) error {
			return m.SendAudio(r.Path, r.Title)
		},
	}
	video := leg{
		kind:  fetch.KindVideo,
		label: "video",
		deliver: func(m messenger, r fetch.Result) error {
			return m.SendVideo(r.Path, r.Title)
		},
	}
	switch format {
	case session.FormatVideo:
		return []leg{video}
	case session.FormatBoth:
		return []leg{audio, video}
	default:
		return []leg{audio}
	}
}

func (h *Handlers) optionFlow(ctx context.Context, m messenger, userID int64, format session.Format) error {
	query, ok := h.Sessions.Query(userID)
	if !ok {
		return m.Edit(noQueryMessage)
	}
	h.Sessions.SetFormat(userID, format)

	if err := m.Edit(downloadingMessage); err != nil {
		return err
	}
	_ = m.Typing()

	var (
		title  string
		failed int
	)
	for _, l := range legsFor(format) {
		res, err := h.Fetcher.Fetch(ctx, query, l.kind)
		if err != nil {
			failed++
			_ = m.Send(fmt.Sprintf("😔 Couldn't fetch the %s. Press the button to retry.", l.label))
			continue
		}
		err = l.deliver(m, res)
		res.Discard()
		if err != nil {
			failed++
			logger.Error(ctx, "bot", "deliver.fail",
				slog.String("format", l.label),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			continue
		}
		title = res.Title
	}

	// The pending query survives any failure so the user can simply press a
	// format button again. Only a fully successful run resets the session.
	if failed > 0 {
		return nil
	}

	// confirmation goes through the async sender; its transport outcome is
	// log-only and must not keep the session alive
	_ = m.Send(fmt.Sprintf("✅ Sent: %s", title))
	h.Sessions.Clear(userID)
	return nil
}
