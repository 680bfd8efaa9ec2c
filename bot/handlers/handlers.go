// Package handlers implements the conversation flow: greet on /start, take a
// free-text query, offer format buttons, fetch and deliver the media.
package handlers

import (
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/r0manch/tunebot/bot/fetch"
	"github.com/r0manch/tunebot/bot/session"
	"github.com/r0manch/tunebot/bot/usage"
	tghelpers "github.com/r0manch/tunebot/core/telegram/helpers"
)

// Callback uniques for the format selection buttons.
const (
	CallbackMusic = "fmt_music"
	CallbackVideo = "fmt_video"
	CallbackBoth  = "fmt_both"
)

// Handlers wires the session store, usage counter and fetcher into the
// Telegram flow steps.
type Handlers struct {
	Sessions *session.Store
	Usage    *usage.Counter
	Fetcher  fetch.Fetcher

	// Now is injectable for deterministic greetings in tests.
	Now func() time.Time
}

func New(sessions *session.Store, counter *usage.Counter, fetcher fetch.Fetcher) *Handlers {
	return &Handlers{
		Sessions: sessions,
		Usage:    counter,
		Fetcher:  fetcher,
		Now:      time.Now,
	}
}

// messenger is the outbound surface a flow step needs. Handlers talk to it
// instead of tele.Context directly so the flows can be exercised without a
// live bot.
type messenger interface {
	Send(text string) error
	SendMarkup(text string, markup *tele.ReplyMarkup) error
	Edit(text string) error
	Typing() error
	SendAudio(path, title string) error
	SendVideo(path, caption string) error
}

// teleMessenger adapts a tele.Context. Plain text goes through the async
// dispatcher, media and edits stay synchronous because the option flow
// depends on their ordering.
type teleMessenger struct {
	c tele.Context
}

func (m teleMessenger) Send(text string) error {
	return tghelpers.SendText(m.c, text)
}

func (m teleMessenger) SendMarkup(text string, markup *tele.ReplyMarkup) error {
	return tghelpers.SendWithMarkup(m.c, text, markup)
}

func (m teleMessenger) Edit(text string) error {
	return m.c.Edit(text)
}

func (m teleMessenger) Typing() error {
	return tghelpers.Typing(m.c)
}

func (m teleMessenger) SendAudio(path, title string) error {
	return m.c.Send(&tele.Audio{
		File:  tele.FromDisk(path),
		Title: title,
	})
}

func (m teleMessenger) SendVideo(path, caption string) error {
	return m.c.Send(&tele.Video{
		File:    tele.FromDisk(path),
		Caption: caption,
	})
}
