package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/r0manch/tunebot/bot/fetch"
	"github.com/r0manch/tunebot/bot/session"
	"github.com/r0manch/tunebot/bot/usage"
)

type sentMedia struct {
	path  string
	title string
}

type fakeMessenger struct {
	sent    []string
	edits   []string
	typing  int
	audio   []sentMedia
	video   []sentMedia
	sendErr error

	lastMarkup *tele.ReplyMarkup
}

func (f *fakeMessenger) Send(text string) error {
	f.sent = append(f.sent, text)
	return f.sendErr
}

func (f *fakeMessenger) SendMarkup(text string, markup *tele.ReplyMarkup) error {
	f.sent = append(f.sent, text)
	f.lastMarkup = markup
	return nil
}

func (f *fakeMessenger) Edit(text string) error {
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeMessenger) Typing() error {
	f.typing++
	return nil
}

func (f *fakeMessenger) SendAudio(path, title string) error {
	f.audio = append(f.audio, sentMedia{path, title})
	return nil
}

func (f *fakeMessenger) SendVideo(path, caption string) error {
	f.video = append(f.video, sentMedia{path, caption})
	return nil
}

type fetchCall struct {
	query string
	kind  fetch.Kind
}

type fakeFetcher struct {
	t       *testing.T
	dir     string
	errs    map[fetch.Kind]error
	calls   []fetchCall
	scratch []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, query string, kind fetch.Kind) (fetch.Result, error) {
	f.calls = append(f.calls, fetchCall{query, kind})
	if err := f.errs[kind]; err != nil {
		return fetch.Result{}, err
	}
	scratch, err := os.MkdirTemp(f.dir, "scratch-")
	if err != nil {
		f.t.Fatal(err)
	}
	f.scratch = append(f.scratch, scratch)
	path := filepath.Join(scratch, string(kind)+"-artifact")
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		f.t.Fatal(err)
	}
	return fetch.Result{Path: path, Title: "Shape of You", Dir: scratch}, nil
}

func newTestHandlers(t *testing.T, errs map[fetch.Kind]error) (*Handlers, *fakeFetcher) {
	t.Helper()
	f := &fakeFetcher{t: t, dir: t.TempDir(), errs: errs}
	h := New(session.NewStore(), usage.NewCounter(), f)
	// fixed instant at 09:00 IST, morning band
	h.Now = func() time.Time {
		return time.Date(2026, time.March, 10, 3, 30, 0, 0, time.UTC)
	}
	return h, f
}

func TestStartGreetsAndPrompts(t *testing.T) {
	h, _ := newTestHandlers(t, nil)
	m := &fakeMessenger{}

	if err := h.startFlow(m, 1, "alice", "Alice"); err != nil {
		t.Fatal(err)
	}
	if len(m.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(m.sent))
	}
	if !strings.Contains(m.sent[0], "@alice") {
		t.Fatalf("greeting missing username: %q", m.sent[0])
	}
	if !strings.Contains(m.sent[0], "Good Morning") {
		t.Fatalf("expected morning band: %q", m.sent[0])
	}
	if !strings.Contains(m.sent[0], queryPrompt) {
		t.Fatalf("missing query prompt: %q", m.sent[0])
	}
}

func TestStartCountsDistinctUsersOnce(t *testing.T) {
	h, _ := newTestHandlers(t, nil)
	m := &fakeMessenger{}
	for i := 0; i < 3; i++ {
		if err := h.startFlow(m, 1, "alice", ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.startFlow(m, 2, "bob", ""); err != nil {
		t.Fatal(err)
	}
	if got := h.Usage.Count(); got != 2 {
		t.Fatalf("expected 2 distinct users, got %d", got)
	}
}

func TestQueryStoresAndOffersFormats(t *testing.T) {
	h, _ := newTestHandlers(t, nil)
	m := &fakeMessenger{}

	if err := h.queryFlow(m, 1, "Shape of You"); err != nil {
		t.Fatal(err)
	}
	if q, ok := h.Sessions.Query(1); !ok || q != "Shape of You" {
		t.Fatalf("query not stored, got %q ok=%v", q, ok)
	}
	if m.lastMarkup == nil {
		t.Fatal("expected an inline keyboard")
	}
	if rows := m.lastMarkup.InlineKeyboard; len(rows) != 1 || len(rows[0]) != 3 {
		t.Fatalf("expected a single row of 3 buttons, got %v", rows)
	}
}

func TestOptionWithoutQuery(t *testing.T) {
	h, f := newTestHandlers(t, nil)
	m := &fakeMessenger{}

	if err := h.optionFlow(context.Background(), m, 1, session.FormatMusic); err != nil {
		t.Fatal(err)
	}
	if len(f.calls) != 0 {
		t.Fatal("fetch must not run without a pending query")
	}
	if len(m.edits) != 1 || m.edits[0] != noQueryMessage {
		t.Fatalf("expected no-query edit, got %v", m.edits)
	}
}

func TestOptionMusicSuccess(t *testing.T) {
	h, f := newTestHandlers(t, nil)
	m := &fakeMessenger{}
	h.Sessions.SetQuery(1, "Shape of You")

	if err := h.optionFlow(context.Background(), m, 1, session.FormatMusic); err != nil {
		t.Fatal(err)
	}

	if len(f.calls) != 1 || f.calls[0] != (fetchCall{"Shape of You", fetch.KindAudio}) {
		t.Fatalf("unexpected fetch calls: %v", f.calls)
	}
	if len(m.audio) != 1 || m.audio[0].title != "Shape of You" {
		t.Fatalf("expected one audio delivery, got %v", m.audio)
	}
	if _, err := os.Stat(m.audio[0].path); !os.IsNotExist(err) {
		t.Fatal("expected temp file to be removed after delivery")
	}
	for _, dir := range f.scratch {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Fatalf("expected scratch dir %s to be removed after delivery", dir)
		}
	}
	if len(m.sent) == 0 || !strings.Contains(m.sent[len(m.sent)-1], "Shape of You") {
		t.Fatalf("expected confirmation naming the title, got %v", m.sent)
	}
	if _, ok := h.Sessions.Query(1); ok {
		t.Fatal("session must be cleared after full success")
	}
	if m.typing == 0 {
		t.Fatal("expected a typing indicator")
	}
}

func TestOptionEmptyQueryStillFetches(t *testing.T) {
	h, f := newTestHandlers(t, nil)
	m := &fakeMessenger{}
	h.Sessions.SetQuery(1, "")

	if err := h.optionFlow(context.Background(), m, 1, session.FormatMusic); err != nil {
		t.Fatal(err)
	}
	if len(f.calls) != 1 || f.calls[0] != (fetchCall{"", fetch.KindAudio}) {
		t.Fatalf("stored empty query must be forwarded to the fetcher, got %v", f.calls)
	}
	if len(m.edits) == 0 || m.edits[0] != downloadingMessage {
		t.Fatalf("expected downloading edit, got %v", m.edits)
	}
}

func TestOptionConfirmationFailureStillClears(t *testing.T) {
	h, _ := newTestHandlers(t, nil)
	m := &fakeMessenger{sendErr: errors.New("telegram unreachable")}
	h.Sessions.SetQuery(1, "Shape of You")

	if err := h.optionFlow(context.Background(), m, 1, session.FormatMusic); err != nil {
		t.Fatal(err)
	}
	if len(m.audio) != 1 {
		t.Fatal("expected the audio to be delivered")
	}
	if _, ok := h.Sessions.Query(1); ok {
		t.Fatal("confirmation transport failure must not keep the session alive")
	}
}

func TestOptionFailureKeepsQueryForRetry(t *testing.T) {
	h, f := newTestHandlers(t, map[fetch.Kind]error{
		fetch.KindAudio: errors.New("network down"),
	})
	m := &fakeMessenger{}
	h.Sessions.SetQuery(1, "Shape of You")

	if err := h.optionFlow(context.Background(), m, 1, session.FormatMusic); err != nil {
		t.Fatal(err)
	}
	if q, ok := h.Sessions.Query(1); !ok || q != "Shape of You" {
		t.Fatal("failed fetch must leave the pending query intact")
	}

	// retry succeeds and clears the session
	f.errs = nil
	if err := h.optionFlow(context.Background(), m, 1, session.FormatMusic); err != nil {
		t.Fatal(err)
	}
	if _, ok := h.Sessions.Query(1); ok {
		t.Fatal("successful retry must clear the session")
	}
	if len(f.calls) != 2 {
		t.Fatalf("expected two fetch attempts, got %d", len(f.calls))
	}
}

func TestOptionBothPartialFailure(t *testing.T) {
	h, f := newTestHandlers(t, map[fetch.Kind]error{
		fetch.KindVideo: errors.New("transcode failed"),
	})
	m := &fakeMessenger{}
	h.Sessions.SetQuery(2, "Shape of You")

	if err := h.optionFlow(context.Background(), m, 2, session.FormatBoth); err != nil {
		t.Fatal(err)
	}

	if len(f.calls) != 2 {
		t.Fatalf("expected two independent fetch calls, got %d", len(f.calls))
	}
	if f.calls[0].kind != fetch.KindAudio || f.calls[1].kind != fetch.KindVideo {
		t.Fatalf("unexpected leg order: %v", f.calls)
	}
	if len(m.audio) != 1 {
		t.Fatal("audio leg must be delivered despite video failure")
	}
	if len(m.video) != 0 {
		t.Fatal("failed video leg must not deliver")
	}

	var failureReported bool
	for _, s := range m.sent {
		if strings.Contains(s, "video") && strings.Contains(s, "😔") {
			failureReported = true
		}
	}
	if !failureReported {
		t.Fatalf("expected per-leg failure message, got %v", m.sent)
	}
	if _, ok := h.Sessions.Query(2); !ok {
		t.Fatal("partial failure must keep the session for retry")
	}
}

func TestStatsReportsDistinctUsers(t *testing.T) {
	h, _ := newTestHandlers(t, nil)
	m := &fakeMessenger{}

	if err := h.statsFlow(m); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(m.sent[0], "0") {
		t.Fatalf("expected zero before any interaction, got %q", m.sent[0])
	}

	h.Usage.Touch(1)
	h.Usage.Touch(1)
	h.Usage.Touch(2)

	if err := h.statsFlow(m); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(m.sent[1], "2") {
		t.Fatalf("expected 2 distinct users, got %q", m.sent[1])
	}
}
