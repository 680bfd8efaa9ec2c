package sender

import (
	"context"
	"errors"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestSanitizeErrorMessageRedactsToken(t *testing.T) {
	err := errors.New("telegram: Post https://api.telegram.org/bot123456:AAE-abc_DEF/sendMessage failed")
	got := sanitizeErrorMessage(err)
	if got != "telegram: Post https://api.telegram.org/bot<redacted>/sendMessage failed" {
		t.Fatalf("token not redacted: %s", got)
	}
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, "timeout"},
		{&tele.Error{Code: 502}, "http_5xx"},
		{&tele.Error{Code: 404}, "http_4xx"},
		{tele.FloodError{RetryAfter: 3}, "http_4xx"},
		{errors.New("something odd"), "unknown"},
	}
	for _, tc := range cases {
		if got := classifyError(tc.err); got != tc.want {
			t.Errorf("classifyError(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestDispatcherRunsJob(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 4, Workers: 1})
	defer d.Close()

	done := make(chan struct{})
	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not executed")
	}
	if got := d.ErrorCount(); got != 0 {
		t.Fatalf("error count = %d, want 0", got)
	}
}

func TestEnqueueQueueFull(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 1, Workers: 1})
	defer d.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	if err := d.Enqueue(context.Background(), "a", "", func() error {
		close(started)
		<-release
		return nil
	}); err != nil {
		t.Fatalf("enqueue blocker: %v", err)
	}
	<-started

	// worker is busy, this one sits in the queue
	if err := d.Enqueue(context.Background(), "b", "", func() error { return nil }); err != nil {
		t.Fatalf("enqueue filler: %v", err)
	}
	if err := d.Enqueue(context.Background(), "c", "", func() error { return nil }); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 1, Workers: 1})
	d.Close()

	err := d.Enqueue(context.Background(), "a", "", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

func TestFailedJobCountsOnce(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 2, Workers: 1, MaxRetries: 0})

	done := make(chan struct{})
	if err := d.Enqueue(context.Background(), "a", "", func() error {
		defer close(done)
		return errors.New("permanent")
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	<-done
	d.Close()

	if got := d.ErrorCount(); got != 1 {
		t.Fatalf("error count = %d, want 1", got)
	}
}
