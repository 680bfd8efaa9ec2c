package webhook

import (
	"net/http/httptest"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestHandlerAcknowledgesUpdate(t *testing.T) {
	dest := make(chan tele.Update, 1)
	h := Handler(dest)

	body := `{"update_id":7,"message":{"message_id":1,"text":"hello","chat":{"id":42,"type":"private"},"from":{"id":42,"first_name":"A"}}}`
	req := httptest.NewRequest("POST", UpdatePath, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != `{"ok":true}` {
		t.Fatalf("body = %s", got)
	}

	select {
	case u := <-dest:
		if u.ID != 7 {
			t.Fatalf("update id = %d, want 7", u.ID)
		}
		if u.Message == nil || u.Message.Text != "hello" {
			t.Fatalf("unexpected message: %+v", u.Message)
		}
	default:
		t.Fatal("update not enqueued")
	}
}

func TestHandlerAcknowledgesWhenQueueFull(t *testing.T) {
	dest := make(chan tele.Update) // unbuffered and unread: always full
	h := Handler(dest)

	req := httptest.NewRequest("POST", UpdatePath, strings.NewReader(`{"update_id":1}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != `{"ok":true}` {
		t.Fatalf("body = %s", got)
	}
}

func TestHandlerAcknowledgesMalformedBody(t *testing.T) {
	dest := make(chan tele.Update, 1)
	h := Handler(dest)

	req := httptest.NewRequest("POST", UpdatePath, strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	select {
	case <-dest:
		t.Fatal("malformed body must not enqueue an update")
	default:
	}
}

func TestHandlerRejectsGetOnUpdatePath(t *testing.T) {
	h := Handler(make(chan tele.Update, 1))
	req := httptest.NewRequest("GET", UpdatePath, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 405 {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHandlerLiveness(t *testing.T) {
	h := Handler(make(chan tele.Update, 1))
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != `{"status":"alive"}` {
		t.Fatalf("body = %s", got)
	}
}
