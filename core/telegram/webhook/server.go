// Package webhook implements the inbound update transport: a small HTTP
// server that accepts Telegram webhook calls and acknowledges them
// immediately, independent of downstream processing.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/r0manch/tunebot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

const (
	// UpdatePath is the route Telegram posts updates to.
	UpdatePath = "/webhook"

	defaultShutdownTimeout = 5 * time.Second
)

// Server receives webhook updates over HTTP and feeds them into the bot's
// update channel. It implements tele.Poller.
type Server struct {
	addr string
}

// NewServer creates a webhook server bound to listen:port.
func NewServer(listen string, port int) *Server {
	return &Server{addr: fmt.Sprintf("%s:%d", listen, port)}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Poll runs the HTTP server until stop is closed. Decoded updates are
// enqueued without blocking; when the queue is saturated the update is
// dropped with a warning, and the HTTP caller is acknowledged either way.
func (s *Server) Poll(b *tele.Bot, dest chan tele.Update, stop chan struct{}) {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           Handler(dest),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "tg", "webhook.shutdown",
				slog.String("err", err.Error()),
			)
		}
		<-errCh
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error(context.Background(), "tg", "webhook.serve",
				slog.String("listen", s.addr),
				slog.String("err", err.Error()),
			)
		}
	}
}

// Handler builds the HTTP handler serving the update and liveness routes.
// Split from Poll so it can be exercised without a listening socket.
func Handler(dest chan<- tele.Update) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(UpdatePath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var update tele.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			logger.Warn(r.Context(), "tg", "webhook.decode",
				slog.String("err", err.Error()),
			)
			ack(w)
			return
		}

		select {
		case dest <- update:
		default:
			logger.Warn(r.Context(), "tg", "webhook.drop",
				slog.Int("update_id", update.ID),
			)
		}
		ack(w)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"alive"}`))
	})

	return mux
}

// ack answers the webhook call; Telegram only cares about the 200.
func ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}
