package router

import (
	"log/slog"

	"github.com/r0manch/tunebot/core/logger"
	tg "github.com/r0manch/tunebot/core/telegram"
	"github.com/r0manch/tunebot/core/telegram/middleware"
)

// CommandRoutes prepares command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		h := def.Handler
		h = middleware.RecoverMiddleware(h)
		h = middleware.LoggerMiddleware(h)
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  h,
		})
	}

	if logg := logger.Component("tg.wire"); logg != nil {
		logg.Info("tg.wire",
			slog.String("event", "complete"),
			slog.Int("commands", len(reg.Commands())),
			slog.Int("callbacks", len(reg.ListCallbacks())),
		)
	}

	return routes
}
