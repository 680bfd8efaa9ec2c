// Package bot assembles the media-fetch bot: configuration, the yt-dlp
// fetcher, session and usage state, and the Telegram routes.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/r0manch/tunebot/bot/fetch"
	"github.com/r0manch/tunebot/bot/handlers"
	"github.com/r0manch/tunebot/bot/session"
	"github.com/r0manch/tunebot/bot/usage"
	coreconfig "github.com/r0manch/tunebot/core/config"
	"github.com/r0manch/tunebot/core/logger"
	coretelegram "github.com/r0manch/tunebot/core/telegram"
	"github.com/r0manch/tunebot/core/telegram/commands"
	"github.com/r0manch/tunebot/core/telegram/router"
)

// Config carries the core configuration for the runner.
type Config struct {
	core *coreconfig.Config
}

func (c *Config) CoreConfig() *coreconfig.Config { return c.core }

// LoadConfig reads configuration from the optional YAML file and environment.
func LoadConfig(path string) (*Config, error) {
	core, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{core: core}, nil
}

// App is the bootstrapped application.
type App struct {
	cfg *coreconfig.Config

	sessions *session.Store
	users    *usage.Counter
	handlers *handlers.Handlers

	cookieCleanup func()
}

// Bootstrap initialises logging, the cookie file and the yt-dlp fetcher.
func Bootstrap(cfg *Config) (*App, error) {
	core := cfg.CoreConfig()
	if err := logger.InitLogger(core); err != nil {
		return nil, fmt.Errorf("bot: logger init: %w", err)
	}

	cookiePath, cookieCleanup, err := fetch.WriteCookies(core.Fetch.Cookies)
	if err != nil {
		return nil, err
	}

	fetcher, err := fetch.NewYTDLP(fetch.YTDLPOptions{
		Dir:         core.Fetch.Dir,
		CookiesFile: cookiePath,
		Timeout:     time.Duration(core.Fetch.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		cookieCleanup()
		return nil, err
	}

	sessions := session.NewStore()
	users := usage.NewCounter()

	return &App{
		cfg:           core,
		sessions:      sessions,
		users:         users,
		handlers:      handlers.New(sessions, users, fetcher),
		cookieCleanup: cookieCleanup,
	}, nil
}

// TelegramRunOptions wires handlers into the bot runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handlers.Start,
		Description: "Greet and ask for a song name",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handlers.Stats,
		Description: "Show how many users the bot has served",
	})

	if err := reg.RegisterCallback(handlers.CallbackMusic, a.handlers.OnOption(session.FormatMusic)); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(handlers.CallbackVideo, a.handlers.OnOption(session.FormatVideo)); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(handlers.CallbackBoth, a.handlers.OnOption(session.FormatBoth)); err != nil {
		return coretelegram.RunOptions{}, err
	}

	reg.SetTextFallback(a.handlers.OnQuery)

	routes := router.CommandRoutes(reg)
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.cookieCleanup()
			return nil
		},
	}, nil
}
