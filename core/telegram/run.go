package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	coreconfig "github.com/r0manch/tunebot/core/config"
	"github.com/r0manch/tunebot/core/logger"
	tghelpers "github.com/r0manch/tunebot/core/telegram/helpers"
	tgsender "github.com/r0manch/tunebot/core/telegram/sender"
	"github.com/r0manch/tunebot/core/telegram/webhook"

	tele "gopkg.in/telebot.v4"
	"log/slog"
)

const defaultUpdateQueueSize = 256

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	DispatcherOptions tgsender.Options
	Dispatcher        *tgsender.Dispatcher

	Middlewares []Middleware
	Routes      []Route

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// RunTelegram composes and runs a Telegram bot until the provided context is
// done. Every inbound update is handled in its own goroutine so a slow flow
// step (a multi-minute media fetch included) never delays other updates or,
// in webhook mode, the HTTP acknowledgement.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}

	cfg := opts.Config
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	poller := BuildPoller(PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook: WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	})

	buildStart := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Client: BuildHTTPClient(),
	})
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	buildTook := time.Since(buildStart)

	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = tgsender.NewDispatcher(opts.DispatcherOptions)
	}
	tghelpers.SetDispatcher(dispatcher)
	defer tghelpers.SetDispatcher(nil)
	defer dispatcher.Close()

	rt := Runtime{
		Dispatcher: dispatcher,
		Registry:   reg,
	}

	webhookMode := cfg.Telegram.RunMode == coreconfig.RunModeWebhook
	if webhookMode {
		publicURL := cfg.Webhook.URL + webhook.UpdatePath
		if err := registerWebhook(cfg.Telegram.Token, publicURL); err != nil {
			return fmt.Errorf("telegram: webhook registration failed: %w", err)
		}
		logger.TG.Info("webhook mode",
			slog.String("event", "mode"),
			slog.String("mode", "webhook"),
			slog.String("listen", fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port)),
			slog.String("public_url", publicURL),
			slog.Duration("duration", logger.RoundMS(buildTook)),
		)
	} else {
		timeoutSec := 10
		if cfg.Telegram.LongPollTimeoutSeconds > 0 {
			timeoutSec = cfg.Telegram.LongPollTimeoutSeconds
		}
		logger.TG.Info("polling mode",
			slog.String("event", "mode"),
			slog.String("mode", "polling"),
			slog.Int("timeout_seconds", timeoutSec),
			slog.Duration("duration", logger.RoundMS(buildTook)),
		)
		// a stale webhook registration blocks getUpdates
		if err := deleteWebhook(cfg.Telegram.Token, false); err != nil {
			logger.TG.Warn("failed to delete webhook",
				slog.String("event", "delete_webhook"),
				slog.String("err", err.Error()),
			)
		}
	}

	for _, mw := range opts.Middlewares {
		if mw.Use == nil {
			continue
		}
		bot.Use(mw.Use)
	}

	for _, route := range opts.Routes {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		bot.Handle(route.Endpoint, route.Handler)
	}

	InitBotCommands(bot, reg)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	queueSize := cfg.Webhook.QueueSize
	if queueSize <= 0 {
		queueSize = defaultUpdateQueueSize
	}
	updates := make(chan tele.Update, queueSize)
	stopPoll := make(chan struct{})
	pollDone := make(chan struct{})
	go func() {
		poller.Poll(bot, updates, stopPoll)
		close(pollDone)
	}()

	var inflight sync.WaitGroup
	process := func(u tele.Update) {
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			bot.ProcessUpdate(u)
		}()
	}

pump:
	for {
		select {
		case <-ctx.Done():
			break pump
		case u := <-updates:
			process(u)
		}
	}

	close(stopPoll)
	<-pollDone

	// drain updates buffered before the poller stopped
drain:
	for {
		select {
		case u := <-updates:
			process(u)
		default:
			break drain
		}
	}
	inflight.Wait()

	if webhookMode {
		if err := deleteWebhook(cfg.Telegram.Token, false); err != nil {
			logger.TG.Warn("failed to delete webhook",
				slog.String("event", "delete_webhook"),
				slog.String("err", err.Error()),
			)
		}
	}

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(context.Background(), rt)
	}
	if stopErr != nil {
		return stopErr
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
