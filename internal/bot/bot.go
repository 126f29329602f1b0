package bot

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/bot/handlers"
	errors "github.com/Proton-105/interactive-bot/internal/errors"
	"github.com/Proton-105/interactive-bot/internal/idempotency"
	"github.com/Proton-105/interactive-bot/internal/middleware"
	"github.com/Proton-105/interactive-bot/internal/reply"
	"github.com/Proton-105/interactive-bot/pkg/config"
)

const modeWebhook = "webhook"

// Dependencies are the collaborators the bot wires into its router. Nil members are skipped.
type Dependencies struct {
	Responder   *reply.Responder
	Idempotency idempotency.Manager
	RateLimit   *middleware.RateLimitMiddleware
}

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	deps       Dependencies
	router     *Router
	errHandler *errors.Handler
}

// New builds a telegram bot instance configured according to the application settings. Creating
// the client calls getMe, which is retried on transient failures.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, deps Dependencies) (*Bot, error) {
	settings := Settings(cfg, log)

	var tb *telebot.Bot
	err := errors.WithRetry(ctx, func() error {
		var initErr error
		tb, initErr = telebot.NewBot(settings)
		if initErr != nil {
			return errors.NewExternalAPIError("telegram getMe", initErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	return newBot(tb, cfg, log, deps), nil
}

func newBot(tb *telebot.Bot, cfg config.Config, log *slog.Logger, deps Dependencies) *Bot {
	if log == nil {
		log = slog.Default()
	}
	if deps.Responder == nil {
		deps.Responder = reply.NewResponder(reply.Profile(cfg.Bot.Profile))
	}

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		deps:       deps,
		router:     NewRouter(log),
		errHandler: errors.NewHandler(log, cfg.Sentry.Enabled),
	}

	b.setupRouter()

	if b.deps.RateLimit != nil {
		b.telebot.Use(b.deps.RateLimit.Handle)
	}

	b.registerTelebotHandlers()

	return b
}

// Settings translates configuration into telebot settings: a long poller or a webhook, both
// restricted to the configured update types. An empty list means every type.
func Settings(cfg config.Config, log *slog.Logger) telebot.Settings {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token: cfg.Bot.Token,
		OnError: func(err error, c telebot.Context) {
			log.Error("telebot error", slog.Any("error", err))
		},
	}

	if cfg.Bot.Mode == modeWebhook {
		webhook := &telebot.Webhook{
			Listen:         cfg.Bot.WebhookListen,
			AllowedUpdates: cfg.Bot.AllowedUpdates,
		}
		if cfg.Bot.WebhookPublicURL != "" {
			webhook.Endpoint = &telebot.WebhookEndpoint{PublicURL: cfg.Bot.WebhookPublicURL}
		}
		settings.Poller = webhook
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout:        cfg.Bot.Timeout,
			AllowedUpdates: cfg.Bot.AllowedUpdates,
		}
	}

	return settings
}

// Start runs the telegram bot event loop. It blocks until Stop is called.
func (b *Bot) Start() {
	if b.telebot == nil {
		return
	}

	b.log.Info("telegram bot started",
		slog.String("username", b.telebot.Me.Username),
		slog.String("profile", string(b.deps.Responder.Profile())),
		slog.String("mode", b.cfg.Bot.Mode),
	)
	b.telebot.Start()
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

// Router exposes the update router.
func (b *Bot) Router() *Router {
	return b.router
}

func (b *Bot) setupRouter() {
	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(LoggingMiddleware(b.log))
	// Errors must reach the idempotency layer so failed deliveries stay retryable.
	b.router.Use(ErrorHandlingMiddleware(b.log, b.errHandler))
	b.router.Use(middleware.Idempotency(b.deps.Idempotency, b.log))
	b.router.Use(middleware.Metrics)

	responder := b.deps.Responder
	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(responder))
	b.router.RegisterCommand(CommandHelp, handlers.NewHelpHandler(responder))
	b.router.SetDefault(handlers.NewTextHandler(responder))

	if !responder.HasMenu() {
		return
	}

	b.router.RegisterCommand(CommandMenu, handlers.NewMenuHandler(responder))
	b.router.RegisterCallback(CallbackOption, handlers.NewButtonHandler(responder, b.log))
}

func (b *Bot) registerTelebotHandlers() {
	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
