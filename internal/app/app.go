// Package app wires configuration, the knowledge base, the OpenAI client and
// the Telegram transport together and owns the process lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"telegram-cybersec-bot/internal/classify"
	"telegram-cybersec-bot/internal/compose"
	"telegram-cybersec-bot/internal/config"
	"telegram-cybersec-bot/internal/gate"
	"telegram-cybersec-bot/internal/knowledge"
	"telegram-cybersec-bot/internal/logging"
	"telegram-cybersec-bot/internal/router"
)

// App is the assembled application.
type App struct {
	cfg    *config.Config
	bot    *tg.Bot
	router *router.Router
	server *http.Server
}

// New loads configuration and builds every collaborator. A missing or
// malformed sources document is fatal here; nothing later reloads it.
func New() (*App, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	logging.Init()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	base, err := knowledge.Load(cfg.SourcesPath)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	logging.Log.Info().Str("path", cfg.SourcesPath).Int("topics", base.Len()).Msg("knowledge base loaded")

	a := &App{cfg: cfg}

	b, err := tg.New(cfg.BotToken, tg.WithDefaultHandler(func(ctx context.Context, b *tg.Bot, upd *models.Update) {
		a.router.HandleUpdate(ctx, b, upd)
	}))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	a.bot = b

	classifier := classify.New(classify.DefaultRules)
	composer := compose.New(openai.NewClient(cfg.OpenAIKey), classifier, base, compose.Params{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	a.router = router.New(gate.New(b, cfg.Channel), base, composer)

	a.initHTTPServer()
	return a, nil
}

func (a *App) webhookPath() string {
	return "/webhook/" + a.cfg.BotToken
}

// initHTTPServer sets up the health endpoint and, in webhook mode, the update
// ingestion endpoint backed by the bot library's webhook handler.
func (a *App) initHTTPServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "OK")
	})
	if a.cfg.WebhookHost != "" {
		mux.Handle(a.webhookPath(), a.bot.WebhookHandler())
	}
	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Run starts update processing and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		logging.Log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Error().Err(err).Msg("http server failed")
		}
	}()

	if a.cfg.WebhookHost != "" {
		// The webhook path embeds the bot token, so only the host is logged.
		if _, err := a.bot.SetWebhook(ctx, &tg.SetWebhookParams{URL: a.cfg.WebhookHost + a.webhookPath()}); err != nil {
			return fmt.Errorf("set webhook: %w", err)
		}
		logging.Log.Info().Str("host", a.cfg.WebhookHost).Msg("webhook registered, processing updates")
		a.bot.StartWebhook(ctx)
	} else {
		logging.Log.Info().Msg("long polling for updates")
		a.bot.Start(ctx)
	}

	logging.Log.Info().Msg("shutting down")
	return a.Shutdown()
}

// Shutdown deregisters the webhook and drains the HTTP server.
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.cfg.WebhookHost != "" {
		if _, err := a.bot.DeleteWebhook(shutdownCtx, &tg.DeleteWebhookParams{}); err != nil {
			logging.Log.Warn().Err(err).Msg("delete webhook failed")
		}
	}
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logging.Log.Info().Msg("shutdown complete")
	return nil
}
