package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	donasibot "github.com/sahabat-berbagi/donasibot"
	"github.com/sahabat-berbagi/donasibot/internal/config"
	"github.com/sahabat-berbagi/donasibot/internal/gateway"
	"github.com/sahabat-berbagi/donasibot/internal/handler"
	"github.com/sahabat-berbagi/donasibot/internal/middleware"
	"github.com/sahabat-berbagi/donasibot/internal/repository"
	"github.com/sahabat-berbagi/donasibot/internal/server"
	"github.com/sahabat-berbagi/donasibot/internal/service"
	"github.com/sahabat-berbagi/donasibot/internal/session"
	"github.com/sahabat-berbagi/donasibot/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(donasibot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	orders := repository.NewPgOrderStore(pool)
	sessions := session.NewStore(config.SessionTimeout)
	pakasir := gateway.NewPakasirClient(cfg.PakasirBaseURL, cfg.PakasirProject, cfg.PakasirAPIKey)

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.SessionTouch(sessions),
		),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	sender := telegram.NewBotSender(b)
	notifier := service.NewNotifier(sender, cfg.OwnerID)
	donations := service.NewDonationService(orders, pakasir, sender, notifier)

	h := handler.New(handler.Deps{
		Bot:       b,
		Cfg:       cfg,
		Sessions:  sessions,
		Orders:    orders,
		Donations: donations,
		Sender:    sender,
	})
	h.Register()

	// Catch-all text handler: reply keyboard buttons and custom-amount input.
	// Commands are skipped here so the registered command handlers match.
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		if len(update.Message.Text) > 0 && update.Message.Text[0] == '/' {
			return
		}
		h.HandleText(ctx, b, update)
	})

	// Evict idle sessions periodically
	go func() {
		ticker := time.NewTicker(config.SessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.SweepExpired(time.Now()); n > 0 {
					slog.Info("expired sessions evicted", "count", n)
				}
			}
		}
	}()

	// Telegram delivery mode: webhook behind BASE_URL, long polling otherwise.
	var tgWebhook http.Handler
	if cfg.BaseURL != "" {
		webhookURL := fmt.Sprintf("%s/bot%s", cfg.BaseURL, cfg.BotToken)
		if _, err := b.SetWebhook(ctx, &bot.SetWebhookParams{URL: webhookURL}); err != nil {
			slog.Error("failed to set webhook", "error", err)
			os.Exit(1)
		}
		tgWebhook = b.WebhookHandler()
		slog.Info("webhook registered", "url", webhookURL)
	}

	srv := server.New(cfg.Port, cfg.BotToken, donations, tgWebhook)
	go func() {
		if err := srv.Start(ctx); err != nil {
			slog.Error("http server stopped", "error", err)
			stop()
		}
	}()

	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	if cfg.BaseURL != "" {
		b.StartWebhook(ctx)
	} else {
		b.Start(ctx)
	}

	slog.Info("bot stopped gracefully")
}
