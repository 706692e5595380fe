// Package server exposes the bot's HTTP surface: a health endpoint, the
// Pakasir payment webhook, and (in webhook mode) the Telegram update
// endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahabat-berbagi/donasibot/internal/service"
)

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	donations  *service.DonationService
}

// New builds the router. tgWebhook is the Telegram update handler to mount at
// /bot<token>; pass nil when running in polling mode.
func New(port int, botToken string, donations *service.DonationService, tgWebhook http.Handler) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:    engine,
		donations: donations,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	engine.GET("/", s.handleHealth)
	engine.POST("/webhook/pakasir", s.handlePakasirWebhook)
	if tgWebhook != nil {
		engine.POST("/bot"+botToken, gin.WrapH(tgWebhook))
	}

	return s
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "Bot is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type pakasirWebhookPayload struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// handlePakasirWebhook accepts gateway push notifications. Every parseable
// delivery is answered 200, including unknown orders and non-completed
// statuses, so the gateway does not retry forever.
func (s *Server) handlePakasirWebhook(c *gin.Context) {
	var payload pakasirWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := s.donations.HandleWebhook(c.Request.Context(), payload.OrderID, payload.Status); err != nil {
		slog.Error("webhook processing failed", "error", err, "order_id", payload.OrderID, "status", payload.Status)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("http server listening", "addr", s.httpServer.Addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
