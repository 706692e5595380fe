package handler

import (
	"github.com/go-telegram/bot"

	"github.com/sahabat-berbagi/donasibot/internal/config"
	"github.com/sahabat-berbagi/donasibot/internal/repository"
	"github.com/sahabat-berbagi/donasibot/internal/service"
	"github.com/sahabat-berbagi/donasibot/internal/session"
	"github.com/sahabat-berbagi/donasibot/internal/telegram"
)

// Handler holds all dependencies needed by command, text, and callback
// handlers.
type Handler struct {
	bot       *bot.Bot
	cfg       *config.Config
	sessions  *session.Store
	orders    repository.OrderStore
	donations *service.DonationService
	sender    telegram.Sender
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot       *bot.Bot
	Cfg       *config.Config
	Sessions  *session.Store
	Orders    repository.OrderStore
	Donations *service.DonationService
	Sender    telegram.Sender
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:       deps.Bot,
		cfg:       deps.Cfg,
		sessions:  deps.Sessions,
		orders:    deps.Orders,
		donations: deps.Donations,
		sender:    deps.Sender,
	}
}

// Register registers all command and callback handlers on the bot instance.
// The catch-all text handler is registered separately in main so commands are
// matched first.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/simulate_payment", bot.MatchTypePrefix, h.handleSimulatePayment)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "check:", bot.MatchTypePrefix, h.handleCheckStatus)
}
