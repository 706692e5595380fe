package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sahabat-berbagi/donasibot/internal/session"
)

// SessionTouch returns middleware that refreshes the sender's last-activity
// timestamp on every inbound update, keeping active conversations out of the
// idle sweep.
func SessionTouch(store *session.Store) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var userID int64
			if update.Message != nil && update.Message.From != nil {
				userID = update.Message.From.ID
			} else if update.CallbackQuery != nil {
				userID = update.CallbackQuery.From.ID
			}

			if userID != 0 {
				store.Touch(userID)
			}

			next(ctx, b, update)
		}
	}
}
