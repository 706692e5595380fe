package service

import (
	"strconv"
	"strings"

	"github.com/sahabat-berbagi/donasibot/internal/config"
	"github.com/sahabat-berbagi/donasibot/internal/domain"
)

// ParseAmount validates a free-form donation amount. All non-digit characters
// are stripped before parsing, so inputs like "Rp15.000" or "15 000" are
// accepted. The result is always either a value in
// [MinDonationAmount, MaxDonationAmount] or a sentinel error.
func ParseAmount(raw string) (int64, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0, domain.ErrAmountInvalid
	}

	amount, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		// Only possible on overflow after the digit filter.
		return 0, domain.ErrAmountAboveMaximum
	}

	if amount < config.MinDonationAmount {
		return 0, domain.ErrAmountBelowMinimum
	}
	if amount > config.MaxDonationAmount {
		return 0, domain.ErrAmountAboveMaximum
	}
	return amount, nil
}
