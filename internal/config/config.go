package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Pakasir payment gateway
	PakasirProject string `env:"PAKASIR_PROJECT,required"`
	PakasirAPIKey  string `env:"PAKASIR_API_KEY,required"`
	PakasirBaseURL string `env:"PAKASIR_BASE_URL" envDefault:"https://app.pakasir.com"`

	// Operator notified of completed donations.
	OwnerID int64 `env:"OWNER_ID" envDefault:"1303861906"`

	// Server
	Port int `env:"PORT" envDefault:"3000"`

	// Public base URL. When set the bot registers <BASE_URL>/bot<token> as a
	// Telegram webhook; when empty it falls back to long polling.
	BaseURL string `env:"BASE_URL"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsOperator(telegramID int64) bool {
	return telegramID == c.OwnerID
}
