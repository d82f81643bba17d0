// Package config loads server settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	ListenAddr string `env:"CASINO_LISTEN_ADDR" envDefault:":8080"`

	// BalanceURL points at the remote balance store. Empty disables
	// reconciliation and the server runs on local balances only.
	BalanceURL string `env:"CASINO_BALANCE_URL" envDefault:"http://localhost:8888"`

	// StartBalance seeds a session when the balance store is absent or
	// unreachable on first contact.
	StartBalance string `env:"CASINO_START_BALANCE" envDefault:"100"`

	DBPath string `env:"CASINO_DB_PATH" envDefault:"casino.db"`

	LogLevel string `env:"CASINO_LOG_LEVEL" envDefault:"info"`
	LogDir   string `env:"CASINO_LOG_DIR"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := decimal.NewFromString(cfg.StartBalance); err != nil {
		return nil, fmt.Errorf("config: CASINO_START_BALANCE %q is not a decimal: %w",
			cfg.StartBalance, err)
	}
	return &cfg, nil
}

// StartBalanceDecimal returns the parsed starting balance. Load has
// already validated it.
func (c *Config) StartBalanceDecimal() decimal.Decimal {
	return decimal.RequireFromString(c.StartBalance)
}
