// Package config reads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// Config holds every tunable of the server. All values come from the
// environment; defaults make a local run work with no setup beyond JWT_SECRET.
type Config struct {
	Addr   string `env:"ADDR" envDefault:":8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/splitapp.db"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	OTPTTL    time.Duration `env:"OTP_TTL" envDefault:"10m"`

	// NegligibleThreshold is the absolute amount below which a netted
	// balance is treated as settled and hidden.
	NegligibleThreshold string `env:"NEGLIGIBLE_THRESHOLD" envDefault:"1"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	// SelfPingURL, when set, is fetched periodically to keep a free-tier
	// host from idling the instance out.
	SelfPingURL      string        `env:"SELF_PING_URL"`
	SelfPingInterval time.Duration `env:"SELF_PING_INTERVAL" envDefault:"14m"`

	DispatchWorkers int `env:"DISPATCH_WORKERS" envDefault:"4"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Parse reads the configuration from the environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := decimal.NewFromString(cfg.NegligibleThreshold); err != nil {
		return nil, fmt.Errorf("invalid NEGLIGIBLE_THRESHOLD %q: %w", cfg.NegligibleThreshold, err)
	}
	return cfg, nil
}

// Threshold returns the parsed negligible-balance threshold.
func (c *Config) Threshold() decimal.Decimal {
	d, _ := decimal.NewFromString(c.NegligibleThreshold)
	return d
}

// SMTPConfigured reports whether outgoing mail can actually be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}
