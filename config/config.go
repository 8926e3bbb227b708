// config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env            string `env:"APP_ENV" envDefault:"development"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	Port           string `env:"PORT" envDefault:"5200"`
	AppURL         string `env:"APP_URL" envDefault:"http://localhost:5200"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	AdminToken     string `env:"ADMIN_TOKEN"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"data/habit-pact.db"`

	// CheckinHour is the UTC hour the daily reminder run fires at.
	CheckinHour uint `env:"CHECKIN_HOUR" envDefault:"9"`

	Email EmailConfig
	R2    R2Config
}

type EmailConfig struct {
	Host     string `env:"EMAIL_HOST"`
	Port     int    `env:"EMAIL_PORT" envDefault:"587"`
	User     string `env:"EMAIL_USER"`
	Password string `env:"EMAIL_PASSWORD"`
	From     string `env:"EMAIL_FROM" envDefault:"habit-pact <noreply@localhost>"`
}

// Enabled reports whether SMTP delivery is configured; otherwise mail is only logged.
func (e EmailConfig) Enabled() bool { return e.Host != "" }

type R2Config struct {
	AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"R2_ACCESS_KEY_SECRET"`
	Bucket          string `env:"R2_BUCKET_NAME"`
	CDNBaseURL      string `env:"CDN_BASE_URL"`
}

// Enabled reports whether dashboard snapshots should be published.
func (r R2Config) Enabled() bool { return r.AccountID != "" && r.Bucket != "" }

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()
	return Parse()
}

func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be postgres or sqlite, got %q", c.StorageBackend)
	}
	if c.CheckinHour > 23 {
		return fmt.Errorf("CHECKIN_HOUR must be between 0 and 23, got %d", c.CheckinHour)
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Origins returns ALLOWED_ORIGINS trimmed and re-joined the way fiber's cors expects.
func (c *Config) Origins() string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

// BaseURL is APP_URL without a trailing slash, for building links.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.AppURL, "/")
}
