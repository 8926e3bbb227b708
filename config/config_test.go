package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example ,https://b.example,, ")
	t.Setenv("APP_URL", "https://pact.example/")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5200", cfg.Port)
	assert.Equal(t, uint(9), cfg.CheckinHour)
	assert.Equal(t, "data/habit-pact.db", cfg.SQLitePath)
	assert.Equal(t, "https://a.example,https://b.example", cfg.Origins())
	assert.Equal(t, "https://pact.example", cfg.BaseURL())
	assert.False(t, cfg.Email.Enabled())
	assert.False(t, cfg.R2.Enabled())
}

func TestParseNestedSections(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/pact")
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("EMAIL_PORT", "2525")
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acc")
	t.Setenv("R2_BUCKET_NAME", "dashboards")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.Email.Enabled())
	assert.Equal(t, 2525, cfg.Email.Port)
	assert.True(t, cfg.R2.Enabled())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{Env: "development", StorageBackend: "sqlite", SQLitePath: "x.db", CheckinHour: 9}
	}

	c := base()
	assert.NoError(t, c.Validate())

	c = base()
	c.StorageBackend = "postgres"
	assert.ErrorContains(t, c.Validate(), "DATABASE_URL")

	c = base()
	c.StorageBackend = "mongo"
	assert.Error(t, c.Validate())

	c = base()
	c.CheckinHour = 24
	assert.ErrorContains(t, c.Validate(), "CHECKIN_HOUR")

	c = base()
	c.Env = "qa"
	assert.ErrorContains(t, c.Validate(), "APP_ENV")
}
