package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestMustLoadPathDefaults(t *testing.T) {
	path := writeConfig(t, `
env: dev
auth:
  jwt_secret: secret
`)

	cfg := MustLoadPath(path)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5*time.Second, cfg.Database.TxTimeout)
	assert.Equal(t, "localhost:8080", cfg.HTTPServer.Address)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Pricing.GroupThreshold)
	assert.InDelta(t, 0.9, cfg.Pricing.GroupFactor, 1e-9)
	assert.Empty(t, cfg.Pricing.AdvanceTiers)
	assert.False(t, cfg.Messaging.Enabled)
	assert.Equal(t, "bookings_outbox", cfg.Messaging.OutboxTopic)
}

func TestMustLoadPathOverrides(t *testing.T) {
	path := writeConfig(t, `
env: prod
database:
  driver: memory
auth:
  jwt_secret: secret
  token_ttl: 30m
pricing:
  group_threshold: 5
  group_factor: 0.8
  advance_tiers:
    - days_before: 30
      factor: 0.85
booking:
  payment_deadline: 15m
`)

	cfg := MustLoadPath(path)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 5, cfg.Pricing.GroupThreshold)
	require.Len(t, cfg.Pricing.AdvanceTiers, 1)
	assert.Equal(t, 30, cfg.Pricing.AdvanceTiers[0].DaysBefore)
	assert.Equal(t, 15*time.Minute, cfg.Booking.PaymentDeadline)
}

func TestMustLoadPathMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadPath(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}
