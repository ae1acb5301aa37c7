package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Parse()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "data/splitapp.db", cfg.DBPath)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, 10*time.Minute, cfg.OTPTTL)
	require.Equal(t, 14*time.Minute, cfg.SelfPingInterval)
	require.Equal(t, 4, cfg.DispatchWorkers)
	require.True(t, cfg.Threshold().Equal(cfg.Threshold()))
	require.Equal(t, "1", cfg.Threshold().String())
	require.False(t, cfg.SMTPConfigured())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADDR", ":9999")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("NEGLIGIBLE_THRESHOLD", "0.5")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")

	cfg, err := Parse()
	require.NoError(t, err)

	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, "0.5", cfg.Threshold().String())
	require.True(t, cfg.SMTPConfigured())
}

func TestParseRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Parse()
	require.Error(t, err)
}

func TestParseRejectsBadThreshold(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("NEGLIGIBLE_THRESHOLD", "lots")

	_, err := Parse()
	require.Error(t, err)
}
