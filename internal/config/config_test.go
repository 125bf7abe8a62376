package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, DefaultTokenTTL, cfg.Tokens.TTL)
	require.Equal(t, 6, cfg.Tokens.CodeLength)
	require.Equal(t, 10, cfg.Tokens.MaxAttempts)
	require.Equal(t, int64(1000), cfg.Rewards.WeightThresholdGrams)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TOKEN_TTL", "20m")
	t.Setenv("TOKEN_CODE_LENGTH", "8")
	t.Setenv("TELEGRAM_OPS_CHAT_ID", "-100123")
	t.Setenv("SUBE_AVU_POINTS", "not-a-number")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "reciclaje")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 20*time.Minute, cfg.Tokens.TTL)
	require.Equal(t, 8, cfg.Tokens.CodeLength)
	require.Equal(t, int64(-100123), cfg.Telegram.OpsChatID)
	require.Equal(t, int64(20), cfg.Rewards.SubeAVUPoints)
	require.Equal(t, "postgres://verdescan:verdescan@db:5432/reciclaje?sslmode=disable", cfg.Database.DSN())
}
