package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {

	clear := func(t *testing.T) {
		for _, key := range []string{
			"BOT_TOKEN", "COMMAND_PREFIX", "VOUCH_ROLE_ID", "MEMBER_ROLE_ID",
			"BOT_OWNER_ID", "PROTECTED_ROLE_ID", "TIMEOUT_DURATION",
			"COLLECT_TIMEOUT", "LEDGER_FILE",
		} {
			t.Setenv(key, "")
		}
	}

	t.Run("missing token is fatal", func(t *testing.T) {
		clear(t)
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BOT_TOKEN")
	})

	t.Run("defaults", func(t *testing.T) {
		clear(t)
		t.Setenv("BOT_TOKEN", "token-123")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "token-123", cfg.Token)
		assert.Equal(t, "$", cfg.Prefix)
		assert.Equal(t, "vouches.json", cfg.LedgerFile)
		assert.Equal(t, 7*24*time.Hour, cfg.TimeoutDuration)
		assert.Equal(t, 120*time.Second, cfg.CollectTimeout)
		assert.Empty(t, cfg.OwnerId)
	})

	t.Run("explicit values", func(t *testing.T) {
		clear(t)
		t.Setenv("BOT_TOKEN", "token-123")
		t.Setenv("COMMAND_PREFIX", "!")
		t.Setenv("BOT_OWNER_ID", "owner-1")
		t.Setenv("VOUCH_ROLE_ID", "role-1")
		t.Setenv("TIMEOUT_DURATION", "60")
		t.Setenv("COLLECT_TIMEOUT", "300")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "!", cfg.Prefix)
		assert.Equal(t, "owner-1", cfg.OwnerId)
		assert.Equal(t, "role-1", cfg.VouchRoleId)
		assert.Equal(t, time.Minute, cfg.TimeoutDuration)
		assert.Equal(t, 5*time.Minute, cfg.CollectTimeout)
	})

	t.Run("prefix has to be one character", func(t *testing.T) {
		clear(t)
		t.Setenv("BOT_TOKEN", "token-123")
		t.Setenv("COMMAND_PREFIX", "$$")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("durations have to be positive numbers", func(t *testing.T) {
		clear(t)
		t.Setenv("BOT_TOKEN", "token-123")
		t.Setenv("TIMEOUT_DURATION", "soon")

		_, err := Load()
		assert.Error(t, err)
	})
}
