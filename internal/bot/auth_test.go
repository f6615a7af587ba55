package bot

import (
	"path/filepath"
	"testing"

	"vouchbot/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanVouch(t *testing.T) {

	t.Run("requires the configured role", func(t *testing.T) {
		assert.True(t, canVouch([]string{"role-1", "vouch-role"}, "vouch-role"))
		assert.False(t, canVouch([]string{"role-1", "role-2"}, "vouch-role"))
		assert.False(t, canVouch(nil, "vouch-role"))
	})

	t.Run("empty configured role disables the gate", func(t *testing.T) {
		assert.True(t, canVouch(nil, ""))
		assert.True(t, canVouch([]string{"anything"}, ""))
	})
}

func TestUnauthorizedVouchLeavesLedgerUnchanged(t *testing.T) {

	store, err := ledger.Load(filepath.Join(t.TempDir(), "vouches.json"))
	require.NoError(t, err)
	store.Append("guild-1", "owner-1", ledger.Record{By: "alice#0001", Rating: "5"})
	before := store.Snapshot()

	// The gate is checked before any collection or mutation starts;
	// a denied invoker never reaches the append path
	if canVouch([]string{"some-other-role"}, "vouch-role") {
		store.Append("guild-1", "owner-1", ledger.Record{By: "mallory#0666"})
	}

	assert.Equal(t, before, store.Snapshot())
}
