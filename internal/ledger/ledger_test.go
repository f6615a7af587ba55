package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Load(filepath.Join(t.TempDir(), "vouches.json"))
	require.NoError(t, err)
	return store
}

func TestLoad(t *testing.T) {

	t.Run("missing file starts empty", func(t *testing.T) {
		store := tempStore(t)
		assert.Empty(t, store.AllRecords("guild-1"))
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "vouches.json")
		require.NoError(t, os.WriteFile(filename, []byte("{not json"), 0644))

		_, err := Load(filename)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corrupt")
	})

	t.Run("existing file round trips field names", func(t *testing.T) {
		// The on-disk shape produced by earlier runs has to keep
		// loading as-is
		filename := filepath.Join(t.TempDir(), "vouches.json")
		payload := `{"guild-42": {"owner-1": [{"by": "alice#0001", "rating": "5", "item": "a widget", "trusted": "yes", "avatar_url": "http://cdn/a.png"}]}}`
		require.NoError(t, os.WriteFile(filename, []byte(payload), 0644))

		store, err := Load(filename)
		require.NoError(t, err)
		records := store.Records("guild-42", "owner-1")
		require.Len(t, records, 1)
		assert.Equal(t, Record{
			By: "alice#0001", Rating: "5", Item: "a widget", Trusted: "yes", AvatarURL: "http://cdn/a.png",
		}, records[0])
	})
}

func TestAppendPersistRoundTrip(t *testing.T) {

	filename := filepath.Join(t.TempDir(), "vouches.json")
	store, err := Load(filename)
	require.NoError(t, err)

	store.Append("guild-42", "owner-1", Record{By: "alice#0001", Rating: "5", Item: "a widget", Trusted: "yes"})
	store.Append("guild-42", "owner-1", Record{By: "bob#0002", Rating: "4", Item: "a gadget", Trusted: "yes"})
	store.Append("guild-7", "subject-9", Record{By: "carol#0003", Rating: "nice", Item: "?", Trusted: "maybe"})
	require.NoError(t, store.Persist())

	reloaded, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, store.Snapshot(), reloaded.Snapshot())
}

func TestMissingScopeReadsAsEmpty(t *testing.T) {

	store := tempStore(t)
	assert.Empty(t, store.AllRecords("never-seen"))
	assert.Empty(t, store.Records("never-seen", "nobody"))

	store.Append("guild-1", "subject-1", Record{By: "x"})
	assert.Empty(t, store.Records("guild-1", "somebody-else"))
}

func TestInsertionOrderPreserved(t *testing.T) {

	store := tempStore(t)
	for _, rating := range []string{"1", "2", "3"} {
		store.Append("guild-1", "subject-1", Record{By: "alice", Rating: rating})
	}

	records := store.Records("guild-1", "subject-1")
	require.Len(t, records, 3)
	for i, rating := range []string{"1", "2", "3"} {
		assert.Equal(t, rating, records[i].Rating)
	}
}

func TestAllRecordsFlattensSubjects(t *testing.T) {

	store := tempStore(t)
	store.Append("guild-1", "b-subject", Record{By: "alice"})
	store.Append("guild-1", "a-subject", Record{By: "bob"})
	store.Append("guild-1", "a-subject", Record{By: "carol"})

	records := store.AllRecords("guild-1")
	require.Len(t, records, 3)
	// Subjects in stable order, insertion order inside each
	assert.Equal(t, "bob", records[0].By)
	assert.Equal(t, "carol", records[1].By)
	assert.Equal(t, "alice", records[2].By)
}

func TestConcreteScenario(t *testing.T) {

	// guild-42 / owner-1 / alice#0001 answering "5", "a widget", "yes"
	filename := filepath.Join(t.TempDir(), "vouches.json")
	store, err := Load(filename)
	require.NoError(t, err)

	store.Append("guild-42", "owner-1", Record{By: "alice#0001", Rating: "5", Item: "a widget", Trusted: "yes"})
	require.NoError(t, store.Persist())

	records := store.AllRecords("guild-42")
	require.Len(t, records, 1)
	assert.Equal(t, Record{By: "alice#0001", Rating: "5", Item: "a widget", Trusted: "yes"}, records[0])

	reloaded, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, records, reloaded.AllRecords("guild-42"))
}

func TestSnapshotIsIsolated(t *testing.T) {

	store := tempStore(t)
	store.Append("guild-1", "subject-1", Record{By: "alice"})

	snapshot := store.Snapshot()
	store.Append("guild-1", "subject-1", Record{By: "bob"})

	require.Len(t, snapshot["guild-1"]["subject-1"], 1)
	require.Len(t, store.Records("guild-1", "subject-1"), 2)
}

func TestPersistLeavesNoTempFiles(t *testing.T) {

	dir := t.TempDir()
	store, err := Load(filepath.Join(dir, "vouches.json"))
	require.NoError(t, err)
	store.Append("guild-1", "subject-1", Record{By: "alice"})
	require.NoError(t, store.Persist())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "vouches.json", entries[0].Name())
}
