package modlog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, dir string) *PebbleStore {
	t.Helper()
	store, err := OpenPebbleStore(dir)
	require.NoError(t, err)
	return store
}

func TestPebbleInsertFindDelete(t *testing.T) {
	store := openTestStore(t, t.TempDir())
	defer store.Close()

	rec := Record{
		GuildID:     "G",
		ID:          1,
		Kind:        KindModeration,
		UserID:      "U1",
		ModeratorID: "M1",
		Action:      ActionWarning,
		Reason:      "spam",
		Timestamp:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Insert(rec))

	got, found, err := store.Find("G", 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec, got)

	_, found, err = store.Find("G", 2)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Delete("G", 1))
	_, found, err = store.Find("G", 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPebbleNextIDConcurrent(t *testing.T) {
	store := openTestStore(t, t.TempDir())
	defer store.Close()

	const n = 32
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.NextID("G")
			if err == nil {
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d allocated twice", id)
		seen[id] = true
	}
	require.Len(t, seen, n)
	for id := int64(1); id <= n; id++ {
		assert.True(t, seen[id], "missing id %d", id)
	}
}

func TestPebbleNextIDSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store := openTestStore(t, dir)
	for i := 0; i < 5; i++ {
		_, err := store.NextID("G")
		require.NoError(t, err)
	}
	require.NoError(t, store.Close())

	store = openTestStore(t, dir)
	defer store.Close()

	id, err := store.NextID("G")
	require.NoError(t, err)
	assert.Equal(t, int64(6), id)
}

func TestPebbleNextIDSeedsFromStoredRecords(t *testing.T) {
	store := openTestStore(t, t.TempDir())
	defer store.Close()

	// Records written without the sequence key, as a pre-counter dataset
	// would look: allocation must resume after the stored maximum.
	for _, id := range []int64{1, 2, 7} {
		require.NoError(t, store.Insert(Record{GuildID: "G", ID: id, Kind: KindPurge, ModeratorID: "M", Action: "Purge"}))
	}

	id, err := store.NextID("G")
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
}

func TestPebbleListNewestFirstAndScopedToGuild(t *testing.T) {
	store := openTestStore(t, t.TempDir())
	defer store.Close()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 4; i++ {
		require.NoError(t, store.Insert(Record{
			GuildID:     "G",
			ID:          int64(i),
			Kind:        KindModeration,
			UserID:      fmt.Sprintf("U%d", i%2),
			ModeratorID: "M",
			Action:      ActionWarning,
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.Insert(Record{GuildID: "other", ID: 1, Kind: KindModeration, UserID: "U0", ModeratorID: "M", Action: ActionWarning}))

	all, err := store.List("G")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, int64(4), all[0].ID)
	assert.Equal(t, int64(1), all[3].ID)

	byUser, err := store.ListByUser("G", "U0")
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, int64(4), byUser[0].ID)
	assert.Equal(t, int64(2), byUser[1].ID)
}
