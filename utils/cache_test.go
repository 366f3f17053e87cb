package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func seedBalances(t *testing.T, store *FileStore, balances map[int64]int64) {
	t.Helper()
	for id, wallet := range balances {
		_, err := store.Mutate(context.Background(), id, func(r *Record) error {
			r.Wallet = wallet
			r.Bank = 0
			return nil
		})
		require.NoError(t, err)
	}
}

func TestLeaderboardSortsByTotal(t *testing.T) {
	store := newTestFileStore(t)
	seedBalances(t, store, map[int64]int64{1: 100, 2: 300, 3: 200})

	cache := NewLeaderboardCache(time.Minute)
	entries, err := cache.Top(context.Background(), store, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, int64(2), entries[0].UserID)
	require.Equal(t, int64(3), entries[1].UserID)
	require.Equal(t, int64(1), entries[2].UserID)
}

func TestLeaderboardCountsBankFunds(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()
	_, err := store.Mutate(ctx, 1, func(r *Record) error {
		r.Wallet = 100
		r.Bank = 900
		return nil
	})
	require.NoError(t, err)
	_, err = store.Mutate(ctx, 2, func(r *Record) error {
		r.Wallet = 500
		r.Bank = 0
		return nil
	})
	require.NoError(t, err)

	entries, err := NewLeaderboardCache(time.Minute).Top(ctx, store, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), entries[0].UserID)
	require.Equal(t, int64(1000), entries[0].Total)
}

func TestLeaderboardRespectsLimit(t *testing.T) {
	store := newTestFileStore(t)
	seedBalances(t, store, map[int64]int64{1: 1, 2: 2, 3: 3, 4: 4})

	entries, err := NewLeaderboardCache(time.Minute).Top(context.Background(), store, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, int64(4), entries[0].UserID)
}

func TestLeaderboardCachesUntilInvalidated(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()
	seedBalances(t, store, map[int64]int64{1: 100})

	cache := NewLeaderboardCache(time.Minute)
	entries, err := cache.Top(ctx, store, 10)
	require.NoError(t, err)
	require.Equal(t, int64(100), entries[0].Total)

	seedBalances(t, store, map[int64]int64{1: 900})

	// Within the TTL the stale copy is served.
	entries, err = cache.Top(ctx, store, 10)
	require.NoError(t, err)
	require.Equal(t, int64(100), entries[0].Total)

	cache.Invalidate()
	entries, err = cache.Top(ctx, store, 10)
	require.NoError(t, err)
	require.Equal(t, int64(900), entries[0].Total)
}
