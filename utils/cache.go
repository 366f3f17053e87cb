package utils

import (
	"context"
	"sort"
	"sync"
	"time"
)

// LeaderboardEntry is one row of the net-worth leaderboard.
type LeaderboardEntry struct {
	UserID int64
	Total  int64 // wallet + bank
	Wins   int
	Losses int
}

// LeaderboardCache memoizes the sorted leaderboard so a spammed command does
// not rescan the ledger on every call.
type LeaderboardCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	builtAt time.Time
	entries []LeaderboardEntry
}

func NewLeaderboardCache(ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{ttl: ttl}
}

// Top returns up to limit entries sorted by total balance, rebuilding from
// the store when the cached copy is stale.
func (c *LeaderboardCache) Top(ctx context.Context, store Store, limit int) ([]LeaderboardEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries == nil || time.Since(c.builtAt) > c.ttl {
		data, err := store.All(ctx)
		if err != nil {
			return nil, err
		}

		entries := make([]LeaderboardEntry, 0, len(data))
		for id, rec := range data {
			entries = append(entries, LeaderboardEntry{
				UserID: id,
				Total:  rec.Wallet + rec.Bank,
				Wins:   rec.Wins,
				Losses: rec.Losses,
			})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Total != entries[j].Total {
				return entries[i].Total > entries[j].Total
			}
			return entries[i].UserID < entries[j].UserID
		})

		c.entries = entries
		c.builtAt = time.Now()
	}

	if limit > len(c.entries) {
		limit = len(c.entries)
	}
	out := make([]LeaderboardEntry, limit)
	copy(out, c.entries[:limit])
	return out, nil
}

// Invalidate drops the cached copy, forcing the next Top to rebuild.
func (c *LeaderboardCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}
