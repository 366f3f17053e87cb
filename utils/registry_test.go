package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeGame struct {
	userID    int64
	createdAt time.Time
}

func (g *fakeGame) GetUserID() int64        { return g.userID }
func (g *fakeGame) GetCreatedAt() time.Time { return g.createdAt }

func TestRegistryRejectsSecondSession(t *testing.T) {
	reg := NewSessionRegistry()

	require.NoError(t, reg.Register(&fakeGame{userID: 1}))
	require.ErrorIs(t, reg.Register(&fakeGame{userID: 1}), ErrGameActive)
	require.NoError(t, reg.Register(&fakeGame{userID: 2}))
	require.Equal(t, 2, reg.Len())
}

func TestRegistryReplaceIf(t *testing.T) {
	reg := NewSessionRegistry()

	first := &fakeGame{userID: 1, createdAt: time.Now()}
	require.NoError(t, reg.Register(first))

	second := &fakeGame{userID: 1, createdAt: time.Now().Add(time.Second)}
	require.True(t, reg.ReplaceIf(1, first, second))

	got, ok := reg.Get(1)
	require.True(t, ok)
	require.Same(t, second, got)

	// A stale swap loses: the entry moved on from first already.
	third := &fakeGame{userID: 1}
	require.False(t, reg.ReplaceIf(1, first, third))
	got, _ = reg.Get(1)
	require.Same(t, second, got)

	// No entry at all means nothing to swap.
	require.False(t, reg.ReplaceIf(2, first, third))
	require.Equal(t, 1, reg.Len())
}

func TestRegistryRemoveAndClear(t *testing.T) {
	reg := NewSessionRegistry()

	require.NoError(t, reg.Register(&fakeGame{userID: 1}))
	require.NoError(t, reg.Register(&fakeGame{userID: 2}))

	reg.Remove(1)
	_, ok := reg.Get(1)
	require.False(t, ok)
	require.Equal(t, 1, reg.Len())

	require.Equal(t, 1, reg.Clear())
	require.Equal(t, 0, reg.Len())

	// Removing an absent player is a no-op.
	reg.Remove(99)
}
