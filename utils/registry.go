package utils

import (
	"sync"
	"time"
)

// ActiveGame is the minimal shape the registry needs from a game session.
type ActiveGame interface {
	GetUserID() int64
	GetCreatedAt() time.Time
}

// SessionRegistry tracks which players currently have a live (or reserved)
// game session, so concurrent double-submission cannot create two. One entry
// per player, guarded by a single mutex.
type SessionRegistry struct {
	mu     sync.Mutex
	byUser map[int64]ActiveGame
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{byUser: make(map[int64]ActiveGame)}
}

// Register adds a player's session, rejecting a second concurrent entry.
func (r *SessionRegistry) Register(game ActiveGame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUser[game.GetUserID()]; exists {
		return ErrGameActive
	}
	r.byUser[game.GetUserID()] = game
	return nil
}

// ReplaceIf swaps a player's entry (reservation -> live session) only while
// the current entry is still old, so two concurrent swaps cannot both
// consume the same reservation. Reports whether the swap happened.
func (r *SessionRegistry) ReplaceIf(userID int64, old, game ActiveGame) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byUser[userID]
	if !ok || cur != old {
		return false
	}
	r.byUser[userID] = game
	return true
}

func (r *SessionRegistry) Get(userID int64) (ActiveGame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	game, ok := r.byUser[userID]
	return game, ok
}

func (r *SessionRegistry) Remove(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
}

// Clear drops every entry and reports how many there were.
func (r *SessionRegistry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.byUser)
	r.byUser = make(map[int64]ActiveGame)
	return n
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}
