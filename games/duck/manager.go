package duck

import (
	"context"
	"time"

	"dgb-go/utils"
)

// stakeReservation holds a player's slot between stake deduction and mode
// choice (the mode picker is a second interaction in the UI).
type stakeReservation struct {
	userID    int64
	stake     int64
	createdAt time.Time
}

func (r *stakeReservation) GetUserID() int64        { return r.userID }
func (r *stakeReservation) GetCreatedAt() time.Time { return r.createdAt }

// Manager owns the session registry and drives every session against the
// ledger. One instance per process.
type Manager struct {
	store    utils.Store
	registry *utils.SessionRegistry
	pickLane func(laneCount int) int
	onSettle func()
}

func NewManager(store utils.Store) *Manager {
	return &Manager{
		store:    store,
		registry: utils.NewSessionRegistry(),
		pickLane: utils.SecureLaneIndex,
	}
}

// PlaceStake reserves the player's session slot and deducts the stake in a
// single ledger mutation that re-checks funds and the active flag. Any
// failure rolls the reservation back, leaving the ledger untouched.
func (m *Manager) PlaceStake(ctx context.Context, userID, stake int64) (utils.Record, error) {
	if stake <= 0 {
		return utils.Record{}, utils.ErrInvalidAmount
	}

	if err := m.registry.Register(&stakeReservation{userID: userID, stake: stake, createdAt: time.Now()}); err != nil {
		return utils.Record{}, err
	}

	rec, err := m.store.Mutate(ctx, userID, func(r *utils.Record) error {
		if r.GameActive {
			return utils.ErrGameActive
		}
		if r.Wallet < stake {
			return utils.ErrInsufficientFunds
		}
		r.Wallet -= stake
		r.GameActive = true
		return nil
	})
	if err != nil {
		m.registry.Remove(userID)
		return utils.Record{}, err
	}
	return rec, nil
}

// StartSession consumes the player's reservation, draws the hazard lane once
// and installs the live session. The swap is conditional on the reservation
// still being current, so two concurrent mode picks start exactly one game.
func (m *Manager) StartSession(userID int64, mode Mode) (*Session, error) {
	entry, ok := m.registry.Get(userID)
	if !ok {
		return nil, ErrNoSession
	}
	res, ok := entry.(*stakeReservation)
	if !ok {
		return nil, utils.ErrGameActive
	}

	sess := NewSession(userID, res.stake, mode, m.pickLane(mode.Lanes))
	if !m.registry.ReplaceIf(userID, res, sess) {
		return nil, utils.ErrGameActive
	}
	return sess, nil
}

// Create is the one-shot path: stake and mode known up front.
func (m *Manager) Create(ctx context.Context, userID, stake int64, mode Mode) (*Session, error) {
	if _, err := m.PlaceStake(ctx, userID, stake); err != nil {
		return nil, err
	}
	return m.StartSession(userID, mode)
}

// Session returns the player's live session, distinguishing "nothing active"
// from "stake placed but mode not chosen".
func (m *Manager) Session(userID int64) (*Session, error) {
	entry, ok := m.registry.Get(userID)
	if !ok {
		return nil, ErrNoSession
	}
	sess, ok := entry.(*Session)
	if !ok {
		return nil, ErrModePending
	}
	return sess, nil
}

// OnSettle registers a callback fired after every terminal settlement, so
// downstream views of the ledger (the leaderboard cache) can refresh.
func (m *Manager) OnSettle(fn func()) { m.onSettle = fn }

func (m *Manager) Advance(ctx context.Context, userID int64) (*StepResult, error) {
	sess, err := m.Session(userID)
	if err != nil {
		return nil, err
	}
	res, err := sess.Advance(ctx, m.store)
	if err != nil {
		return nil, err
	}
	if res.Status.Terminal() {
		m.finish(userID)
	}
	return res, nil
}

func (m *Manager) CashOut(ctx context.Context, userID int64) (*StepResult, error) {
	sess, err := m.Session(userID)
	if err != nil {
		return nil, err
	}
	res, err := sess.CashOut(ctx, m.store)
	if err != nil {
		return nil, err
	}
	if res.Status.Terminal() {
		m.finish(userID)
	}
	return res, nil
}

func (m *Manager) finish(userID int64) {
	m.registry.Remove(userID)
	if m.onSettle != nil {
		m.onSettle()
	}
}

// Release force-clears a player's active flag with no balance change and
// drops any in-memory session. Escape hatch for stuck sessions; a dangling
// session object is intentionally not paid out.
func (m *Manager) Release(ctx context.Context, userID int64) (utils.Record, error) {
	rec, err := m.store.Mutate(ctx, userID, func(r *utils.Record) error {
		r.GameActive = false
		return nil
	})
	if err != nil {
		return utils.Record{}, err
	}
	m.registry.Remove(userID)
	return rec, nil
}

// ReleaseAll clears every active flag in the ledger and empties the registry.
func (m *Manager) ReleaseAll(ctx context.Context) (int, error) {
	n, err := m.store.ClearActiveFlags(ctx)
	if err != nil {
		return 0, err
	}
	m.registry.Clear()
	return n, nil
}

// ActiveSessions reports how many players currently hold a slot.
func (m *Manager) ActiveSessions() int { return m.registry.Len() }
