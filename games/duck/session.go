package duck

import (
	"context"
	"errors"
	"sync"
	"time"

	"dgb-go/utils"
)

var (
	ErrNoSession       = errors.New("no active game session")
	ErrModePending     = errors.New("mode not chosen yet")
	ErrUnknownMode     = errors.New("unknown mode")
	ErrAlreadyFinished = errors.New("game already finished")
	ErrTooEarly        = errors.New("cannot cash out before the first advance")
)

// Status is the session lifecycle. Once a terminal status is set no
// transition leaves it.
type Status int

const (
	StatusInProgress Status = iota
	StatusFinished
	StatusCrashed
	StatusCashedOut
)

func (s Status) Terminal() bool { return s != StatusInProgress }

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in progress"
	case StatusFinished:
		return "finished"
	case StatusCrashed:
		return "crashed"
	case StatusCashedOut:
		return "cashed out"
	}
	return "unknown"
}

// HazardHidden is the sentinel lane index passed to renderers on every frame
// where the hazard must stay concealed.
const HazardHidden = -1

// StepResult describes one transition as seen by the presentation layer.
// HazardLane carries a real lane index only on the crash frame; Wallet and
// Bank are populated only on terminal frames, after the ledger mutation.
type StepResult struct {
	Status     Status
	Position   int
	LaneCount  int
	Stake      int64
	Multiplier int64 // hundredths
	Winnings   int64 // stake x multiplier at this frame, cents
	Payout     int64 // amount credited by a terminal transition
	HazardLane int
	Wallet     int64
	Bank       int64
	Remaining  []int64 // multipliers still ahead
}

// Session is one player's in-progress game. The stake was deducted from the
// wallet when the session was created; money moves again exactly once, on the
// terminal transition. All transitions hold the session mutex, and the ledger
// write settles before any state flips so a failed write can be retried.
type Session struct {
	userID    int64
	stake     int64
	mode      Mode
	hazard    int
	createdAt time.Time

	mu         sync.Mutex
	position   int // -1 = not yet on a lane, mode.Lanes = finished
	multiplier int64
	status     Status
	settled    bool
}

// NewSession builds a session at position -1, multiplier x1.00. hazardLane is
// clamped into the playable range; drawing it is the caller's job so the
// generator stays swappable.
func NewSession(userID, stake int64, mode Mode, hazardLane int) *Session {
	if hazardLane < 0 {
		hazardLane = 0
	}
	if hazardLane >= mode.Lanes {
		hazardLane = mode.Lanes - 1
	}
	return &Session{
		userID:     userID,
		stake:      stake,
		mode:       mode,
		hazard:     hazardLane,
		createdAt:  time.Now(),
		position:   -1,
		multiplier: 100,
		status:     StatusInProgress,
	}
}

func (s *Session) GetUserID() int64        { return s.userID }
func (s *Session) GetCreatedAt() time.Time { return s.createdAt }
func (s *Session) Stake() int64            { return s.stake }
func (s *Session) Mode() Mode              { return s.mode }

func (s *Session) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Advance moves the duck one lane forward. Landing on the hazard crashes the
// session (stake already lost); moving past the last lane finishes it and
// pays stake x final multiplier; anything else is a safe step with no ledger
// mutation.
func (s *Session) Advance(ctx context.Context, store utils.Store) (*StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return nil, ErrAlreadyFinished
	}

	next := s.position + 1
	switch {
	case next == s.hazard:
		rec, err := s.settle(ctx, store, 0, false)
		if err != nil {
			return nil, err
		}
		s.position = next
		s.multiplier = s.mode.Multipliers[next]
		s.status = StatusCrashed
		res := s.frame(rec)
		res.Winnings = 0
		res.HazardLane = s.hazard
		return res, nil

	case next >= s.mode.Lanes:
		mult := s.mode.FinalMultiplier()
		payout := utils.ApplyMultiplier(s.stake, mult)
		rec, err := s.settle(ctx, store, payout, true)
		if err != nil {
			return nil, err
		}
		s.position = next
		s.multiplier = mult
		s.status = StatusFinished
		res := s.frame(rec)
		res.Payout = payout
		return res, nil

	default:
		s.position = next
		s.multiplier = s.mode.Multipliers[next]
		return s.frame(nil), nil
	}
}

// CashOut ends the session voluntarily, paying stake x current multiplier.
// At least one safe advance is required.
func (s *Session) CashOut(ctx context.Context, store utils.Store) (*StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return nil, ErrAlreadyFinished
	}
	if s.position < 0 {
		return nil, ErrTooEarly
	}

	payout := utils.ApplyMultiplier(s.stake, s.multiplier)
	rec, err := s.settle(ctx, store, payout, true)
	if err != nil {
		return nil, err
	}
	s.status = StatusCashedOut
	res := s.frame(rec)
	res.Payout = payout
	return res, nil
}

// settle applies the terminal ledger mutation exactly once: credit the
// payout, clear the game flag, bump the win/loss counter. Callers hold the
// session mutex; on error nothing has changed, so the same transition can be
// retried.
func (s *Session) settle(ctx context.Context, store utils.Store, payout int64, win bool) (*utils.Record, error) {
	if s.settled {
		return nil, ErrAlreadyFinished
	}
	rec, err := store.Mutate(ctx, s.userID, func(r *utils.Record) error {
		r.Wallet += payout
		r.GameActive = false
		if win {
			r.Wins++
		} else {
			r.Losses++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.settled = true
	return &rec, nil
}

// frame snapshots the session for the presentation layer. Callers hold the
// session mutex.
func (s *Session) frame(rec *utils.Record) *StepResult {
	res := &StepResult{
		Status:     s.status,
		Position:   s.position,
		LaneCount:  s.mode.Lanes,
		Stake:      s.stake,
		Multiplier: s.multiplier,
		Winnings:   utils.ApplyMultiplier(s.stake, s.multiplier),
		HazardLane: HazardHidden,
	}
	if next := s.position + 1; next >= 0 && next < len(s.mode.Multipliers) {
		res.Remaining = append(res.Remaining, s.mode.Multipliers[next:]...)
	}
	if rec != nil {
		res.Wallet = rec.Wallet
		res.Bank = rec.Bank
	}
	return res
}
