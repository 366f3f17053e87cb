package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Record is one player's ledger entry. Wallet funds are liquid and at risk
// when staking; bank funds are insulated. Amounts are cents.
type Record struct {
	Wallet     int64 `json:"wallet"`
	Bank       int64 `json:"bank"`
	GameActive bool  `json:"game_active"`
	LastEarn   int64 `json:"last_earn_ts"`
	LastRob    int64 `json:"last_rob_ts"`
	Wins       int   `json:"wins"`
	Losses     int   `json:"losses"`
}

// DefaultRecord is the record created on a player's first reference.
func DefaultRecord() Record {
	return Record{Wallet: StartingWallet}
}

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrGameActive        = errors.New("game session already active")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// CooldownError reports how long until a rate-limited action is available
// again.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("on cooldown for %s", e.Remaining.Round(time.Second))
}

// CooldownRemaining returns the time left on a cooldown whose watermark is a
// unix-seconds timestamp, or zero if it has elapsed.
func CooldownRemaining(lastUnix int64, period time.Duration, now time.Time) time.Duration {
	if lastUnix <= 0 {
		return 0
	}
	elapsed := now.Sub(time.Unix(lastUnix, 0))
	if elapsed >= period {
		return 0
	}
	return period - elapsed
}

// Store is the ledger contract. Every balance change in the bot goes through
// Mutate or MutateTwo so that read-modify-write cycles never interleave on
// the shared dataset. A mutation function returning an error aborts the write
// and surfaces that error unchanged.
type Store interface {
	// Read returns the player's record, creating and persisting the default
	// if absent.
	Read(ctx context.Context, userID int64) (Record, error)

	// Mutate applies fn to the player's record under exclusive access and
	// persists the result before returning it.
	Mutate(ctx context.Context, userID int64, fn func(*Record) error) (Record, error)

	// MutateTwo applies fn to two distinct players' records under the same
	// exclusion, for transfers.
	MutateTwo(ctx context.Context, a, b int64, fn func(a, b *Record) error) (Record, Record, error)

	// All returns a snapshot of every record, keyed by player ID.
	All(ctx context.Context) (map[int64]Record, error)

	// ClearActiveFlags force-clears GameActive everywhere and reports how
	// many records changed. Balances are untouched.
	ClearActiveFlags(ctx context.Context) (int, error)

	Close() error
}

// OpenStore selects the ledger backend: Postgres when DATABASE_URL is set,
// otherwise the flat-file store.
func OpenStore(ctx context.Context, cfg Config) (Store, error) {
	if cfg.DatabaseURL != "" {
		return OpenPGStore(ctx, cfg.DatabaseURL)
	}
	return OpenFileStore(cfg.DataFile)
}
