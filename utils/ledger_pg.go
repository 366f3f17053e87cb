package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore serves the same Store contract from Postgres, one row per player.
// Exclusion is per-call: each mutation runs in a transaction that locks the
// touched rows FOR UPDATE, so concurrent read-modify-writes serialize on the
// database instead of an in-process lock.
type PGStore struct {
	pool *pgxpool.Pool
}

const ledgerSchema = `CREATE TABLE IF NOT EXISTS ledger (
	user_id BIGINT PRIMARY KEY,
	wallet BIGINT NOT NULL DEFAULT 0,
	bank BIGINT NOT NULL DEFAULT 0,
	game_active BOOLEAN NOT NULL DEFAULT FALSE,
	last_earn_ts BIGINT NOT NULL DEFAULT 0,
	last_rob_ts BIGINT NOT NULL DEFAULT 0,
	wins INTEGER NOT NULL DEFAULT 0,
	losses INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_ledger_wallet ON ledger(wallet DESC, user_id);`

// OpenPGStore connects a pool, verifies the connection and bootstraps the
// schema.
func OpenPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 10
	config.MaxConnLifetime = 45 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if _, err := pool.Exec(ctx, ledgerSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Read(ctx context.Context, userID int64) (Record, error) {
	return s.Mutate(ctx, userID, func(*Record) error { return nil })
}

func (s *PGStore) Mutate(ctx context.Context, userID int64, fn func(*Record) error) (Record, error) {
	var rec Record
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		rec, err = lockRecord(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := fn(&rec); err != nil {
			return err
		}
		return writeRecord(ctx, tx, userID, rec)
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *PGStore) MutateTwo(ctx context.Context, a, b int64, fn func(a, b *Record) error) (Record, Record, error) {
	if a == b {
		return Record{}, Record{}, fmt.Errorf("transfer requires two distinct players")
	}

	var recA, recB Record
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		// Lock in ascending ID order so two opposing transfers cannot
		// deadlock.
		first, second := a, b
		if second < first {
			first, second = second, first
		}
		recFirst, err := lockRecord(ctx, tx, first)
		if err != nil {
			return err
		}
		recSecond, err := lockRecord(ctx, tx, second)
		if err != nil {
			return err
		}
		if first == a {
			recA, recB = recFirst, recSecond
		} else {
			recA, recB = recSecond, recFirst
		}
		if err := fn(&recA, &recB); err != nil {
			return err
		}
		if err := writeRecord(ctx, tx, a, recA); err != nil {
			return err
		}
		return writeRecord(ctx, tx, b, recB)
	})
	if err != nil {
		return Record{}, Record{}, err
	}
	return recA, recB, nil
}

func (s *PGStore) All(ctx context.Context) (map[int64]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, wallet, bank, game_active, last_earn_ts, last_rob_ts, wins, losses FROM ledger`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	data := make(map[int64]Record)
	for rows.Next() {
		var id int64
		var rec Record
		if err := rows.Scan(&id, &rec.Wallet, &rec.Bank, &rec.GameActive,
			&rec.LastEarn, &rec.LastRob, &rec.Wins, &rec.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		data[id] = rec
	}
	return data, rows.Err()
}

func (s *PGStore) ClearActiveFlags(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE ledger SET game_active = FALSE WHERE game_active`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear game flags: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PGStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// lockRecord reads a row FOR UPDATE, inserting the default record first if
// the player has never been seen.
func lockRecord(ctx context.Context, tx pgx.Tx, userID int64) (Record, error) {
	def := DefaultRecord()
	if _, err := tx.Exec(ctx,
		`INSERT INTO ledger (user_id, wallet) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, def.Wallet); err != nil {
		return Record{}, fmt.Errorf("failed to ensure ledger row: %w", err)
	}

	var rec Record
	err := tx.QueryRow(ctx,
		`SELECT wallet, bank, game_active, last_earn_ts, last_rob_ts, wins, losses
		 FROM ledger WHERE user_id = $1 FOR UPDATE`, userID).
		Scan(&rec.Wallet, &rec.Bank, &rec.GameActive, &rec.LastEarn, &rec.LastRob, &rec.Wins, &rec.Losses)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read ledger row: %w", err)
	}
	return rec, nil
}

func writeRecord(ctx context.Context, tx pgx.Tx, userID int64, rec Record) error {
	_, err := tx.Exec(ctx,
		`UPDATE ledger SET wallet = $2, bank = $3, game_active = $4,
		 last_earn_ts = $5, last_rob_ts = $6, wins = $7, losses = $8
		 WHERE user_id = $1`,
		userID, rec.Wallet, rec.Bank, rec.GameActive, rec.LastEarn, rec.LastRob, rec.Wins, rec.Losses)
	if err != nil {
		return fmt.Errorf("failed to write ledger row: %w", err)
	}
	return nil
}
