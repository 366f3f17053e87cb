package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// FileStore keeps the whole ledger in one JSON file keyed by player ID. A
// single bank-wide mutex serializes every read-modify-write cycle, and every
// persist goes through a temp-file-then-rename so a crash never leaves a
// partially written dataset behind.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// OpenFileStore creates the data directory and an empty dataset if needed.
func OpenFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	s := &FileStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.persist(map[int64]Record{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *FileStore) Read(ctx context.Context, userID int64) (Record, error) {
	return s.Mutate(ctx, userID, func(*Record) error { return nil })
}

func (s *FileStore) Mutate(ctx context.Context, userID int64, fn func(*Record) error) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	data := s.load()
	rec := ensureRecord(data, userID)
	if err := fn(&rec); err != nil {
		return Record{}, err
	}
	data[userID] = rec
	if err := s.persist(data); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *FileStore) MutateTwo(ctx context.Context, a, b int64, fn func(a, b *Record) error) (Record, Record, error) {
	if a == b {
		return Record{}, Record{}, fmt.Errorf("transfer requires two distinct players")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Record{}, Record{}, err
	}

	data := s.load()
	recA := ensureRecord(data, a)
	recB := ensureRecord(data, b)
	if err := fn(&recA, &recB); err != nil {
		return Record{}, Record{}, err
	}
	data[a] = recA
	data[b] = recB
	if err := s.persist(data); err != nil {
		return Record{}, Record{}, err
	}
	return recA, recB, nil
}

func (s *FileStore) All(ctx context.Context) (map[int64]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.load(), nil
}

func (s *FileStore) ClearActiveFlags(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	data := s.load()
	cleared := 0
	for id, rec := range data {
		if rec.GameActive {
			rec.GameActive = false
			data[id] = rec
			cleared++
		}
	}
	if cleared == 0 {
		return 0, nil
	}
	if err := s.persist(data); err != nil {
		return 0, err
	}
	return cleared, nil
}

func (s *FileStore) Close() error { return nil }

// load reads the dataset; an unreadable or corrupt file degrades to an empty
// dataset so default-record creation can repair it.
func (s *FileStore) load() map[int64]Record {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return map[int64]Record{}
	}

	var byKey map[string]Record
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return map[int64]Record{}
	}

	data := make(map[int64]Record, len(byKey))
	for key, rec := range byKey {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		data[id] = rec
	}
	return data
}

func (s *FileStore) persist(data map[int64]Record) error {
	byKey := make(map[string]Record, len(data))
	for id, rec := range data {
		byKey[strconv.FormatInt(id, 10)] = rec
	}

	raw, err := json.MarshalIndent(byKey, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}

func ensureRecord(data map[int64]Record, userID int64) Record {
	rec, ok := data[userID]
	if !ok {
		rec = DefaultRecord()
		data[userID] = rec
	}
	return rec
}
