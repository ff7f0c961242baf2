// Package store implements the durable record collections backing the
// marketplace: one JSON file per table, guarded by an exclusive in-process
// lock per table name. The lock is the only concurrency primitive offered to
// higher layers; it never spans more than one table.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

const DefaultLockTimeout = 5 * time.Second

type Store struct {
	dir         string
	lockTimeout time.Duration

	mu    sync.Mutex
	locks map[string]*semaphore.Weighted
}

func New(dir string, lockTimeout time.Duration) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is empty")
	}

	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Table: "", Op: "mkdir", Err: err}
	}

	return &Store{
		dir:         dir,
		lockTimeout: lockTimeout,
		locks:       make(map[string]*semaphore.Weighted),
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// acquire takes the exclusive lock of one table, waiting at most the
// configured timeout. Callers on disjoint tables never contend.
func (s *Store) acquire(ctx context.Context, table string) (release func(), _ error) {
	s.mu.Lock()
	sem, ok := s.locks[table]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.locks[table] = sem
	}
	s.mu.Unlock()

	acquireCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	if err := sem.Acquire(acquireCtx, 1); err != nil {
		return nil, fmt.Errorf("table %s: %w: %w", table, ErrBusy, err)
	}

	return func() { sem.Release(1) }, nil
}

func (s *Store) path(table string) string {
	return filepath.Join(s.dir, table+".json")
}

// readFile loads the raw table content, creating an empty table file when it
// does not exist yet.
func (s *Store) readFile(table string) ([]byte, error) {
	path := s.path(table)

	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}

	if !os.IsNotExist(err) {
		return nil, &StorageError{Table: table, Op: "read", Err: err}
	}

	if err := s.writeFile(table, []byte("[]")); err != nil {
		return nil, fmt.Errorf("s.writeFile: %w", err)
	}

	return []byte("[]"), nil
}

// writeFile commits content atomically: temp file in the same directory,
// fsync, then rename over the table file. A failure before the rename leaves
// the previous content untouched.
func (s *Store) writeFile(table string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, table+"-*.tmp")
	if err != nil {
		return &StorageError{Table: table, Op: "create temp", Err: err}
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &StorageError{Table: table, Op: "write", Err: err}
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &StorageError{Table: table, Op: "sync", Err: err}
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Table: table, Op: "close", Err: err}
	}

	if err := os.Rename(tmpName, s.path(table)); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Table: table, Op: "rename", Err: err}
	}

	return nil
}

// Reset replaces the table content with an empty collection. Intended for
// recovering from a ParseError.
func (s *Store) Reset(ctx context.Context, table string) error {
	release, err := s.acquire(ctx, table)
	if err != nil {
		return fmt.Errorf("s.acquire: %w", err)
	}
	defer release()

	if err := s.writeFile(table, []byte("[]")); err != nil {
		return fmt.Errorf("s.writeFile: %w", err)
	}

	return nil
}

func decodeRecords[T any](table string, data []byte) ([]T, error) {
	var records []T

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &ParseError{Table: table, Err: err}
	}

	return records, nil
}

func encodeRecords[T any](table string, records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, &StorageError{Table: table, Op: "marshal", Err: err}
	}

	return data, nil
}

// ReadAll returns all records of a table in stored order. It holds the table
// lock only for the duration of the file read.
func ReadAll[T any](ctx context.Context, s *Store, table string) ([]T, error) {
	release, err := s.acquire(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("s.acquire: %w", err)
	}
	defer release()

	data, err := s.readFile(table)
	if err != nil {
		return nil, fmt.Errorf("s.readFile: %w", err)
	}

	return decodeRecords[T](table, data)
}

// ReplaceAll swaps the whole table content under its lock.
func ReplaceAll[T any](ctx context.Context, s *Store, table string, records []T) error {
	release, err := s.acquire(ctx, table)
	if err != nil {
		return fmt.Errorf("s.acquire: %w", err)
	}
	defer release()

	data, err := encodeRecords(table, records)
	if err != nil {
		return fmt.Errorf("encodeRecords: %w", err)
	}

	if err := s.writeFile(table, data); err != nil {
		return fmt.Errorf("s.writeFile: %w", err)
	}

	return nil
}

// WithLock runs a read-modify-write cycle on one table under its exclusive
// lock: fn receives a consistent read and returns the replacement records plus
// a result. If fn fails, nothing reaches durable storage.
func WithLock[T, R any](ctx context.Context, s *Store, table string, fn func(records []T) ([]T, R, error)) (R, error) {
	var zero R

	release, err := s.acquire(ctx, table)
	if err != nil {
		return zero, fmt.Errorf("s.acquire: %w", err)
	}
	defer release()

	data, err := s.readFile(table)
	if err != nil {
		return zero, fmt.Errorf("s.readFile: %w", err)
	}

	records, err := decodeRecords[T](table, data)
	if err != nil {
		return zero, err
	}

	updated, result, err := fn(records)
	if err != nil {
		return zero, err
	}

	encoded, err := encodeRecords(table, updated)
	if err != nil {
		return zero, fmt.Errorf("encodeRecords: %w", err)
	}

	if err := s.writeFile(table, encoded); err != nil {
		return zero, fmt.Errorf("s.writeFile: %w", err)
	}

	return result, nil
}
