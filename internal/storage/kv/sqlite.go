package kv

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"

	"github.com/rohmanhakim/wikicurious/pkg/fileutil"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the kv table.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &StoreError{Message: "path is required", Cause: ErrCauseOpenFailure, Backend: BackendSQLite}
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := fileutil.EnsureDir(dir); err != nil {
			return nil, &StoreError{Message: err.Error(), Cause: ErrCauseOpenFailure, Backend: BackendSQLite}
		}
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StoreError{Message: err.Error(), Cause: ErrCauseOpenFailure, Backend: BackendSQLite}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &StoreError{Message: err.Error(), Retryable: true, Cause: ErrCauseOpenFailure, Backend: BackendSQLite}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, &StoreError{Message: err.Error(), Cause: ErrCauseOpenFailure, Backend: BackendSQLite}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, ctxErr
		}
		return "", false, &StoreError{Message: err.Error(), Retryable: true, Cause: ErrCauseReadFailure, Backend: BackendSQLite}
	}
	return value, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &StoreError{Message: err.Error(), Retryable: true, Cause: ErrCauseWriteFailure, Backend: BackendSQLite}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
