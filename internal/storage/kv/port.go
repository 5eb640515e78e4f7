package kv

import "context"

// Store is a string key/value store that survives process restarts.
// Get reports ok=false for keys that were never written.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key string, value string) error
	Close() error
}

type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
)

func ParseBackend(s string) (Backend, bool) {
	switch Backend(s) {
	case BackendFile, BackendSQLite, BackendRedis:
		return Backend(s), true
	default:
		return "", false
	}
}
