package kv

import (
	"context"
	"fmt"
)

type Options struct {
	Backend     Backend
	Path        string
	RedisURL    string
	RedisPrefix string
}

// Open returns the store selected by opts.Backend. The caller owns Close.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		s, err := NewFileStore(opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLite(ctx, opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		s, err := OpenRedis(ctx, opts.RedisURL, opts.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, &StoreError{
			Message: fmt.Sprintf("backend %q", opts.Backend),
			Cause:   ErrCauseUnknownBackend,
			Backend: opts.Backend,
		}
	}
}
