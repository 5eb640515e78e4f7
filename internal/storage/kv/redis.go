package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects using a redis:// URL. Every key is stored under prefix.
func OpenRedis(ctx context.Context, rawURL string, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, &StoreError{Message: err.Error(), Cause: ErrCauseOpenFailure, Backend: BackendRedis}
	}
	return NewRedisStore(ctx, redis.NewClient(opts), prefix)
}

func NewRedisStore(ctx context.Context, client *redis.Client, prefix string) (*RedisStore, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, &StoreError{Message: err.Error(), Retryable: true, Cause: ErrCauseOpenFailure, Backend: BackendRedis}
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, ctxErr
		}
		return "", false, &StoreError{Message: err.Error(), Retryable: true, Cause: ErrCauseReadFailure, Backend: BackendRedis}
	}
	return value, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &StoreError{Message: err.Error(), Retryable: true, Cause: ErrCauseWriteFailure, Backend: BackendRedis}
	}
	return nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
