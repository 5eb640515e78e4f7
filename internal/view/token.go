// Package view holds the cancellation tokens views use to discard results
// that arrive after the view went away.
package view

import (
	"context"
	"sync"
)

// Token is created when a view starts loading and cancelled when it is torn
// down. Every fetch the view starts runs under Context, and every result is
// applied through Commit.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	cancelled bool
}

func NewToken(parent context.Context) *Token {
	ctx, cancel := context.WithCancel(parent)
	return &Token{ctx: ctx, cancel: cancel}
}

func (t *Token) Context() context.Context {
	return t.ctx
}

// Cancel is idempotent. Once it returns no further Commit applies.
func (t *Token) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.cancel()
}

func (t *Token) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled || t.ctx.Err() != nil
}

// Commit runs apply unless the token has been cancelled, and reports
// whether it ran.
func (t *Token) Commit(apply func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || t.ctx.Err() != nil {
		return false
	}
	apply()
	return true
}

// Load fetches under the token's context and commits the result. It
// reports whether apply ran.
func Load[T any](t *Token, fetch func(ctx context.Context) T, apply func(T)) bool {
	value := fetch(t.ctx)
	return t.Commit(func() { apply(value) })
}
