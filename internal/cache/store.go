package cache

import (
	"context"
	"time"
)

// AttemptStore counts failed logins per username inside a rolling window.
type AttemptStore interface {
	Failures(ctx context.Context, username string) (int, error)
	RecordFailure(ctx context.Context, username string, window time.Duration) (int, error)
	Reset(ctx context.Context, username string) error
}

// RevocationStore remembers logged-out session tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NewAttemptStore returns a Redis-backed store when Init succeeded and an
// in-process one otherwise.
func NewAttemptStore() AttemptStore {
	if client != nil {
		return &redisAttempts{rdb: client}
	}
	return NewMemoryAttempts()
}

func NewRevocationStore() RevocationStore {
	if client != nil {
		return &redisRevocations{rdb: client}
	}
	return NewMemoryRevocations()
}
