package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAttemptsExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemoryAttempts()
	m.now = func() time.Time { return now }

	for i := 1; i <= 3; i++ {
		n, err := m.RecordFailure(ctx, "admin", 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	n, _ := m.Failures(ctx, "admin")
	assert.Equal(t, 3, n)

	now = now.Add(16 * time.Minute)
	n, _ = m.Failures(ctx, "admin")
	assert.Equal(t, 0, n)
}

func TestMemoryAttemptsReset(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAttempts()
	_, _ = m.RecordFailure(ctx, "admin", time.Minute)
	require.NoError(t, m.Reset(ctx, "admin"))

	n, _ := m.Failures(ctx, "admin")
	assert.Zero(t, n)
}

func TestMemoryRevocations(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemoryRevocations()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	revoked, _ := m.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)

	revoked, _ = m.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = m.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
}

func TestStoresFallBackWithoutRedis(t *testing.T) {
	Close()
	assert.IsType(t, &MemoryAttempts{}, NewAttemptStore())
	assert.IsType(t, &MemoryRevocations{}, NewRevocationStore())
	assert.False(t, IsHealthy())
}
