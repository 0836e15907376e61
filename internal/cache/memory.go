package cache

import (
	"context"
	"sync"
	"time"
)

type attempt struct {
	count   int
	expires time.Time
}

type MemoryAttempts struct {
	mu   sync.Mutex
	now  func() time.Time
	data map[string]attempt
}

func NewMemoryAttempts() *MemoryAttempts {
	return &MemoryAttempts{now: time.Now, data: make(map[string]attempt)}
}

func (m *MemoryAttempts) Failures(_ context.Context, username string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.data[username]
	if !ok || m.now().After(a.expires) {
		delete(m.data, username)
		return 0, nil
	}
	return a.count, nil
}

func (m *MemoryAttempts) RecordFailure(_ context.Context, username string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	a := m.data[username]
	if now.After(a.expires) {
		a = attempt{}
	}
	a.count++
	a.expires = now.Add(window)
	m.data[username] = a
	return a.count, nil
}

func (m *MemoryAttempts) Reset(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, username)
	return nil
}

type MemoryRevocations struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[string]time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{now: time.Now, revoked: make(map[string]time.Time)}
}

func (m *MemoryRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, id)
		}
	}
	if until.After(now) {
		m.revoked[tokenID] = until
	}
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.revoked[tokenID]
	return ok && !m.now().After(exp), nil
}
