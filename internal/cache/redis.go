package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	attemptKeyFmt = "nxq:login:attempts:%s"
	revokedKeyFmt = "nxq:session:revoked:%s"
)

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and callers fall
// back to the in-process stores.
func Init(addr, password string, db int) error {
	if addr == "" {
		return fmt.Errorf("redis address not configured")
	}

	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// Close releases the Redis connection, if any.
func Close() {
	if client != nil {
		client.Close()
		client = nil
	}
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

// redisAttempts counts failed logins with INCR and lets the key expire
// after the lockout window.
type redisAttempts struct {
	rdb *redis.Client
}

func (s *redisAttempts) Failures(ctx context.Context, username string) (int, error) {
	n, err := s.rdb.Get(ctx, fmt.Sprintf(attemptKeyFmt, username)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (s *redisAttempts) RecordFailure(ctx context.Context, username string, window time.Duration) (int, error) {
	key := fmt.Sprintf(attemptKeyFmt, username)
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *redisAttempts) Reset(ctx context.Context, username string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(attemptKeyFmt, username)).Err()
}

// redisRevocations stores revoked token IDs until the token would have
// expired anyway.
type redisRevocations struct {
	rdb *redis.Client
}

func (s *redisRevocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, fmt.Sprintf(revokedKeyFmt, tokenID), strconv.FormatInt(until.Unix(), 10), ttl).Err()
}

func (s *redisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, fmt.Sprintf(revokedKeyFmt, tokenID)).Result()
	return n > 0, err
}
