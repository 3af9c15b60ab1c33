package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lead-pruner/internal/config"
)

// runLockKey is the Redis key guarding against overlapping runs.
const runLockKey = "lead-pruner:run-lock"

// releaseScript deletes the lock only when the caller still holds it, so a
// run that outlived its TTL cannot release a newer run's lock.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RunLock is a Redis-backed lock that keeps two pruning runs from deleting
// leads at the same time. The TTL bounds how long a crashed run can block
// the next one.
type RunLock struct {
	client *redis.Client
	ttl    time.Duration
	token  string
}

// NewRunLock connects to Redis and prepares the lock.
func NewRunLock(cfg config.RunLockConfig) (*RunLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RunLock{client: client, ttl: cfg.TTL}, nil
}

// NewRunLockWithClient wraps an existing Redis client, mainly for tests.
func NewRunLockWithClient(client *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{client: client, ttl: ttl}
}

// Acquire attempts to take the lock. It returns false without error when
// another run currently holds it.
func (l *RunLock) Acquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, runLockKey, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if acquired {
		l.token = token
	}
	return acquired, nil
}

// Release frees the lock if this instance still holds it. Releasing an
// expired or foreign lock is a no-op.
func (l *RunLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}

	if err := releaseScript.Run(ctx, l.client, []string{runLockKey}, l.token).Err(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	l.token = ""
	return nil
}

// Holder returns the token of the current lock holder, or empty when the
// lock is free.
func (l *RunLock) Holder(ctx context.Context) (string, error) {
	holder, err := l.client.Get(ctx, runLockKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read run lock: %w", err)
	}
	return holder, nil
}

// Close closes the Redis connection
func (l *RunLock) Close() error {
	if l.client != nil {
		return l.client.Close()
	}
	return nil
}
