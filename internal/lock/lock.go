// Package lock serializes import cycles across worker instances. The loader
// itself is a single sequential writer; the lock only guards against two
// workers starting overlapping cycles against the same database.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lockKey = "ptl:import:lock"

// releaseScript deletes the lock only if the caller still owns it, so an
// expired lock taken over by another worker is never released out from
// under them.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ImportLock is a Redis-backed advisory lock with a TTL safety net; a
// crashed worker's lock expires instead of wedging imports forever.
type ImportLock struct {
	client *redis.Client
	ttl    time.Duration
	token  string
}

// New connects to Redis and returns an ImportLock
func New(ctx context.Context, cfg Config, ttl time.Duration) (*ImportLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &ImportLock{client: client, ttl: ttl}, nil
}

// Acquire attempts to take the import lock. It returns false without error
// when another worker holds it.
func (l *ImportLock) Acquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire import lock: %w", err)
	}
	if !ok {
		return false, nil
	}

	l.token = token
	log.Debug().Str("token", token).Dur("ttl", l.ttl).Msg("Import lock acquired")
	return true, nil
}

// Release gives the lock back if this worker still owns it
func (l *ImportLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}

	released, err := releaseScript.Run(ctx, l.client, []string{lockKey}, l.token).Int()
	if err != nil {
		return fmt.Errorf("failed to release import lock: %w", err)
	}
	if released == 0 {
		log.Warn().Msg("Import lock already expired or taken over")
	}

	l.token = ""
	return nil
}

// Close closes the Redis connection
func (l *ImportLock) Close() error {
	return l.client.Close()
}
