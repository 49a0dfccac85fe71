package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// BatchLock is a best-effort lease that guards a dispatch batch for one
// (shop, date) pair against overlapping invocations. It is advisory: if
// Redis is unreachable the caller proceeds without protection.
type BatchLock struct {
	client *redis.Client
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

// NewBatchLock creates a lock backed by the given Redis client.
func NewBatchLock(client *redis.Client, ttl time.Duration) *BatchLock {
	return &BatchLock{
		client: client,
		ttl:    ttl,
		tokens: make(map[string]string),
	}
}

// Acquire takes the lease for key. It returns false if another batch
// currently holds it, and an error only on Redis failure.
func (l *BatchLock) Acquire(ctx context.Context, key string) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire batch lock: %w", err)
	}
	if ok {
		l.mu.Lock()
		l.tokens[key] = token
		l.mu.Unlock()
	}
	return ok, nil
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

// Release gives the lease back. Only the holder's token deletes the key.
func (l *BatchLock) Release(ctx context.Context, key string) {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return
	}
	_, _ = unlockScript.Run(ctx, l.client, []string{key}, token).Result()
}
