package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers the outcome of a client-keyed request so a
// retry can replay it instead of repeating side effects.
type IdempotencyStore struct {
	RDB *redis.Client
	TTL time.Duration
}

func idempotencyKey(scope, key string) string {
	return fmt.Sprintf("idem:%s:%s", scope, key)
}

// Lookup returns the stored result, or "" when the key was never completed.
func (s *IdempotencyStore) Lookup(ctx context.Context, scope, key string) (string, error) {
	val, err := s.RDB.Get(ctx, idempotencyKey(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Remember stores result under key unless another request already did, and
// returns whichever result is stored afterwards.
func (s *IdempotencyStore) Remember(ctx context.Context, scope, key, result string) (string, error) {
	full := idempotencyKey(scope, key)
	ok, err := s.RDB.SetNX(ctx, full, result, s.TTL).Result()
	if err != nil {
		return "", err
	}
	if ok {
		return result, nil
	}
	return s.RDB.Get(ctx, full).Result()
}
