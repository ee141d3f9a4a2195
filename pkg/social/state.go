package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialauth/pkg/cache"
)

var ErrStateNotFound = errors.New("state not found")

const stateKeyPrefix = "social:state:"

// StateStore persists the CSRF state (and its companion nonce) across
// the redirect round trip. Backed by the cache interface so the same
// code runs against Redis in production and the in-memory cache in
// development and tests. Entries are one-time use.
type StateStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewStateStore(c cache.Cache, ttl time.Duration) *StateStore {
	return &StateStore{cache: c, ttl: ttl}
}

// Issue generates and persists a fresh state/nonce pair.
func (s *StateStore) Issue(ctx context.Context) (state string, nonce string, err error) {
	state, err = GenerateRandomString(32)
	if err != nil {
		return "", "", err
	}
	nonce, err = GenerateRandomString(32)
	if err != nil {
		return "", "", err
	}
	if err := s.cache.Set(ctx, stateKeyPrefix+state, nonce, s.ttl); err != nil {
		return "", "", err
	}
	return state, nonce, nil
}

// Consume looks up the nonce stored under a state value and deletes
// the entry so a replayed callback cannot reuse it. Unknown or
// expired state yields ErrStateNotFound.
func (s *StateStore) Consume(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", ErrStateNotFound
	}

	nonce, err := s.cache.Get(ctx, stateKeyPrefix+state)
	if errors.Is(err, cache.ErrKeyNotFound) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up state: %w", err)
	}

	// Best effort; an expired entry disappears on its own.
	_ = s.cache.Del(ctx, stateKeyPrefix+state)

	return nonce, nil
}
