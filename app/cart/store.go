// Package cart maintains per-identity shopping carts behind a small
// key-value port, so the backing store can be swapped (Redis in production,
// memory in tests) without touching cart semantics.
package cart

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/pkg/cache"
)

// guest carts that never convert are evicted after this long.
const guestCartTTL = 14 * 24 * time.Hour

const guestKeyPrefix = "cartItems_guest_"

// Store is the persistence port for carts. Keys are identity-scoped.
type Store interface {
	// Get loads the cart stored under key. A missing key yields an empty
	// cart and ok=false, never an error.
	Get(key string) (models.Cart, bool)
	// Put overwrites the cart stored under key.
	Put(key string, c models.Cart) error
	// Delete removes the key entirely.
	Delete(key string) error
}

// UserKey returns the storage key for an authenticated user's cart.
func UserKey(userName string) string {
	return "cartItems_" + userName
}

// GuestKey returns the storage key for an unauthenticated session's cart.
func GuestKey(sessionID string) string {
	return guestKeyPrefix + sessionID
}

// IsGuestKey reports whether key belongs to an unauthenticated session.
func IsGuestKey(key string) bool {
	return strings.HasPrefix(key, guestKeyPrefix)
}

// ─── Redis store ──────────────────────────────────────────────────────────────

// RedisStore persists carts through pkg/cache. User carts never expire;
// guest carts carry a TTL so abandoned sessions do not accumulate.
type RedisStore struct{}

// NewRedisStore returns a Store backed by the shared Redis client.
func NewRedisStore() *RedisStore { return &RedisStore{} }

func (s *RedisStore) Get(key string) (models.Cart, bool) {
	var c models.Cart
	if !cache.Get(key, &c) {
		return models.Cart{}, false
	}
	return c, true
}

func (s *RedisStore) Put(key string, c models.Cart) error {
	ttl := time.Duration(0)
	if IsGuestKey(key) {
		ttl = guestCartTTL
	}
	if err := cache.Set(key, c, ttl); err != nil {
		return fmt.Errorf("cart: store %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(key string) error {
	return cache.Del(key)
}

// ─── Memory store ─────────────────────────────────────────────────────────────

// MemoryStore is an in-process Store used in tests and when Redis is down.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]models.Cart
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]models.Cart)}
}

func (s *MemoryStore) Get(key string) (models.Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[key]
	return c, ok
}

func (s *MemoryStore) Put(key string, c models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[key] = c
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
	return nil
}
