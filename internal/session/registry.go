// Package session tracks access tokens that were explicitly logged out
// before their natural expiry.  Verification of signature and expiry stays
// in the token layer; this package only answers "has this exact token been
// revoked".
package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/task-tracker/internal/utils"
)

// Registry is the revocation set consulted on every authenticated request.
// Revoke is idempotent; revoking an already revoked token is a no-op.  The
// ttl passed to Revoke is the remaining lifetime of the token, after which
// the entry may be dropped because the token rejects on expiry anyway.
type Registry interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// New returns a Redis-backed registry when a client is available and falls
// back to the process-local set otherwise.
func New(rdb *redis.Client) Registry {
	if rdb != nil {
		return &RedisRegistry{rdb: rdb}
	}
	return NewMemoryRegistry()
}

// MemoryRegistry is a mutex-guarded, process-lifetime token set.
//
// Known limitation: entries are neither durable across restarts nor shared
// between server instances, so a logout only takes effect on the instance
// that processed it.  Deployments running more than one instance should
// configure Redis, which upgrades the registry to a shared store.
type MemoryRegistry struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewMemoryRegistry returns an empty process-local registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{revoked: make(map[string]struct{})}
}

// Revoke adds the token to the set.  The ttl is ignored; the set lives for
// the process lifetime and stale entries are harmless because expired
// tokens never reach the registry check.
func (m *MemoryRegistry) Revoke(_ context.Context, token string, _ time.Duration) error {
	key := utils.HashToken(token)
	m.mu.Lock()
	m.revoked[key] = struct{}{}
	m.mu.Unlock()
	return nil
}

// IsRevoked reports whether the token was previously revoked.
func (m *MemoryRegistry) IsRevoked(_ context.Context, token string) (bool, error) {
	key := utils.HashToken(token)
	m.mu.RLock()
	_, ok := m.revoked[key]
	m.mu.RUnlock()
	return ok, nil
}

// revokedKeyPrefix namespaces registry entries inside Redis.
const revokedKeyPrefix = "revoked:"

// RedisRegistry stores revocation entries in Redis keyed by the SHA-256
// digest of the token, with a TTL equal to the token's remaining lifetime
// so the store never grows unbounded.  Shared by all server instances.
type RedisRegistry struct {
	rdb *redis.Client
}

// Revoke writes the revocation entry.  A non-positive ttl means the token
// already expired; a one-minute floor keeps the write harmless and covers
// clock skew between instances.
func (r *RedisRegistry) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return r.rdb.Set(ctx, revokedKeyPrefix+utils.HashToken(token), 1, ttl).Err()
}

// IsRevoked checks for a revocation entry.
func (r *RedisRegistry) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKeyPrefix+utils.HashToken(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
