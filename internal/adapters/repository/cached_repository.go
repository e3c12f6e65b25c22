package repository

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/venkatarun/hidden-habits/internal/core/domain"
)

// DefaultCacheTTL bounds how stale a cached read may be. Writes always go
// through (or no-op, see Write), so within one process the cache only lags
// behind writes made by other instances.
const DefaultCacheTTL = 30 * time.Second

var _ domain.StoreRepository = (*CachedStoreRepository)(nil)

// CachedStoreRepository decorates another repository with a short in-process
// cache to avoid redundant remote reads. The cache is an explicit field set
// on the instance, not a package-level static, and the clock is injected so
// tests can drive the TTL.
type CachedStoreRepository struct {
	next domain.StoreRepository
	ttl  time.Duration
	now  func() time.Time

	mu            sync.Mutex
	cachedStore   domain.HabitStore
	cachedPayload []byte
	cachedAt      time.Time
}

func NewCachedStoreRepository(next domain.StoreRepository, ttl time.Duration, now func() time.Time) *CachedStoreRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &CachedStoreRepository{
		next: next,
		ttl:  ttl,
		now:  now,
	}
}

func (r *CachedStoreRepository) Read(ctx context.Context) domain.HabitStore {
	r.mu.Lock()
	if r.cachedStore != nil && r.now().Sub(r.cachedAt) < r.ttl {
		store := r.cachedStore.Clone()
		r.mu.Unlock()
		return store
	}
	r.mu.Unlock()

	store := r.next.Read(ctx)

	payload, err := store.CanonicalPayload()
	if err != nil {
		return store
	}
	r.prime(store, payload)
	return store.Clone()
}

// Write persists through the inner repository unless the payload exactly
// matches the cached one; a matching write skips the remote call but still
// refreshes the cache timestamp.
func (r *CachedStoreRepository) Write(ctx context.Context, store domain.HabitStore) error {
	normalized := domain.NormalizeStore(store)
	payload, err := normalized.CanonicalPayload()
	if err != nil {
		return fmt.Errorf("cached store: serialize: %w", err)
	}

	r.mu.Lock()
	if r.cachedPayload != nil && bytes.Equal(payload, r.cachedPayload) {
		r.cachedAt = r.now()
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	if err := r.next.Write(ctx, normalized); err != nil {
		return err
	}
	r.prime(normalized, payload)
	return nil
}

func (r *CachedStoreRepository) prime(store domain.HabitStore, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cachedStore = store.Clone()
	r.cachedPayload = payload
	r.cachedAt = r.now()
}
