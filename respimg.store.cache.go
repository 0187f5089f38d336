package respimg

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedStore wraps any AttachmentStore with a read-through cache.
// Get results are cached for the configured TTL and misses for the negative
// TTL. Misses live in their own cache so no attachment name can collide with
// one. Concurrent misses for the same name share one backend lookup.
type CachedStore struct {
	store   AttachmentStore
	cache   *cache.Cache
	missing *cache.Cache
	group   singleflight.Group
	opts    *storeOptions
	hits    atomic.Int64
	misses  atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries int
	Missing int
	Hits    int64
	Misses  int64
}

// NewCachedStore wraps store with caching.
func NewCachedStore(store AttachmentStore, opts ...StoreOption) *CachedStore {
	o := applyStoreOptions(opts)
	if o.ttl <= 0 {
		o.ttl = CacheDefaultTTL
	}
	return &CachedStore{
		store:   store,
		cache:   cache.New(o.ttl, o.cleanupInterval),
		missing: cache.New(o.negativeTTL, o.cleanupInterval),
		opts:    o,
	}
}

// Get retrieves an attachment, using the cache when possible.
func (s *CachedStore) Get(ctx context.Context, name string) (*Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	if a, ok := s.cached(name); ok {
		s.hits.Add(1)
		return copyAttachment(a), nil
	}
	if _, ok := s.missing.Get(name); ok {
		s.hits.Add(1)
		return nil, NewAttachmentNotFoundError(name)
	}
	s.misses.Add(1)

	// The shared lookup outlives any single caller's cancellation.
	lookupCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(name, func() (interface{}, error) {
		a, err := s.store.Get(lookupCtx, name)
		if err != nil {
			if IsAttachmentNotFound(err) && s.opts.negativeTTL > 0 {
				s.missing.Set(name, struct{}{}, cache.DefaultExpiration)
			}
			return nil, err
		}
		s.cache.Set(name, a, cache.DefaultExpiration)
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	a, ok := v.(*Attachment)
	if !ok {
		return nil, NewAttachmentNotFoundError(name)
	}
	return copyAttachment(a), nil
}

func (s *CachedStore) cached(name string) (*Attachment, bool) {
	v, ok := s.cache.Get(name)
	if !ok {
		return nil, false
	}
	a, ok := v.(*Attachment)
	return a, ok
}

// Save writes through to the underlying store and drops the cached entry.
func (s *CachedStore) Save(ctx context.Context, a *Attachment) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	err := s.store.Save(ctx, a)
	if a != nil {
		s.Invalidate(a.Name)
	}
	return err
}

// Delete removes from the underlying store and drops the cached entry.
func (s *CachedStore) Delete(ctx context.Context, name string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	err := s.store.Delete(ctx, name)
	s.Invalidate(name)
	return err
}

// List bypasses the cache.
func (s *CachedStore) List(ctx context.Context, query *AttachmentQuery) ([]*Attachment, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.store.List(ctx, query)
}

// Exists answers from the cache when it holds an entry for name.
func (s *CachedStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	if _, ok := s.cached(name); ok {
		return true, nil
	}
	if _, ok := s.missing.Get(name); ok {
		return false, nil
	}
	return s.store.Exists(ctx, name)
}

// Close clears the cache and closes the underlying store.
func (s *CachedStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cache.Flush()
	s.missing.Flush()
	return s.store.Close()
}

// Invalidate removes name from the cache, including a cached miss.
func (s *CachedStore) Invalidate(name string) {
	s.cache.Delete(name)
	s.missing.Delete(name)
	s.opts.logger.Debug(LogMsgCacheInvalidated, zap.String(LogFieldName, name))
}

// InvalidateAll clears the entire cache.
func (s *CachedStore) InvalidateAll() {
	s.cache.Flush()
	s.missing.Flush()
}

// Stats returns cache statistics.
func (s *CachedStore) Stats() CacheStats {
	return CacheStats{
		Entries: s.cache.ItemCount(),
		Missing: s.missing.ItemCount(),
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}
}

func (s *CachedStore) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return NewStoreClosedError()
	}
	return nil
}
