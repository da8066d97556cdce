package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

const (
	catalogCacheKey     = "stylebook:services"
	catalogCacheVersion = 1
)

// Store is the injected persistence for the catalog cache. Implementations
// may be backed by anything; failures are advisory and never block a
// revalidation fetch.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string][]byte{}}
}

func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.items[key]

	return value, ok
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value

	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)

	return nil
}

type cachedServices struct {
	Version  int       `json:"version"`
	Services []Service `json:"services"`
}

type serviceLister interface {
	ListServices(ctx context.Context) ([]Service, error)
}

// Catalog is a stale-while-revalidate cache of the bookable services. A
// cached copy is served immediately so the service selector renders without
// waiting on the network, and a revalidation fetch always runs behind it.
// Revalidations are epoch-guarded the same way tracker fetches are.
type Catalog struct {
	api      serviceLister
	store    Store
	onChange func(services []Service)

	mu       sync.Mutex
	seq      uint64
	services []Service
}

// NewCatalog builds a catalog cache. store may be nil for a fetch-only
// catalog; onChange may be nil.
func NewCatalog(api serviceLister, store Store, onChange func(services []Service)) *Catalog {
	return &Catalog{
		api:      api,
		store:    store,
		onChange: onChange,
	}
}

// Load serves the cached catalog immediately when one exists, then kicks
// off a background revalidation. Revalidation errors are advisory; the
// stale copy stays in place.
func (c *Catalog) Load(ctx context.Context) {
	if services, ok := c.readStore(); ok {
		c.mu.Lock()
		c.services = services
		c.mu.Unlock()

		c.notify(services)
	}

	go func() {
		_ = c.Revalidate(ctx)
	}()
}

// Revalidate fetches the live catalog and, if this call is still the
// newest, applies it and rewrites the cache.
func (c *Catalog) Revalidate(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	services, err := c.api.ListServices(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh services catalog: %w", err)
	}

	c.mu.Lock()

	if seq != c.seq {
		c.mu.Unlock()

		return nil
	}

	c.services = services

	c.mu.Unlock()

	c.writeStore(services)
	c.notify(services)

	return nil
}

// Services returns the current catalog, cached or live.
func (c *Catalog) Services() []Service {
	c.mu.Lock()
	defer c.mu.Unlock()

	services := make([]Service, len(c.services))
	copy(services, c.services)

	return services
}

func (c *Catalog) readStore() ([]Service, bool) {
	if c.store == nil {
		return nil, false
	}

	raw, ok := c.store.Get(catalogCacheKey)
	if !ok {
		return nil, false
	}

	cached := cachedServices{}
	if err := json.Unmarshal(raw, &cached); err != nil || cached.Version != catalogCacheVersion {
		_ = c.store.Delete(catalogCacheKey)

		return nil, false
	}

	return cached.Services, true
}

func (c *Catalog) writeStore(services []Service) {
	if c.store == nil {
		return
	}

	raw, err := json.Marshal(cachedServices{Version: catalogCacheVersion, Services: services})
	if err != nil {
		return
	}

	_ = c.store.Set(catalogCacheKey, raw)
}

func (c *Catalog) notify(services []Service) {
	if c.onChange != nil {
		c.onChange(services)
	}
}
