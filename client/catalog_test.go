package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServiceLister struct {
	mu       sync.Mutex
	services []Service
	err      error
	calls    int

	block chan struct{}
}

func (f *fakeServiceLister) ListServices(context.Context) ([]Service, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	services := f.services
	err := f.err
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	return services, err
}

func (f *fakeServiceLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func cachePayload(t *testing.T, version int, services []Service) []byte {
	t.Helper()

	raw, err := json.Marshal(cachedServices{Version: version, Services: services})
	require.NoError(t, err)

	return raw
}

func TestCatalogServesCachedCopyBeforeRevalidating(t *testing.T) {
	stale := []Service{{ID: "svc-1", Name: "Haircut (old price)", Price: 100}}
	fresh := []Service{{ID: "svc-1", Name: "Haircut", Price: 150}}

	store := NewMemoryStore()
	require.NoError(t, store.Set(catalogCacheKey, cachePayload(t, catalogCacheVersion, stale)))

	lister := &fakeServiceLister{services: fresh, block: make(chan struct{})}

	changes := make(chan []Service, 4)
	catalog := NewCatalog(lister, store, func(services []Service) { changes <- services })

	catalog.Load(context.Background())

	// The stale copy is served immediately, while the fetch is still blocked.
	served := <-changes
	assert.Equal(t, "Haircut (old price)", served[0].Name)
	assert.Equal(t, "Haircut (old price)", catalog.Services()[0].Name)

	close(lister.block)

	select {
	case served = <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for revalidation")
	}

	assert.Equal(t, "Haircut", served[0].Name)
	assert.Equal(t, "Haircut", catalog.Services()[0].Name)

	// The cache was rewritten with the fresh payload.
	raw, ok := store.Get(catalogCacheKey)
	require.True(t, ok)

	cached := cachedServices{}
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Equal(t, "Haircut", cached.Services[0].Name)
}

func TestCatalogIgnoresMismatchedCacheVersion(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(catalogCacheKey, cachePayload(t, catalogCacheVersion+1, []Service{{ID: "svc-1"}})))

	lister := &fakeServiceLister{services: []Service{{ID: "svc-2", Name: "Beard Trim"}}}
	catalog := NewCatalog(lister, store, nil)

	require.NoError(t, catalog.Revalidate(context.Background()))
	assert.Equal(t, "svc-2", catalog.Services()[0].ID)
}

func TestCatalogDropsCorruptCache(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(catalogCacheKey, []byte("{not json")))

	catalog := NewCatalog(&fakeServiceLister{}, store, nil)

	services, ok := catalog.readStore()
	assert.False(t, ok)
	assert.Nil(t, services)

	_, stillThere := store.Get(catalogCacheKey)
	assert.False(t, stillThere)
}

func TestCatalogRevalidateErrorKeepsStaleCopy(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(catalogCacheKey, cachePayload(t, catalogCacheVersion, []Service{{ID: "svc-1", Name: "Haircut"}})))

	lister := &fakeServiceLister{err: errors.New("backend down")}
	catalog := NewCatalog(lister, store, nil)

	services, ok := catalog.readStore()
	require.True(t, ok)

	catalog.mu.Lock()
	catalog.services = services
	catalog.mu.Unlock()

	require.Error(t, catalog.Revalidate(context.Background()))
	assert.Equal(t, "Haircut", catalog.Services()[0].Name)
}

type listerFunc func(ctx context.Context) ([]Service, error)

func (f listerFunc) ListServices(ctx context.Context) ([]Service, error) {
	return f(ctx)
}

func TestCatalogRevalidateEpochGuard(t *testing.T) {
	replies := make(chan chan []Service, 2)
	lister := listerFunc(func(context.Context) ([]Service, error) {
		reply := make(chan []Service)
		replies <- reply

		return <-reply, nil
	})

	catalog := NewCatalog(lister, nil, nil)

	done := make(chan struct{}, 2)

	// An older revalidation that resolves after a newer one must be dropped.
	go func() {
		_ = catalog.Revalidate(context.Background())
		done <- struct{}{}
	}()
	older := <-replies

	go func() {
		_ = catalog.Revalidate(context.Background())
		done <- struct{}{}
	}()
	newer := <-replies

	newer <- []Service{{ID: "svc-fresh"}}
	older <- []Service{{ID: "svc-stale"}}

	<-done
	<-done

	require.Len(t, catalog.Services(), 1)
	assert.Equal(t, "svc-fresh", catalog.Services()[0].ID)
}

func TestCatalogWithoutStore(t *testing.T) {
	lister := &fakeServiceLister{services: []Service{{ID: "svc-1"}}}
	catalog := NewCatalog(lister, nil, nil)

	require.NoError(t, catalog.Revalidate(context.Background()))
	assert.Len(t, catalog.Services(), 1)
}
