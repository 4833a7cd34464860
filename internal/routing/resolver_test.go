package routing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, doc Document, options ResolverOptions) (*Store, *Resolver) {
	t.Helper()
	store := NewStore(NewPatternCompiler())
	resolver := NewResolver(store, options)
	_, err := store.Replace(doc)
	require.NoError(t, err)
	return store, resolver
}

func TestResolver_UserService(t *testing.T) {
	for name, options := range map[string]ResolverOptions{
		"cached":   DefaultResolverOptions(),
		"uncached": {},
	} {
		t.Run(name, func(t *testing.T) {
			_, r := newResolver(t, userServiceDoc(), options)

			assert.True(t, r.Authorize("user-service", "/users/1"))
			assert.False(t, r.Authorize("user-service", "/admin"))

			target, ok := r.Locate("user-service", "/users/1")
			require.True(t, ok)
			assert.Equal(t, "https://api.x/users/1", target)
		})
	}
}

func TestResolver_UnknownService(t *testing.T) {
	t.Run("enforcement enabled", func(t *testing.T) {
		_, r := newResolver(t, userServiceDoc(), DefaultResolverOptions())

		assert.False(t, r.Authorize("ghost", "/users/1"))
		_, ok := r.Locate("ghost", "/users/1")
		assert.False(t, ok)
	})

	t.Run("enforcement disabled", func(t *testing.T) {
		doc := userServiceDoc()
		doc.WhitelistEnabled = boolPtr(false)
		_, r := newResolver(t, doc, DefaultResolverOptions())

		assert.True(t, r.Authorize("ghost", "/anything"))
		assert.True(t, r.Authorize("user-service", "/admin"))

		_, ok := r.Locate("ghost", "/anything")
		assert.False(t, ok)

		target, ok := r.Locate("user-service", "/admin")
		assert.True(t, ok)
		assert.Equal(t, "https://api.x/admin", target)
	})
}

func TestResolver_Idempotent(t *testing.T) {
	_, r := newResolver(t, userServiceDoc(), DefaultResolverOptions())

	for i := 0; i < 10; i++ {
		assert.True(t, r.Authorize("user-service", "/users/1"))
		assert.False(t, r.Authorize("user-service", "/admin"))
		target, ok := r.Locate("user-service", "/users/1")
		assert.True(t, ok)
		assert.Equal(t, "https://api.x/users/1", target)
	}

	stats := r.Stats()
	assert.Equal(t, uint64(2), stats.CacheMisses)
	assert.Equal(t, uint64(18), stats.CacheHits)
	assert.Equal(t, 2, stats.CachedDecisions)
}

func TestResolver_ReloadInvalidatesCache(t *testing.T) {
	store, r := newResolver(t, userServiceDoc(), DefaultResolverOptions())
	require.True(t, r.Authorize("user-service", "/users/1"))

	doc := userServiceDoc()
	doc.Services[0].Endpoints = []string{"/admin"}
	table, err := store.Replace(doc)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), table.Generation())
	assert.False(t, r.Authorize("user-service", "/users/1"))
	assert.True(t, r.Authorize("user-service", "/admin"))

	stats := r.Stats()
	assert.Equal(t, uint64(2), stats.Generation)
	assert.GreaterOrEqual(t, stats.CacheFlushes, uint64(2))
}

func TestResolver_CacheBound(t *testing.T) {
	_, r := newResolver(t, userServiceDoc(), ResolverOptions{CacheTTL: time.Minute, CacheMaxSize: 2})

	r.Authorize("user-service", "/users/1")
	r.Authorize("user-service", "/users/2")
	r.Authorize("user-service", "/users/3")

	assert.Equal(t, 2, r.Stats().CachedDecisions)
	assert.True(t, r.Authorize("user-service", "/users/3"))
}

func TestResolver_ConcurrentReload(t *testing.T) {
	store, r := newResolver(t, userServiceDoc(), DefaultResolverOptions())

	allowUsers := userServiceDoc()
	allowAdmin := userServiceDoc()
	allowAdmin.Services[0].Endpoints = []string{"/admin"}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if i%2 == 0 {
				_, _ = store.Replace(allowAdmin)
			} else {
				_, _ = store.Replace(allowUsers)
			}
		}
		close(stop)
	}()

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				table := r.Table()
				entry, ok := table.Entry("user-service")
				if assert.True(t, ok) {
					// one generation never allows both paths
					assert.NotEqual(t, entry.Allows("/users/1"), entry.Allows("/admin"))
				}
			}
		}()
	}
	wg.Wait()

	// last replace restored the users pattern
	assert.True(t, r.Authorize("user-service", "/users/1"))
	assert.False(t, r.Authorize("user-service", "/admin"))
}

func TestStore_ReplaceFailureKeepsCurrent(t *testing.T) {
	store, r := newResolver(t, userServiceDoc(), DefaultResolverOptions())

	bad := Document{Services: []ServiceDefinition{{Name: "x", BaseURL: "http://x", Endpoints: []string{"/{"}}}}
	_, err := store.Replace(bad)
	require.Error(t, err)

	assert.Equal(t, uint64(1), store.Current().Generation())
	assert.True(t, r.Authorize("user-service", "/users/1"))
}

func TestStore_SwapListeners(t *testing.T) {
	store := NewStore(nil)
	var seen []uint64
	store.OnSwap(func(old, current *Table) {
		seen = append(seen, old.Generation(), current.Generation())
	})

	_, err := store.Replace(userServiceDoc())
	require.NoError(t, err)
	_, err = store.Replace(userServiceDoc())
	require.NoError(t, err)

	assert.Equal(t, []uint64{0, 1, 1, 2}, seen)
}

func TestStore_InitialTable(t *testing.T) {
	store := NewStore(nil)
	r := NewResolver(store, DefaultResolverOptions())

	assert.Equal(t, uint64(0), store.Current().Generation())
	assert.False(t, r.Authorize("any", "/x"))
}
