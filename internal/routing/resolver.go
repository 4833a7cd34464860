package routing

import (
	"strconv"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ResolverOptions configures the authorization decision cache. A zero TTL or
// size disables caching.
type ResolverOptions struct {
	CacheTTL     time.Duration
	CacheMaxSize int
}

// DefaultResolverOptions mirrors the gateway cache defaults (300s, 1000 entries)
func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		CacheTTL:     300 * time.Second,
		CacheMaxSize: 1000,
	}
}

// ResolverStats describes the resolver's caches
type ResolverStats struct {
	Generation       uint64 `json:"generation"`
	Services         int    `json:"services"`
	WhitelistEnabled bool   `json:"whitelist_enabled"`
	CompiledPatterns int    `json:"compiled_patterns"`
	CachedDecisions  int    `json:"cached_decisions"`
	CacheMaxSize     int    `json:"cache_max_size"`
	CacheHits        uint64 `json:"cache_hits"`
	CacheMisses      uint64 `json:"cache_misses"`
	CacheFlushes     uint64 `json:"cache_flushes"`
}

// Resolver answers whitelist questions against the store's current table.
// Authorize gates access and Locate supplies the destination; neither
// consults the other.
type Resolver struct {
	store   *Store
	options ResolverOptions
	cache   *gocache.Cache

	hits    atomic.Uint64
	misses  atomic.Uint64
	flushes atomic.Uint64
}

// NewResolver creates a resolver and subscribes it to table swaps so cached
// decisions never outlive their generation.
func NewResolver(store *Store, options ResolverOptions) *Resolver {
	r := &Resolver{store: store, options: options}
	if options.CacheTTL > 0 && options.CacheMaxSize > 0 {
		r.cache = gocache.New(options.CacheTTL, 2*options.CacheTTL)
		store.OnSwap(func(_, _ *Table) {
			r.cache.Flush()
			r.flushes.Add(1)
		})
	}
	return r
}

// Authorize returns true when enforcement is disabled. Otherwise the service
// must exist and path must match one of its patterns.
func (r *Resolver) Authorize(service, path string) bool {
	table := r.store.Current()
	if !table.WhitelistEnabled() {
		return true
	}

	if r.cache == nil {
		return authorize(table, service, path)
	}

	key := decisionKey(table.Generation(), service, path)
	if v, found := r.cache.Get(key); found {
		r.hits.Add(1)
		return v.(bool)
	}
	r.misses.Add(1)

	allowed := authorize(table, service, path)
	if r.cache.ItemCount() < r.options.CacheMaxSize {
		r.cache.SetDefault(key, allowed)
	}
	return allowed
}

func authorize(table *Table, service, path string) bool {
	entry, ok := table.Entry(service)
	if !ok {
		return false
	}
	return entry.Allows(path)
}

// Locate returns baseUrl+path for a known service regardless of enforcement
func (r *Resolver) Locate(service, path string) (string, bool) {
	entry, ok := r.store.Current().Entry(service)
	if !ok {
		return "", false
	}
	return entry.Target(path), true
}

// Table returns the generation the resolver currently answers from
func (r *Resolver) Table() *Table {
	return r.store.Current()
}

// Stats reports cache counters and the active generation
func (r *Resolver) Stats() ResolverStats {
	table := r.store.Current()
	stats := ResolverStats{
		Generation:       table.Generation(),
		Services:         table.Len(),
		WhitelistEnabled: table.WhitelistEnabled(),
		CompiledPatterns: r.store.Compiler().Len(),
		CacheMaxSize:     r.options.CacheMaxSize,
		CacheHits:        r.hits.Load(),
		CacheMisses:      r.misses.Load(),
		CacheFlushes:     r.flushes.Load(),
	}
	if r.cache != nil {
		stats.CachedDecisions = r.cache.ItemCount()
	}
	return stats
}

// ClearCache drops every cached decision
func (r *Resolver) ClearCache() {
	if r.cache != nil {
		r.cache.Flush()
		r.flushes.Add(1)
	}
}

// generation is part of the key so a decision cached concurrently with a
// swap can never be served for the newer table.
func decisionKey(generation uint64, service, path string) string {
	return strconv.FormatUint(generation, 10) + "\x00" + service + "\x00" + path
}
