package dataset

import (
	"fmt"
	"sync"
	"time"
)

// MemoryCache implements RowCache using in-memory storage
type MemoryCache struct {
	cache map[string][]Row
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string][]Row),
	}
}

// Get retrieves rows from cache if available
func (c *MemoryCache) Get(key string) ([]Row, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	rows, exists := c.cache[key]
	if exists {
		// Return a copy to prevent external modifications
		result := make([]Row, len(rows))
		copy(result, rows)
		return result, true
	}

	return nil, false
}

// Set stores rows in cache
func (c *MemoryCache) Set(key string, rows []Row) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]Row, len(rows))
	copy(cached, rows)
	c.cache[key] = cached
}

// Clear removes all cached rows
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string][]Row)
}

// Size returns the number of cached entries
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CachedProvider wraps another Provider with range-level caching. Walk-forward
// validation reloads heavily overlapping date ranges for every window, so even
// a naive per-range cache removes most of the I/O.
type CachedProvider struct {
	provider Provider
	cache    RowCache
}

// NewCachedProvider creates a new cached data provider
func NewCachedProvider(provider Provider) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    NewMemoryCache(),
	}
}

// NewCachedProviderWithCache creates a cached provider with a custom cache
func NewCachedProviderWithCache(provider Provider, cache RowCache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
	}
}

// GetName returns the name of the underlying provider with cache indication
func (p *CachedProvider) GetName() string {
	return "Cached " + p.provider.GetName()
}

// LoadTrainingData loads training rows, serving repeat ranges from cache
func (p *CachedProvider) LoadTrainingData(start, end time.Time, features []string) ([]Row, error) {
	key := rangeKey("train", start, end, features)
	if rows, ok := p.cache.Get(key); ok {
		return rows, nil
	}

	rows, err := p.provider.LoadTrainingData(start, end, features)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, rows)
	return rows, nil
}

// LoadTestData loads test rows, serving repeat ranges from cache
func (p *CachedProvider) LoadTestData(start, end time.Time, features []string) ([]Row, error) {
	key := rangeKey("test", start, end, features)
	if rows, ok := p.cache.Get(key); ok {
		return rows, nil
	}

	rows, err := p.provider.LoadTestData(start, end, features)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, rows)
	return rows, nil
}

// ClearCache clears all cached rows
func (p *CachedProvider) ClearCache() {
	p.cache.Clear()
}

// GetCacheSize returns the number of cached entries
func (p *CachedProvider) GetCacheSize() int {
	return p.cache.Size()
}

func rangeKey(kind string, start, end time.Time, features []string) string {
	key := fmt.Sprintf("%s|%d|%d", kind, start.Unix(), end.Unix())
	for _, f := range features {
		key += "|" + f
	}
	return key
}
