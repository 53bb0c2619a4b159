package suggest

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// ResultCache memoizes suggestion lists keyed by the exact normalized
// prefix, backed by a patricia trie with LRU eviction. It only ever holds
// results computed from the current engine state; any mutation clears it.
type ResultCache struct {
	results     *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int
	misses      int
	maxEntries  int
	mu          sync.Mutex
}

// NewResultCache creates a cache holding up to maxEntries prefixes.
// maxEntries <= 0 disables caching; a nil cache is safe to use.
func NewResultCache(maxEntries int) *ResultCache {
	if maxEntries <= 0 {
		return nil
	}
	return &ResultCache{
		results:    patricia.NewTrie(),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns the cached results for key, if present.
func (rc *ResultCache) Get(key string) ([]string, bool) {
	if rc == nil || key == "" {
		return nil, false
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	item := rc.results.Get(patricia.Prefix(key))
	if item == nil {
		rc.misses++
		return nil, false
	}
	rc.hits++
	rc.markAccessed(key)
	return item.([]string), true
}

// Put stores the full result list for key, evicting the least recently
// used entry when the cache is full.
func (rc *ResultCache) Put(key string, values []string) {
	if rc == nil || key == "" {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if _, known := rc.accessTime[key]; !known && len(rc.accessTime) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.results.Set(patricia.Prefix(key), values)
	rc.markAccessed(key)
}

// Clear drops every cached entry. Called on any engine mutation so stale
// results never survive an insert or remove.
func (rc *ResultCache) Clear() {
	if rc == nil {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.results = patricia.NewTrie()
	rc.accessTime = make(map[string]int64, rc.maxEntries)
}

// Stats reports cache occupancy and hit counters.
func (rc *ResultCache) Stats() map[string]int {
	if rc == nil {
		return map[string]int{"cacheEntries": 0, "maxCacheEntries": 0}
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return map[string]int{
		"cacheEntries":    len(rc.accessTime),
		"maxCacheEntries": rc.maxEntries,
		"cacheHits":       rc.hits,
		"cacheMisses":     rc.misses,
	}
}

func (rc *ResultCache) markAccessed(key string) {
	rc.accessCount++
	rc.accessTime[key] = rc.accessCount
}

func (rc *ResultCache) evictLRU() {
	var oldestKey string
	var oldestTime int64 = 9223372036854775807

	for key, accessTime := range rc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestKey = key
		}
	}
	if oldestKey != "" {
		rc.results.Delete(patricia.Prefix(oldestKey))
		delete(rc.accessTime, oldestKey)
		log.Debugf("Evicted prefix %q from result cache", oldestKey)
	}
}
