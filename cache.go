package sitelayout

import (
	"sync"
	"time"
)

// defaultCacheTTL bounds how long a layout stays reusable; terrain and
// constraint inputs upstream of us change rarely within a session.
const defaultCacheTTL = 15 * time.Minute

// defaultCacheEntries caps the in-memory cache size.
const defaultCacheEntries = 128

// MemoryCache is a small in-process ResultCache with per-entry TTL and
// a hard entry cap. Eviction is oldest-expiry-first, which is close
// enough to LRU for our access pattern.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	max     int

	// now is swappable for tests
	now func() time.Time
}

type cacheEntry struct {
	result  *LayoutResult
	expires time.Time
}

// NewMemoryCache builds a cache holding at most max entries.
// max <= 0 uses the default.
func NewMemoryCache(max int) *MemoryCache {
	if max <= 0 {
		max = defaultCacheEntries
	}
	return &MemoryCache{
		entries: map[string]*cacheEntry{},
		max:     max,
		now:     time.Now,
	}
}

// Get returns a live cached result, expiring lazily.
func (m *MemoryCache) Get(key string) (*LayoutResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expires) {
		delete(m.entries, key)
		return nil, false
	}
	return e.result, true
}

// Set stores result under key for ttl (or the default if ttl <= 0).
func (m *MemoryCache) Set(key string, result *LayoutResult, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.max {
		m.evictOne()
	}
	m.entries[key] = &cacheEntry{result: result, expires: m.now().Add(ttl)}
}

// Len returns the number of entries, counting expired ones not yet
// collected.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// evictOne drops the entry closest to expiry. Caller holds mu.
func (m *MemoryCache) evictOne() {
	var victim string
	var soonest time.Time
	first := true
	for k, e := range m.entries {
		if first || e.expires.Before(soonest) {
			victim, soonest = k, e.expires
			first = false
		}
	}
	if !first {
		delete(m.entries, victim)
	}
}
