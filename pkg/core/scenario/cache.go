package scenario

import (
	"sync"

	"credit_engine/pkg/core/assumption"
)

// Cache memoizes scenario analyses keyed on the content-derived assumption
// fingerprint, so structurally equal inputs hit the cache regardless of
// object identity. Cached analyses are shared; callers must treat them as
// read-only.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Analysis
}

// NewCache returns an empty memo cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Analysis)}
}

// Run is the memoized form of Run.
func (c *Cache) Run(base assumption.PaydownAssumptions) (*Analysis, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	key, err := base.Fingerprint()
	if err != nil {
		return nil, err
	}
	return c.lookupOrCompute(key, func() (*Analysis, error) { return Run(base) })
}

// RunGranular is the memoized form of RunGranular.
func (c *Cache) RunGranular(base assumption.GranularAssumptions) (*Analysis, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	key, err := base.Fingerprint()
	if err != nil {
		return nil, err
	}
	return c.lookupOrCompute(key, func() (*Analysis, error) { return RunGranular(base) })
}

// Len reports the number of cached analyses.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookupOrCompute(key string, compute func() (*Analysis, error)) (*Analysis, error) {
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	// Recomputing on a racing miss is harmless: the engine is deterministic,
	// so both goroutines store identical results.
	analysis, err := compute()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = analysis
	c.mu.Unlock()
	return analysis, nil
}
