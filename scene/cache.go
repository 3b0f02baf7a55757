package scene

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/voxsplat/octoscan/fixedpoint"
)

// cacheKey identifies one instance's subdivision plan: the instance's
// own identity plus its fully composed rendering matrix. Matrix is
// comparable (it's all float64 fields), so a bitwise-unchanged matrix
// between frames hits the same cache entry — exactly the coherence
// condition described in SPEC_FULL.md's domain stack section.
type cacheKey struct {
	id     string
	matrix fixedpoint.Matrix
}

// planCache wraps a size-bounded LRU of instance identity/matrix pairs
// to their last-computed subdivision plan. Eviction only costs a
// re-derivation on the next TooBig/TooClose frame for that instance;
// it never changes a rendered pixel (SPEC_FULL.md §3).
type planCache struct {
	lru *lru.Cache
}

func newPlanCache(size int) (*planCache, error) {
	if size <= 0 {
		return &planCache{}, nil
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &planCache{lru: c}, nil
}

func (c *planCache) get(key cacheKey) ([]planStep, bool) {
	if c.lru == nil {
		return nil, false
	}
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]planStep), true
}

func (c *planCache) add(key cacheKey, plan []planStep) {
	if c.lru == nil || plan == nil {
		return
	}
	c.lru.Add(key, plan)
}
