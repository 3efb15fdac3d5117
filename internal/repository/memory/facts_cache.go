package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// FactsCache keeps rendered graph facts hot for a few minutes so every chat
// turn does not pay a graph round trip. Staleness is bounded by the TTL;
// fact writes invalidate eagerly.
type FactsCache struct {
	cache *cache.Cache
}

func NewFactsCache() *FactsCache {
	// Default expiration 5 minutes, purge sweep every 10 minutes
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &FactsCache{
		cache: c,
	}
}

func (r *FactsCache) Get(userId string) (string, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.(string), true
	}
	return "", false
}

func (r *FactsCache) Set(userId string, facts string) {
	r.cache.Set(userId, facts, cache.DefaultExpiration)
}

func (r *FactsCache) Invalidate(userId string) {
	r.cache.Delete(userId)
}
