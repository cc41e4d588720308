package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"kasir-pos-backend/internal/domain/entity"
)

const activePromotionsKey = "promotions:active"

// PromotionCache holds a short-lived snapshot of active promotions for the
// display path (showing a cashier what would apply before commit). The
// checkout commit path never reads it.
type PromotionCache struct {
	store *gocache.Cache
}

// NewPromotionCache creates a promotion cache with the given snapshot TTL.
func NewPromotionCache(ttl time.Duration) *PromotionCache {
	return &PromotionCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

// Get returns the cached active-promotion snapshot, if still fresh.
func (c *PromotionCache) Get() ([]entity.Promotion, bool) {
	v, ok := c.store.Get(activePromotionsKey)
	if !ok {
		return nil, false
	}
	promotions, ok := v.([]entity.Promotion)
	return promotions, ok
}

// Set stores a fresh snapshot.
func (c *PromotionCache) Set(promotions []entity.Promotion) {
	c.store.SetDefault(activePromotionsKey, promotions)
}

// Invalidate drops the snapshot, forcing the next display read to hit the store.
func (c *PromotionCache) Invalidate() {
	c.store.Delete(activePromotionsKey)
}
