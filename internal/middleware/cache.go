package middleware

import (
	"github.com/gin-gonic/gin"
)

// CacheStatusHeader tells clients whether a response was served from cache.
const CacheStatusHeader = "X-Cache"

const cacheHitKey = "cache_hit"

// SetCacheHit records cache hit information for the current response. It must be
// called before the body is written.
func SetCacheHit(c *gin.Context, hit bool) {
	if c == nil {
		return
	}
	c.Set(cacheHitKey, hit)
	if hit {
		c.Header(CacheStatusHeader, "HIT")
		return
	}
	c.Header(CacheStatusHeader, "MISS")
}

// CacheHit reports the recorded cache status; ok is false when none was recorded.
func CacheHit(c *gin.Context) (hit, ok bool) {
	if c == nil {
		return false, false
	}
	value, exists := c.Get(cacheHitKey)
	if !exists {
		return false, false
	}
	hit, ok = value.(bool)
	return hit, ok
}
