package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

const (
	responseStartKey = "response_start"
	cacheHitKey      = "cache_hit"
)

// WithResponseMeta stamps the request start so handlers can report processing time in the envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseStartKey, time.Now())
		c.Next()
	}
}

// SetCacheHit records whether the payload was served from the result cache.
func SetCacheHit(c *gin.Context, hit bool) {
	c.Set(cacheHitKey, hit)
}

// ResponseMeta builds envelope metadata for the current request. extra entries win over collected ones.
func ResponseMeta(c *gin.Context, extra map[string]interface{}) map[string]interface{} {
	meta := make(map[string]interface{}, len(extra)+3)
	if c != nil {
		if v, ok := c.Get(responseStartKey); ok {
			if start, ok := v.(time.Time); ok {
				meta["processing_time_ms"] = time.Since(start).Milliseconds()
			}
		}
		if v, ok := c.Get(cacheHitKey); ok {
			meta[cacheHitKey] = v
		}
		if id := requestid.Value(c); id != "" {
			meta["request_id"] = id
		}
	}
	for k, v := range extra {
		meta[k] = v
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
