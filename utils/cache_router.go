package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1
)

// CacheRouter sets the cache-control header for every route it wraps.
// With CacheCustom the handlers set it themselves.
type CacheRouter struct {
	CacheTime int // defaults to CacheNoCache = 0
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cr.CacheTime != CacheCustom {
			c.Header("cache-control", CacheControl(cr.CacheTime))
		}
		c.Next()
	}
}

// CacheFor overrides the router wide default for a single route
func CacheFor(seconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("cache-control", CacheControl(seconds))
		c.Next()
	}
}

func CacheControl(seconds int) string {
	if seconds <= CacheNoCache {
		return "no-cache"
	}
	return "private, max-age=" + strconv.Itoa(seconds)
}
