package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// apiKeyHeader carries the local API key; distinct from the upstream
// X-Api-Key credential the sentiment client forwards.
const apiKeyHeader = "X-API-Key"

// APIKeyAuth guards the /api group. An empty key disables the check, the
// default for local single-user deployments.
func APIKeyAuth(key string) gin.HandlerFunc {
	if key == "" {
		return func(c *gin.Context) { c.Next() }
	}
	want := []byte(key)
	return func(c *gin.Context) {
		provided := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-API-Key header"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), want) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid API key"})
			return
		}
		c.Next()
	}
}
