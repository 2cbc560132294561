package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pool_monitor/internal/metrics"
	"pool_monitor/internal/models"
)

const (
	ctxUserID = "userId"
	ctxRole   = "role"

	headerDeviceKey = "X-Device-Key"

	roleAdmin   = models.RoleAdmin
	rolePremium = models.RolePremium
)

func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	id, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(ctxUserID, id.UserID)
	c.Set(ctxRole, id.Role)
	c.Next()
}

// requireRole lets the request through only for the listed roles.
// It must run after userIdMiddleware.
func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "insufficient role",
		})
	}
}

// deviceKeyMiddleware checks the shared sensor key when one is configured.
func (h *Handler) deviceKeyMiddleware(c *gin.Context) {
	if h.opts.DeviceKey == "" {
		c.Next()
		return
	}
	got := c.GetHeader(headerDeviceKey)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.opts.DeviceKey)) != 1 {
		metrics.IngestRejected.WithLabelValues("device_key").Inc()
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid device key",
		})
		return
	}
	c.Next()
}

// rateLimitMiddleware sheds ingest load above the configured rate.
func (h *Handler) rateLimitMiddleware(c *gin.Context) {
	if h.limiter != nil && !h.limiter.Allow() {
		metrics.IngestRejected.WithLabelValues("rate_limited").Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "too many requests",
		})
		return
	}
	c.Next()
}
