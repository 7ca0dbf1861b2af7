package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// accountKey is the gin context key holding the authenticated caller's
// account identifier. Every ledger operation trusts this value and only
// this value as "caller".
const accountKey = "account"

func (h *Handler) callerIdentity(c *gin.Context) {
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

	account, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(accountKey, account)
	c.Next()
}

// caller returns the authenticated account set by the middleware.
func caller(c *gin.Context) string {
	return c.GetString(accountKey)
}
