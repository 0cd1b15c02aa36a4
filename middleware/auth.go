package middleware

import (
	"net/http"
	"strings"

	"callbot-management/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth.
const (
	ContextUserID = "userId"
	ContextIsRoot = "isRoot"
)

// BlacklistChecker reports whether a token has been revoked by logout.
type BlacklistChecker func(c *gin.Context, token string) bool

// RequireAuth gates a route group on a valid bearer token. Presence alone
// is not enough: the signature, expiry and blacklist are all checked here,
// so a stale client token fails with 401 and the caller redirects to login.
func RequireAuth(isBlacklisted BlacklistChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if isBlacklisted != nil && isBlacklisted(c, token) {
			utils.JSONError(c, http.StatusUnauthorized, "token has been revoked")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextIsRoot, claims.IsRoot)
		c.Next()
	}
}

// RequireRoot allows only root accounts past. Must run after RequireAuth.
func RequireRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsRoot) {
			utils.JSONError(c, http.StatusForbidden, "root privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}
