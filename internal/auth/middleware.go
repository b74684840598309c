package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"preschool/internal/apperr"
)

const (
	actorKey   = "actor"
	sessionKey = "session_id"
)

// SessionAuth resolves an optional bearer token into an Actor. Requests without
// a token proceed as Anonymous; a presented but invalid token is rejected.
func SessionAuth(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.Set(actorKey, Anonymous)
			c.Next()
			return
		}
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		actor, sid, err := m.Resolve(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
				return
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}
		c.Set(actorKey, actor)
		c.Set(sessionKey, sid)
		c.Next()
	}
}

// RequireSession rejects anonymous callers.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the request's actor, Anonymous when none was set.
func ActorFrom(c *gin.Context) Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(Actor); ok {
			return a
		}
	}
	return Anonymous
}

// SessionIDFrom returns the resolved session id, empty for anonymous requests.
func SessionIDFrom(c *gin.Context) string {
	return c.GetString(sessionKey)
}
