package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clipforge/session"
)

// NewRouter constructs a Gin engine with registered routes. When authToken
// is non-empty every session route requires it as a bearer token; health
// stays open.
func NewRouter(mgr *session.Manager, authToken string) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r)

	sessions := r.Group("/api/sessions")
	if authToken != "" {
		sessions.Use(requireToken(authToken))
	}
	RegisterSessionRoutes(sessions, mgr)
	return r
}

// requireToken is the narrow authorization gate: a request either carries
// the expected bearer token or is rejected before any remote call happens.
func requireToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if got != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
