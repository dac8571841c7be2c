package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarian/internal/config"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
	ContextKeyAuthType = "auth_type" // "session" or "none"
)

// AuthType indicates how the user was authenticated
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session"
)

// DefaultUserID is used when authentication is disabled
const DefaultUserID = uint(0)

// Middleware handles authentication for HTTP requests.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	config         config.Auth
	publicPaths    map[string]bool
	publicPrefixes []string
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager, cfg config.Auth) *Middleware {
	publicPaths := map[string]bool{
		"/health":                    true,
		"/ping":                      true,
		"/api/users":                 true, // registration
		"/api/users/login":           true,
		"/api/users/password/forgot": true,
		"/api/users/password/reset":  true,
	}

	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		config:         cfg,
		publicPaths:    publicPaths,
		publicPrefixes: []string{"/api/books"}, // catalogue browsing is open
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	// If auth is disabled, inject default user
	if m.config.Mode == config.AuthModeNone {
		return m.noAuthHandler()
	}
	return m.authHandler()
}

// noAuthHandler injects DefaultUserID for all requests when auth is disabled.
func (m *Middleware) noAuthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUserID, DefaultUserID)
		c.Set(ContextKeyAuthType, AuthTypeNone)
		c.Next()
	}
}

// authHandler handles authentication when auth is enabled.
func (m *Middleware) authHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if m.isPublicPath(path, c.Request.Method) {
			c.Next()
			return
		}

		if m.sessionManager != nil && m.sessionManager.IsAuthenticated(c.Request) {
			c.Set(ContextKeyUserID, m.sessionManager.GetUserID(c.Request))
			c.Set(ContextKeyUsername, m.sessionManager.GetUsername(c.Request))
			c.Set(ContextKeyAuthType, AuthTypeSession)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrAuthRequired.Error()})
	}
}

// isPublicPath reports whether the path is reachable without a session.
// Public prefixes only cover safe methods: anyone may browse the
// catalogue, mutating it still needs a session.
func (m *Middleware) isPublicPath(path, method string) bool {
	if m.publicPaths[path] {
		// Registration is public only for POST; listing accounts is not
		if path == "/api/users" && method != http.MethodPost {
			return false
		}
		return true
	}
	if method == http.MethodGet || method == http.MethodHead {
		for _, prefix := range m.publicPrefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}
	return false
}

// GetUserID extracts the authenticated user's ID from the Gin context.
// Returns DefaultUserID (0) when auth is disabled or no user is set.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return DefaultUserID
}
