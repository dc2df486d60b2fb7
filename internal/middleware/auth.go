package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/owusuprince21/cheaprides.backend/internal/auth/verifier"
	"github.com/owusuprince21/cheaprides.backend/internal/logger"
	"github.com/owusuprince21/cheaprides.backend/internal/users"
)

// contextUserKey is the gin context key the resolved user is stored
// under. Handlers read it through UserFrom only.
const contextUserKey = "authUser"

const verifyTimeout = 5 * time.Second

// SetUser attaches the resolved user to the request context.
func SetUser(c *gin.Context, u *users.User) {
	c.Set(contextUserKey, u)
}

// UserFrom returns the authenticated user attached by Authenticate.
func UserFrom(c *gin.Context) (*users.User, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*users.User)
	return u, ok && u != nil
}

// BearerToken extracts the credential from an Authorization header.
// The scheme prefix is optional; the last whitespace-delimited segment
// is taken as the token.
func BearerToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// Authenticate is the request-level auth gate. A missing Authorization
// header yields an anonymous request. A present token must verify and
// resolve to a user record; any failure is a hard 401 and is never
// downgraded to anonymous.
func Authenticate(v verifier.Verifier, directory users.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token := BearerToken(header)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), verifyTimeout)
		defer cancel()

		identity, err := v.Verify(ctx, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
			return
		}

		user, err := directory.GetOrCreate(c.Request.Context(), identity)
		if err != nil {
			logger.Warn("failed to resolve verified identity",
				zap.String("uid", identity.UID),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
			return
		}

		SetUser(c, user)
		c.Next()
	}
}

// RequireAuth allows only requests that resolved to a user record.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin allows only active staff or superusers. Unauthenticated
// requests get 401; authenticated ones without privilege get 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
