package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"university/internal/apperr"
)

const principalKey = "principal"

// PrincipalStore resolves token subjects against the credential store.
// A nil principal with a nil error means the user does not exist.
type PrincipalStore interface {
	PrincipalByUsername(ctx context.Context, username string) (*Principal, error)
}

// Authenticated enforces a bearer JWT and resolves the principal. The
// resolved principal must be active; deactivated accounts are rejected
// even when the token itself is still valid.
func Authenticated(signingKey, issuer string, store PrincipalStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			log.Printf("auth: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		principal, err := store.PrincipalByUsername(c.Request.Context(), claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "principal lookup failed"})
			return
		}
		if principal == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if !principal.IsActive {
			c.AbortWithStatusJSON(apperr.HTTPStatus(apperr.InactiveAccount), gin.H{"error": "inactive account"})
			return
		}

		c.Set(principalKey, *principal)
		c.Next()
	}
}

// TeacherRequired allows teachers and admins past. Must run after Authenticated.
func TeacherRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := FromContext(c)
		if !ok || !p.IsTeacherOrAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "teacher role required"})
			return
		}
		c.Next()
	}
}

// AdminRequired allows only admins past. Must run after Authenticated.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := FromContext(c)
		if !ok || !p.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// FromContext returns the principal set by Authenticated.
func FromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
