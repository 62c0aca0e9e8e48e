package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/pkg/auth"
)

// Context keys set by SessionAuth
const (
	ContextIdentity = "identity"
	ContextUserID   = "userID"
	ContextEmail    = "email"
	ContextRole     = "roleType"
)

// SessionResolver turns a token into an identity, nil when the token is unusable
type SessionResolver interface {
	ResolveSession(token string) *auth.Identity
}

// AuthMiddleware guards routes with the session cookie or a bearer token
type AuthMiddleware struct {
	sessions   SessionResolver
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionResolver, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, cookieName: cookieName}
}

// tokenFrom prefers the session cookie and falls back to the Authorization header
func (m *AuthMiddleware) tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	return ""
}

func abortUnauthenticated(c *gin.Context) {
	detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}

// SessionAuth resolves the caller and stores the identity on the context
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.tokenFrom(c)
		if token == "" {
			abortUnauthenticated(c)
			return
		}

		identity := m.sessions.ResolveSession(token)
		if identity == nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(ContextIdentity, identity)
		c.Set(ContextUserID, identity.ID)
		c.Set(ContextEmail, identity.Email)
		c.Set(ContextRole, identity.Role)

		c.Next()
	}
}

// RoleRequired lets the request through only for the listed roles
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			abortUnauthenticated(c)
			return
		}

		if !auth.RequireRole(identity, roles...) {
			detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
			return
		}

		c.Next()
	}
}

// CurrentIdentity returns the identity SessionAuth stored, or nil
func CurrentIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}
