package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextClaims   = "claims"
)

// Auth verifies the bearer token with the identity provider.
func Auth(idp identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			httperr.Unauthorized(c, "invalid_authorization_header", "Expected a bearer token.")
			c.Abort()
			return
		}

		claims, err := idp.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, identity.ErrUnauthorized) {
				httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
			} else {
				httperr.Respond(c, err)
			}
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the caller when a valid bearer token is present and
// lets anonymous requests through.
func OptionalAuth(idp identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			if claims, err := idp.VerifyToken(c.Request.Context(), parts[1]); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *identity.Claims) {
	role := ""
	if len(claims.Roles) > 0 {
		role = claims.Roles[0]
	}
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserRole, role)
	c.Set(ContextClaims, claims)
}

// RoleAuth must run after Auth.
func RoleAuth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			httperr.Unauthorized(c, "unauthenticated", "Authentication required.")
			c.Abort()
			return
		}
		if !claims.HasRole(roles...) {
			httperr.Forbidden(c, "forbidden", "You are not allowed to perform this action.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*identity.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*identity.Claims)
	return claims, ok
}
