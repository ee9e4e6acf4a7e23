package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/Speceal/pkg/jwt"
	"seungpyo.lee/Speceal/pkg/util"
)

// Auth returns a Gin middleware that validates bearer access tokens and
// injects the caller's identity into the context.
func Auth(tokenManager jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokenManager)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid access token"})
			return
		}
		util.SetCurrentUser(c, claims.UserID, claims.Email, claims.Role)
		c.Next()
	}
}

// OptionalAuth injects identity when a valid bearer token is present but
// lets anonymous requests through. Used on public catalog reads where the
// owner of a private image still gets access.
func OptionalAuth(tokenManager jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, tokenManager); ok {
			util.SetCurrentUser(c, claims.UserID, claims.Email, claims.Role)
		}
		c.Next()
	}
}

// RequireRole aborts with Forbidden unless the authenticated caller holds
// the given role. Must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if r, ok := util.GetRole(c); !ok || r != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, tokenManager jwt.TokenManager) (*jwt.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	claims, err := tokenManager.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	return claims, true
}
