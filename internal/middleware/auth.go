package middleware

import (
	"net/http"
	"strings"

	"neowatch/internal/service"

	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key holding *service.Claims for the caller.
const ClaimsKey = "auth_claims"

// TokenParser is the part of the auth service the middleware needs.
type TokenParser interface {
	ParseAccessToken(token string) (*service.Claims, error)
}

// RequireAuth rejects requests without a valid bearer access token.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication credentials were not provided",
			})
			return
		}

		claims, err := parser.ParseAccessToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "given token not valid for any token type",
			})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// CurrentClaims returns the claims stored by RequireAuth.
func CurrentClaims(c *gin.Context) (*service.Claims, bool) {
	value, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*service.Claims)
	return claims, ok
}
