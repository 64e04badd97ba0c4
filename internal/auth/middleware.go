package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxClaimsKey = "auth_claims"

// RequireAuth rejects requests without a valid bearer token whose
// token_version still matches the database.
func RequireAuth(tokens TokenService, repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := bearerClaims(c, tokens, repo)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid bearer token is present and
// lets the request through either way. Read endpoints use it to serve an
// anonymous variant of their response.
func OptionalAuth(tokens TokenService, repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := bearerClaims(c, tokens, repo); claims != nil {
			c.Set(ctxClaimsKey, claims)
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, tokens TokenService, repo *Repo) *Claims {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return nil
	}
	claims, err := tokens.Parse(strings.TrimSpace(h[len("Bearer "):]))
	if err != nil {
		return nil
	}
	if repo != nil {
		version, err := repo.TokenVersion(c.Request.Context(), claims.UserID)
		if err != nil || version != claims.TokenVersion {
			return nil
		}
	}
	return claims
}

// GetClaims returns the claims set by RequireAuth or OptionalAuth, nil when
// the request is anonymous.
func GetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
