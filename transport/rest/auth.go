package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	identityKey  = "identity"
	bearerPrefix = "Bearer "
)

type authService interface {
	ParseToken(tokenString string) (string, error)
}

// authMiddleware - resolves the bearer token into the caller identity.
func authMiddleware(auth authService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identity, err := auth.ParseToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx.Set(identityKey, identity)
		ctx.Next()
	}
}

func callerOf(ctx *gin.Context) string {
	return ctx.GetString(identityKey)
}
