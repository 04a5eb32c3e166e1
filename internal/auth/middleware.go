// Auth middleware is used to validate the bearer token sent via header.
// This verification is needed for endpoints which needs authenticated operators.

package auth

import (
	"Argus/pkg/log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// This middleware verifies the incoming Authorization header against the Verifier.
// Blocks the request to go further into other handlers if the token is invalid.
func Middleware(logger log.Logger, verifier Verifier) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		token := fetchTokenFromHeader(gctx)
		if token == "" {
			gctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		userID, valerr := verifier.Verify(gctx, token)
		if valerr != nil {
			// Abort the call chain for the request here as the user is unauthenticated
			gctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		// Set UserID in request's context
		// This pair will be used further down in the handler chain
		gctx.Set("UserID", userID)
		gctx.Next()
	}
}

// NoopMiddleware passes every request through untouched.
// Wired in demo mode, where no token issuer is configured and client supplied
// identities are trusted.
func NoopMiddleware() gin.HandlerFunc {
	return func(gctx *gin.Context) {
		gctx.Next()
	}
}

// Helper to fetch the bearer token string from the Authorization header.
func fetchTokenFromHeader(gctx *gin.Context) string {
	header := gctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
