package middleware

import (
	"net/http"
	"strings"

	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/auth"
	"candidate-boutique/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and puts the caller on the request
// context. The role always comes from the users table, never from the token.
func AuthMiddleware(verifier *auth.Verifier, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			logger.Log.Debug("Token validation failed", "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		actor, err := authUC.LoadActor(c.Request.Context(), claims.Subject, claims.Email)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), actor.ID)
		c.Set(string(domain.KeyUserEmail), actor.Email)
		c.Set(string(domain.KeyUserRole), actor.Role)
		c.Request = c.Request.WithContext(domain.WithActor(c.Request.Context(), actor))

		c.Next()
	}
}

// RequireAdmin stops non-admin callers before the handler runs. Usecases
// check again.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := domain.ActorFromContext(c.Request.Context())
		if !ok || !actor.IsAdmin() {
			response.Error(c, http.StatusForbidden, "Access denied", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// BearerToken returns the credential of a "Bearer <token>" header, or an
// empty string when the scheme is missing. The scheme is case-insensitive.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
