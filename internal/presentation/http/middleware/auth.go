package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/youcode/tricol-fournisseurs/internal/presentation/http/dto/response"
	"github.com/youcode/tricol-fournisseurs/internal/presentation/http/handler"
	"github.com/youcode/tricol-fournisseurs/pkg/utils"
)

// AuthMiddleware requires a valid bearer token and stores its subject as the client id
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "L'en-tête Authorization est obligatoire")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Unauthorized(c, "Format de l'en-tête Authorization invalide")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Jeton invalide ou expiré")
			c.Abort()
			return
		}

		c.Set(handler.ClientIDKey, claims.Subject)
		c.Next()
	}
}
