package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/openmeet/salas/internal/auth"
)

const userIDKey = "user_id"

// AuthRequired extracts and verifies the Bearer token and stores the caller
// identity in the context. Requests without a valid token never reach the
// handler.
func AuthRequired(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing or malformed authentication token"})
			return
		}
		userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid token"})
			return
		}
		c.Set(userIDKey, string(userID))
		c.Next()
	}
}
