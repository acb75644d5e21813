package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

const identityKey = "auth.identity"

// Middleware authenticates HTTP requests via the Authorization bearer header
// and stores the resolved identity in the gin context.
func Middleware(directory repository.UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		ident, err := directory.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, *ident)
		c.Next()
	}
}

// IdentityFrom returns the authenticated identity stored by Middleware.
func IdentityFrom(c *gin.Context) (chat.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return chat.Identity{}, false
	}
	ident, ok := v.(chat.Identity)
	return ident, ok
}
