package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/config"
	"github.com/EncryptEx/ichack26/internal/response"
	"github.com/EncryptEx/ichack26/internal/storage"
)

// UserKey is the gin context key holding the authenticated *internal.User.
const UserKey = "user"

// New picks the local provider in development and the remote one elsewhere.
func New(cfg *config.Config, users storage.UserRepository, logger internal.Logger) Provider {
	if cfg.Env == "development" {
		return NewLocalAuthProvider(users, logger)
	}
	return NewRemoteAuthProvider(cfg.AuthServiceURL, users, logger)
}

func AuthMiddleware(provider Provider, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			var user *internal.User
			var err error
			if cfg.Env == "development" {
				user, err = provider.ValidateTokenLocal(c.Request.Context(), token)
			} else {
				user, err = provider.ValidateTokenRemote(c.Request.Context(), token)
			}
			if err == nil {
				c.Set(UserKey, user)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Unauthorized"))
	}
}

// CurrentUser returns the user set by AuthMiddleware.
func CurrentUser(c *gin.Context) *internal.User {
	return c.MustGet(UserKey).(*internal.User)
}
