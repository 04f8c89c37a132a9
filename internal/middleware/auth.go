// File: internal/middleware/auth.go
package middleware

import (
	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/config"
	"marvel_nexus_backend/internal/session"
	"marvel_nexus_backend/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionLoader creates a middleware that resolves the session cookie into
// the authenticated user. Requests without a valid session simply continue
// unauthenticated; protected routes enforce 401 via RequireAuth.
func SessionLoader(sessions *session.Service, users *user.Service, cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sess, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			logger.Debug("Session cookie did not resolve", zap.Error(err))
			c.Next()
			return
		}

		usr, err := users.GetByID(c.Request.Context(), sess.UserID)
		if err != nil {
			// Session points at a user that no longer exists; treat as
			// unauthenticated.
			logger.Warn("Session references missing user",
				zap.String("userID", sess.UserID.Hex()),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Set(common.UserIDKey, usr.ID)
		c.Set(common.GoogleIDKey, usr.GoogleID)
		c.Set(common.AuthenticatedUserKey, usr)
		c.Next()
	}
}

// RequireAuth aborts with 401 when no authenticated user was loaded.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(common.AuthenticatedUserKey); !exists {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not authenticated."))
			return
		}
		c.Next()
	}
}

// GetAuthenticatedUser returns the user loaded by SessionLoader, or nil.
func GetAuthenticatedUser(c *gin.Context) *user.User {
	val, exists := c.Get(common.AuthenticatedUserKey)
	if !exists {
		return nil
	}
	usr, ok := val.(*user.User)
	if !ok {
		return nil
	}
	return usr
}
