// File: internal/auth/handler.go
package auth

import (
	"net/http"

	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/config"
	"marvel_nexus_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const stateCookieMaxAge = 600 // seconds

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	service *Service
	cfg     *config.Config
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

// RegisterRoutes sets up the OAuth flow and session endpoints at the root.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/auth/google", h.beginLogin)
	router.GET("/auth/google/callback", h.callback)
	router.GET("/auth/session", h.sessionInfo)
	router.GET("/logout", h.logout)
}

func (h *Handler) beginLogin(c *gin.Context) {
	state, loginURL, err := h.service.BeginLogin()
	if err != nil {
		h.logger.Error("Failed to begin OAuth login", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not initiate login."))
		return
	}

	c.SetCookie(h.cfg.OAuthStateCookieName, state, stateCookieMaxAge, "/", "", h.cfg.SessionCookieSecure, true)
	c.Redirect(http.StatusTemporaryRedirect, loginURL)
}

func (h *Handler) callback(c *gin.Context) {
	state := c.Query("state")
	storedState, err := c.Cookie(h.cfg.OAuthStateCookieName)
	if err != nil || state == "" || state != storedState {
		h.logger.Warn("OAuth state mismatch",
			zap.String("received", state),
			zap.Error(err),
		)
		c.Redirect(http.StatusTemporaryRedirect, h.cfg.LoginFailureURL)
		return
	}
	// The state cookie is single use.
	c.SetCookie(h.cfg.OAuthStateCookieName, "", -1, "/", "", h.cfg.SessionCookieSecure, true)

	code := c.Query("code")
	_, sess, err := h.service.CompleteLogin(c.Request.Context(), code)
	if err != nil {
		h.logger.Warn("OAuth login failed", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, h.cfg.LoginFailureURL)
		return
	}

	c.SetCookie(
		h.cfg.SessionCookieName,
		sess.Token,
		int(h.cfg.SessionTTL.Seconds()),
		"/",
		"",
		h.cfg.SessionCookieSecure,
		true,
	)
	c.Redirect(http.StatusTemporaryRedirect, h.cfg.LoginSuccessURL)
}

func (h *Handler) sessionInfo(c *gin.Context) {
	usr := middleware.GetAuthenticatedUser(c)
	if usr == nil {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAuthenticated": true, "user": usr})
}

func (h *Handler) logout(c *gin.Context) {
	token, err := c.Cookie(h.cfg.SessionCookieName)
	if err == nil && token != "" {
		if err := h.service.Logout(c.Request.Context(), token); err != nil {
			h.logger.Warn("Failed to revoke session on logout", zap.Error(err))
		}
	}
	c.SetCookie(h.cfg.SessionCookieName, "", -1, "/", "", h.cfg.SessionCookieSecure, true)
	c.Redirect(http.StatusTemporaryRedirect, h.cfg.LoginFailureURL)
}
