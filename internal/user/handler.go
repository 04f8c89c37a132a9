// File: internal/user/handler.go
package user

import (
	"errors"
	"fmt"

	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/config"
	"marvel_nexus_backend/internal/filestorage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service *Service
	storage *filestorage.Service
	cfg     *config.Config
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service *Service, storage *filestorage.Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		storage: storage,
		cfg:     cfg,
		logger:  logger,
	}
}

// RegisterRoutes sets up registration under /api/users and the session-scoped
// profile endpoints at the root.
func (h *Handler) RegisterRoutes(router *gin.Engine, requireAuth gin.HandlerFunc) {
	router.POST("/api/users/register", h.register)
	router.GET("/profile", requireAuth, h.profile)
	router.PUT("/profile-update", requireAuth, h.updateProfile)
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("User registration: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	usr, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "User registered successfully.", usr)
}

func (h *Handler) profile(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	usr, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", usr)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Profile update: invalid form data", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	// The picture is optional; when present it is stored on disk and served
	// statically under /uploads.
	var uploadedURL string
	if fileHeader, err := c.FormFile("profilePic"); err == nil && fileHeader != nil {
		relPath, saveErr := h.storage.SaveUploadedFile(fileHeader, "avatars")
		if saveErr != nil {
			h.logger.Error("Failed to store uploaded profile picture", zap.Error(saveErr))
			common.RespondWithError(c, common.ErrInternalServer.WithDetails("Failed to store profile picture."))
			return
		}
		uploadedURL = fmt.Sprintf("%s/uploads/%s", h.cfg.PublicBaseURL, relPath)
	}

	googleID := common.GetGoogleIDFromContext(c)
	updated, err := h.service.UpdateProfile(c.Request.Context(), googleID, req, uploadedURL)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", updated)
}
