// File: internal/collection/handler.go
package collection

import (
	"errors"
	"fmt"

	"marvel_nexus_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for collection handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new collection handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the collection and favorite endpoints under /api/users.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/users/collections/:id", h.getCollection)
	router.POST("/api/users/:userId/collections", h.createCollection)
	router.POST("/api/users/:userId/collections/:collectionId/comics", h.addComic)
	router.POST("/api/users/:userId/comics/add-to-collections", h.addToCollections)
	router.DELETE("/api/users/collections/:collectionId/comics/:comicId", h.removeComic)
	router.DELETE("/api/users/collections/:collectionId", h.deleteCollection)
	router.POST("/api/users/:userId/favorites/:comicId", h.toggleFavorite)
	router.GET("/api/users/:userId/favorites", h.listFavorites)
}

// pathID parses an ObjectId-shaped path parameter, responding 400 on failure.
func (h *Handler) pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	raw := c.Param(name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		h.logger.Warn("Invalid id format in URL parameter",
			zap.String("param", name),
			zap.String("value", raw),
		)
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(fmt.Sprintf("Invalid %s format.", name)))
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}

func (h *Handler) getCollection(c *gin.Context) {
	collID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.service.GetCollection(c.Request.Context(), collID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Collection retrieved successfully.", detail)
}

func (h *Handler) createCollection(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	var req CreateCollectionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	coll, err := h.service.CreateCollection(c.Request.Context(), userID, req.CollectionName)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Collection created successfully.", coll)
}

func (h *Handler) addComic(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	collID, ok := h.pathID(c, "collectionId")
	if !ok {
		return
	}
	var req AddComicRequest
	if !h.bindJSON(c, &req) {
		return
	}
	detail, err := h.service.AddComic(c.Request.Context(), userID, collID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Comic added to collection.", detail)
}

func (h *Handler) addToCollections(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	var req AddToCollectionsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	updated, err := h.service.AddToCollections(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Comic added to collections.", gin.H{"updatedCollections": updated})
}

func (h *Handler) removeComic(c *gin.Context) {
	collID, ok := h.pathID(c, "collectionId")
	if !ok {
		return
	}
	comicID, ok := h.pathID(c, "comicId")
	if !ok {
		return
	}
	if err := h.service.RemoveComic(c.Request.Context(), collID, comicID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Comic removed successfully.", nil)
}

func (h *Handler) deleteCollection(c *gin.Context) {
	collID, ok := h.pathID(c, "collectionId")
	if !ok {
		return
	}
	if err := h.service.DeleteCollection(c.Request.Context(), collID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Collection and associated comics deleted successfully.", nil)
}

func (h *Handler) toggleFavorite(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	comicID, ok := h.pathID(c, "comicId")
	if !ok {
		return
	}

	// An inline payload is optional; unknown ids without one are a 404.
	var inline *AddComicRequest
	if c.Request.ContentLength > 0 {
		var req AddComicRequest
		if !h.bindJSON(c, &req) {
			return
		}
		inline = &req
	}

	favorites, err := h.service.ToggleFavorite(c.Request.Context(), userID, comicID, inline)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Favorites updated.", gin.H{"favorites": favorites})
}

func (h *Handler) listFavorites(c *gin.Context) {
	userID, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	favorites, err := h.service.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Favorites retrieved successfully.", gin.H{"favorites": favorites})
}
