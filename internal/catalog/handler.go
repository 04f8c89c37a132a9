// File: internal/catalog/handler.go
package catalog

import (
	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for catalog search handlers.
type Handler struct {
	client *Client
	cfg    *config.Config
	logger *zap.Logger
}

// NewHandler creates a new catalog handler.
func NewHandler(client *Client, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterRoutes sets up the search proxy endpoints.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/search", h.searchTitles)
	router.GET("/api/search/character", h.searchByCharacter)
	router.GET("/api/search/series", h.searchBySeries)
}

func (h *Handler) searchTitles(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Title query is required."))
		return
	}
	page := common.GetOffsetParams(c, h.cfg.CatalogPageSize)

	result, err := h.client.SearchTitles(c.Request.Context(), title, page.Offset)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(200, result)
}

func (h *Handler) searchByCharacter(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Character name is required."))
		return
	}
	page := common.GetOffsetParams(c, h.cfg.CatalogPageSize)

	result, err := h.client.SearchByCharacter(c.Request.Context(), name, page.Offset)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(200, result)
}

func (h *Handler) searchBySeries(c *gin.Context) {
	series := c.Query("series")
	if series == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Series name is required."))
		return
	}
	page := common.GetOffsetParams(c, h.cfg.CatalogPageSize)

	result, err := h.client.SearchBySeries(c.Request.Context(), series, page.Offset)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(200, result)
}
