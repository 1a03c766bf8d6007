package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookride/internal/domain"
	"bookride/internal/service"
)

// CatalogHandler serves the static vehicle category and promotion catalogs.
type CatalogHandler struct {
	promos *service.PromotionService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(promos *service.PromotionService) *CatalogHandler {
	return &CatalogHandler{promos: promos}
}

// GetCategories handles GET /v1/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	respondJSON(c, http.StatusOK, domain.VehicleCategories())
}

// GetPromotions handles GET /v1/promotions
func (h *CatalogHandler) GetPromotions(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.promos.Active(c.Request.Context()))
}
