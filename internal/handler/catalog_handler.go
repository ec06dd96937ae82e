package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtsync/concilia-backend/internal/response"
	"github.com/courtsync/concilia-backend/internal/service"
)

// CatalogHandler serves the filter dropdown values.
type CatalogHandler struct {
	reconcile *service.ReconcileService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(reconcile *service.ReconcileService) *CatalogHandler {
	return &CatalogHandler{reconcile: reconcile}
}

// GetCatalog godoc
// GET /api/v1/catalog
// Returns the distinct instructors, group codes and venues known to the
// schedule feed.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	instructors, groups, venues := h.reconcile.Catalog()

	response.Success(c, http.StatusOK, gin.H{
		"instructors": instructors,
		"groups":      groups,
		"venues":      venues,
	})
}
