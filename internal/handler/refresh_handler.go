package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtsync/concilia-backend/internal/response"
	"github.com/courtsync/concilia-backend/internal/service"
	"github.com/courtsync/concilia-backend/internal/sheets"
)

// RefreshHandler triggers an immediate feed reload.
type RefreshHandler struct {
	reconcile *service.ReconcileService
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(reconcile *service.ReconcileService) *RefreshHandler {
	return &RefreshHandler{reconcile: reconcile}
}

// Refresh godoc
// POST /api/v1/refresh
// Forces a refresh cycle now instead of waiting for the worker's next
// tick. A malformed feed is reported distinctly from a transport
// failure; in both cases the previous snapshot stays live.
func (h *RefreshHandler) Refresh(c *gin.Context) {
	if err := h.reconcile.Refresh(c.Request.Context()); err != nil {
		if errors.Is(err, sheets.ErrMalformedFeed) {
			response.Fail(c, http.StatusBadGateway, response.ErrMalformedFeed)
			return
		}
		response.Fail(c, http.StatusBadGateway, response.ErrFeedUnavailable)
		return
	}

	snap := h.reconcile.Snapshot()
	response.Success(c, http.StatusOK, gin.H{
		"version":    snap.Version,
		"fetched_at": snap.FetchedAt,
		"sessions":   len(h.reconcile.Sessions()),
	})
}
