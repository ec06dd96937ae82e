package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtsync/concilia-backend/internal/model"
	"github.com/courtsync/concilia-backend/internal/response"
	"github.com/courtsync/concilia-backend/internal/service"
	"github.com/courtsync/concilia-backend/internal/validator"
)

// ReviewHandler handles review submission and history.
type ReviewHandler struct {
	reviews   *service.ReviewService
	reconcile *service.ReconcileService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService, reconcile *service.ReconcileService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, reconcile: reconcile}
}

// CreateReview godoc
// POST /api/v1/reviews
// Appends one manual review and removes the session from the pending
// queue once the store accepted it.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req model.CreateReviewRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rec, err := h.reviews.SubmitReview(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, http.StatusBadGateway, response.ErrAppendFailed)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"review": rec})
}

// ListReviews godoc
// GET /api/v1/reviews
// Query: page, per_page. Returns the review history, newest first,
// plus per-outcome totals from the audit mirror.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	records := h.reviews.History()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	total := len(records)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	summary, err := h.reviews.AuditSummary(c.Request.Context())
	if err != nil {
		// History still renders without the summary row.
		summary = map[model.Outcome]int{}
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{
		"reviews": records[start:end],
		"summary": summary,
	}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// PreviewBulkApprove godoc
// GET /api/v1/reviews/bulk-approve
// Dry run: returns the drafts the planner would persist for the given
// filters, without touching the store.
func (h *ReviewHandler) PreviewBulkApprove(c *gin.Context) {
	if h.reconcile.Snapshot() == nil {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrNoSnapshot)
		return
	}

	filters, _, ok := parseSessionQuery(c)
	if !ok {
		return
	}

	drafts := h.reviews.PlanBulkApprovals(filters)
	response.Success(c, http.StatusOK, gin.H{"drafts": drafts, "total": len(drafts)})
}

// BulkApprove godoc
// POST /api/v1/reviews/bulk-approve
// Plans and persists approvals for every full-agreement pending session
// matching the filters. Appends run sequentially with the configured
// pause; the response reports each draft's individual outcome.
func (h *ReviewHandler) BulkApprove(c *gin.Context) {
	if h.reconcile.Snapshot() == nil {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrNoSnapshot)
		return
	}

	filters, _, ok := parseSessionQuery(c)
	if !ok {
		return
	}

	results := h.reviews.ExecuteBulkApprovals(c.Request.Context(), filters)

	succeeded := 0
	failed := 0
	for _, res := range results {
		if res.OK {
			succeeded++
		} else {
			failed++
		}
	}

	status := http.StatusOK
	if failed > 0 && succeeded == 0 && len(results) > 0 {
		status = http.StatusBadGateway
	}

	response.Success(c, status, gin.H{
		"results":   results,
		"succeeded": succeeded,
		"failed":    failed,
	})
}
