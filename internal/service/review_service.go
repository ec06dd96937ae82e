package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/courtsync/concilia-backend/internal/model"
	"github.com/courtsync/concilia-backend/internal/repository"
	"github.com/courtsync/concilia-backend/internal/worker"
)

// ReviewService handles review submission: single manual reviews and
// planner-driven bulk approvals, both funneled through the throttled
// writer. The in-memory ledger and the Postgres audit mirror are only
// updated for appends the store actually accepted.
type ReviewService struct {
	writer    *worker.ReviewWriter
	reconcile *ReconcileService
	audit     *repository.ReviewAuditRepository
	log       zerolog.Logger
}

// NewReviewService creates a ReviewService. audit may be nil to disable
// the Postgres mirror (tests).
func NewReviewService(
	writer *worker.ReviewWriter,
	reconcile *ReconcileService,
	audit *repository.ReviewAuditRepository,
	log zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		writer:    writer,
		reconcile: reconcile,
		audit:     audit,
		log:       log.With().Str("component", "review_service").Logger(),
	}
}

// SubmitReview appends one manual review. The session disappears from
// the pending queue only after the store accepted the append.
func (s *ReviewService) SubmitReview(ctx context.Context, req model.CreateReviewRequest) (model.ReviewRecord, error) {
	instructor := "Sin asignar"
	if sched := s.reconcile.ScheduleFor(req.GroupCode); sched != nil && sched.Instructor != "" {
		instructor = sched.Instructor
	}

	reviewedBy := req.ReviewedBy
	if reviewedBy == "" {
		reviewedBy = model.ReviewerManual
	}

	rec := model.ReviewRecord{
		Date:       req.Date,
		GroupCode:  req.GroupCode,
		Instructor: instructor,
		Outcome:    model.Outcome(req.Outcome),
		Notes:      req.Notes,
		ReviewedBy: reviewedBy,
	}

	stamped, err := s.writer.AppendOne(ctx, rec)
	if err != nil {
		return stamped, err
	}

	s.commit(ctx, stamped)
	return stamped, nil
}

// History returns the ledger's records, newest first.
func (s *ReviewService) History() []model.ReviewRecord {
	return s.reconcile.Ledger().Records()
}

// AuditSummary aggregates mirrored reviews per outcome. Empty map when
// the mirror is disabled.
func (s *ReviewService) AuditSummary(ctx context.Context) (map[model.Outcome]int, error) {
	if s.audit == nil {
		return map[model.Outcome]int{}, nil
	}
	return s.audit.CountByOutcome(ctx)
}

// PlanBulkApprovals runs the planner over the filtered pending set
// without persisting anything.
func (s *ReviewService) PlanBulkApprovals(f SessionFilters) []model.ReviewRecord {
	keys, sessions := s.reconcile.Visible(f, ViewPending)
	return PlanApprovals(sessions, keys)
}

// ExecuteBulkApprovals plans and persists bulk approvals through the
// sequential throttled writer, returning every draft's individual
// outcome. Failed drafts stay pending; successful ones are committed to
// the ledger and the audit mirror.
func (s *ReviewService) ExecuteBulkApprovals(ctx context.Context, f SessionFilters) []worker.AppendResult {
	drafts := s.PlanBulkApprovals(f)
	results := s.writer.AppendBatch(ctx, drafts)

	for _, res := range results {
		if res.OK {
			s.commit(ctx, res.Record)
		}
	}

	s.log.Info().
		Int("planned", len(drafts)).
		Int("succeeded", countOK(results)).
		Msg("bulk approval batch finished")
	return results
}

// commit reflects an accepted append in the in-memory ledger and the
// audit mirror. A mirror failure is logged but never undoes the append.
func (s *ReviewService) commit(ctx context.Context, rec model.ReviewRecord) {
	s.reconcile.Ledger().Append(rec)
	if s.audit != nil {
		if err := s.audit.Insert(ctx, &rec); err != nil {
			s.log.Warn().Err(err).Str("review_id", rec.ReviewID).Msg("audit mirror insert failed")
		}
	}
}

func countOK(results []worker.AppendResult) int {
	n := 0
	for _, r := range results {
		if r.OK {
			n++
		}
	}
	return n
}
