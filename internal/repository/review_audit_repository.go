package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtsync/concilia-backend/internal/model"
)

// ReviewAuditRepository mirrors successfully appended reviews into
// Postgres. The sheet store stays the system of record for the pending
// gate; the mirror exists for durable, queryable history and audit.
type ReviewAuditRepository struct {
	pool *pgxpool.Pool
}

// NewReviewAuditRepository creates a new ReviewAuditRepository.
func NewReviewAuditRepository(pool *pgxpool.Pool) *ReviewAuditRepository {
	return &ReviewAuditRepository{pool: pool}
}

// Insert records one appended review.
func (r *ReviewAuditRepository) Insert(ctx context.Context, rec *model.ReviewRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO review_audit (review_id, session_date, group_code, instructor, outcome, notes, reviewed_by, reviewed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ReviewID, rec.Date, rec.GroupCode, rec.Instructor,
		string(rec.Outcome), rec.Notes, rec.ReviewedBy, rec.Timestamp,
	)
	return err
}

// List returns the most recent mirrored reviews, newest first.
func (r *ReviewAuditRepository) List(ctx context.Context, limit int) ([]model.ReviewRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT review_id, session_date, group_code, instructor, outcome, notes, reviewed_by, reviewed_at
		 FROM review_audit ORDER BY reviewed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ReviewRecord
	for rows.Next() {
		var rec model.ReviewRecord
		var outcome string
		if err := rows.Scan(&rec.ReviewID, &rec.Date, &rec.GroupCode, &rec.Instructor,
			&outcome, &rec.Notes, &rec.ReviewedBy, &rec.Timestamp); err != nil {
			return nil, err
		}
		rec.Outcome = model.Outcome(outcome)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByOutcome aggregates mirrored reviews per outcome, for the
// history view's summary row.
func (r *ReviewAuditRepository) CountByOutcome(ctx context.Context) (map[model.Outcome]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT outcome, COUNT(*) FROM review_audit GROUP BY outcome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.Outcome]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[model.Outcome(outcome)] = n
	}
	return counts, rows.Err()
}
