// Package worker holds the background refresh loop and the throttled
// review write queue.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtsync/concilia-backend/internal/model"
)

// ReviewAppender is the slice of the sheet client the writer needs.
// Satisfied by *sheets.Client.
type ReviewAppender interface {
	AppendReview(ctx context.Context, rec model.ReviewRecord) error
}

// AppendResult reports one draft's persistence outcome.
type AppendResult struct {
	Record model.ReviewRecord `json:"record"`
	OK     bool               `json:"ok"`
	Error  string             `json:"error,omitempty"`
}

// ReviewWriter appends review records to the sheet store strictly
// sequentially, pausing between writes. The store throttles its write
// rate; the pause is a backpressure contract with it, not a tunable.
type ReviewWriter struct {
	client ReviewAppender
	delay  time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

// NewReviewWriter creates a ReviewWriter.
func NewReviewWriter(client ReviewAppender, delay time.Duration, log zerolog.Logger) *ReviewWriter {
	return &ReviewWriter{
		client: client,
		delay:  delay,
		log:    log.With().Str("component", "review_writer").Logger(),
		now:    time.Now,
	}
}

// AppendOne stamps and appends a single record, returning the stamped
// record.
func (w *ReviewWriter) AppendOne(ctx context.Context, rec model.ReviewRecord) (model.ReviewRecord, error) {
	stamped := w.stamp(rec)
	if err := w.client.AppendReview(ctx, stamped); err != nil {
		return stamped, err
	}
	return stamped, nil
}

// AppendBatch executes drafts in order with the configured pause before
// every append after the first. One failed append never blocks the
// rest of the batch; each draft's outcome is accumulated individually.
// Context cancellation stops the queue, marking the remaining drafts
// failed with the context error.
func (w *ReviewWriter) AppendBatch(ctx context.Context, drafts []model.ReviewRecord) []AppendResult {
	results := make([]AppendResult, 0, len(drafts))

	for i, draft := range drafts {
		if i > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(w.delay):
			}
		}
		if err := ctx.Err(); err != nil {
			for _, rest := range drafts[i:] {
				results = append(results, AppendResult{Record: rest, Error: err.Error()})
			}
			return results
		}

		stamped := w.stamp(draft)
		if err := w.client.AppendReview(ctx, stamped); err != nil {
			w.log.Error().Err(err).
				Str("date", stamped.Date).
				Str("group", stamped.GroupCode).
				Msg("append failed, continuing batch")
			results = append(results, AppendResult{Record: stamped, Error: err.Error()})
			continue
		}
		results = append(results, AppendResult{Record: stamped, OK: true})
	}

	return results
}

// stamp assigns the time-derived review id and timestamp at append
// time, so planner drafts stay deterministic until execution.
func (w *ReviewWriter) stamp(rec model.ReviewRecord) model.ReviewRecord {
	t := w.now().UTC()
	if rec.ReviewID == "" {
		rec.ReviewID = model.NewReviewID(t)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = t
	}
	return rec
}
