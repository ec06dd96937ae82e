package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher is the slice of the reconcile service the worker drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshWorker reloads the feed snapshot on a fixed interval. A failed
// cycle (malformed feed, network) keeps the previous snapshot live and
// is retried on the next tick.
type RefreshWorker struct {
	reconcile Refresher
	interval  time.Duration
	log       zerolog.Logger
}

// NewRefreshWorker creates a RefreshWorker.
func NewRefreshWorker(reconcile Refresher, interval time.Duration, log zerolog.Logger) *RefreshWorker {
	return &RefreshWorker{
		reconcile: reconcile,
		interval:  interval,
		log:       log.With().Str("component", "refresh_worker").Logger(),
	}
}

// Start runs the refresh loop until the context is cancelled. The first
// refresh happens immediately so the server has data as soon as the
// upstream answers.
func (w *RefreshWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("RefreshWorker started")

	if err := w.reconcile.Refresh(ctx); err != nil {
		w.log.Error().Err(err).Msg("initial refresh failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("RefreshWorker stopped")
			return
		case <-ticker.C:
			if err := w.reconcile.Refresh(ctx); err != nil {
				w.log.Error().Err(err).Msg("refresh cycle failed, keeping previous snapshot")
			}
		}
	}
}
