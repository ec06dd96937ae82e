package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/courtsync/concilia-backend/internal/config"
	"github.com/courtsync/concilia-backend/internal/model"
	"github.com/courtsync/concilia-backend/internal/sheets"
)

// SnapshotRepository persists the last-good normalized feed snapshot in
// Redis so a restarted server can serve data before its first upstream
// fetch, and publishes refresh events for the websocket stream.
type SnapshotRepository struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(rdb *redis.Client, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		rdb: rdb,
		log: log.With().Str("component", "snapshot_repository").Logger(),
	}
}

// snapshotMeta is the bookkeeping stored beside the feed payloads.
type snapshotMeta struct {
	FetchedAt time.Time `json:"fetched_at"`
	Version   uint64    `json:"version"`
}

// RefreshEvent is the message published on the refresh channel after a
// snapshot swap.
type RefreshEvent struct {
	Version   uint64    `json:"version"`
	FetchedAt time.Time `json:"fetched_at"`
	Sessions  int       `json:"sessions"`
}

// Save stores each feed under its own key plus the meta record. Uses a
// pipeline so the snapshot lands as one round trip.
func (r *SnapshotRepository) Save(ctx context.Context, snap *model.Snapshot) error {
	entries := map[string]any{
		config.CacheKey.SnapshotKey(sheets.SheetAdministrative): snap.Administrative,
		config.CacheKey.SnapshotKey(sheets.SheetInstructor):     snap.Instructor,
		config.CacheKey.SnapshotKey(sheets.SheetSchedule):       snap.Schedules,
		config.CacheKey.SnapshotKey(sheets.SheetDirectory):      snap.Directory,
		config.CacheKey.SnapshotKey(sheets.SheetReviews):        snap.Reviews,
		config.CacheKey.SnapshotMetaKey():                       snapshotMeta{FetchedAt: snap.FetchedAt, Version: snap.Version},
	}

	pipe := r.rdb.Pipeline()
	for key, v := range entries {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		pipe.Set(ctx, key, payload, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// Load reads the cached snapshot. Returns (nil, nil) when no snapshot
// has ever been stored.
func (r *SnapshotRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	raw, err := r.rdb.Get(ctx, config.CacheKey.SnapshotMetaKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot meta: %w", err)
	}

	var meta snapshotMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode snapshot meta: %w", err)
	}

	snap := &model.Snapshot{FetchedAt: meta.FetchedAt, Version: meta.Version}
	feeds := map[string]any{
		sheets.SheetAdministrative: &snap.Administrative,
		sheets.SheetInstructor:     &snap.Instructor,
		sheets.SheetSchedule:       &snap.Schedules,
		sheets.SheetDirectory:      &snap.Directory,
		sheets.SheetReviews:        &snap.Reviews,
	}
	for sheet, dst := range feeds {
		payload, err := r.rdb.Get(ctx, config.CacheKey.SnapshotKey(sheet)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // Partial cache: leave the feed empty.
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", sheet, err)
		}
		if err := json.Unmarshal(payload, dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", sheet, err)
		}
	}
	return snap, nil
}

// PublishRefresh announces a completed refresh cycle.
func (r *SnapshotRepository) PublishRefresh(ctx context.Context, ev RefreshEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := r.rdb.Publish(ctx, config.CacheKey.RefreshChannel(), payload).Err(); err != nil {
		r.log.Warn().Err(err).Msg("refresh publish failed")
	}
}

// SubscribeRefresh subscribes to refresh events. Caller closes the
// returned PubSub.
func (r *SnapshotRepository) SubscribeRefresh(ctx context.Context) *redis.PubSub {
	return r.rdb.Subscribe(ctx, config.CacheKey.RefreshChannel())
}
