package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtsync/concilia-backend/internal/model"
	"github.com/courtsync/concilia-backend/internal/repository"
	"github.com/courtsync/concilia-backend/internal/sheets"
)

// FeedFetcher is the slice of the sheet client the reconcile service
// needs. Satisfied by *sheets.Client.
type FeedFetcher interface {
	FetchFeed(ctx context.Context, sheet string) ([]map[string]any, error)
}

// ReconcileService owns the current feed snapshot and derives sessions
// and the review ledger from it. Derivation is pure: the session map is
// a function of the snapshot alone, memoized by snapshot version so
// repeated requests between refreshes never recompute.
type ReconcileService struct {
	client    FeedFetcher
	snapshots *repository.SnapshotRepository
	log       zerolog.Logger

	mu      sync.RWMutex
	snap    *model.Snapshot
	ledger  *Ledger
	version uint64

	memoMu       sync.Mutex
	memoVersion  uint64
	memoSessions map[string]*model.ClassSession
}

// NewReconcileService creates a ReconcileService. snapshots may be nil
// to disable the Redis cache (tests).
func NewReconcileService(client FeedFetcher, snapshots *repository.SnapshotRepository, log zerolog.Logger) *ReconcileService {
	return &ReconcileService{
		client:    client,
		snapshots: snapshots,
		ledger:    NewLedger(nil),
		log:       log.With().Str("component", "reconcile_service").Logger(),
	}
}

// requiredSheets must parse for a refresh cycle to land. The directory
// and review feeds degrade gracefully instead.
var requiredSheets = []string{sheets.SheetAdministrative, sheets.SheetInstructor, sheets.SheetSchedule}

// Refresh fetches all five feeds concurrently, normalizes them and
// swaps the snapshot atomically. A malformed or unreachable required
// feed aborts the cycle with the previous snapshot left intact; the
// error wraps sheets.ErrMalformedFeed when the shape was the problem.
func (s *ReconcileService) Refresh(ctx context.Context) error {
	type fetchResult struct {
		rows []map[string]any
		err  error
	}

	allSheets := []string{
		sheets.SheetAdministrative, sheets.SheetInstructor,
		sheets.SheetSchedule, sheets.SheetDirectory, sheets.SheetReviews,
	}
	results := make(map[string]*fetchResult, len(allSheets))
	var wg sync.WaitGroup
	for _, sheet := range allSheets {
		res := &fetchResult{}
		results[sheet] = res
		wg.Add(1)
		go func(sheet string, res *fetchResult) {
			defer wg.Done()
			res.rows, res.err = s.client.FetchFeed(ctx, sheet)
		}(sheet, res)
	}
	wg.Wait()

	for _, sheet := range requiredSheets {
		if err := results[sheet].err; err != nil {
			return fmt.Errorf("refresh aborted: %w", err)
		}
	}
	for _, sheet := range []string{sheets.SheetDirectory, sheets.SheetReviews} {
		if err := results[sheet].err; err != nil {
			s.log.Warn().Err(err).Str("sheet", sheet).Msg("optional feed unavailable, degrading")
			results[sheet].rows = nil
		}
	}

	snap := &model.Snapshot{
		Administrative: sheets.ParseAttendanceRows(results[sheets.SheetAdministrative].rows, model.SourceAdministrative),
		Instructor:     sheets.ParseAttendanceRows(results[sheets.SheetInstructor].rows, model.SourceInstructor),
		Schedules:      sheets.ParseScheduleRows(results[sheets.SheetSchedule].rows),
		Directory:      sheets.ParseDirectoryRows(results[sheets.SheetDirectory].rows),
		Reviews:        sheets.ParseReviewRows(results[sheets.SheetReviews].rows),
		FetchedAt:      time.Now().UTC(),
	}

	s.mu.Lock()
	s.version++
	snap.Version = s.version
	s.snap = snap
	s.ledger = NewLedger(snap.Reviews)
	s.mu.Unlock()

	s.log.Info().
		Uint64("version", snap.Version).
		Int("pf_rows", len(snap.Administrative)).
		Int("profe_rows", len(snap.Instructor)).
		Int("groups", len(snap.Schedules)).
		Int("reviews", len(snap.Reviews)).
		Msg("snapshot refreshed")

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, snap); err != nil {
			s.log.Warn().Err(err).Msg("snapshot cache save failed")
		}
		s.snapshots.PublishRefresh(ctx, repository.RefreshEvent{
			Version:   snap.Version,
			FetchedAt: snap.FetchedAt,
			Sessions:  len(s.Sessions()),
		})
	}
	return nil
}

// RestoreFromCache loads the last-good snapshot from Redis, letting a
// restarted server answer before its first upstream fetch. No-op when
// the cache is empty or disabled.
func (s *ReconcileService) RestoreFromCache(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.Load(ctx)
	if err != nil || snap == nil {
		return err
	}
	if snap.Version == 0 {
		snap.Version = 1
	}

	s.mu.Lock()
	if s.snap == nil {
		s.snap = snap
		s.ledger = NewLedger(snap.Reviews)
		s.version = snap.Version
	}
	s.mu.Unlock()

	s.log.Info().Uint64("version", snap.Version).Time("fetched_at", snap.FetchedAt).Msg("snapshot restored from cache")
	return nil
}

// Snapshot returns the current snapshot, or nil before the first load.
func (s *ReconcileService) Snapshot() *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Ledger returns the live review ledger.
func (s *ReconcileService) Ledger() *Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger
}

// Sessions returns the session map derived from the current snapshot,
// memoized per snapshot version.
func (s *ReconcileService) Sessions() map[string]*model.ClassSession {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap == nil {
		return map[string]*model.ClassSession{}
	}

	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	if s.memoSessions != nil && s.memoVersion == snap.Version {
		return s.memoSessions
	}
	s.memoSessions = MergeSessions(snap)
	s.memoVersion = snap.Version
	return s.memoSessions
}

// Visible applies the pending-set filter over the current sessions and
// returns the visible keys plus the session map they index.
func (s *ReconcileService) Visible(f SessionFilters, view ViewMode) ([]string, map[string]*model.ClassSession) {
	sessions := s.Sessions()
	keys := FilterSessions(sessions, s.Ledger(), f, view)
	return keys, sessions
}

// ScheduleFor looks up a group's schedule, nil when unknown.
func (s *ReconcileService) ScheduleFor(groupCode string) *model.GroupSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil
	}
	if sched, ok := s.snap.Schedules[groupCode]; ok {
		return &sched
	}
	return nil
}

// Catalog returns the distinct instructors, group codes and venues from
// the schedule feed, sorted, for the dashboard filter dropdowns.
func (s *ReconcileService) Catalog() (instructors, groups, venues []string) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap == nil {
		return nil, nil, nil
	}

	iSet := make(map[string]struct{})
	gSet := make(map[string]struct{})
	vSet := make(map[string]struct{})
	for _, sched := range snap.Schedules {
		if sched.Instructor != "" {
			iSet[sched.Instructor] = struct{}{}
		}
		gSet[sched.GroupCode] = struct{}{}
		if sched.Venue != "" {
			vSet[sched.Venue] = struct{}{}
		}
	}
	return sortedKeys(iSet), sortedKeys(gSet), sortedKeys(vSet)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
