package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/courtsync/concilia-backend/internal/model"
	"github.com/courtsync/concilia-backend/internal/sheets"
	"github.com/courtsync/concilia-backend/internal/worker"
)

// fakeFetcher serves canned rows per sheet and can fail selectively.
type fakeFetcher struct {
	rows map[string][]map[string]any
	errs map[string]error
}

func (f *fakeFetcher) FetchFeed(_ context.Context, sheet string) ([]map[string]any, error) {
	if err := f.errs[sheet]; err != nil {
		return nil, err
	}
	return f.rows[sheet], nil
}

// fakeAppender records appended reviews and can fail selected groups.
type fakeAppender struct {
	appended   []model.ReviewRecord
	failGroups map[string]bool
}

func (f *fakeAppender) AppendReview(_ context.Context, rec model.ReviewRecord) error {
	if f.failGroups[rec.GroupCode] {
		return errors.New("store unreachable")
	}
	f.appended = append(f.appended, rec)
	return nil
}

func attendanceSheetRow(date, group, student, status string) map[string]any {
	return map[string]any{
		"Fecha": date, "Grupo_Codigo": group, "Estudiante_ID": student,
		"Estado": status, "Tipo_Clase": "Regular",
	}
}

func cleanFetcher() *fakeFetcher {
	return &fakeFetcher{rows: map[string][]map[string]any{
		sheets.SheetAdministrative: {
			attendanceSheetRow("2026-01-13", "G1", "S1", "Presente"),
			attendanceSheetRow("2026-01-13", "G2", "S2", "Presente"),
		},
		sheets.SheetInstructor: {
			attendanceSheetRow("2026-01-13", "G1", "S1", "Presente"),
			attendanceSheetRow("2026-01-13", "G2", "S2", "Ausente"),
		},
		sheets.SheetSchedule: {
			{"Codigo": "G1", "Hora": "16:00", "Profe": "Laura", "Cancha": "1", "Dias": "Martes"},
			{"Codigo": "G2", "Hora": "17:00", "Profe": "Marco", "Cancha": "2", "Dias": "Martes"},
		},
		sheets.SheetDirectory: {
			{"ID": "S1", "Nombre": "Ana Pérez"},
		},
		sheets.SheetReviews: {},
	}}
}

func newTestReconcile(f *fakeFetcher) *ReconcileService {
	return NewReconcileService(f, nil, zerolog.Nop())
}

func TestRefreshBuildsSnapshot(t *testing.T) {
	svc := newTestReconcile(cleanFetcher())

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	snap := svc.Snapshot()
	if snap == nil || snap.Version != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(snap.Administrative) != 2 || len(snap.Instructor) != 2 || len(snap.Schedules) != 2 {
		t.Fatalf("unexpected feed sizes: %+v", snap)
	}

	sessions := svc.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions["2026-01-13_G1"].Students["S1"].DisplayName != "Ana Pérez" {
		t.Error("directory lookup not applied")
	}
}

func TestRefreshAbortsOnRequiredFeedFailure(t *testing.T) {
	f := cleanFetcher()
	svc := newTestReconcile(f)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	f.errs = map[string]error{
		sheets.SheetSchedule: fmt.Errorf("%w: maestro_grupos: missing data field", sheets.ErrMalformedFeed),
	}
	err := svc.Refresh(context.Background())
	if err == nil {
		t.Fatal("refresh must fail on a malformed required feed")
	}
	if !errors.Is(err, sheets.ErrMalformedFeed) {
		t.Fatalf("error must be distinguishable as malformed: %v", err)
	}

	// Previous snapshot stays live.
	if snap := svc.Snapshot(); snap == nil || snap.Version != 1 {
		t.Fatalf("previous snapshot lost: %+v", snap)
	}
}

func TestRefreshDegradesOptionalFeeds(t *testing.T) {
	f := cleanFetcher()
	f.errs = map[string]error{
		sheets.SheetDirectory: errors.New("timeout"),
		sheets.SheetReviews:   errors.New("timeout"),
	}
	svc := newTestReconcile(f)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("optional feed failures must not abort: %v", err)
	}

	// Names fall back to ids, ledger is empty.
	sessions := svc.Sessions()
	if sessions["2026-01-13_G1"].Students["S1"].DisplayName != "S1" {
		t.Error("missing directory should fall back to the id")
	}
	if svc.Ledger().Len() != 0 {
		t.Error("missing reviews feed should yield an empty ledger")
	}
}

func TestSessionsMemoizedPerVersion(t *testing.T) {
	svc := newTestReconcile(cleanFetcher())
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	first := svc.Sessions()
	second := svc.Sessions()
	if fmt.Sprintf("%p", first) != fmt.Sprintf("%p", second) {
		t.Fatal("same snapshot version must reuse the memoized session map")
	}

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	third := svc.Sessions()
	if fmt.Sprintf("%p", first) == fmt.Sprintf("%p", third) {
		t.Fatal("a new snapshot version must rebuild the session map")
	}
}

// Full round trip: a clean session is planned, appended and disappears
// from the pending queue; a conflicted one survives everything.
func TestBulkApproveRoundTrip(t *testing.T) {
	svc := newTestReconcile(cleanFetcher())
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	store := &fakeAppender{}
	writer := worker.NewReviewWriter(store, 0, zerolog.Nop())
	reviews := NewReviewService(writer, svc, nil, zerolog.Nop())

	filters := SessionFilters{Date: "2026-01-13"}

	drafts := reviews.PlanBulkApprovals(filters)
	if len(drafts) != 1 || drafts[0].GroupCode != "G1" {
		t.Fatalf("only G1 is full agreement, got %+v", drafts)
	}

	results := reviews.ExecuteBulkApprovals(context.Background(), filters)
	if len(results) != 1 || !results[0].OK {
		t.Fatalf("results = %+v", results)
	}
	if len(store.appended) != 1 || store.appended[0].ReviewID == "" {
		t.Fatalf("store should hold one stamped record: %+v", store.appended)
	}

	keys, _ := svc.Visible(filters, ViewPending)
	if len(keys) != 1 || keys[0] != "2026-01-13_G2" {
		t.Fatalf("pending after approval = %v, want only the conflicted G2", keys)
	}
}

func TestBulkApproveFailedAppendStaysPending(t *testing.T) {
	svc := newTestReconcile(cleanFetcher())
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	store := &fakeAppender{failGroups: map[string]bool{"G1": true}}
	writer := worker.NewReviewWriter(store, 0, zerolog.Nop())
	reviews := NewReviewService(writer, svc, nil, zerolog.Nop())

	filters := SessionFilters{Date: "2026-01-13"}
	results := reviews.ExecuteBulkApprovals(context.Background(), filters)
	if len(results) != 1 || results[0].OK {
		t.Fatalf("append should have failed: %+v", results)
	}

	// Failed draft is not reflected in the ledger.
	keys, _ := svc.Visible(filters, ViewPending)
	found := false
	for _, key := range keys {
		if key == "2026-01-13_G1" {
			found = true
		}
	}
	if !found {
		t.Fatal("failed append must leave the session pending")
	}
}

func TestSubmitReview(t *testing.T) {
	svc := newTestReconcile(cleanFetcher())
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	store := &fakeAppender{}
	writer := worker.NewReviewWriter(store, 0, zerolog.Nop())
	reviews := NewReviewService(writer, svc, nil, zerolog.Nop())

	rec, err := reviews.SubmitReview(context.Background(), model.CreateReviewRequest{
		Date: "2026-01-13", GroupCode: "G2",
		Outcome: string(model.OutcomeHeld), Notes: "revisar con Marco",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.ReviewID == "" || rec.Timestamp.IsZero() {
		t.Fatalf("record not stamped: %+v", rec)
	}
	if rec.Instructor != "Marco" {
		t.Errorf("instructor = %q, want schedule lookup", rec.Instructor)
	}
	if rec.ReviewedBy != model.ReviewerManual {
		t.Errorf("reviewed_by = %q, want manual default", rec.ReviewedBy)
	}

	// Held still gates the pending queue.
	keys, _ := svc.Visible(SessionFilters{Date: "2026-01-13"}, ViewPending)
	for _, key := range keys {
		if key == "2026-01-13_G2" {
			t.Fatal("held session must leave the pending queue")
		}
	}

	if got := reviews.History(); len(got) != 1 || got[0].ReviewID != rec.ReviewID {
		t.Fatalf("history = %+v", got)
	}
}

func TestCatalog(t *testing.T) {
	svc := newTestReconcile(cleanFetcher())
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	instructors, groups, venues := svc.Catalog()
	if len(instructors) != 2 || instructors[0] != "Laura" || instructors[1] != "Marco" {
		t.Errorf("instructors = %v", instructors)
	}
	if len(groups) != 2 || groups[0] != "G1" {
		t.Errorf("groups = %v", groups)
	}
	if len(venues) != 2 || venues[0] != "1" {
		t.Errorf("venues = %v", venues)
	}
}
