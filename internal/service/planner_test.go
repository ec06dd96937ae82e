package service

import (
	"reflect"
	"testing"

	"github.com/courtsync/concilia-backend/internal/model"
)

// plannerSessions builds one clean session and one session per
// disqualifying category.
func plannerSessions() (map[string]*model.ClassSession, []string) {
	snap := &model.Snapshot{
		Administrative: []model.AttendanceRecord{
			// Clean: agree + agree-absent.
			attendanceRow("2026-01-13", "A1", "S1", "Presente", model.SourceAdministrative),
			attendanceRow("2026-01-13", "A1", "S2", "Ausente", model.SourceAdministrative),
			// Conflict.
			attendanceRow("2026-01-13", "B1", "S1", "Presente", model.SourceAdministrative),
			// Makeup.
			{Date: "2026-01-13", GroupCode: "C1", StudentID: "S1", Status: "Presente", ClassType: "Reposicion", Source: model.SourceAdministrative},
			// Justified vs absent.
			attendanceRow("2026-01-13", "D1", "S1", "Justificado", model.SourceAdministrative),
			// Another clean one, to check ordering.
			attendanceRow("2026-01-13", "A0", "S1", "Presente", model.SourceAdministrative),
		},
		Instructor: []model.AttendanceRecord{
			attendanceRow("2026-01-13", "A1", "S1", "Presente", model.SourceInstructor),
			attendanceRow("2026-01-13", "A1", "S2", "Ausente", model.SourceInstructor),
			attendanceRow("2026-01-13", "B1", "S1", "Ausente", model.SourceInstructor),
			attendanceRow("2026-01-13", "A0", "S1", "Presente", model.SourceInstructor),
			// Missing administrative.
			attendanceRow("2026-01-13", "E1", "S9", "Presente", model.SourceInstructor),
		},
		Schedules: map[string]model.GroupSchedule{
			"A1": {GroupCode: "A1", Instructor: "Laura"},
		},
		Version: 1,
	}

	sessions := MergeSessions(snap)
	keys := make([]string, 0, len(sessions))
	for key := range sessions {
		keys = append(keys, key)
	}
	return sessions, keys
}

func TestPlanApprovalsExclusivity(t *testing.T) {
	sessions, keys := plannerSessions()
	drafts := PlanApprovals(sessions, keys)

	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2 (only full-agreement sessions): %+v", len(drafts), drafts)
	}
	for _, d := range drafts {
		switch d.GroupCode {
		case "A0", "A1":
		default:
			t.Errorf("session %s_%s must not be auto-approved", d.Date, d.GroupCode)
		}
	}
}

func TestPlanApprovalsDraftShape(t *testing.T) {
	sessions, keys := plannerSessions()
	drafts := PlanApprovals(sessions, keys)

	// Deterministic session-key order: A0 before A1.
	if drafts[0].GroupCode != "A0" || drafts[1].GroupCode != "A1" {
		t.Fatalf("drafts out of order: %+v", drafts)
	}

	for _, d := range drafts {
		if d.Outcome != model.OutcomeApproved {
			t.Errorf("outcome = %q", d.Outcome)
		}
		if d.Notes != model.BulkApprovalNote {
			t.Errorf("notes = %q", d.Notes)
		}
		if d.ReviewedBy != model.ReviewerBulk {
			t.Errorf("reviewed_by = %q, must be the automated tag", d.ReviewedBy)
		}
		// Stamping happens at append time, not planning time.
		if d.ReviewID != "" || !d.Timestamp.IsZero() {
			t.Errorf("draft must be unstamped: %+v", d)
		}
	}

	// Instructor resolved from schedule, with explicit fallback.
	if drafts[1].Instructor != "Laura" {
		t.Errorf("A1 instructor = %q", drafts[1].Instructor)
	}
	if drafts[0].Instructor != "Sin asignar" {
		t.Errorf("A0 instructor = %q, want fallback", drafts[0].Instructor)
	}
}

func TestPlanApprovalsDeterministic(t *testing.T) {
	sessions, keys := plannerSessions()

	first := PlanApprovals(sessions, keys)
	second := PlanApprovals(sessions, keys)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("planning the same input twice must yield identical drafts")
	}

	// Input key order must not matter.
	reversed := make([]string, len(keys))
	for i, key := range keys {
		reversed[len(keys)-1-i] = key
	}
	third := PlanApprovals(sessions, reversed)
	if !reflect.DeepEqual(first, third) {
		t.Fatal("draft order must not depend on input key order")
	}
}
