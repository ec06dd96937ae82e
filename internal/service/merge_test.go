package service

import (
	"reflect"
	"testing"

	"github.com/courtsync/concilia-backend/internal/model"
)

func attendanceRow(date, group, student, status string, source model.Source) model.AttendanceRecord {
	return model.AttendanceRecord{
		Date: date, GroupCode: group, StudentID: student,
		Status: status, ClassType: "Regular", Source: source,
	}
}

func testSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Administrative: []model.AttendanceRecord{
			attendanceRow("2026-01-13", "G1", "S1", "Presente", model.SourceAdministrative),
			attendanceRow("2026-01-13", "G1", "S2", "Ausente", model.SourceAdministrative),
			attendanceRow("2026-01-13", "G2", "S3", "Presente", model.SourceAdministrative),
			attendanceRow("2026-01-14", "G1", "S1", "Presente", model.SourceAdministrative),
		},
		Instructor: []model.AttendanceRecord{
			attendanceRow("2026-01-13", "G1", "S1", "Presente", model.SourceInstructor),
			attendanceRow("2026-01-13", "G1", "S4", "Presente", model.SourceInstructor),
		},
		Schedules: map[string]model.GroupSchedule{
			"G1": {GroupCode: "G1", TimeSlot: "16:00", Instructor: "Laura", Venue: "3", DayList: "Lunes,Martes,Miercoles"},
		},
		Directory: map[string]string{"S1": "Ana Pérez", "S2": "Bruno Díaz"},
		Version:   1,
	}
}

func TestMergeSessionsGrouping(t *testing.T) {
	sessions := MergeSessions(testSnapshot())

	if len(sessions) != 3 {
		t.Fatalf("got %d sessions, want 3", len(sessions))
	}

	sess, ok := sessions["2026-01-13_G1"]
	if !ok {
		t.Fatal("missing session 2026-01-13_G1")
	}
	if len(sess.Students) != 3 {
		t.Fatalf("G1 session has %d students, want 3", len(sess.Students))
	}

	// Schedule-derived fields.
	if sess.TimeSlot != "16:00" || sess.Instructor != "Laura" || sess.Venue != "3" {
		t.Errorf("schedule fields not applied: %+v", sess)
	}
	if !sess.MeetsOnWeekday {
		t.Error("G1 meets on Tuesdays per its day list")
	}

	// G2 has no schedule entry: fail open.
	if g2 := sessions["2026-01-13_G2"]; !g2.MeetsOnWeekday {
		t.Error("unscheduled group must fail open")
	}
	if g2 := sessions["2026-01-13_G2"]; g2.TimeSlot != "" {
		t.Errorf("unscheduled group should have no time slot, got %q", g2.TimeSlot)
	}
}

func TestMergeSessionsPairing(t *testing.T) {
	sessions := MergeSessions(testSnapshot())
	sess := sessions["2026-01-13_G1"]

	s1 := sess.Students["S1"]
	if s1 == nil || s1.Administrative == nil || s1.Instructor == nil {
		t.Fatalf("S1 should have both records: %+v", s1)
	}
	if s1.Administrative.Source != model.SourceAdministrative {
		t.Error("administrative slot filled from the wrong feed")
	}
	if s1.DisplayName != "Ana Pérez" {
		t.Errorf("display name = %q, want directory name", s1.DisplayName)
	}

	// S2 only in the administrative feed.
	s2 := sess.Students["S2"]
	if s2.Administrative == nil || s2.Instructor != nil {
		t.Fatalf("S2 should be administrative-only: %+v", s2)
	}

	// S4 only in the instructor feed, not in the directory.
	s4 := sess.Students["S4"]
	if s4.Administrative != nil || s4.Instructor == nil {
		t.Fatalf("S4 should be instructor-only: %+v", s4)
	}
	if s4.DisplayName != "S4" {
		t.Errorf("unknown student should fall back to id, got %q", s4.DisplayName)
	}
}

func TestMergeSessionsIdempotent(t *testing.T) {
	snap := testSnapshot()
	first := MergeSessions(snap)
	second := MergeSessions(snap)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("re-merging the same snapshot must yield an equal session map")
	}
}
