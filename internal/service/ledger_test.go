package service

import (
	"testing"
	"time"

	"github.com/courtsync/concilia-backend/internal/model"
)

func TestLedgerExistenceGate(t *testing.T) {
	ledger := NewLedger(nil)

	key := model.SessionKey("2026-01-13", "G1")
	if ledger.Contains(key) {
		t.Fatal("empty ledger should not contain anything")
	}

	ledger.Append(model.ReviewRecord{
		ReviewID: "REV_1", Date: "2026-01-13", GroupCode: "G1",
		Outcome: model.OutcomeCancelledWeather, Timestamp: time.Now(),
	})
	if !ledger.Contains(key) {
		t.Fatal("appended session must be contained regardless of outcome")
	}

	// Duplicates are tolerated, not merged.
	ledger.Append(model.ReviewRecord{
		ReviewID: "REV_2", Date: "2026-01-13", GroupCode: "G1",
		Outcome: model.OutcomeApproved, Timestamp: time.Now(),
	})
	if ledger.Len() != 2 {
		t.Fatalf("len = %d, want 2 (duplicate keys are legal)", ledger.Len())
	}
}

func TestLedgerRecordsNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 13, 18, 0, 0, 0, time.UTC)
	ledger := NewLedger([]model.ReviewRecord{
		{ReviewID: "REV_old", Date: "2026-01-12", GroupCode: "G1", Timestamp: base.Add(-time.Hour)},
		{ReviewID: "REV_new", Date: "2026-01-13", GroupCode: "G1", Timestamp: base},
	})

	records := ledger.Records()
	if records[0].ReviewID != "REV_new" {
		t.Fatalf("records[0] = %s, want newest first", records[0].ReviewID)
	}

	// The returned slice is a copy; mutating it must not corrupt state.
	records[0].ReviewID = "mutated"
	if ledger.Records()[0].ReviewID != "REV_new" {
		t.Fatal("Records must return a copy")
	}
}
