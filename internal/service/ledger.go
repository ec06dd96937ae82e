package service

import (
	"sort"
	"sync"

	"github.com/courtsync/concilia-backend/internal/model"
)

// Ledger is the append-only collection of finalized sessions. Records
// are never edited or removed in-process; duplicates for the same
// (date, group) are tolerated. Membership of a session key is the sole
// signal that a session is no longer pending, regardless of outcome.
type Ledger struct {
	mu      sync.RWMutex
	records []model.ReviewRecord
	keys    map[string]struct{}
}

// NewLedger builds a ledger from existing review records (the reviews
// feed at refresh time).
func NewLedger(records []model.ReviewRecord) *Ledger {
	l := &Ledger{
		records: make([]model.ReviewRecord, 0, len(records)),
		keys:    make(map[string]struct{}, len(records)),
	}
	for _, rec := range records {
		l.append(rec)
	}
	return l
}

// Append adds one finalization record.
func (l *Ledger) Append(rec model.ReviewRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.append(rec)
}

func (l *Ledger) append(rec model.ReviewRecord) {
	l.records = append(l.records, rec)
	l.keys[rec.SessionKey()] = struct{}{}
}

// Contains reports whether any record exists for the session key.
func (l *Ledger) Contains(sessionKey string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.keys[sessionKey]
	return ok
}

// Records returns a copy of all records, newest first.
func (l *Ledger) Records() []model.ReviewRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.ReviewRecord, len(l.records))
	copy(out, l.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
