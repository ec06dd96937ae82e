package service

import (
	"sort"

	"github.com/courtsync/concilia-backend/internal/model"
)

// ViewMode selects which queue is being displayed.
type ViewMode string

const (
	// ViewPending shows sessions with no ledger record yet.
	ViewPending ViewMode = "pending"
	// ViewAll shows every session, reviewed or not.
	ViewAll ViewMode = "all"
)

// SessionFilters are the coordinator's active filters.
type SessionFilters struct {
	// Date restricts the session universe to one calendar date unless
	// AllDates is set.
	Date     string
	AllDates bool

	Instructor string
	Group      string
	Venue      string

	// OnlyInconsistencies hides sessions without any actionable pair.
	OnlyInconsistencies bool
}

// FilterSessions produces the visible session keys for a view. Keys are
// returned sorted for deterministic output; grouping by time slot is a
// display concern handled separately.
func FilterSessions(
	sessions map[string]*model.ClassSession,
	ledger *Ledger,
	f SessionFilters,
	view ViewMode,
) []string {
	keys := make([]string, 0, len(sessions))

	for key, sess := range sessions {
		if !f.AllDates && sess.Date != f.Date {
			continue
		}

		// Weekday gate: the group's own schedule decides per date.
		if !sess.MeetsOnWeekday {
			continue
		}

		if view == ViewPending && ledger.Contains(key) {
			continue
		}

		if f.Instructor != "" && sess.Instructor != f.Instructor {
			continue
		}
		if f.Group != "" && sess.GroupCode != f.Group {
			continue
		}
		if f.Venue != "" && sess.Venue != f.Venue {
			continue
		}

		if f.OnlyInconsistencies && !HasActionableInconsistency(sess) {
			continue
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}

// GroupByTimeSlot buckets visible sessions by their schedule time slot
// for display. Sessions without a known slot land under "Sin horario".
func GroupByTimeSlot(sessions map[string]*model.ClassSession, keys []string) map[string][]*model.ClassSession {
	groups := make(map[string][]*model.ClassSession)
	for _, key := range keys {
		sess, ok := sessions[key]
		if !ok {
			continue
		}
		slot := sess.TimeSlot
		if slot == "" {
			slot = "Sin horario"
		}
		groups[slot] = append(groups[slot], sess)
	}
	return groups
}
