// Package service implements the reconciliation core: session merging,
// inconsistency classification, schedule resolution, pending-set
// filtering, bulk approval planning and the review ledger.
package service

import (
	"strings"
	"time"

	"github.com/courtsync/concilia-backend/internal/model"
)

// dateLayout is a calendar date as it appears on the sheets.
const dateLayout = "2006-01-02"

// MeetsOn reports whether a group meets on the given date's weekday.
// Unknown schedules fail open: a group missing from the schedule feed
// is shown every day rather than silently hidden. The weekday comes
// from the fixed Sunday=0 table in model, with the date treated as a
// pure calendar value so no timezone can shift it.
func MeetsOn(sched *model.GroupSchedule, date string) bool {
	if sched == nil {
		return true
	}

	t, err := time.Parse(dateLayout, date)
	if err != nil {
		// Unparseable dates cannot be gated; keep the session visible.
		return true
	}
	wd := int(t.Weekday())

	// An explicit weekday flag, true or false, wins over the day list.
	if flag := sched.DayFlags[wd]; flag != nil {
		return *flag
	}

	if sched.DayList != "" {
		list := strings.ToLower(sched.DayList)
		return strings.Contains(list, strings.ToLower(model.WeekdayNames[wd])) ||
			strings.Contains(list, strings.ToLower(model.WeekdayNamesAccented[wd]))
	}

	return false
}
