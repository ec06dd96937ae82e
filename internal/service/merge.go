package service

import (
	"github.com/courtsync/concilia-backend/internal/model"
)

// MergeSessions groups both attendance feeds into per-(date, group)
// sessions with per-student dual-source pairs. Pure derivation: the
// same snapshot always yields a content-equal session map. Map order
// carries no meaning; display grouping happens downstream.
func MergeSessions(snap *model.Snapshot) map[string]*model.ClassSession {
	n := len(snap.Administrative) + len(snap.Instructor)
	rows := make([]model.AttendanceRecord, 0, n)
	rows = append(rows, snap.Administrative...)
	rows = append(rows, snap.Instructor...)

	sessions := make(map[string]*model.ClassSession)
	for i := range rows {
		rec := &rows[i]

		key := model.SessionKey(rec.Date, rec.GroupCode)
		sess, ok := sessions[key]
		if !ok {
			sess = &model.ClassSession{
				Date:      rec.Date,
				GroupCode: rec.GroupCode,
				Students:  make(map[string]*model.StudentRecordPair),
			}
			if sched, found := snap.Schedules[rec.GroupCode]; found {
				sess.TimeSlot = sched.TimeSlot
				sess.Instructor = sched.Instructor
				sess.Venue = sched.Venue
				sess.MeetsOnWeekday = MeetsOn(&sched, rec.Date)
			} else {
				sess.MeetsOnWeekday = MeetsOn(nil, rec.Date)
			}
			sessions[key] = sess
		}

		pair, ok := sess.Students[rec.StudentID]
		if !ok {
			name := snap.Directory[rec.StudentID]
			if name == "" {
				name = rec.StudentID
			}
			pair = &model.StudentRecordPair{
				StudentID:   rec.StudentID,
				DisplayName: name,
			}
			sess.Students[rec.StudentID] = pair
		}

		// Attribution is by feed membership, stamped at parse time.
		if rec.Source == model.SourceAdministrative {
			pair.Administrative = rec
		} else {
			pair.Instructor = rec
		}
	}

	return sessions
}
