package model

// SessionKey builds the canonical key for a class session.
func SessionKey(date, groupCode string) string {
	return date + "_" + groupCode
}

// StudentRecordPair is one student's combined record within a session.
// At least one of the two records is always present; a pair only exists
// because some source reported the student.
type StudentRecordPair struct {
	StudentID      string            `json:"student_id"`
	DisplayName    string            `json:"display_name"`
	Administrative *AttendanceRecord `json:"pf"`
	Instructor     *AttendanceRecord `json:"profe"`
}

// ClassSession is one class meeting, keyed by (date, group code).
// It is rebuilt from scratch on every raw-data change; it has no
// identity or storage of its own.
type ClassSession struct {
	Date      string `json:"date"`
	GroupCode string `json:"group_code"`

	// Schedule-derived display fields. Empty when the group is absent
	// from the schedule feed.
	TimeSlot   string `json:"time_slot"`
	Instructor string `json:"instructor"`
	Venue      string `json:"venue"`

	// MeetsOnWeekday is the schedule resolver's verdict for Date.
	// Unscheduled groups fail open to true.
	MeetsOnWeekday bool `json:"meets_on_weekday"`

	Students map[string]*StudentRecordPair `json:"students"`
}

// Key returns the session's canonical key.
func (s *ClassSession) Key() string {
	return SessionKey(s.Date, s.GroupCode)
}
