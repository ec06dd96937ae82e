package model

// WeekdayNames maps time.Weekday ordering (Sunday=0 … Saturday=6) to
// the unaccented Spanish names used on the schedule sheet. Fixed table,
// never taken from the runtime locale.
var WeekdayNames = [7]string{
	"Domingo", "Lunes", "Martes", "Miercoles", "Jueves", "Viernes", "Sabado",
}

// WeekdayNamesAccented holds the accented spellings. The sheet mixes
// both, so day-list matching tolerates either.
var WeekdayNamesAccented = [7]string{
	"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado",
}

// GroupSchedule describes one group's weekly recurrence and display
// attributes. At most one per group code; last-seen wins on duplicates.
type GroupSchedule struct {
	GroupCode  string `json:"group_code"`
	TimeSlot   string `json:"time_slot"`
	Instructor string `json:"instructor"`
	Venue      string `json:"venue"`

	// DayFlags holds the per-weekday boolean columns, Sunday=0.
	// A nil entry means the column was absent for that weekday, which
	// is distinct from an explicit false.
	DayFlags [7]*bool `json:"day_flags"`

	// DayList is the legacy free-text day list (e.g. "Lunes,Miercoles"),
	// consulted only when the weekday's flag column is absent.
	DayList string `json:"day_list"`
}
