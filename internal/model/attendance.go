package model

// Source identifies which feed an attendance record originated from.
// Attribution is by feed membership, never by inspecting the row's
// Enviado_Por tag (the tag is kept for display only).
type Source string

const (
	// SourceAdministrative is the front-desk ("PF") attendance feed.
	SourceAdministrative Source = "pf"
	// SourceInstructor is the instructor attendance feed.
	SourceInstructor Source = "profe"
)

// Canonical attendance status values as they appear on the sheet.
// Status is free text upstream; anything outside this set is still
// carried through and classified gracefully.
const (
	StatusPresent    = "Presente"
	StatusAbsent     = "Ausente"
	StatusJustified  = "Justificado"
	StatusJustifiedF = "Justificada"
)

// ClassTypeMakeup marks a make-up class ("Reposicion") in the
// administrative feed.
const ClassTypeMakeup = "Reposicion"

// AttendanceRecord is one student's attendance row for one session from
// one source. Immutable once fetched; the core only reads it.
type AttendanceRecord struct {
	Date        string `json:"date"` // YYYY-MM-DD
	GroupCode   string `json:"group_code"`
	StudentID   string `json:"student_id"`
	Status      string `json:"status"`
	ClassType   string `json:"class_type"`
	SubmittedBy string `json:"submitted_by"`
	Source      Source `json:"source"`
}

// IsMakeup reports whether the record marks a make-up class.
func (r *AttendanceRecord) IsMakeup() bool {
	return r != nil && r.ClassType == ClassTypeMakeup
}
