package sheets

import (
	"fmt"
	"strings"
	"time"

	"github.com/courtsync/concilia-backend/internal/model"
)

// The sheet rows are loosely typed: numbers arrive as float64, booleans
// as bool or string, and some columns exist under more than one
// spelling. This file maps that mess onto the strict model types.
// Individual field variants default gracefully; only the envelope shape
// is ever fatal (see client.go).

// stringField returns the first non-empty value among the given column
// spellings, rendered as a string.
func stringField(row map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := row[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			if t == float64(int64(t)) {
				return fmt.Sprintf("%d", int64(t))
			}
			return fmt.Sprintf("%g", t)
		case bool:
			return fmt.Sprintf("%t", t)
		}
	}
	return ""
}

// truthy implements the sheet's loose boolean convention: bool true,
// "true"/"TRUE"/"True", "1" and numeric 1 all count as true.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.TrimSpace(t)
		return strings.EqualFold(s, "true") || s == "1"
	case float64:
		return t == 1
	}
	return false
}

// normalizeDate reduces a sheet date cell to YYYY-MM-DD. Apps Script
// sometimes serializes date cells as full ISO timestamps.
func normalizeDate(raw string) string {
	if i := strings.IndexByte(raw, 'T'); i == 10 {
		raw = raw[:10]
	}
	return raw
}

// ParseAttendanceRows normalizes one attendance feed. The source tag is
// stamped from the feed the rows came from, never read off the row.
// Rows missing date, group or student are dropped (they cannot be keyed
// into any session).
func ParseAttendanceRows(rows []map[string]any, source model.Source) []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		rec := model.AttendanceRecord{
			Date:        normalizeDate(stringField(row, "Fecha")),
			GroupCode:   stringField(row, "Grupo_Codigo", "Grupo_Código"),
			StudentID:   stringField(row, "Estudiante_ID"),
			Status:      stringField(row, "Estado"),
			ClassType:   stringField(row, "Tipo_Clase"),
			SubmittedBy: stringField(row, "Enviado_Por"),
			Source:      source,
		}
		if rec.Date == "" || rec.GroupCode == "" || rec.StudentID == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// ParseScheduleRows normalizes the group schedule feed into a map by
// group code. Last-seen wins on duplicate codes.
func ParseScheduleRows(rows []map[string]any) map[string]model.GroupSchedule {
	out := make(map[string]model.GroupSchedule, len(rows))
	for _, row := range rows {
		code := stringField(row, "Codigo", "Código")
		if code == "" {
			continue
		}
		sched := model.GroupSchedule{
			GroupCode:  code,
			TimeSlot:   stringField(row, "Hora", "Horario"),
			Instructor: stringField(row, "Profe", "Profesor"),
			Venue:      stringField(row, "Cancha"),
			DayList:    stringField(row, "Dias", "Días"),
		}
		for i := range model.WeekdayNames {
			if v, ok := dayFlag(row, i); ok {
				b := v
				sched.DayFlags[i] = &b
			}
		}
		out[code] = sched
	}
	return out
}

// dayFlag looks up the weekday flag column under either spelling.
// The second return reports whether the column exists at all.
func dayFlag(row map[string]any, weekday int) (bool, bool) {
	for _, name := range []string{model.WeekdayNames[weekday], model.WeekdayNamesAccented[weekday]} {
		if v, ok := row[name]; ok && v != nil {
			return truthy(v), true
		}
	}
	return false, false
}

// ParseDirectoryRows normalizes the student directory into an
// id → display name map.
func ParseDirectoryRows(rows []map[string]any) map[string]string {
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		id := stringField(row, "ID")
		name := stringField(row, "Nombre")
		if id != "" && name != "" {
			out[id] = name
		}
	}
	return out
}

// ParseReviewRows normalizes the review feed. Rows without a date or
// group cannot gate any session and are dropped.
func ParseReviewRows(rows []map[string]any) []model.ReviewRecord {
	out := make([]model.ReviewRecord, 0, len(rows))
	for _, row := range rows {
		rec := model.ReviewRecord{
			ReviewID:   stringField(row, "ID_Revision"),
			Date:       normalizeDate(stringField(row, "Fecha")),
			GroupCode:  stringField(row, "Grupo_Codigo", "Grupo_Código"),
			Instructor: stringField(row, "profesor", "Profesor"),
			Outcome:    model.Outcome(stringField(row, "Estado_Revision")),
			Notes:      stringField(row, "Notas"),
			ReviewedBy: stringField(row, "Revisado_Por"),
		}
		if rec.Date == "" || rec.GroupCode == "" {
			continue
		}
		if ts := stringField(row, "Timestamp"); ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				rec.Timestamp = t
			}
		}
		out = append(out, rec)
	}
	return out
}

// reviewWire renders a ReviewRecord with the sheet's column names for
// the append POST.
func reviewWire(rec model.ReviewRecord) map[string]any {
	return map[string]any{
		"ID_Revision":     rec.ReviewID,
		"Fecha":           rec.Date,
		"Grupo_Codigo":    rec.GroupCode,
		"profesor":        rec.Instructor,
		"Estado_Revision": string(rec.Outcome),
		"Notas":           rec.Notes,
		"Revisado_Por":    rec.ReviewedBy,
		"Timestamp":       rec.Timestamp.UTC().Format(time.RFC3339),
	}
}
