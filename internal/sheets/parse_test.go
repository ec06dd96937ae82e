package sheets

import (
	"testing"
	"time"

	"github.com/courtsync/concilia-backend/internal/model"
)

func TestStringField(t *testing.T) {
	row := map[string]any{
		"Grupo_Código": "G7",
		"Cancha":       float64(3),
		"Hora":         "  16:00  ",
		"Nivel":        float64(2.5),
		"Activo":       true,
		"Vacio":        "",
		"Nulo":         nil,
	}

	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"alternate spelling", []string{"Grupo_Codigo", "Grupo_Código"}, "G7"},
		{"integral float renders without decimals", []string{"Cancha"}, "3"},
		{"fractional float", []string{"Nivel"}, "2.5"},
		{"bool renders as text", []string{"Activo"}, "true"},
		{"whitespace trimmed", []string{"Hora"}, "16:00"},
		{"empty skipped in favor of later key", []string{"Vacio", "Hora"}, "16:00"},
		{"nil skipped", []string{"Nulo", "Cancha"}, "3"},
		{"missing", []string{"NoExiste"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stringField(row, tt.keys...); got != tt.want {
				t.Errorf("stringField(%v) = %q, want %q", tt.keys, got, tt.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{true, "true", "TRUE", " True ", "1", float64(1)} {
		if !truthy(v) {
			t.Errorf("truthy(%v) = false", v)
		}
	}
	for _, v := range []any{false, "false", "0", "si", float64(0), nil, ""} {
		if truthy(v) {
			t.Errorf("truthy(%v) = true", v)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2026-01-13", "2026-01-13"},
		{"2026-01-13T05:00:00.000Z", "2026-01-13"},
		{"13/01/2026", "13/01/2026"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeDate(tt.in); got != tt.want {
			t.Errorf("normalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseAttendanceRows(t *testing.T) {
	rows := []map[string]any{
		{
			"Fecha": "2026-01-13T05:00:00.000Z", "Grupo_Codigo": "G1",
			"Estudiante_ID": float64(101), "Estado": "Presente",
			"Tipo_Clase": "Regular", "Enviado_Por": "admin@club",
		},
		{"Fecha": "2026-01-13", "Grupo_Código": "G2", "Estudiante_ID": "S2", "Estado": "Ausente"},
		{"Grupo_Codigo": "G3", "Estudiante_ID": "S3", "Estado": "Presente"}, // no date
		{"Fecha": "2026-01-13", "Estudiante_ID": "S4"},                      // no group
		{"Fecha": "2026-01-13", "Grupo_Codigo": "G5"},                       // no student
	}

	got := ParseAttendanceRows(rows, model.SourceInstructor)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2 (unkeyable rows dropped)", len(got))
	}
	first := got[0]
	if first.Date != "2026-01-13" {
		t.Errorf("date not normalized: %q", first.Date)
	}
	if first.StudentID != "101" {
		t.Errorf("numeric id = %q, want rendered string", first.StudentID)
	}
	if first.Source != model.SourceInstructor || got[1].Source != model.SourceInstructor {
		t.Error("source must be stamped from the feed")
	}
	if got[1].GroupCode != "G2" {
		t.Errorf("accented group column not read: %q", got[1].GroupCode)
	}
}

func TestParseScheduleRows(t *testing.T) {
	rows := []map[string]any{
		{
			"Codigo": "G1", "Hora": "16:00", "Profe": "Laura", "Cancha": float64(1),
			"Dias": "Martes y Jueves", "Martes": true, "Jueves": "TRUE", "Lunes": false,
		},
		{"Código": "G2", "Horario": "17:00", "Profesor": "Marco", "Miércoles": "1"},
		{"Hora": "18:00"}, // no code
		{"Codigo": "G1", "Hora": "16:30", "Profe": "Laura"}, // duplicate, last wins
	}

	got := ParseScheduleRows(rows)
	if len(got) != 2 {
		t.Fatalf("got %d schedules, want 2", len(got))
	}

	g1 := got["G1"]
	if g1.TimeSlot != "16:30" {
		t.Errorf("duplicate code: time slot = %q, want the later row", g1.TimeSlot)
	}

	g2 := got["G2"]
	if g2.TimeSlot != "17:00" || g2.Instructor != "Marco" {
		t.Errorf("alternate column spellings not read: %+v", g2)
	}
	if g2.DayFlags[time.Wednesday] == nil || !*g2.DayFlags[time.Wednesday] {
		t.Error("accented weekday column must set the flag")
	}
	if g2.DayFlags[time.Tuesday] != nil {
		t.Error("absent weekday column must stay nil, not false")
	}
}

func TestParseScheduleRowsExplicitFalseFlag(t *testing.T) {
	got := ParseScheduleRows([]map[string]any{
		{"Codigo": "G1", "Dias": "Lunes", "Lunes": false},
	})
	flag := got["G1"].DayFlags[time.Monday]
	if flag == nil || *flag {
		t.Fatal("explicit false must be kept distinct from missing")
	}
}

func TestParseDirectoryRows(t *testing.T) {
	got := ParseDirectoryRows([]map[string]any{
		{"ID": float64(101), "Nombre": "Ana Pérez"},
		{"ID": "S2"},             // no name
		{"Nombre": "Sin Cédula"}, // no id
	})
	if len(got) != 1 || got["101"] != "Ana Pérez" {
		t.Fatalf("directory = %v", got)
	}
}

func TestParseReviewRows(t *testing.T) {
	rows := []map[string]any{
		{
			"ID_Revision": "REV_1768327200000", "Fecha": "2026-01-13T05:00:00.000Z",
			"Grupo_Codigo": "G1", "profesor": "Laura",
			"Estado_Revision": "Aprobado", "Notas": "todo bien",
			"Revisado_Por": "Coordinador", "Timestamp": "2026-01-13T18:00:00Z",
		},
		{"ID_Revision": "REV_2", "Grupo_Codigo": "G2"}, // no date
		{"Fecha": "2026-01-13", "Grupo_Codigo": "G3", "Estado_Revision": "Pendiente"},
	}

	got := ParseReviewRows(rows)
	if len(got) != 2 {
		t.Fatalf("got %d reviews, want 2", len(got))
	}
	first := got[0]
	if first.Date != "2026-01-13" {
		t.Errorf("date not normalized: %q", first.Date)
	}
	if first.Outcome != model.OutcomeApproved {
		t.Errorf("outcome = %q", first.Outcome)
	}
	if want := time.Date(2026, 1, 13, 18, 0, 0, 0, time.UTC); !first.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", first.Timestamp, want)
	}
	if got[1].Outcome != model.OutcomeHeld || !got[1].Timestamp.IsZero() {
		t.Errorf("minimal row parsed wrong: %+v", got[1])
	}
}

func TestReviewWireColumns(t *testing.T) {
	rec := model.ReviewRecord{
		ReviewID: "REV_1", Date: "2026-01-13", GroupCode: "G1",
		Instructor: "Laura", Outcome: model.OutcomeCancelledWeather,
		Notes: "lluvia fuerte", ReviewedBy: "Coordinador",
		Timestamp: time.Date(2026, 1, 13, 18, 0, 0, 0, time.UTC),
	}
	wire := reviewWire(rec)
	want := map[string]any{
		"ID_Revision":     "REV_1",
		"Fecha":           "2026-01-13",
		"Grupo_Codigo":    "G1",
		"profesor":        "Laura",
		"Estado_Revision": "Cancelada_Lluvia",
		"Notas":           "lluvia fuerte",
		"Revisado_Por":    "Coordinador",
		"Timestamp":       "2026-01-13T18:00:00Z",
	}
	for k, v := range want {
		if wire[k] != v {
			t.Errorf("wire[%q] = %v, want %v", k, wire[k], v)
		}
	}
}
