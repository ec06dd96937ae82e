package model

// Category is the closed set of reconciliation outcomes for one
// student pair. Wire values keep the original sheet vocabulary.
type Category string

const (
	CategoryAgree                 Category = "coincide"
	CategoryAgreeAbsent           Category = "coincide_ausente"
	CategoryConflict              Category = "conflicto"
	CategoryMissingAdministrative Category = "falta_pf"
	CategoryJustifiedVsAbsent     Category = "justificado_vs_ausente"
	CategoryMakeup                Category = "reposicion"
	CategoryUnknown               Category = "desconocido"
)

// Severity is the dashboard color scale for a category.
type Severity string

const (
	SeverityGreen  Severity = "green"
	SeverityRed    Severity = "red"
	SeverityYellow Severity = "yellow"
	SeverityBlue   Severity = "blue"
	SeverityGray   Severity = "gray"
)

// Classification is a pure value describing one pair's reconciliation
// outcome. Never stored, always re-derived.
type Classification struct {
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Glyph    string   `json:"glyph"`
	Detail   string   `json:"detail,omitempty"`
}

// categoryDisplay is the fixed severity/glyph table. Severity and glyph
// are a function of the category alone.
var categoryDisplay = map[Category]struct {
	Severity Severity
	Glyph    string
}{
	CategoryAgree:                 {SeverityGreen, "✓"},
	CategoryConflict:              {SeverityRed, "✗"},
	CategoryMissingAdministrative: {SeverityYellow, "△"},
	CategoryJustifiedVsAbsent:     {SeverityYellow, "△"},
	CategoryMakeup:                {SeverityBlue, "●"},
	CategoryAgreeAbsent:           {SeverityGray, "○"},
	CategoryUnknown:               {SeverityGray, "?"},
}

// NewClassification builds a Classification from a category and an
// optional detail message, filling severity and glyph from the table.
func NewClassification(cat Category, detail string) Classification {
	d, ok := categoryDisplay[cat]
	if !ok {
		d = categoryDisplay[CategoryUnknown]
	}
	return Classification{Category: cat, Severity: d.Severity, Glyph: d.Glyph, Detail: detail}
}

// Actionable reports whether the category is an actionable
// inconsistency, i.e. one a coordinator must look at before closing
// the session.
func (c Category) Actionable() bool {
	return c == CategoryConflict || c == CategoryMissingAdministrative
}

// FullAgreement reports whether the category counts toward automatic
// bulk approval. Only plain agreement qualifies; makeup, justified and
// missing records all require a human.
func (c Category) FullAgreement() bool {
	return c == CategoryAgree || c == CategoryAgreeAbsent
}
