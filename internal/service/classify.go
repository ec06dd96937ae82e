package service

import (
	"fmt"
	"strings"

	"github.com/courtsync/concilia-backend/internal/model"
)

// Classify reduces one student pair to a single reconciliation
// category. Pure and total: every reachable pair gets exactly one
// category, and free-text statuses never panic. Rules are evaluated in
// order; the first match wins.
func Classify(pair *model.StudentRecordPair) model.Classification {
	pf := pair.Administrative
	profe := pair.Instructor

	// Make-up classes are informational, never a disagreement.
	if pf != nil && pf.IsMakeup() {
		return model.NewClassification(model.CategoryMakeup, "")
	}

	// Only the instructor reported the student.
	if pf == nil && profe != nil {
		return model.NewClassification(model.CategoryMissingAdministrative, "Falta en PF")
	}

	// Only the front desk reported the student. No instructor record
	// means an implicit absent on the instructor's side.
	if pf != nil && profe == nil {
		switch strings.ToLower(pf.Status) {
		case "presente":
			return model.NewClassification(model.CategoryConflict,
				fmt.Sprintf("PF: %s vs Profe: Ausente (no marcó)", pf.Status))
		case "ausente":
			return model.NewClassification(model.CategoryAgreeAbsent, "Ambos ausentes")
		case "justificado", "justificada":
			return model.NewClassification(model.CategoryJustifiedVsAbsent,
				fmt.Sprintf("PF: %s vs Profe: Ausente (no marcó)", pf.Status))
		default:
			// Free-text status with nothing to compare against.
			return model.NewClassification(model.CategoryUnknown, "")
		}
	}

	// Both sources reported: compare statuses case-insensitively but
	// echo the original spellings in the detail.
	if pf != nil && profe != nil {
		if strings.EqualFold(pf.Status, profe.Status) {
			if strings.EqualFold(pf.Status, "presente") {
				return model.NewClassification(model.CategoryAgree, "")
			}
			return model.NewClassification(model.CategoryAgreeAbsent, "")
		}
		return model.NewClassification(model.CategoryConflict,
			fmt.Sprintf("PF: %s vs Profe: %s", pf.Status, profe.Status))
	}

	// Unreachable for well-formed pairs, but must not panic.
	return model.NewClassification(model.CategoryUnknown, "")
}

// HasActionableInconsistency reports whether any pair in the session
// needs a coordinator's attention.
func HasActionableInconsistency(sess *model.ClassSession) bool {
	for _, pair := range sess.Students {
		if Classify(pair).Category.Actionable() {
			return true
		}
	}
	return false
}
