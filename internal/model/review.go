package model

import (
	"fmt"
	"time"
)

// Outcome is a review's final verdict. Wire values keep the original
// sheet vocabulary.
type Outcome string

const (
	OutcomeApproved         Outcome = "Aprobado"
	OutcomeHeld             Outcome = "Pendiente"
	OutcomeCancelledWeather Outcome = "Cancelada_Lluvia"
)

// Reviewer tags. The bulk tag is distinct so automatic approvals are
// always distinguishable from manual ones in the ledger.
const (
	ReviewerManual = "Coordinador"
	ReviewerBulk   = "Coordinador (Auto)"
)

// BulkApprovalNote is the fixed note attached to planner-generated
// approvals.
const BulkApprovalNote = "Aprobación automática: todos los registros coinciden"

// ReviewRecord finalizes one session. Append-only: records are never
// edited or deleted, and duplicate (date, group) entries are legal.
// The existence of any record for (date, group) is what removes the
// session from the pending queue.
type ReviewRecord struct {
	ReviewID   string    `json:"review_id"`
	Date       string    `json:"date"`
	GroupCode  string    `json:"group_code"`
	Instructor string    `json:"instructor"`
	Outcome    Outcome   `json:"outcome"`
	Notes      string    `json:"notes"`
	ReviewedBy string    `json:"reviewed_by"`
	Timestamp  time.Time `json:"timestamp"`
}

// SessionKey returns the key of the session this review closes.
func (r *ReviewRecord) SessionKey() string {
	return SessionKey(r.Date, r.GroupCode)
}

// NewReviewID derives a review id from a timestamp, keeping the
// original REV_<unix-millis> shape.
func NewReviewID(t time.Time) string {
	return fmt.Sprintf("REV_%d", t.UnixMilli())
}

// CreateReviewRequest is the payload for a manual single-session review.
type CreateReviewRequest struct {
	Date       string `json:"date" binding:"required,datetime=2006-01-02"`
	GroupCode  string `json:"group_code" binding:"required,min=1,max=50"`
	Outcome    string `json:"outcome" binding:"required,oneof=Aprobado Pendiente Cancelada_Lluvia"`
	Notes      string `json:"notes" binding:"max=500"`
	ReviewedBy string `json:"reviewed_by" binding:"omitempty,max=100"`
}
