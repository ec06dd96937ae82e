package service

import (
	"sort"

	"github.com/courtsync/concilia-backend/internal/model"
)

// PlanApprovals scans the pending session keys and drafts one approval
// per full-agreement session: every pair classifies as Agree or
// AgreeAbsent. Any conflict, missing record, make-up or justified pair
// disqualifies the session — those always need a human.
//
// Drafts are emitted in session-key order and carry no review id or
// timestamp; both are stamped at append time by the writer. Planning
// the same input twice therefore yields identical output.
func PlanApprovals(sessions map[string]*model.ClassSession, pendingKeys []string) []model.ReviewRecord {
	keys := make([]string, len(pendingKeys))
	copy(keys, pendingKeys)
	sort.Strings(keys)

	var drafts []model.ReviewRecord
	for _, key := range keys {
		sess, ok := sessions[key]
		if !ok || !fullAgreement(sess) {
			continue
		}
		instructor := sess.Instructor
		if instructor == "" {
			instructor = "Sin asignar"
		}
		drafts = append(drafts, model.ReviewRecord{
			Date:       sess.Date,
			GroupCode:  sess.GroupCode,
			Instructor: instructor,
			Outcome:    model.OutcomeApproved,
			Notes:      model.BulkApprovalNote,
			ReviewedBy: model.ReviewerBulk,
		})
	}
	return drafts
}

func fullAgreement(sess *model.ClassSession) bool {
	if len(sess.Students) == 0 {
		return false
	}
	for _, pair := range sess.Students {
		if !Classify(pair).Category.FullAgreement() {
			return false
		}
	}
	return true
}
