package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtsync/concilia-backend/internal/model"
	"github.com/courtsync/concilia-backend/internal/response"
	"github.com/courtsync/concilia-backend/internal/service"
)

// SessionHandler serves the reconciled session views.
type SessionHandler struct {
	reconcile *service.ReconcileService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(reconcile *service.ReconcileService) *SessionHandler {
	return &SessionHandler{reconcile: reconcile}
}

// StudentView is one classified pair as the dashboard renders it.
type StudentView struct {
	StudentID      string               `json:"student_id"`
	DisplayName    string               `json:"display_name"`
	Classification model.Classification `json:"classification"`
	PFStatus       string               `json:"pf_status"`
	InstructorStatus string             `json:"instructor_status"`
}

// SessionView is one session with its classified students.
type SessionView struct {
	Key              string        `json:"key"`
	Date             string        `json:"date"`
	GroupCode        string        `json:"group_code"`
	TimeSlot         string        `json:"time_slot"`
	Instructor       string        `json:"instructor"`
	Venue            string        `json:"venue"`
	HasInconsistency bool          `json:"has_inconsistency"`
	Students         []StudentView `json:"students"`
}

// TimeSlotGroup buckets sessions under one display time slot.
type TimeSlotGroup struct {
	TimeSlot string        `json:"time_slot"`
	Sessions []SessionView `json:"sessions"`
}

// ListSessions godoc
// GET /api/v1/sessions
// Query: date (YYYY-MM-DD, defaults to today), all_dates, view
// (pending|all), instructor, group, venue, only_inconsistencies.
// Returns visible sessions grouped by time slot.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	if h.reconcile.Snapshot() == nil {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrNoSnapshot)
		return
	}

	filters, view, ok := parseSessionQuery(c)
	if !ok {
		return
	}

	keys, sessions := h.reconcile.Visible(filters, view)
	grouped := service.GroupByTimeSlot(sessions, keys)

	slots := make([]string, 0, len(grouped))
	for slot := range grouped {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	out := make([]TimeSlotGroup, 0, len(slots))
	for _, slot := range slots {
		group := TimeSlotGroup{TimeSlot: slot}
		for _, sess := range grouped[slot] {
			group.Sessions = append(group.Sessions, buildSessionView(sess))
		}
		sort.Slice(group.Sessions, func(i, j int) bool {
			return group.Sessions[i].Key < group.Sessions[j].Key
		})
		out = append(out, group)
	}

	response.Success(c, http.StatusOK, gin.H{
		"time_slots": out,
		"total":      len(keys),
		"snapshot": gin.H{
			"version":    h.reconcile.Snapshot().Version,
			"fetched_at": h.reconcile.Snapshot().FetchedAt,
		},
	})
}

func parseSessionQuery(c *gin.Context) (service.SessionFilters, service.ViewMode, bool) {
	filters := service.SessionFilters{
		Date:                c.Query("date"),
		AllDates:            c.Query("all_dates") == "true",
		Instructor:          c.Query("instructor"),
		Group:               c.Query("group"),
		Venue:               c.Query("venue"),
		OnlyInconsistencies: c.Query("only_inconsistencies") == "true",
	}

	if filters.Date == "" {
		filters.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", filters.Date); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
		return filters, "", false
	}

	view := service.ViewPending
	if c.Query("view") == "all" {
		view = service.ViewAll
	}
	return filters, view, true
}

func buildSessionView(sess *model.ClassSession) SessionView {
	view := SessionView{
		Key:        sess.Key(),
		Date:       sess.Date,
		GroupCode:  sess.GroupCode,
		TimeSlot:   sess.TimeSlot,
		Instructor: sess.Instructor,
		Venue:      sess.Venue,
	}

	for _, pair := range sess.Students {
		cls := service.Classify(pair)
		if cls.Category.Actionable() {
			view.HasInconsistency = true
		}
		view.Students = append(view.Students, StudentView{
			StudentID:        pair.StudentID,
			DisplayName:      pair.DisplayName,
			Classification:   cls,
			PFStatus:         statusOr(pair.Administrative, "No registrado"),
			InstructorStatus: statusOr(pair.Instructor, "Ausente (no marcó)"),
		})
	}
	sort.Slice(view.Students, func(i, j int) bool {
		return view.Students[i].DisplayName < view.Students[j].DisplayName
	})
	return view
}

func statusOr(rec *model.AttendanceRecord, fallback string) string {
	if rec == nil {
		return fallback
	}
	return rec.Status
}
