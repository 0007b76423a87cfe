package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gyesanghoe/gyesanghoe/internal/datasync"
	"github.com/gyesanghoe/gyesanghoe/internal/model"
	"github.com/gyesanghoe/gyesanghoe/internal/session"
)

type StateHandler struct {
	registry *session.Registry
	syncer   *datasync.Syncer
	logger   *slog.Logger
}

func NewStateHandler(registry *session.Registry, syncer *datasync.Syncer, logger *slog.Logger) *StateHandler {
	return &StateHandler{registry: registry, syncer: syncer, logger: logger}
}

type homeStats struct {
	MemberCount      int `json:"member_count"`
	GradeCount       int `json:"grade_count"`
	PastMeetingCount int `json:"past_meeting_count"`
	NoticeCount      int `json:"notice_count"`
}

// viewState is the session snapshot plus everything derived from it
// against the loaded data, so the client renders from one response.
type viewState struct {
	session.State
	Grades          []int          `json:"grades"`
	Members         []model.Member `json:"members"`
	SelectedMember  *model.Member  `json:"selected_member,omitempty"`
	SelectedMeeting *model.Meeting `json:"selected_meeting,omitempty"`
	Upcoming        *model.Meeting `json:"upcoming,omitempty"`
	UpcomingBanner  string         `json:"upcoming_banner,omitempty"`
	Stats           homeStats      `json:"stats"`
}

func (h *StateHandler) view(sess *session.Session) viewState {
	st := sess.State()
	members := h.syncer.Members()
	meetings := h.syncer.Meetings()
	notices := h.syncer.Notices()

	grades := session.Grades(members)
	if grades == nil {
		grades = []int{}
	}
	past := 0
	for _, mt := range meetings {
		if !mt.IsUpcoming {
			past++
		}
	}

	v := viewState{
		State:   st,
		Grades:  grades,
		Members: session.FilterMembers(members, st.SearchQuery, st.GradeFilter),
		Stats: homeStats{
			MemberCount:      len(members),
			GradeCount:       len(grades),
			PastMeetingCount: past,
			NoticeCount:      len(notices),
		},
	}

	if st.SelectedMemberID != 0 {
		if m, ok := h.syncer.MemberByID(st.SelectedMemberID); ok {
			v.SelectedMember = m
		}
	}
	if st.SelectedMeetingID != 0 {
		if mt, ok := h.syncer.MeetingByID(st.SelectedMeetingID); ok {
			v.SelectedMeeting = mt
		}
	}
	if up, ok := h.syncer.UpcomingMeeting(); ok {
		v.Upcoming = up
		v.UpcomingBanner = fmt.Sprintf("참석 예정: %d명", len(up.Expected))
	}
	return v
}

// Create starts a new session at the splash screen and hands the token
// back as a cookie.
func (h *StateHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.registry.Create()
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, sess.State())
}

// End discards the caller's session and expires the cookie. The next
// visit starts over anonymous at the splash screen.
func (h *StateHandler) End(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		h.registry.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// requireSession resolves the caller's session or writes a 401.
func (h *StateHandler) requireSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := sessionFrom(r, h.registry)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "no session")
	}
	return sess
}

func (h *StateHandler) AdvanceSplash(w http.ResponseWriter, r *http.Request) {
	sess := h.requireSession(w, r)
	if sess == nil {
		return
	}
	if err := sess.AdvanceSplash(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sess := h.requireSession(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, h.view(sess))
}

type navigateRequest struct {
	Page string `json:"page"`
}

func (h *StateHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	sess := h.requireSession(w, r)
	if sess == nil {
		return
	}

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := sess.Navigate(session.Page(req.Page)); err != nil {
		status := http.StatusConflict
		if errors.Is(err, session.ErrUnknownPage) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.view(sess))
}

type selectRequest struct {
	ID int64 `json:"id"`
}

func (h *StateHandler) SelectMember(w http.ResponseWriter, r *http.Request) {
	sess := h.requireSession(w, r)
	if sess == nil {
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if _, ok := h.syncer.MemberByID(req.ID); !ok {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	if err := sess.SelectMember(req.ID); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.view(sess))
}

func (h *StateHandler) SelectMeeting(w http.ResponseWriter, r *http.Request) {
	sess := h.requireSession(w, r)
	if sess == nil {
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if _, ok := h.syncer.MeetingByID(req.ID); !ok {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	if err := sess.SelectMeeting(req.ID); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.view(sess))
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *StateHandler) Search(w http.ResponseWriter, r *http.Request) {
	sess := h.requireSession(w, r)
	if sess == nil {
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess.SetSearch(req.Query)
	writeJSON(w, http.StatusOK, h.view(sess))
}

type gradeFilterRequest struct {
	Grade string `json:"grade"`
}

func (h *StateHandler) FilterGrade(w http.ResponseWriter, r *http.Request) {
	sess := h.requireSession(w, r)
	if sess == nil {
		return
	}

	var req gradeFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := sess.SetGradeFilter(req.Grade); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.view(sess))
}
