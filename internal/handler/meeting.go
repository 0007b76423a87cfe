package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gyesanghoe/gyesanghoe/internal/datasync"
	"github.com/gyesanghoe/gyesanghoe/internal/model"
	"github.com/gyesanghoe/gyesanghoe/internal/store"
)

type MeetingHandler struct {
	store  *store.MeetingStore
	roster *store.RosterStore
	syncer *datasync.Syncer
	logger *slog.Logger
}

func NewMeetingHandler(s *store.MeetingStore, roster *store.RosterStore, syncer *datasync.Syncer, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{store: s, roster: roster, syncer: syncer, logger: logger}
}

// List serves the loaded meeting collection, newest first, with
// attendees, expected roster, and photos populated.
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.syncer.Meetings())
}

type meetingSaveRequest struct {
	model.MeetingDraft
	// AttendeeIDs replaces the attendee roster on save. Ignored for
	// upcoming meetings, whose roster is managed through the
	// expected-attendance toggle instead.
	AttendeeIDs []int64 `json:"attendee_ids"`
}

func (h *MeetingHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req meetingSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	h.save(w, r, req)
}

// Update is the path-addressed form of Save.
func (h *MeetingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req meetingSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.ID = id
	h.save(w, r, req)
}

func (h *MeetingHandler) save(w http.ResponseWriter, r *http.Request, req meetingSaveRequest) {
	req.MeetingDate = strings.TrimSpace(req.MeetingDate)
	req.Place = strings.TrimSpace(req.Place)
	if req.MeetingDate == "" {
		writeError(w, http.StatusBadRequest, "meeting_date is required")
		return
	}
	if req.Place == "" {
		writeError(w, http.StatusBadRequest, "place is required")
		return
	}

	ctx := r.Context()
	var (
		meeting *model.Meeting
		err     error
	)
	if req.ID != 0 {
		existing, getErr := h.store.GetByID(ctx, req.ID)
		if getErr != nil {
			writeError(w, http.StatusInternalServerError, "failed to get meeting")
			return
		}
		if existing == nil {
			writeError(w, http.StatusNotFound, "meeting not found")
			return
		}
		meeting, err = h.store.Update(ctx, req.ID, req.MeetingDraft)
	} else {
		meeting, err = h.store.Create(ctx, req.MeetingDraft)
	}
	if err != nil {
		h.logger.Error("save meeting", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save meeting")
		return
	}

	if !meeting.IsUpcoming && req.AttendeeIDs != nil {
		if err := h.roster.ReplaceAttendees(ctx, meeting.ID, req.AttendeeIDs); err != nil {
			h.logger.Error("replace attendees", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save attendees")
			return
		}
	}

	if err := h.syncer.LoadMeetings(ctx); err != nil {
		h.logger.Error("reload meetings", "error", err)
		writeError(w, http.StatusInternalServerError, "saved but failed to reload meetings")
		return
	}

	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	if enriched, ok := h.syncer.MeetingByID(meeting.ID); ok {
		meeting = enriched
	}
	writeJSON(w, status, meeting)
}

func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx := r.Context()
	existing, err := h.store.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meeting")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		h.logger.Error("delete meeting", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete meeting")
		return
	}

	if err := h.syncer.LoadMeetings(ctx); err != nil {
		h.logger.Error("reload meetings", "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

type toggleExpectedResponse struct {
	Expected bool `json:"expected"`
}

// ToggleExpected flips a member's expected-attendance mark on an
// upcoming meeting in a single transaction, so two rapid taps land as
// two toggles rather than a lost update.
func (h *MeetingHandler) ToggleExpected(w http.ResponseWriter, r *http.Request) {
	meetingID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}
	memberID, err := strconv.ParseInt(r.PathValue("memberID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	ctx := r.Context()
	meeting, err := h.store.GetByID(ctx, meetingID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meeting")
		return
	}
	if meeting == nil {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	expected, err := h.roster.ToggleExpected(ctx, meetingID, memberID)
	if err != nil {
		h.logger.Error("toggle expected", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle expected attendance")
		return
	}

	if err := h.syncer.LoadMeetings(ctx); err != nil {
		h.logger.Error("reload meetings", "error", err)
		writeError(w, http.StatusInternalServerError, "toggled but failed to reload meetings")
		return
	}

	writeJSON(w, http.StatusOK, toggleExpectedResponse{Expected: expected})
}

type replaceAttendeesRequest struct {
	MemberIDs []int64 `json:"member_ids"`
}

// ReplaceAttendees overwrites a meeting's attendee roster.
func (h *MeetingHandler) ReplaceAttendees(w http.ResponseWriter, r *http.Request) {
	meetingID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}

	var req replaceAttendeesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx := r.Context()
	meeting, err := h.store.GetByID(ctx, meetingID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meeting")
		return
	}
	if meeting == nil {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	if err := h.roster.ReplaceAttendees(ctx, meetingID, req.MemberIDs); err != nil {
		h.logger.Error("replace attendees", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save attendees")
		return
	}

	if err := h.syncer.LoadMeetings(ctx); err != nil {
		h.logger.Error("reload meetings", "error", err)
		writeError(w, http.StatusInternalServerError, "saved but failed to reload meetings")
		return
	}

	enriched, _ := h.syncer.MeetingByID(meetingID)
	writeJSON(w, http.StatusOK, enriched)
}
