package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gyesanghoe/gyesanghoe/internal/datasync"
	"github.com/gyesanghoe/gyesanghoe/internal/model"
	"github.com/gyesanghoe/gyesanghoe/internal/store"
)

type MemberHandler struct {
	store  *store.MemberStore
	syncer *datasync.Syncer
	logger *slog.Logger
}

func NewMemberHandler(s *store.MemberStore, syncer *datasync.Syncer, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{store: s, syncer: syncer, logger: logger}
}

// List serves the loaded member collection, (grade, name) ordered.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.syncer.Members())
}

// Save inserts when the draft has no id and updates otherwise, then
// reloads the member collection before responding so the client never
// observes a half-updated state.
func (h *MemberHandler) Save(w http.ResponseWriter, r *http.Request) {
	var draft model.MemberDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	h.save(w, r, draft)
}

// Update is the path-addressed form of Save.
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var draft model.MemberDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	draft.ID = id
	h.save(w, r, draft)
}

func (h *MemberHandler) save(w http.ResponseWriter, r *http.Request, draft model.MemberDraft) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if draft.Grade <= 0 {
		writeError(w, http.StatusBadRequest, "grade is required")
		return
	}

	ctx := r.Context()
	var (
		member *model.Member
		err    error
	)
	if draft.ID != 0 {
		existing, getErr := h.store.GetByID(ctx, draft.ID)
		if getErr != nil {
			writeError(w, http.StatusInternalServerError, "failed to get member")
			return
		}
		if existing == nil {
			writeError(w, http.StatusNotFound, "member not found")
			return
		}
		member, err = h.store.Update(ctx, draft.ID, draft)
	} else {
		member, err = h.store.Create(ctx, draft)
	}
	if err != nil {
		h.logger.Error("save member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save member")
		return
	}

	if err := h.syncer.LoadMembers(ctx); err != nil {
		h.logger.Error("reload members", "error", err)
		writeError(w, http.StatusInternalServerError, "saved but failed to reload members")
		return
	}

	status := http.StatusOK
	if draft.ID == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, member)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx := r.Context()
	existing, err := h.store.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		h.logger.Error("delete member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete member")
		return
	}

	// Roster rows referencing the member are gone too; refresh both
	// affected collections.
	if err := h.syncer.LoadMembers(ctx); err != nil {
		h.logger.Error("reload members", "error", err)
	}
	if err := h.syncer.LoadMeetings(ctx); err != nil {
		h.logger.Error("reload meetings", "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}
