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

// DefaultNoticeAuthor is used when a notice is posted without one.
const DefaultNoticeAuthor = "관리자"

type NoticeHandler struct {
	store  *store.NoticeStore
	syncer *datasync.Syncer
	logger *slog.Logger
}

func NewNoticeHandler(s *store.NoticeStore, syncer *datasync.Syncer, logger *slog.Logger) *NoticeHandler {
	return &NoticeHandler{store: s, syncer: syncer, logger: logger}
}

func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.syncer.Notices())
}

func (h *NoticeHandler) Save(w http.ResponseWriter, r *http.Request) {
	var draft model.NoticeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	h.save(w, r, draft)
}

// Update is the path-addressed form of Save.
func (h *NoticeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var draft model.NoticeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	draft.ID = id
	h.save(w, r, draft)
}

func (h *NoticeHandler) save(w http.ResponseWriter, r *http.Request, draft model.NoticeDraft) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Content = strings.TrimSpace(draft.Content)
	if draft.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if draft.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if strings.TrimSpace(draft.Author) == "" {
		draft.Author = DefaultNoticeAuthor
	}

	ctx := r.Context()
	var (
		notice *model.Notice
		err    error
	)
	if draft.ID != 0 {
		existing, getErr := h.store.GetByID(ctx, draft.ID)
		if getErr != nil {
			writeError(w, http.StatusInternalServerError, "failed to get notice")
			return
		}
		if existing == nil {
			writeError(w, http.StatusNotFound, "notice not found")
			return
		}
		notice, err = h.store.Update(ctx, draft.ID, draft)
	} else {
		notice, err = h.store.Create(ctx, draft)
	}
	if err != nil {
		h.logger.Error("save notice", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save notice")
		return
	}

	if err := h.syncer.LoadNotices(ctx); err != nil {
		h.logger.Error("reload notices", "error", err)
		writeError(w, http.StatusInternalServerError, "saved but failed to reload notices")
		return
	}

	status := http.StatusOK
	if draft.ID == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, notice)
}

func (h *NoticeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx := r.Context()
	existing, err := h.store.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get notice")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "notice not found")
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		h.logger.Error("delete notice", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete notice")
		return
	}

	if err := h.syncer.LoadNotices(ctx); err != nil {
		h.logger.Error("reload notices", "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}
