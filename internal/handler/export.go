package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gyesanghoe/gyesanghoe/internal/backup"
	"github.com/gyesanghoe/gyesanghoe/internal/datasync"
	"github.com/gyesanghoe/gyesanghoe/internal/export"
	"github.com/gyesanghoe/gyesanghoe/internal/store"
)

type ExportHandler struct {
	members *store.MemberStore
	syncer  *datasync.Syncer
	logger  *slog.Logger
}

func NewExportHandler(members *store.MemberStore, syncer *datasync.Syncer, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{members: members, syncer: syncer, logger: logger}
}

// setAttachment sets a Content-Disposition for a non-ASCII filename
// using the RFC 5987 encoded form alongside an ASCII fallback that
// keeps the right extension for clients that ignore filename*.
func setAttachment(w http.ResponseWriter, fallback, filename string) {
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+fallback+`"; filename*=UTF-8''`+url.PathEscape(filename))
}

// MembersCSV serves the full roster as a UTF-8 CSV with a BOM so
// spreadsheet apps render the Korean headers correctly. The roster is
// read fresh from the store rather than the in-memory snapshot.
func (h *ExportHandler) MembersCSV(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.List(r.Context())
	if err != nil {
		h.logger.Error("export members", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load members")
		return
	}

	setAttachment(w, "members.csv", export.Filename)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(export.MembersCSV(members)))
}

// Backup serves every collection as one pretty-printed JSON document.
// It reads from the loaded snapshot, which mutations keep current.
func (h *ExportHandler) Backup(w http.ResponseWriter, r *http.Request) {
	snap := backup.Snapshot{
		Members:  h.syncer.Members(),
		Meetings: h.syncer.Meetings(),
		Notices:  h.syncer.Notices(),
	}
	data, err := backup.Marshal(snap)
	if err != nil {
		h.logger.Error("marshal backup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build backup")
		return
	}

	setAttachment(w, "backup.json", backup.Filename(time.Now()))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
