package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gyesanghoe/gyesanghoe/internal/blob"
	"github.com/gyesanghoe/gyesanghoe/internal/datasync"
	"github.com/gyesanghoe/gyesanghoe/internal/gate"
	"github.com/gyesanghoe/gyesanghoe/internal/handler"
	"github.com/gyesanghoe/gyesanghoe/internal/middleware"
	"github.com/gyesanghoe/gyesanghoe/internal/session"
	"github.com/gyesanghoe/gyesanghoe/internal/store"
)

type Server struct {
	db       *sql.DB
	syncer   *datasync.Syncer
	registry *session.Registry

	memberH  *handler.MemberHandler
	meetingH *handler.MeetingHandler
	noticeH  *handler.NoticeHandler
	photoH   *handler.PhotoHandler
	exportH  *handler.ExportHandler
	stateH   *handler.StateHandler
	gateH    *handler.GateHandler

	logger *slog.Logger
}

func New(db *sql.DB, gateCfg gate.Config, blobCfg blob.Config, logger *slog.Logger) (*Server, error) {
	memberStore := store.NewMemberStore(db)
	meetingStore := store.NewMeetingStore(db)
	photoStore := store.NewMeetingPhotoStore(db)
	rosterStore := store.NewRosterStore(db)
	noticeStore := store.NewNoticeStore(db)

	syncer := datasync.NewSyncer(memberStore, meetingStore, photoStore, rosterStore, noticeStore,
		logger.With("component", "datasync"))
	registry := session.NewRegistry()

	g, err := gate.New(gateCfg)
	if err != nil {
		return nil, err
	}
	blobs := blob.New(blobCfg)

	return &Server{
		db:       db,
		syncer:   syncer,
		registry: registry,
		memberH:  handler.NewMemberHandler(memberStore, syncer, logger.With("component", "member")),
		meetingH: handler.NewMeetingHandler(meetingStore, rosterStore, syncer, logger.With("component", "meeting")),
		noticeH:  handler.NewNoticeHandler(noticeStore, syncer, logger.With("component", "notice")),
		photoH:   handler.NewPhotoHandler(blobs, photoStore, meetingStore, syncer, logger.With("component", "photo")),
		exportH:  handler.NewExportHandler(memberStore, syncer, logger.With("component", "export")),
		stateH:   handler.NewStateHandler(registry, syncer, logger.With("component", "state")),
		gateH:    handler.NewGateHandler(g, registry, logger.With("component", "gate")),
		logger:   logger,
	}, nil
}

// Syncer returns the data-sync layer so the startup path can run the
// initial load.
func (s *Server) Syncer() *datasync.Syncer {
	return s.syncer
}

// Registry returns the session registry for idle-session cleanup.
func (s *Server) Registry() *session.Registry {
	return s.registry
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Session and view state
	mux.HandleFunc("POST /api/session", s.stateH.Create)
	mux.HandleFunc("DELETE /api/session", s.stateH.End)
	mux.HandleFunc("POST /api/session/advance-splash", s.stateH.AdvanceSplash)
	mux.HandleFunc("GET /api/state", s.stateH.GetState)
	mux.HandleFunc("POST /api/state/navigate", s.stateH.Navigate)
	mux.HandleFunc("POST /api/state/select-member", s.stateH.SelectMember)
	mux.HandleFunc("POST /api/state/select-meeting", s.stateH.SelectMeeting)
	mux.HandleFunc("POST /api/state/search", s.stateH.Search)
	mux.HandleFunc("POST /api/state/filter-grade", s.stateH.FilterGrade)

	// PIN gate
	mux.HandleFunc("POST /api/verify-pin", s.gateH.VerifyPIN)

	// Members
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Save)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)
	mux.HandleFunc("POST /api/members/photo", s.photoH.UploadMemberPhoto)

	// Meetings and rosters
	mux.HandleFunc("GET /api/meetings", s.meetingH.List)
	mux.HandleFunc("POST /api/meetings", s.meetingH.Save)
	mux.HandleFunc("PUT /api/meetings/{id}", s.meetingH.Update)
	mux.HandleFunc("DELETE /api/meetings/{id}", s.meetingH.Delete)
	mux.HandleFunc("POST /api/meetings/{id}/expected/{memberID}/toggle", s.meetingH.ToggleExpected)
	mux.HandleFunc("PUT /api/meetings/{id}/attendees", s.meetingH.ReplaceAttendees)
	mux.HandleFunc("POST /api/meetings/{id}/photos", s.photoH.UploadMeetingPhotos)
	mux.HandleFunc("DELETE /api/photos/{id}", s.photoH.DeletePhoto)

	// Notices
	mux.HandleFunc("GET /api/notices", s.noticeH.List)
	mux.HandleFunc("POST /api/notices", s.noticeH.Save)
	mux.HandleFunc("PUT /api/notices/{id}", s.noticeH.Update)
	mux.HandleFunc("DELETE /api/notices/{id}", s.noticeH.Delete)

	// Downloads
	mux.HandleFunc("GET /api/export-members", s.exportH.MembersCSV)
	mux.HandleFunc("GET /api/backup", s.exportH.Backup)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
