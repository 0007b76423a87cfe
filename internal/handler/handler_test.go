package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gyesanghoe/gyesanghoe/internal/blob"
	"github.com/gyesanghoe/gyesanghoe/internal/database"
	"github.com/gyesanghoe/gyesanghoe/internal/datasync"
	"github.com/gyesanghoe/gyesanghoe/internal/gate"
	"github.com/gyesanghoe/gyesanghoe/internal/model"
	"github.com/gyesanghoe/gyesanghoe/internal/session"
	"github.com/gyesanghoe/gyesanghoe/internal/store"
)

type testEnv struct {
	db       *sql.DB
	members  *store.MemberStore
	meetings *store.MeetingStore
	photos   *store.MeetingPhotoStore
	rosters  *store.RosterStore
	notices  *store.NoticeStore
	syncer   *datasync.Syncer
	registry *session.Registry

	member  *MemberHandler
	meeting *MeetingHandler
	notice  *NoticeHandler
	photo   *PhotoHandler
	export  *ExportHandler
	state   *StateHandler
	gate    *GateHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		db:       db,
		members:  store.NewMemberStore(db),
		meetings: store.NewMeetingStore(db),
		photos:   store.NewMeetingPhotoStore(db),
		rosters:  store.NewRosterStore(db),
		notices:  store.NewNoticeStore(db),
		registry: session.NewRegistry(),
	}
	env.syncer = datasync.NewSyncer(env.members, env.meetings, env.photos, env.rosters, env.notices, logger)

	g, err := gate.New(gate.Config{})
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	blobs := blob.New(blob.Config{})

	env.member = NewMemberHandler(env.members, env.syncer, logger)
	env.meeting = NewMeetingHandler(env.meetings, env.rosters, env.syncer, logger)
	env.notice = NewNoticeHandler(env.notices, env.syncer, logger)
	env.photo = NewPhotoHandler(blobs, env.photos, env.meetings, env.syncer, logger)
	env.export = NewExportHandler(env.members, env.syncer, logger)
	env.state = NewStateHandler(env.registry, env.syncer, logger)
	env.gate = NewGateHandler(g, env.registry, logger)

	if err := env.syncer.LoadAll(context.Background()); err != nil {
		t.Fatalf("initial load: %v", err)
	}
	return env
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// appSession creates a session already inside the application and
// returns a cookie carrying its token.
func (e *testEnv) appSession(t *testing.T) *http.Cookie {
	t.Helper()
	sess, err := e.registry.Create()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := sess.AdvanceSplash(); err != nil {
		t.Fatalf("advance splash: %v", err)
	}
	if err := sess.Enter(); err != nil {
		t.Fatalf("enter app: %v", err)
	}
	return &http.Cookie{Name: SessionCookie, Value: sess.Token}
}

func (e *testEnv) createMember(t *testing.T, name string, grade int) model.Member {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/api/members", model.MemberDraft{Name: name, Grade: grade})
	rec := httptest.NewRecorder()
	e.member.Save(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create member: status %d, body %s", rec.Code, rec.Body)
	}
	return decodeBody[model.Member](t, rec)
}

func (e *testEnv) createMeeting(t *testing.T, date string, upcoming bool) model.Meeting {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/api/meetings", meetingSaveRequest{
		MeetingDraft: model.MeetingDraft{MeetingDate: date, Place: "강남", IsUpcoming: upcoming},
	})
	rec := httptest.NewRecorder()
	e.meeting.Save(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create meeting: status %d, body %s", rec.Code, rec.Body)
	}
	return decodeBody[model.Meeting](t, rec)
}
