package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gyesanghoe/gyesanghoe/internal/session"
)

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.state.Create(rec, httptest.NewRequest(http.MethodPost, "/api/session", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}
	if st := decodeBody[session.State](t, rec); st.Phase != session.PhaseSplash {
		t.Fatalf("phase = %q, want splash", st.Phase)
	}

	adv := httptest.NewRequest(http.MethodPost, "/api/session/advance-splash", nil)
	adv.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.state.AdvanceSplash(rec, adv)
	if rec.Code != http.StatusOK {
		t.Fatalf("advance status = %d, body %s", rec.Code, rec.Body)
	}
	if st := decodeBody[session.State](t, rec); st.Phase != session.PhaseGate {
		t.Fatalf("phase = %q, want gate", st.Phase)
	}

	// A second advance is a phase violation.
	adv = httptest.NewRequest(http.MethodPost, "/api/session/advance-splash", nil)
	adv.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.state.AdvanceSplash(rec, adv)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second advance status = %d, want 409", rec.Code)
	}
}

func TestSessionEnd(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.appSession(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.state.End(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if env.registry.Get(cookie.Value) != nil {
		t.Fatal("session should be gone from the registry")
	}

	// The old token no longer authenticates.
	get := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	get.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.state.GetState(rec, get)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 after session end", rec.Code)
	}
}

func TestStateRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.state.GetState(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestStateViewDerivesFromLoadedData(t *testing.T) {
	env := newTestEnv(t)
	env.createMember(t, "김철수", 72)
	env.createMember(t, "이민수", 73)
	meeting := env.createMeeting(t, "2026-12-01", true)
	cookie := env.appSession(t)

	member := env.createMember(t, "박영희", 72)
	req := httptest.NewRequest(http.MethodPost, "/api/meetings/1/expected/1/toggle", nil)
	req.SetPathValue("id", itoa(meeting.ID))
	req.SetPathValue("memberID", itoa(member.ID))
	env.meeting.ToggleExpected(httptest.NewRecorder(), req)

	get := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	get.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.state.GetState(rec, get)

	view := decodeBody[viewState](t, rec)
	if len(view.Grades) != 2 || view.Grades[0] != 72 || view.Grades[1] != 73 {
		t.Fatalf("grades = %v, want [72 73]", view.Grades)
	}
	if view.Stats.MemberCount != 3 || view.Stats.GradeCount != 2 || view.Stats.PastMeetingCount != 0 {
		t.Fatalf("stats = %+v", view.Stats)
	}
	if view.Upcoming == nil {
		t.Fatal("expected the upcoming meeting in the view")
	}
	if view.UpcomingBanner != "참석 예정: 1명" {
		t.Fatalf("banner = %q", view.UpcomingBanner)
	}
}

func TestNavigateAndSelect(t *testing.T) {
	env := newTestEnv(t)
	member := env.createMember(t, "김철수", 72)
	cookie := env.appSession(t)

	nav := jsonRequest(t, http.MethodPost, "/api/state/navigate", navigateRequest{Page: "members"})
	nav.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.state.Navigate(rec, nav)
	if rec.Code != http.StatusOK {
		t.Fatalf("navigate status = %d, body %s", rec.Code, rec.Body)
	}

	sel := jsonRequest(t, http.MethodPost, "/api/state/select-member", selectRequest{ID: member.ID})
	sel.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.state.SelectMember(rec, sel)
	view := decodeBody[viewState](t, rec)
	if view.Page != session.PageMemberDetail {
		t.Fatalf("page = %q, want memberDetail", view.Page)
	}
	if view.SelectedMember == nil || view.SelectedMember.ID != member.ID {
		t.Fatalf("selected member = %+v", view.SelectedMember)
	}

	// Navigating away clears the selection.
	nav = jsonRequest(t, http.MethodPost, "/api/state/navigate", navigateRequest{Page: "home"})
	nav.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.state.Navigate(rec, nav)
	view = decodeBody[viewState](t, rec)
	if view.SelectedMember != nil || view.SelectedMemberID != 0 {
		t.Fatalf("selection should be cleared, got %+v", view.SelectedMember)
	}
}

func TestNavigateToDetailPageIs400(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.appSession(t)

	nav := jsonRequest(t, http.MethodPost, "/api/state/navigate", navigateRequest{Page: "memberDetail"})
	nav.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.state.Navigate(rec, nav)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSelectUnknownMemberIs404(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.appSession(t)

	sel := jsonRequest(t, http.MethodPost, "/api/state/select-member", selectRequest{ID: 99})
	sel.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.state.SelectMember(rec, sel)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSearchAndGradeFilterNarrowTheView(t *testing.T) {
	env := newTestEnv(t)
	env.createMember(t, "김철수", 72)
	env.createMember(t, "이민수", 73)
	cookie := env.appSession(t)

	search := jsonRequest(t, http.MethodPost, "/api/state/search", searchRequest{Query: "철수"})
	search.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.state.Search(rec, search)
	view := decodeBody[viewState](t, rec)
	if len(view.Members) != 1 || view.Members[0].Name != "김철수" {
		t.Fatalf("filtered members = %+v", view.Members)
	}

	reset := jsonRequest(t, http.MethodPost, "/api/state/search", searchRequest{})
	reset.AddCookie(cookie)
	env.state.Search(httptest.NewRecorder(), reset)

	filter := jsonRequest(t, http.MethodPost, "/api/state/filter-grade", gradeFilterRequest{Grade: "73"})
	filter.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.state.FilterGrade(rec, filter)
	view = decodeBody[viewState](t, rec)
	if len(view.Members) != 1 || view.Members[0].Grade != 73 {
		t.Fatalf("filtered members = %+v", view.Members)
	}

	bad := jsonRequest(t, http.MethodPost, "/api/state/filter-grade", gradeFilterRequest{Grade: "7th"})
	bad.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.state.FilterGrade(rec, bad)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
