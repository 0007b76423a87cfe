// Package session holds the transient UI state for one connected
// client: the splash→gate→app phase, the current page, detail
// selections, search and grade filters, and the admin flag. Nothing
// here is persisted; a client that reloads starts over anonymous.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

type Phase string

const (
	PhaseSplash Phase = "splash"
	PhaseGate   Phase = "gate"
	PhaseApp    Phase = "app"
)

type Page string

const (
	PageHome          Page = "home"
	PageMembers       Page = "members"
	PageMemberDetail  Page = "memberDetail"
	PageOrg           Page = "org"
	PageMeetings      Page = "meetings"
	PageMeetingDetail Page = "meetingDetail"
	PageNotices       Page = "notices"
)

// GradeFilterAll matches every grade.
const GradeFilterAll = "all"

var (
	ErrWrongPhase  = errors.New("operation not allowed in this phase")
	ErrUnknownPage = errors.New("unknown page")
)

// topLevelPages are the pages reachable from navigation; the two detail
// pages are entered only by selecting a list item.
var topLevelPages = map[Page]bool{
	PageHome:     true,
	PageMembers:  true,
	PageOrg:      true,
	PageMeetings: true,
	PageNotices:  true,
}

// State is a read-only snapshot of a session.
type State struct {
	Phase             Phase  `json:"phase"`
	Page              Page   `json:"page"`
	SelectedMemberID  int64  `json:"selected_member_id,omitempty"`
	SelectedMeetingID int64  `json:"selected_meeting_id,omitempty"`
	SearchQuery       string `json:"search_query"`
	GradeFilter       string `json:"grade_filter"`
	Admin             bool   `json:"admin"`
}

type Session struct {
	Token string

	mu                sync.Mutex
	phase             Phase
	page              Page
	selectedMemberID  int64
	selectedMeetingID int64
	searchQuery       string
	gradeFilter       string
	admin             bool
	lastSeen          time.Time
}

func newSession(token string) *Session {
	return &Session{
		Token:       token,
		phase:       PhaseSplash,
		page:        PageHome,
		gradeFilter: GradeFilterAll,
		lastSeen:    time.Now(),
	}
}

// AdvanceSplash moves the session past the splash screen. The dwell
// timing lives client-side; the server only records the transition.
func (s *Session) AdvanceSplash() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseSplash {
		return fmt.Errorf("%w: advance splash from %q", ErrWrongPhase, s.phase)
	}
	s.phase = PhaseGate
	return nil
}

// Enter moves the session into the application after a successful
// entry-gate verification.
func (s *Session) Enter() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseGate {
		return fmt.Errorf("%w: enter from %q", ErrWrongPhase, s.phase)
	}
	s.phase = PhaseApp
	s.page = PageHome
	return nil
}

// Navigate switches to a top-level page and clears both detail
// selections.
func (s *Session) Navigate(page Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseApp {
		return fmt.Errorf("%w: navigate from %q", ErrWrongPhase, s.phase)
	}
	if !topLevelPages[page] {
		return fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	s.page = page
	s.selectedMemberID = 0
	s.selectedMeetingID = 0
	return nil
}

// SelectMember records the selected member and opens its detail page.
func (s *Session) SelectMember(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseApp {
		return fmt.Errorf("%w: select member from %q", ErrWrongPhase, s.phase)
	}
	s.selectedMemberID = id
	s.page = PageMemberDetail
	return nil
}

// SelectMeeting records the selected meeting and opens its detail page.
func (s *Session) SelectMeeting(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseApp {
		return fmt.Errorf("%w: select meeting from %q", ErrWrongPhase, s.phase)
	}
	s.selectedMeetingID = id
	s.page = PageMeetingDetail
	return nil
}

func (s *Session) SetSearch(query string) {
	s.mu.Lock()
	s.searchQuery = query
	s.mu.Unlock()
}

// SetGradeFilter accepts "all" or the decimal form of a grade.
func (s *Session) SetGradeFilter(filter string) error {
	if filter != GradeFilterAll && !isDigits(filter) {
		return fmt.Errorf("invalid grade filter %q", filter)
	}
	s.mu.Lock()
	s.gradeFilter = filter
	s.mu.Unlock()
	return nil
}

// SetAdmin flips the admin flag. It is set only after a successful
// admin-gate verification and never leaves the in-memory session.
func (s *Session) SetAdmin(admin bool) {
	s.mu.Lock()
	s.admin = admin
	s.mu.Unlock()
}

func (s *Session) Admin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Phase:             s.phase,
		Page:              s.page,
		SelectedMemberID:  s.selectedMemberID,
		SelectedMeetingID: s.selectedMeetingID,
		SearchQuery:       s.searchQuery,
		GradeFilter:       s.gradeFilter,
		Admin:             s.admin,
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Registry tracks live sessions by token. Sessions live only as long as
// the process; there is no persisted session store.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create starts a new session in the splash phase with a crypto-random
// token.
func (r *Registry) Create() (*Session, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	sess := newSession(hex.EncodeToString(tokenBytes))

	r.mu.Lock()
	r.sessions[sess.Token] = sess
	r.mu.Unlock()
	return sess, nil
}

// Get returns the session for a token, or nil if it does not exist.
func (r *Registry) Get(token string) *Session {
	r.mu.Lock()
	sess := r.sessions[token]
	r.mu.Unlock()
	if sess != nil {
		sess.touch()
	}
	return sess
}

func (r *Registry) Delete(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// PruneIdle drops sessions not seen within maxIdle and reports how many
// were removed.
func (r *Registry) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()
	pruned := 0
	for token, sess := range r.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(r.sessions, token)
			pruned++
		}
	}
	return pruned
}
