// Package datasync keeps in-memory copies of the member, meeting, and
// notice collections consistent with the store. The collections are
// replaced wholesale by the load routines and never patched in place;
// mutation handlers write to the store and then reload, so staleness is
// bounded by time since the last reload.
package datasync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gyesanghoe/gyesanghoe/internal/model"
	"github.com/gyesanghoe/gyesanghoe/internal/store"
	"golang.org/x/sync/errgroup"
)

type Syncer struct {
	members  *store.MemberStore
	meetings *store.MeetingStore
	photos   *store.MeetingPhotoStore
	rosters  *store.RosterStore
	notices  *store.NoticeStore
	logger   *slog.Logger

	mu          sync.RWMutex
	memberList  []model.Member
	meetingList []model.Meeting
	noticeList  []model.Notice
}

func NewSyncer(
	members *store.MemberStore,
	meetings *store.MeetingStore,
	photos *store.MeetingPhotoStore,
	rosters *store.RosterStore,
	notices *store.NoticeStore,
	logger *slog.Logger,
) *Syncer {
	return &Syncer{
		members:  members,
		meetings: meetings,
		photos:   photos,
		rosters:  rosters,
		notices:  notices,
		logger:   logger,
	}
}

// LoadAll refreshes the three collections concurrently. Used for the
// initial load when a session enters the application.
func (s *Syncer) LoadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.LoadMembers(ctx) })
	g.Go(func() error { return s.LoadMeetings(ctx) })
	g.Go(func() error { return s.LoadNotices(ctx) })
	return g.Wait()
}

// LoadMembers replaces the member collection with the store's rows,
// ordered by (grade, name). On failure the previous collection stays.
func (s *Syncer) LoadMembers(ctx context.Context) error {
	members, err := s.members.List(ctx)
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}
	if members == nil {
		members = []model.Member{}
	}

	s.mu.Lock()
	s.memberList = members
	s.mu.Unlock()
	return nil
}

// LoadNotices replaces the notice collection, newest first.
func (s *Syncer) LoadNotices(ctx context.Context) error {
	notices, err := s.notices.List(ctx)
	if err != nil {
		return fmt.Errorf("load notices: %w", err)
	}
	if notices == nil {
		notices = []model.Notice{}
	}

	s.mu.Lock()
	s.noticeList = notices
	s.mu.Unlock()
	return nil
}

// LoadMeetings replaces the meeting collection and enriches every
// meeting with its attendee roster, expected roster, and photos. The
// three relation fetches per meeting run concurrently, and all meetings
// are enriched as one batch. A failed or empty relation fetch degrades
// to an empty list for that relation; a failure of the top-level
// meetings query aborts the whole reload and keeps the previous
// collection.
func (s *Syncer) LoadMeetings(ctx context.Context) error {
	meetings, err := s.meetings.List(ctx)
	if err != nil {
		return fmt.Errorf("load meetings: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range meetings {
		mt := &meetings[i]
		g.Go(func() error {
			mt.Attendees = s.relationOrEmpty(gctx, "attendees", mt.ID, s.rosters.Attendees)
			return nil
		})
		g.Go(func() error {
			mt.Expected = s.relationOrEmpty(gctx, "expected", mt.ID, s.rosters.Expected)
			return nil
		})
		g.Go(func() error {
			photos, err := s.photos.ListByMeeting(gctx, mt.ID)
			if err != nil {
				s.logger.Warn("enrich meeting", "relation", "photos", "meeting_id", mt.ID, "error", err)
				photos = nil
			}
			if photos == nil {
				photos = []model.MeetingPhoto{}
			}
			mt.Photos = photos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("enrich meetings: %w", err)
	}

	if meetings == nil {
		meetings = []model.Meeting{}
	}

	s.mu.Lock()
	s.meetingList = meetings
	s.mu.Unlock()
	return nil
}

func (s *Syncer) relationOrEmpty(ctx context.Context, name string, meetingID int64, fetch func(context.Context, int64) ([]model.Member, error)) []model.Member {
	members, err := fetch(ctx, meetingID)
	if err != nil {
		s.logger.Warn("enrich meeting", "relation", name, "meeting_id", meetingID, "error", err)
		members = nil
	}
	if members == nil {
		members = []model.Member{}
	}
	return members
}

// Members returns a copy of the loaded member collection.
func (s *Syncer) Members() []model.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Member{}, s.memberList...)
}

// Meetings returns a copy of the loaded meeting collection.
func (s *Syncer) Meetings() []model.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Meeting{}, s.meetingList...)
}

// Notices returns a copy of the loaded notice collection.
func (s *Syncer) Notices() []model.Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Notice{}, s.noticeList...)
}

// MeetingByID returns the loaded meeting with the given id, if present.
func (s *Syncer) MeetingByID(id int64) (*model.Meeting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.meetingList {
		if s.meetingList[i].ID == id {
			mt := s.meetingList[i]
			return &mt, true
		}
	}
	return nil, false
}

// MemberByID returns the loaded member with the given id, if present.
func (s *Syncer) MemberByID(id int64) (*model.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.memberList {
		if s.memberList[i].ID == id {
			m := s.memberList[i]
			return &m, true
		}
	}
	return nil, false
}

// UpcomingMeeting returns the first loaded meeting flagged as upcoming,
// in store-provided order. Uniqueness of the flag is not enforced.
func (s *Syncer) UpcomingMeeting() (*model.Meeting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.meetingList {
		if s.meetingList[i].IsUpcoming {
			mt := s.meetingList[i]
			return &mt, true
		}
	}
	return nil, false
}
