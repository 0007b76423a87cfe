package store

import (
	"context"
	"testing"

	"github.com/gyesanghoe/gyesanghoe/internal/model"
)

func TestMeetingCRUD(t *testing.T) {
	ctx := context.Background()
	ms := NewMeetingStore(setupTestDB(t))

	mt, err := ms.Create(ctx, model.MeetingDraft{
		MeetingDate: "2026-03-14",
		Place:       "종로 한옥집",
		FoodRating:  4,
		FoodComment: "갈비찜이 좋았음",
	})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	if mt.Place != "종로 한옥집" {
		t.Errorf("place = %q, want %q", mt.Place, "종로 한옥집")
	}
	if mt.IsUpcoming {
		t.Error("expected not upcoming")
	}
	if mt.FoodRating != 4 {
		t.Errorf("food_rating = %d, want 4", mt.FoodRating)
	}

	updated, err := ms.Update(ctx, mt.ID, model.MeetingDraft{
		MeetingDate: "2026-03-21",
		Place:       "강남 고깃집",
		IsUpcoming:  true,
	})
	if err != nil {
		t.Fatalf("update meeting: %v", err)
	}
	if !updated.IsUpcoming {
		t.Error("expected upcoming after update")
	}
	if updated.MeetingDate != "2026-03-21" {
		t.Errorf("meeting_date = %q, want %q", updated.MeetingDate, "2026-03-21")
	}

	if err := ms.Delete(ctx, mt.ID); err != nil {
		t.Fatalf("delete meeting: %v", err)
	}
	got, err := ms.GetByID(ctx, mt.ID)
	if err != nil {
		t.Fatalf("get deleted meeting: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestMeetingListOrdering(t *testing.T) {
	ctx := context.Background()
	ms := NewMeetingStore(setupTestDB(t))

	ms.Create(ctx, model.MeetingDraft{MeetingDate: "2025-11-01", Place: "a"})
	ms.Create(ctx, model.MeetingDraft{MeetingDate: "2026-02-01", Place: "b"})
	ms.Create(ctx, model.MeetingDraft{MeetingDate: "2026-01-01", Place: "c"})

	meetings, err := ms.List(ctx)
	if err != nil {
		t.Fatalf("list meetings: %v", err)
	}
	if len(meetings) != 3 {
		t.Fatalf("got %d meetings, want 3", len(meetings))
	}
	want := []string{"2026-02-01", "2026-01-01", "2025-11-01"}
	for i, w := range want {
		if meetings[i].MeetingDate != w {
			t.Errorf("meetings[%d].MeetingDate = %q, want %q", i, meetings[i].MeetingDate, w)
		}
	}
}

func TestMeetingPhotoLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ms := NewMeetingStore(db)
	ps := NewMeetingPhotoStore(db)

	mt, err := ms.Create(ctx, model.MeetingDraft{MeetingDate: "2026-01-10", Place: "인사동"})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}

	p1, err := ps.Create(ctx, mt.ID, "https://cdn.example.com/a.jpg")
	if err != nil {
		t.Fatalf("create photo: %v", err)
	}
	if p1.MeetingID != mt.ID {
		t.Errorf("meeting_id = %d, want %d", p1.MeetingID, mt.ID)
	}
	if _, err := ps.Create(ctx, mt.ID, "https://cdn.example.com/b.jpg"); err != nil {
		t.Fatalf("create photo: %v", err)
	}

	photos, err := ps.ListByMeeting(ctx, mt.ID)
	if err != nil {
		t.Fatalf("list photos: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("got %d photos, want 2", len(photos))
	}

	// Photos are deleted independently by their own id.
	if err := ps.Delete(ctx, p1.ID); err != nil {
		t.Fatalf("delete photo: %v", err)
	}
	photos, _ = ps.ListByMeeting(ctx, mt.ID)
	if len(photos) != 1 {
		t.Fatalf("got %d photos after delete, want 1", len(photos))
	}

	// Deleting the meeting cascades to its remaining photos.
	if err := ms.Delete(ctx, mt.ID); err != nil {
		t.Fatalf("delete meeting: %v", err)
	}
	photos, err = ps.ListByMeeting(ctx, mt.ID)
	if err != nil {
		t.Fatalf("list photos after meeting delete: %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("got %d photos after meeting delete, want 0", len(photos))
	}
}
