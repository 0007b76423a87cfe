package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gyesanghoe/gyesanghoe/internal/database"
	"github.com/gyesanghoe/gyesanghoe/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMemberCRUD(t *testing.T) {
	ctx := context.Background()
	ms := NewMemberStore(setupTestDB(t))

	m, err := ms.Create(ctx, model.MemberDraft{
		Name:    "김철수",
		Grade:   72,
		Mobile:  "010-1111-2222",
		Company: "삼성전자",
	})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if m.Name != "김철수" {
		t.Errorf("name = %q, want %q", m.Name, "김철수")
	}
	if m.Grade != 72 {
		t.Errorf("grade = %d, want 72", m.Grade)
	}

	got, err := ms.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got == nil {
		t.Fatal("expected member, got nil")
	}
	if got.Company != "삼성전자" {
		t.Errorf("company = %q, want %q", got.Company, "삼성전자")
	}

	updated, err := ms.Update(ctx, m.ID, model.MemberDraft{
		Name:     "김철수",
		Grade:    72,
		Company:  "LG전자",
		Position: "부장",
	})
	if err != nil {
		t.Fatalf("update member: %v", err)
	}
	if updated.Company != "LG전자" {
		t.Errorf("company = %q, want %q", updated.Company, "LG전자")
	}
	if updated.Mobile != "" {
		t.Errorf("mobile = %q, want empty after full update", updated.Mobile)
	}

	if err := ms.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete member: %v", err)
	}
	got, err = ms.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("get deleted member: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestMemberNotFound(t *testing.T) {
	ms := NewMemberStore(setupTestDB(t))

	got, err := ms.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got != nil {
		t.Error("expected nil for non-existent member")
	}
}

func TestMemberListOrdering(t *testing.T) {
	ctx := context.Background()
	ms := NewMemberStore(setupTestDB(t))

	ms.Create(ctx, model.MemberDraft{Name: "박영희", Grade: 73})
	ms.Create(ctx, model.MemberDraft{Name: "이민수", Grade: 72})
	ms.Create(ctx, model.MemberDraft{Name: "강호동", Grade: 72})

	members, err := ms.List(ctx)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("got %d members, want 3", len(members))
	}

	// Grade ascending, then name ascending within a grade.
	wantNames := []string{"강호동", "이민수", "박영희"}
	for i, want := range wantNames {
		if members[i].Name != want {
			t.Errorf("members[%d].Name = %q, want %q", i, members[i].Name, want)
		}
	}
	if members[0].Grade != 72 || members[2].Grade != 73 {
		t.Errorf("grades not ascending: %d, %d, %d", members[0].Grade, members[1].Grade, members[2].Grade)
	}
}
