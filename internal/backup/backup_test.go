package backup

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gyesanghoe/gyesanghoe/internal/model"
)

func TestFilename(t *testing.T) {
	at := time.Date(2026, 8, 29, 21, 4, 0, 0, time.UTC)
	if got := Filename(at); got != "계상회_백업_2026-08-29.json" {
		t.Errorf("Filename = %q", got)
	}
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(Snapshot{
		Members: []model.Member{{ID: 1, Name: "김철수", Grade: 72}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got struct {
		Members  []model.Member  `json:"members"`
		Meetings []model.Meeting `json:"meetings"`
		Notices  []model.Notice  `json:"notices"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0].Name != "김철수" {
		t.Errorf("members = %v", got.Members)
	}
	// Empty collections serialize as [], not null.
	if got.Meetings == nil || got.Notices == nil {
		t.Error("nil collections leaked into the snapshot")
	}
}
