// Package backup serializes the loaded collections as one downloadable
// JSON document. It is a point-in-time snapshot of whatever the sync
// layer currently holds, not a live store export.
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gyesanghoe/gyesanghoe/internal/model"
)

type Snapshot struct {
	Members  []model.Member  `json:"members"`
	Meetings []model.Meeting `json:"meetings"`
	Notices  []model.Notice  `json:"notices"`
}

// Filename returns the date-stamped attachment name for a backup taken
// at the given time.
func Filename(now time.Time) string {
	return fmt.Sprintf("계상회_백업_%s.json", now.Format("2006-01-02"))
}

// Marshal renders the snapshot as indented JSON.
func Marshal(s Snapshot) ([]byte, error) {
	if s.Members == nil {
		s.Members = []model.Member{}
	}
	if s.Meetings == nil {
		s.Meetings = []model.Meeting{}
	}
	if s.Notices == nil {
		s.Notices = []model.Notice{}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}
