package model

import "time"

// Meeting is a gathering record. The Attendees, Expected, and Photos
// slices are not persisted on the meetings table; the sync layer fills
// them from the relation tables and guarantees they are never nil.
type Meeting struct {
	ID          int64     `json:"id"`
	MeetingDate string    `json:"meeting_date"`
	Place       string    `json:"place"`
	IsUpcoming  bool      `json:"is_upcoming"`
	FoodRating  int       `json:"food_rating"`
	FoodComment string    `json:"food_comment"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`

	Attendees []Member       `json:"attendees"`
	Expected  []Member       `json:"expected"`
	Photos    []MeetingPhoto `json:"photos"`
}

type MeetingPhoto struct {
	ID        int64     `json:"id"`
	MeetingID int64     `json:"meeting_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type MeetingDraft struct {
	ID          int64  `json:"id,omitempty"`
	MeetingDate string `json:"meeting_date"`
	Place       string `json:"place"`
	IsUpcoming  bool   `json:"is_upcoming"`
	FoodRating  int    `json:"food_rating"`
	FoodComment string `json:"food_comment"`
	Comment     string `json:"comment"`
}
