package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gyesanghoe/gyesanghoe/internal/model"
)

type MeetingStore struct {
	db *sql.DB
}

func NewMeetingStore(db *sql.DB) *MeetingStore {
	return &MeetingStore{db: db}
}

const meetingColumns = "id, meeting_date, place, is_upcoming, food_rating, food_comment, comment, created_at"

func scanMeeting(row interface{ Scan(...any) error }) (*model.Meeting, error) {
	var m model.Meeting
	var upcoming int
	err := row.Scan(&m.ID, &m.MeetingDate, &m.Place, &upcoming, &m.FoodRating, &m.FoodComment, &m.Comment, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.IsUpcoming = upcoming != 0
	return &m, nil
}

// List returns all meetings ordered by meeting_date descending. The
// relation slices are left nil; enrichment is the sync layer's job.
func (s *MeetingStore) List(ctx context.Context) ([]model.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+meetingColumns+" FROM meetings ORDER BY meeting_date DESC")
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []model.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, *m)
	}
	return meetings, rows.Err()
}

func (s *MeetingStore) GetByID(ctx context.Context, id int64) (*model.Meeting, error) {
	m, err := scanMeeting(s.db.QueryRowContext(ctx,
		"SELECT "+meetingColumns+" FROM meetings WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query meeting: %w", err)
	}
	return m, nil
}

func (s *MeetingStore) Create(ctx context.Context, d model.MeetingDraft) (*model.Meeting, error) {
	var upcoming int
	if d.IsUpcoming {
		upcoming = 1
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO meetings (meeting_date, place, is_upcoming, food_rating, food_comment, comment)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.MeetingDate, d.Place, upcoming, d.FoodRating, d.FoodComment, d.Comment,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meeting: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *MeetingStore) Update(ctx context.Context, id int64, d model.MeetingDraft) (*model.Meeting, error) {
	var upcoming int
	if d.IsUpcoming {
		upcoming = 1
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE meetings
		 SET meeting_date = ?, place = ?, is_upcoming = ?, food_rating = ?, food_comment = ?, comment = ?
		 WHERE id = ?`,
		d.MeetingDate, d.Place, upcoming, d.FoodRating, d.FoodComment, d.Comment, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update meeting: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *MeetingStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM meetings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	return nil
}
