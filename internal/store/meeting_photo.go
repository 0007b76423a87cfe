package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gyesanghoe/gyesanghoe/internal/model"
)

type MeetingPhotoStore struct {
	db *sql.DB
}

func NewMeetingPhotoStore(db *sql.DB) *MeetingPhotoStore {
	return &MeetingPhotoStore{db: db}
}

func (s *MeetingPhotoStore) ListByMeeting(ctx context.Context, meetingID int64) ([]model.MeetingPhoto, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, meeting_id, url, created_at FROM meeting_photos WHERE meeting_id = ? ORDER BY created_at",
		meetingID,
	)
	if err != nil {
		return nil, fmt.Errorf("query meeting photos: %w", err)
	}
	defer rows.Close()

	var photos []model.MeetingPhoto
	for rows.Next() {
		var p model.MeetingPhoto
		if err := rows.Scan(&p.ID, &p.MeetingID, &p.URL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan meeting photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (s *MeetingPhotoStore) GetByID(ctx context.Context, id int64) (*model.MeetingPhoto, error) {
	var p model.MeetingPhoto
	err := s.db.QueryRowContext(ctx,
		"SELECT id, meeting_id, url, created_at FROM meeting_photos WHERE id = ?", id,
	).Scan(&p.ID, &p.MeetingID, &p.URL, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query meeting photo: %w", err)
	}
	return &p, nil
}

func (s *MeetingPhotoStore) Create(ctx context.Context, meetingID int64, url string) (*model.MeetingPhoto, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO meeting_photos (meeting_id, url) VALUES (?, ?)", meetingID, url)
	if err != nil {
		return nil, fmt.Errorf("insert meeting photo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *MeetingPhotoStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM meeting_photos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete meeting photo: %w", err)
	}
	return nil
}
