package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gyesanghoe/gyesanghoe/internal/model"
)

type NoticeStore struct {
	db *sql.DB
}

func NewNoticeStore(db *sql.DB) *NoticeStore {
	return &NoticeStore{db: db}
}

const noticeColumns = "id, title, content, author, created_at, updated_at"

// List returns all notices, newest first.
func (s *NoticeStore) List(ctx context.Context) ([]model.Notice, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+noticeColumns+" FROM notices ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("query notices: %w", err)
	}
	defer rows.Close()

	var notices []model.Notice
	for rows.Next() {
		var n model.Notice
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Author, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan notice: %w", err)
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

func (s *NoticeStore) GetByID(ctx context.Context, id int64) (*model.Notice, error) {
	var n model.Notice
	err := s.db.QueryRowContext(ctx,
		"SELECT "+noticeColumns+" FROM notices WHERE id = ?", id,
	).Scan(&n.ID, &n.Title, &n.Content, &n.Author, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query notice: %w", err)
	}
	return &n, nil
}

func (s *NoticeStore) Create(ctx context.Context, d model.NoticeDraft) (*model.Notice, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO notices (title, content, author) VALUES (?, ?, ?)",
		d.Title, d.Content, d.Author,
	)
	if err != nil {
		return nil, fmt.Errorf("insert notice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *NoticeStore) Update(ctx context.Context, id int64, d model.NoticeDraft) (*model.Notice, error) {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notices SET title = ?, content = ?, author = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		d.Title, d.Content, d.Author, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update notice: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *NoticeStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM notices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	return nil
}
