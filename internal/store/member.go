package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gyesanghoe/gyesanghoe/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberColumns = "id, name, grade, mobile, email, company, department, position, address, prev_company, memo, bio, photo_url, created_at, updated_at"

func scanMember(row interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	err := row.Scan(&m.ID, &m.Name, &m.Grade, &m.Mobile, &m.Email, &m.Company, &m.Department,
		&m.Position, &m.Address, &m.PrevCompany, &m.Memo, &m.Bio, &m.PhotoURL, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns all members ordered by (grade, name).
func (s *MemberStore) List(ctx context.Context) ([]model.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members ORDER BY grade, name")
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *MemberStore) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query member: %w", err)
	}
	return m, nil
}

func (s *MemberStore) Create(ctx context.Context, d model.MemberDraft) (*model.Member, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO members (name, grade, mobile, email, company, department, position, address, prev_company, memo, bio, photo_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Name, d.Grade, d.Mobile, d.Email, d.Company, d.Department, d.Position,
		d.Address, d.PrevCompany, d.Memo, d.Bio, d.PhotoURL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *MemberStore) Update(ctx context.Context, id int64, d model.MemberDraft) (*model.Member, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE members
		 SET name = ?, grade = ?, mobile = ?, email = ?, company = ?, department = ?, position = ?,
		     address = ?, prev_company = ?, memo = ?, bio = ?, photo_url = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		d.Name, d.Grade, d.Mobile, d.Email, d.Company, d.Department, d.Position,
		d.Address, d.PrevCompany, d.Memo, d.Bio, d.PhotoURL, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes a member. Relation rows referencing the member are
// removed by the store's foreign keys, not by the application.
func (s *MemberStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}
