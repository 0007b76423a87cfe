package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gyesanghoe/gyesanghoe/internal/model"
)

// RosterStore manages the meeting_attendees and meeting_expected join
// tables. Both relations hold at most one row per (meeting, member)
// pair; the uniqueness is enforced here transactionally rather than by
// checking an in-memory snapshot.
type RosterStore struct {
	db *sql.DB
}

func NewRosterStore(db *sql.DB) *RosterStore {
	return &RosterStore{db: db}
}

func (s *RosterStore) listRelation(ctx context.Context, table string, meetingID int64) ([]model.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.id, m.name, m.grade, m.mobile, m.email, m.company, m.department, m.position,
		        m.address, m.prev_company, m.memo, m.bio, m.photo_url, m.created_at, m.updated_at
		 FROM `+table+` r
		 JOIN members m ON m.id = r.member_id
		 WHERE r.meeting_id = ?
		 ORDER BY m.grade, m.name`,
		meetingID,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s member: %w", table, err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// Attendees returns the members recorded as having attended the meeting.
func (s *RosterStore) Attendees(ctx context.Context, meetingID int64) ([]model.Member, error) {
	return s.listRelation(ctx, "meeting_attendees", meetingID)
}

// Expected returns the members expected at an upcoming meeting.
func (s *RosterStore) Expected(ctx context.Context, meetingID int64) ([]model.Member, error) {
	return s.listRelation(ctx, "meeting_expected", meetingID)
}

// ToggleExpected flips the member's presence in the expected relation
// and reports whether the member is now expected. The existence check
// and the write happen in one transaction, so concurrent toggles on the
// same pair settle to a consistent state.
func (s *RosterStore) ToggleExpected(ctx context.Context, meetingID, memberID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM meeting_expected WHERE meeting_id = ? AND member_id = ?",
		meetingID, memberID,
	)
	if err != nil {
		return false, fmt.Errorf("delete expected: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	expected := false
	if deleted == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO meeting_expected (meeting_id, member_id) VALUES (?, ?)",
			meetingID, memberID,
		); err != nil {
			return false, fmt.Errorf("insert expected: %w", err)
		}
		expected = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return expected, nil
}

// ReplaceAttendees rewrites the full attendance roster for a meeting.
// Delete-then-insert in one transaction keeps the relation duplicate
// free and makes repeated saves of the same roster idempotent.
func (s *RosterStore) ReplaceAttendees(ctx context.Context, meetingID int64, memberIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM meeting_attendees WHERE meeting_id = ?", meetingID); err != nil {
		return fmt.Errorf("clear attendees: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO meeting_attendees (meeting_id, member_id) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, memberID := range memberIDs {
		if _, err := stmt.ExecContext(ctx, meetingID, memberID); err != nil {
			return fmt.Errorf("insert attendee %d: %w", memberID, err)
		}
	}

	return tx.Commit()
}
