package progress

import (
	"database/sql"
	"fmt"
	"time"
)

// Store provides access to progress records.
type Store struct {
	db *sql.DB
}

// NewStore creates a new progress store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Upsert writes a record keyed by (user_id, content_id). The backing
// row's per-record atomicity is the only transactional guarantee callers
// may rely on.
func (s *Store) Upsert(r *Record) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO progress (user_id, content_id, content_title, position_seconds, duration_seconds, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, content_id) DO UPDATE SET
			content_title = excluded.content_title,
			position_seconds = excluded.position_seconds,
			duration_seconds = excluded.duration_seconds,
			updated_at = excluded.updated_at`,
		r.UserID, r.ContentID, r.ContentTitle, r.PositionSeconds, r.DurationSeconds, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// Get retrieves the record for (userID, contentID).
// Returns ErrNotFound if no record exists.
func (s *Store) Get(userID, contentID string) (*Record, error) {
	r := &Record{}
	err := s.db.QueryRow(`
		SELECT user_id, content_id, content_title, position_seconds, duration_seconds, updated_at
		FROM progress WHERE user_id = ? AND content_id = ?`,
		userID, contentID,
	).Scan(&r.UserID, &r.ContentID, &r.ContentTitle, &r.PositionSeconds, &r.DurationSeconds, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return r, nil
}

// Recent returns the user's most recently updated records, newest
// first, for the continue-watching rail.
func (s *Store) Recent(userID string, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT user_id, content_id, content_title, position_seconds, duration_seconds, updated_at
		FROM progress WHERE user_id = ?
		ORDER BY updated_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent progress: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		r := &Record{}
		if err := rows.Scan(&r.UserID, &r.ContentID, &r.ContentTitle, &r.PositionSeconds, &r.DurationSeconds, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
