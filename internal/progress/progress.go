// Package progress persists per-user, per-content playback position.
package progress

import (
	"errors"
	"time"
)

// ErrNotFound indicates no progress record exists for the key.
var ErrNotFound = errors.New("not found")

// Record is one logical playback position per (UserID, ContentID).
// Writes are upserts, last-write-wins by UpdatedAt. Records are created
// on the first checkpoint at least 5 seconds into playback and never
// deleted here; retention is an external concern.
type Record struct {
	UserID          string    `json:"user_id"`
	ContentID       string    `json:"content_id"`
	ContentTitle    string    `json:"content_title"`
	PositionSeconds int64     `json:"position_seconds"`
	DurationSeconds *int64    `json:"duration_seconds,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Resume thresholds: skip tiny positions, and don't offer to resume a
// nearly finished item.
const (
	minResumeSeconds  = 10
	maxResumeFraction = 0.95
)

// Offerable reports whether a saved record should produce a resume
// prompt. An unknown duration passes the fraction check, so legitimate
// resume points are not lost when duration wasn't recorded.
func Offerable(r *Record) bool {
	if r == nil || r.PositionSeconds <= minResumeSeconds {
		return false
	}
	if r.DurationSeconds == nil || *r.DurationSeconds <= 0 {
		return true
	}
	return float64(r.PositionSeconds)/float64(*r.DurationSeconds) < maxResumeFraction
}
