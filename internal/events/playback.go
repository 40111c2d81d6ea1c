package events

// Entity types
const (
	EntitySession = "session"
	EntityContent = "content"
)

// Event type constants
const (
	EventSessionStarted    = "session.started"
	EventSessionCheckpoint = "session.checkpoint"
	EventSessionEnded      = "session.ended"
	EventSessionFailed     = "session.failed"
)

// SessionStarted is emitted when a playback session resolves its media
// URL and becomes ready to play.
type SessionStarted struct {
	BaseEvent
	ContentID    string `json:"content_id"`
	ContentTitle string `json:"content_title"`
	MediaType    string `json:"media_type"`
	ResumeOffer  *int64 `json:"resume_offer_seconds,omitempty"`
}

// SessionCheckpoint is emitted after a progress position is persisted.
type SessionCheckpoint struct {
	BaseEvent
	ContentID       string `json:"content_id"`
	PositionSeconds int64  `json:"position_seconds"`
}

// SessionEnded is emitted when playback stops, however it stops.
type SessionEnded struct {
	BaseEvent
	ContentID       string `json:"content_id"`
	PositionSeconds int64  `json:"position_seconds"`
}

// SessionFailed is emitted when the player reports a media error or an
// adapter call fails mid-session.
type SessionFailed struct {
	BaseEvent
	ContentID string `json:"content_id"`
	Reason    string `json:"reason"`
}
