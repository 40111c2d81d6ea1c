package session

import (
	"time"

	"github.com/vklink/flix/internal/events"
	"github.com/vklink/flix/internal/metrics"
	"github.com/vklink/flix/internal/progress"
)

// Positions under this floor are noise (pre-roll, accidental taps) and
// never persisted.
const minCheckpointSeconds = 5

// checkpointLoop persists the session's position every interval until
// the session stops. Page-hide and stop flushes may land at the same
// instant as a tick; the dedup-by-floor guard in flush makes that
// idempotent, so no extra locking is needed.
func (c *Controller) checkpointLoop(s *Session) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			c.flush(s)
		}
	}
}

// flush writes the current position if it is worth writing: at least
// minCheckpointSeconds in, and a different floor-second than the last
// persisted write. Write failures are swallowed; playback never halts
// because a checkpoint failed.
func (c *Controller) flush(s *Session) {
	c.mu.Lock()
	floor := s.position
	if floor < minCheckpointSeconds || floor == s.lastSavedFloor {
		c.mu.Unlock()
		return
	}
	s.lastSavedFloor = floor
	rec := &progress.Record{
		UserID:          s.UserID,
		ContentID:       s.Item.ID,
		ContentTitle:    s.Item.Title,
		PositionSeconds: floor,
		DurationSeconds: s.duration,
		UpdatedAt:       time.Now(),
	}
	sessionID := s.ID
	c.mu.Unlock()

	if err := c.store.Upsert(rec); err != nil {
		metrics.CheckpointWrites.WithLabelValues("error").Inc()
		c.logger.Warn("checkpoint write failed",
			"content_id", rec.ContentID,
			"position", rec.PositionSeconds,
			"error", err)
		return
	}
	metrics.CheckpointWrites.WithLabelValues("ok").Inc()

	c.bus.Publish(events.SessionCheckpoint{
		BaseEvent:       events.NewBaseEvent(events.EventSessionCheckpoint, events.EntitySession, sessionID),
		ContentID:       rec.ContentID,
		PositionSeconds: rec.PositionSeconds,
	})
}
