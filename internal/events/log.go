package events

import (
	"context"
	"log/slog"
)

// LogAll drains every event from the bus into the logger until the
// context is canceled or the bus closes. Run it in its own goroutine.
func LogAll(ctx context.Context, bus *Bus, logger *slog.Logger) {
	ch := bus.SubscribeAll(64)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			logger.Info("event",
				"type", e.EventType(),
				"entity_type", e.EntityType(),
				"entity_id", e.EntityID(),
			)
		}
	}
}
