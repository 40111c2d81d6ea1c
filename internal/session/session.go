// Package session orchestrates playback of a selected catalog item:
// media URL resolution, episode listing, resume lookup, and periodic
// progress checkpointing.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vklink/flix/internal/catalog"
	"github.com/vklink/flix/internal/events"
	"github.com/vklink/flix/internal/metrics"
	"github.com/vklink/flix/internal/progress"
	"github.com/vklink/flix/internal/relay"
)

// State is a playback session's lifecycle phase.
type State string

const (
	StateIdle              State = "idle"
	StateResolvingEpisodes State = "resolving_episodes"
	StateReadyToPlay       State = "ready"
	StatePlaying           State = "playing"
	StatePaused            State = "paused"
	StateEnded             State = "ended"
	StateError             State = "error"
)

// ErrSessionNotFound indicates an unknown or already-stopped session.
var ErrSessionNotFound = errors.New("session not found")

// Session is one playback attempt for one catalog item. Fields are
// owned by the Controller and read through snapshots.
type Session struct {
	ID     string
	UserID string
	Item   catalog.Item
	State  State

	// Episodes is populated for series; SelectedEpisode points into it.
	Episodes        []catalog.Episode
	SelectedEpisode *catalog.Episode

	// MediaURL is what the player element gets: plain-HTTP sources are
	// routed through the relay. RawMediaURL stays unproxied for the
	// open-externally fallback.
	MediaURL    string
	RawMediaURL string

	// ResumeOffer is the saved position to prompt with, when the saved
	// record clears the resume thresholds.
	ResumeOffer *int64

	// FailReason is set when State is StateError.
	FailReason string

	position       int64
	duration       *int64
	lastSavedFloor int64

	stop chan struct{}
}

// Snapshot is an immutable view of a session for API responses.
type Snapshot struct {
	ID              string            `json:"id"`
	State           State             `json:"state"`
	Item            catalog.Item      `json:"item"`
	Episodes        []catalog.Episode `json:"episodes,omitempty"`
	SelectedEpisode *catalog.Episode  `json:"selected_episode,omitempty"`
	MediaURL        string            `json:"media_url,omitempty"`
	ExternalURL     string            `json:"external_url,omitempty"`
	ResumeOffer     *int64            `json:"resume_offer_seconds,omitempty"`
	FailReason      string            `json:"fail_reason,omitempty"`
}

// Controller owns all live sessions. One controller instance writes the
// progress store at a time; concurrent sessions for the same content are
// not expected, so per-record upsert atomicity is all we need.
type Controller struct {
	source   catalog.Source
	store    *progress.Store
	bus      *events.Bus
	relayURL string
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// Config for a Controller.
type Config struct {
	// RelayURL is the HTTPS-upgrading relay endpoint; empty disables
	// rewriting.
	RelayURL string
	// CheckpointInterval is the wall-clock period between persisted
	// checkpoints while playing. Defaults to 5s.
	CheckpointInterval time.Duration
}

// NewController creates a playback session controller.
func NewController(source catalog.Source, store *progress.Store, bus *events.Bus, cfg Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Second
	}
	return &Controller{
		source:   source,
		store:    store,
		bus:      bus,
		relayURL: cfg.RelayURL,
		interval: cfg.CheckpointInterval,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Start begins a session for the given item. Movies resolve their media
// URL directly; series resolve their episode list and select the first
// episode in (season, episode) order. An empty episode list leaves the
// session ready but unplayable so the caller can show "no episodes
// found". Adapter failures land the session in StateError with the
// external-open fallback available whenever a raw URL is known.
func (c *Controller) Start(ctx context.Context, userID string, item catalog.Item) (Snapshot, error) {
	s := &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		Item:   item,
		State:  StateIdle,
		stop:   make(chan struct{}),
	}

	if item.Type == catalog.MediaTypeSeries {
		s.State = StateResolvingEpisodes
		eps, err := c.source.ListEpisodes(ctx, item)
		if err != nil {
			s.State = StateError
			s.FailReason = "content unavailable"
			c.publishFailed(s, err.Error())
			return c.register(s), nil
		}
		s.Episodes = eps
		if len(eps) > 0 {
			s.SelectedEpisode = &s.Episodes[0]
			s.RawMediaURL = s.SelectedEpisode.URL
		}
	} else {
		s.RawMediaURL = item.MediaURL
	}

	s.State = StateReadyToPlay
	s.MediaURL = relay.RewriteURL(c.relayURL, s.RawMediaURL)

	c.checkResume(s)

	c.bus.Publish(events.SessionStarted{
		BaseEvent:    events.NewBaseEvent(events.EventSessionStarted, events.EntitySession, s.ID),
		ContentID:    item.ID,
		ContentTitle: item.Title,
		MediaType:    string(item.Type),
		ResumeOffer:  s.ResumeOffer,
	})

	snap := c.register(s)
	go c.checkpointLoop(s)
	return snap, nil
}

// checkResume consults the progress store before first playback. Store
// failures are swallowed: resume is a convenience, never a blocker.
func (c *Controller) checkResume(s *Session) {
	rec, err := c.store.Get(s.UserID, s.Item.ID)
	if err != nil {
		if !errors.Is(err, progress.ErrNotFound) {
			c.logger.Warn("resume lookup failed", "content_id", s.Item.ID, "error", err)
		}
		return
	}
	if progress.Offerable(rec) {
		offer := rec.PositionSeconds
		s.ResumeOffer = &offer
	}
}

func (c *Controller) register(s *Session) Snapshot {
	c.mu.Lock()
	c.sessions[s.ID] = s
	c.mu.Unlock()
	metrics.ActiveSessions.Inc()
	return snapshotOf(s)
}

// Count returns the number of live sessions.
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Get returns a snapshot of a live session.
func (c *Controller) Get(id string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	return snapshotOf(s), nil
}

// SelectEpisode switches a series session to another episode and resets
// checkpoint dedup so the new episode's early positions persist.
func (c *Controller) SelectEpisode(id, episodeID string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	for i := range s.Episodes {
		if s.Episodes[i].ID == episodeID {
			s.SelectedEpisode = &s.Episodes[i]
			s.RawMediaURL = s.Episodes[i].URL
			s.MediaURL = relay.RewriteURL(c.relayURL, s.RawMediaURL)
			s.position = 0
			s.lastSavedFloor = 0
			if s.State == StateError {
				s.State = StateReadyToPlay
				s.FailReason = ""
			}
			return snapshotOf(s), nil
		}
	}
	return Snapshot{}, fmt.Errorf("episode %s: %w", episodeID, catalog.ErrNotFound)
}

// ReportPosition records the player's current position. The first
// report moves the session to StatePlaying.
func (c *Controller) ReportPosition(id string, positionSeconds int64, durationSeconds *int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.position = positionSeconds
	if durationSeconds != nil && *durationSeconds > 0 {
		s.duration = durationSeconds
	}
	if s.State == StateReadyToPlay || s.State == StatePaused {
		s.State = StatePlaying
	}
	return nil
}

// Pause marks the session paused. The checkpoint loop keeps running;
// the dedup-by-floor guard makes its writes no-ops while the position
// holds still.
func (c *Controller) Pause(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.State == StatePlaying {
		s.State = StatePaused
	}
	return nil
}

// Hidden handles page-hide: an immediate best-effort flush.
func (c *Controller) Hidden(id string) error {
	c.mu.Lock()
	s, ok := c.sessions[id]
	c.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	c.flush(s)
	return nil
}

// Fail records a player-reported media error. The open-externally
// fallback stays available through the snapshot's ExternalURL.
func (c *Controller) Fail(id, reason string) error {
	c.mu.Lock()
	s, ok := c.sessions[id]
	if !ok {
		c.mu.Unlock()
		return ErrSessionNotFound
	}
	s.State = StateError
	if reason == "" {
		reason = "could not play video"
	}
	s.FailReason = reason
	c.mu.Unlock()

	c.publishFailed(s, reason)
	return nil
}

// Stop flushes a final checkpoint, ends the session, and forgets it.
func (c *Controller) Stop(id string) error {
	c.mu.Lock()
	s, ok := c.sessions[id]
	if ok {
		delete(c.sessions, id)
	}
	c.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	close(s.stop)
	c.flush(s)

	c.mu.Lock()
	s.State = StateEnded
	pos := s.position
	c.mu.Unlock()

	metrics.ActiveSessions.Dec()
	c.bus.Publish(events.SessionEnded{
		BaseEvent:       events.NewBaseEvent(events.EventSessionEnded, events.EntitySession, s.ID),
		ContentID:       s.Item.ID,
		PositionSeconds: pos,
	})
	return nil
}

func (c *Controller) publishFailed(s *Session, reason string) {
	c.bus.Publish(events.SessionFailed{
		BaseEvent: events.NewBaseEvent(events.EventSessionFailed, events.EntitySession, s.ID),
		ContentID: s.Item.ID,
		Reason:    reason,
	})
}

func snapshotOf(s *Session) Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		State:       s.State,
		Item:        s.Item,
		Episodes:    s.Episodes,
		MediaURL:    s.MediaURL,
		ExternalURL: s.RawMediaURL,
		ResumeOffer: s.ResumeOffer,
		FailReason:  s.FailReason,
	}
	if s.SelectedEpisode != nil {
		ep := *s.SelectedEpisode
		snap.SelectedEpisode = &ep
	}
	return snap
}
