package v1

import (
	"github.com/vklink/flix/internal/aggregate"
	"github.com/vklink/flix/internal/catalog"
	"github.com/vklink/flix/internal/progress"
	"github.com/vklink/flix/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type categoriesResponse struct {
	Categories []catalog.Category `json:"categories"`
}

type itemsResponse struct {
	Items   []catalog.Item `json:"items"`
	Page    int            `json:"page"`
	HasMore bool           `json:"has_more"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []catalog.Item `json:"results"`
}

type homeResponse struct {
	Groups           []aggregate.Group  `json:"groups"`
	Featured         *catalog.Item      `json:"featured,omitempty"`
	ContinueWatching []*progress.Record `json:"continue_watching,omitempty"`
}

type detailRequest struct {
	Item catalog.Item `json:"item"`
}

type episodesRequest struct {
	Item catalog.Item `json:"item"`
}

type episodesResponse struct {
	Episodes []catalog.Episode `json:"episodes"`
}

type startSessionRequest struct {
	UserID string       `json:"user_id"`
	Item   catalog.Item `json:"item"`
}

type positionRequest struct {
	PositionSeconds int64  `json:"position_seconds"`
	DurationSeconds *int64 `json:"duration_seconds,omitempty"`
}

type selectEpisodeRequest struct {
	EpisodeID string `json:"episode_id"`
}

type failRequest struct {
	Reason string `json:"reason"`
}

type upsertProgressRequest struct {
	progress.Record
}

type statusResponse struct {
	Version  string `json:"version"`
	Source   string `json:"source"`
	Sessions int    `json:"sessions"`
}

type sessionResponse struct {
	Session session.Snapshot `json:"session"`
}
