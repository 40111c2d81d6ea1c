// Package catalog defines the normalized content model shared by all
// catalog sources.
package catalog

import (
	"sort"
	"strings"
)

// MediaType distinguishes movies from episodic series.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// Display returns the human-readable label for the media type.
func (t MediaType) Display() string {
	if t == MediaTypeSeries {
		return "Series"
	}
	return "Movie"
}

// ParseMediaType normalizes upstream type labels. Accented and
// Portuguese-style spellings of "series" map to MediaTypeSeries;
// everything else is a movie.
func ParseMediaType(s string) MediaType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "series", "serie", "série", "tv":
		return MediaTypeSeries
	default:
		return MediaTypeMovie
	}
}

// Item is a normalized catalog entry. ID plus Type uniquely identify an
// item within one source for the lifetime of a session; ids are not
// stable across sources.
type Item struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Synopsis string    `json:"synopsis"`
	CoverURL string    `json:"cover_url"`
	MediaURL string    `json:"media_url"` // empty for series until an episode is chosen
	Type     MediaType `json:"type"`

	// Category is a comma-joined label string as delivered upstream.
	Category   string `json:"category"`
	CategoryID string `json:"category_id,omitempty"`

	Language    string  `json:"language,omitempty"`
	Popularity  float64 `json:"popularity"`
	SeasonCount int     `json:"season_count"`

	// Opaque provider identifiers used only to build follow-up requests.
	ProviderStreamID string `json:"provider_stream_id,omitempty"`
	ProviderSeriesID string `json:"provider_series_id,omitempty"`
}

// CategoryLabels splits the comma-joined category field into trimmed,
// non-empty labels.
func (i Item) CategoryLabels() []string {
	parts := strings.Split(i.Category, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

// Episode belongs to exactly one series item. Within a series,
// (Season, Episode) is unique and defines the total order.
type Episode struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Season  int    `json:"season"`  // >= 1
	Episode int    `json:"episode"` // >= 1
}

// Category is scoped to one source instance; ids are not shared across
// sources.
type Category struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Type MediaType `json:"type"`
}

// Detail is optional per-item metadata. Absence never blocks playback.
type Detail struct {
	Synopsis string  `json:"synopsis"`
	Rating   float64 `json:"rating"` // 0-10
	Genre    string  `json:"genre"`
	Duration string  `json:"duration"`
	Cast     string  `json:"cast"`
	Director string  `json:"director"`
	Year     string  `json:"year"`
	Backdrop string  `json:"backdrop,omitempty"`
}

// CuratedSection is an admin-defined category+type pairing that takes
// display precedence over automatically inferred groups.
type CuratedSection struct {
	Label string    `json:"label"`
	Type  MediaType `json:"type"`
}

// GroupKey is the display key a curated section's rail is published under.
func (s CuratedSection) GroupKey() string {
	return s.Label + " (" + s.Type.Display() + ")"
}

// Paginate slices items for offset-based pagination: page p returns
// items [(p-1)*size, min(p*size, len)), and hasMore reports whether a
// further page exists. Pages start at 1; out-of-range pages are empty.
func Paginate(items []Item, page, size int) (slice []Item, hasMore bool) {
	if page < 1 || size < 1 {
		return nil, false
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil, false
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], end < len(items)
}

// SortEpisodes orders episodes by (season, episode) ascending in place.
func SortEpisodes(eps []Episode) {
	sort.SliceStable(eps, func(i, j int) bool {
		if eps[i].Season != eps[j].Season {
			return eps[i].Season < eps[j].Season
		}
		return eps[i].Episode < eps[j].Episode
	})
}
