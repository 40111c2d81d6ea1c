// Package xtream provides the catalog source backed by an Xtream-style
// IPTV panel API.
package xtream

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Panel APIs are loose with JSON types: ids and ratings arrive as
// numbers or strings depending on the panel build. flexString and
// flexFloat absorb both.

type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

func (s flexString) String() string { return string(s) }

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		raw = strings.TrimSpace(v)
	}
	if raw == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = flexInt(f)
	return nil
}

// Wire types for player_api.php responses.

type wireCategory struct {
	CategoryID   flexString `json:"category_id"`
	CategoryName string     `json:"category_name"`
}

type wireVODStream struct {
	Num                flexString `json:"num"`
	StreamID           flexString `json:"stream_id"`
	Name               string     `json:"name"`
	StreamIcon         string     `json:"stream_icon"`
	Plot               string     `json:"plot"`
	CategoryID         flexString `json:"category_id"`
	CategoryName       string     `json:"category_name"`
	Rating             flexFloat  `json:"rating"`
	StreamType         string     `json:"stream_type"`
	ContainerExtension string     `json:"container_extension"`
}

type wireSeries struct {
	SeriesID   flexString `json:"series_id"`
	Name       string     `json:"name"`
	Cover      string     `json:"cover"`
	Plot       string     `json:"plot"`
	CategoryID flexString `json:"category_id"`
	Rating     flexFloat  `json:"rating"`
}

type wireEpisode struct {
	ID                 flexString `json:"id"`
	Title              string     `json:"title"`
	EpisodeNum         flexInt    `json:"episode_num"`
	ContainerExtension string     `json:"container_extension"`
}

type wireSeriesInfo struct {
	// Episodes maps season number (as a string key) to the season's
	// episode rows.
	Episodes map[string][]wireEpisode `json:"episodes"`
}

type wireVODInfo struct {
	Info      *wireVODDetail `json:"info"`
	MovieData *wireVODDetail `json:"movie_data"`
}

type wireVODDetail struct {
	Plot         string    `json:"plot"`
	Description  string    `json:"description"`
	Rating       flexFloat `json:"rating"`
	Rating5Based flexFloat `json:"rating_5based"`
	Genre        string    `json:"genre"`
	Duration     string    `json:"duration"`
	Cast         string    `json:"cast"`
	Director     string    `json:"director"`
	ReleaseDate  string    `json:"releasedate"`
	Year         string    `json:"year"`
	BackdropPath []string  `json:"backdrop_path"`
}
