package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps HTTP calls to the flix server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new flix API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// API response types (mirror server types)

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type ItemResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Synopsis    string  `json:"synopsis"`
	CoverURL    string  `json:"cover_url"`
	MediaURL    string  `json:"media_url"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	CategoryID  string  `json:"category_id,omitempty"`
	Language    string  `json:"language,omitempty"`
	Popularity  float64 `json:"popularity"`
	SeasonCount int     `json:"season_count"`

	// Opaque provider identifiers; round-tripped so detail and episode
	// lookups work against provider-backed sources.
	ProviderStreamID string `json:"provider_stream_id,omitempty"`
	ProviderSeriesID string `json:"provider_series_id,omitempty"`
}

type ListItemsResponse struct {
	Items   []ItemResponse `json:"items"`
	Page    int            `json:"page"`
	HasMore bool           `json:"has_more"`
}

type SearchResponse struct {
	Query   string         `json:"query"`
	Results []ItemResponse `json:"results"`
}

type EpisodeResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
}

type ListEpisodesResponse struct {
	Episodes []EpisodeResponse `json:"episodes"`
}

type ProgressResponse struct {
	UserID          string `json:"user_id"`
	ContentID       string `json:"content_id"`
	ContentTitle    string `json:"content_title"`
	PositionSeconds int64  `json:"position_seconds"`
	DurationSeconds *int64 `json:"duration_seconds,omitempty"`
	UpdatedAt       string `json:"updated_at"`
}

type StatusResponse struct {
	Version  string `json:"version"`
	Source   string `json:"source"`
	Sessions int    `json:"sessions"`
}

// API methods

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Categories(mediaType string) (*ListCategoriesResponse, error) {
	path := "/api/v1/categories"
	if mediaType != "" {
		path += "?type=" + url.QueryEscape(mediaType)
	}
	var resp ListCategoriesResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Items(categoryID, categoryName, mediaType string, page, pageSize int) (*ListItemsResponse, error) {
	params := url.Values{}
	if categoryID != "" {
		params.Set("category_id", categoryID)
	}
	if categoryName != "" {
		params.Set("category_name", categoryName)
	}
	if mediaType != "" {
		params.Set("type", mediaType)
	}
	params.Set("page", strconv.Itoa(page))
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}

	var resp ListItemsResponse
	if err := c.get("/api/v1/items?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Search(query, mediaType string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	if mediaType != "" {
		params.Set("type", mediaType)
	}

	var resp SearchResponse
	if err := c.get("/api/v1/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DetailResponse mirrors the server's detail payload.
type DetailResponse struct {
	Synopsis string  `json:"synopsis"`
	Rating   float64 `json:"rating"`
	Genre    string  `json:"genre"`
	Duration string  `json:"duration"`
	Cast     string  `json:"cast"`
	Director string  `json:"director"`
	Year     string  `json:"year"`
	Backdrop string  `json:"backdrop,omitempty"`
}

func (c *Client) Episodes(item ItemResponse) (*ListEpisodesResponse, error) {
	req := map[string]any{"item": item}
	var resp ListEpisodesResponse
	if err := c.post("/api/v1/episodes", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Detail(item ItemResponse) (*DetailResponse, error) {
	req := map[string]any{"item": item}
	var d DetailResponse
	if err := c.post("/api/v1/detail", req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) RecentProgress(userID string, limit int) ([]ProgressResponse, error) {
	path := fmt.Sprintf("/api/v1/progress/%s?limit=%d", url.PathEscape(userID), limit)
	var resp []ProgressResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
