package xtream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultMovieExt   = "mp4"
	defaultEpisodeExt = "mkv"
)

// Client is a raw Xtream panel API client. Credentials ride in the
// query string and in playable URLs by design of the upstream protocol;
// they are sensitive and must never be logged.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a panel client. Trailing slashes on baseURL are
// stripped so URL templates compose cleanly.
func NewClient(baseURL, username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) apiURL(action string, params url.Values) string {
	q := url.Values{}
	q.Set("username", c.username)
	q.Set("password", c.password)
	q.Set("action", action)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return c.baseURL + "/player_api.php?" + q.Encode()
}

// call performs a panel request and decodes into out. Panels sometimes
// answer list endpoints with HTML error pages or bare strings; a body
// that fails to decode is treated as an empty result rather than a hard
// failure, matching how callers tolerate degraded panels.
func (c *Client) call(ctx context.Context, action string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(action, params), nil)
	if err != nil {
		return fmt.Errorf("create request %s: %w", action, sanitizeErr(err, c))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("panel request %s: %w", action, sanitizeErr(err, c))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("panel %s: status %s", action, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("panel %s: read body: %w", action, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		// Leave out at its zero value.
		return nil
	}
	return nil
}

// sanitizeErr strips panel credentials from transport errors, which
// embed the request URL.
func sanitizeErr(err error, c *Client) error {
	msg := err.Error()
	msg = strings.ReplaceAll(msg, c.username, "***")
	msg = strings.ReplaceAll(msg, c.password, "***")
	return fmt.Errorf("%s", msg)
}

// GetVODCategories lists movie categories.
func (c *Client) GetVODCategories(ctx context.Context) ([]wireCategory, error) {
	var cats []wireCategory
	if err := c.call(ctx, "get_vod_categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// GetSeriesCategories lists series categories.
func (c *Client) GetSeriesCategories(ctx context.Context) ([]wireCategory, error) {
	var cats []wireCategory
	if err := c.call(ctx, "get_series_categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// GetVODStreams lists movie streams, optionally scoped to a category.
// The panel has no native pagination; this is always the full list.
func (c *Client) GetVODStreams(ctx context.Context, categoryID string) ([]wireVODStream, error) {
	params := url.Values{}
	if categoryID != "" {
		params.Set("category_id", categoryID)
	}
	var streams []wireVODStream
	if err := c.call(ctx, "get_vod_streams", params, &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// GetSeries lists series rows, optionally scoped to a category.
func (c *Client) GetSeries(ctx context.Context, categoryID string) ([]wireSeries, error) {
	params := url.Values{}
	if categoryID != "" {
		params.Set("category_id", categoryID)
	}
	var rows []wireSeries
	if err := c.call(ctx, "get_series", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSeriesInfo fetches a series' season/episode map.
func (c *Client) GetSeriesInfo(ctx context.Context, seriesID string) (*wireSeriesInfo, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)
	var info wireSeriesInfo
	if err := c.call(ctx, "get_series_info", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetVODInfo fetches a movie's detail record.
func (c *Client) GetVODInfo(ctx context.Context, vodID string) (*wireVODInfo, error) {
	params := url.Values{}
	params.Set("vod_id", vodID)
	var info wireVODInfo
	if err := c.call(ctx, "get_vod_info", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// MovieURL builds the playable URL for a movie stream:
// {base}/movie/{user}/{pass}/{streamID}.{ext}, defaulting to mp4.
func (c *Client) MovieURL(streamID, containerExt string) string {
	if containerExt == "" {
		containerExt = defaultMovieExt
	}
	return fmt.Sprintf("%s/movie/%s/%s/%s.%s", c.baseURL, c.username, c.password, streamID, containerExt)
}

// EpisodeURL builds the playable URL for a series episode:
// {base}/series/{user}/{pass}/{episodeID}.{ext}, defaulting to mkv.
func (c *Client) EpisodeURL(episodeID, containerExt string) string {
	if containerExt == "" {
		containerExt = defaultEpisodeExt
	}
	return fmt.Sprintf("%s/series/%s/%s/%s.%s", c.baseURL, c.username, c.password, episodeID, containerExt)
}
