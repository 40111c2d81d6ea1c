// Package local implements the catalog source backed by the
// self-hosted curated catalog service.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vklink/flix/internal/catalog"
)

// Client talks to the curated catalog backend. The backend exposes one
// read endpoint for the full catalog plus curated sections, and one for
// a series' episode list keyed by series title.
type Client struct {
	baseURL    string
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

// NewClient creates a new curated catalog client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire types. The backend speaks the original Portuguese field names;
// they are normalized at this boundary and never leak further.
type wireItem struct {
	ID         string  `json:"id"`
	Titulo     string  `json:"titulo"`
	Sinopse    string  `json:"sinopse"`
	CapaURL    string  `json:"capa_url"`
	VideoURL   string  `json:"video_url"`
	Tipo       string  `json:"tipo"`
	Categoria  string  `json:"categoria"`
	Idioma     string  `json:"idioma"`
	Views      float64 `json:"views"`
	Temporadas int     `json:"temporadas"`
}

type wireSection struct {
	Categoria string `json:"categoria"`
	Tipo      string `json:"tipo"`
}

type wireEpisode struct {
	ID        string `json:"id"`
	Nome      string `json:"nome"`
	Link      string `json:"link"`
	Temporada int    `json:"temporada"`
	Episodio  int    `json:"episodio"`
}

type catalogResponse struct {
	Items    []wireItem    `json:"items"`
	Sections []wireSection `json:"sessoes"`
}

type episodesResponse struct {
	Episodes []wireEpisode `json:"episodes"`
}

// Payload is the full curated catalog: every item plus the admin-defined
// sections.
type Payload struct {
	Items    []catalog.Item
	Sections []catalog.CuratedSection
}

// FetchCatalog retrieves the complete catalog and curated sections.
func (c *Client) FetchCatalog(ctx context.Context) (*Payload, error) {
	var resp catalogResponse
	if err := c.get(ctx, "/catalog", &resp); err != nil {
		return nil, err
	}

	p := &Payload{
		Items:    make([]catalog.Item, 0, len(resp.Items)),
		Sections: make([]catalog.CuratedSection, 0, len(resp.Sections)),
	}
	for _, w := range resp.Items {
		p.Items = append(p.Items, catalog.Item{
			ID:          w.ID,
			Title:       w.Titulo,
			Synopsis:    w.Sinopse,
			CoverURL:    w.CapaURL,
			MediaURL:    w.VideoURL,
			Type:        catalog.ParseMediaType(w.Tipo),
			Category:    w.Categoria,
			Language:    w.Idioma,
			Popularity:  w.Views,
			SeasonCount: w.Temporadas,
		})
	}
	for _, s := range resp.Sections {
		p.Sections = append(p.Sections, catalog.CuratedSection{
			Label: s.Categoria,
			Type:  catalog.ParseMediaType(s.Tipo),
		})
	}
	return p, nil
}

// FetchEpisodes retrieves a series' episodes by series title, sorted by
// (season, episode).
func (c *Client) FetchEpisodes(ctx context.Context, seriesTitle string) ([]catalog.Episode, error) {
	var resp episodesResponse
	path := "/episodes?series=" + url.QueryEscape(seriesTitle)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	eps := make([]catalog.Episode, 0, len(resp.Episodes))
	for _, w := range resp.Episodes {
		name := w.Nome
		if name == "" {
			name = fmt.Sprintf("%d", w.Episodio)
		}
		eps = append(eps, catalog.Episode{
			ID:      w.ID,
			Name:    name,
			URL:     w.Link,
			Season:  w.Temporada,
			Episode: w.Episodio,
		})
	}
	catalog.SortEpisodes(eps)
	return eps, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", catalog.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: catalog API status %s", catalog.ErrUpstreamUnavailable, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
