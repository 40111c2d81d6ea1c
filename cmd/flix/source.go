package main

import (
	"context"

	"github.com/vklink/flix/internal/catalog"
)

// apiSource adapts the REST client to catalog.Source so the interactive
// browser runs against a remote daemon the same way the daemon's own
// components run against an adapter.
type apiSource struct {
	client *Client
}

func (s *apiSource) ListCategories(_ context.Context) ([]catalog.Category, error) {
	resp, err := s.client.Categories("")
	if err != nil {
		return nil, err
	}
	cats := make([]catalog.Category, 0, len(resp.Categories))
	for _, c := range resp.Categories {
		cats = append(cats, catalog.Category{
			ID:   c.ID,
			Name: c.Name,
			Type: catalog.MediaType(c.Type),
		})
	}
	return cats, nil
}

func (s *apiSource) ListItems(_ context.Context, cat catalog.Category, page, pageSize int) ([]catalog.Item, bool, error) {
	resp, err := s.client.Items(cat.ID, cat.Name, string(cat.Type), page, pageSize)
	if err != nil {
		return nil, false, err
	}
	return itemsFromResponses(resp.Items), resp.HasMore, nil
}

func (s *apiSource) FetchDetail(_ context.Context, item catalog.Item) (*catalog.Detail, error) {
	d, err := s.client.Detail(responseFromItem(item))
	if err != nil {
		return nil, err
	}
	return &catalog.Detail{
		Synopsis: d.Synopsis,
		Rating:   d.Rating,
		Genre:    d.Genre,
		Duration: d.Duration,
		Cast:     d.Cast,
		Director: d.Director,
		Year:     d.Year,
		Backdrop: d.Backdrop,
	}, nil
}

func (s *apiSource) ListEpisodes(_ context.Context, series catalog.Item) ([]catalog.Episode, error) {
	resp, err := s.client.Episodes(responseFromItem(series))
	if err != nil {
		return nil, err
	}
	eps := make([]catalog.Episode, 0, len(resp.Episodes))
	for _, e := range resp.Episodes {
		eps = append(eps, catalog.Episode{
			ID:      e.ID,
			Name:    e.Name,
			URL:     e.URL,
			Season:  e.Season,
			Episode: e.Episode,
		})
	}
	return eps, nil
}

func (s *apiSource) Search(_ context.Context, query string, typeFilter *catalog.MediaType) ([]catalog.Item, error) {
	mediaType := ""
	if typeFilter != nil {
		mediaType = string(*typeFilter)
	}
	resp, err := s.client.Search(query, mediaType)
	if err != nil {
		return nil, err
	}
	return itemsFromResponses(resp.Results), nil
}

func itemsFromResponses(rows []ItemResponse) []catalog.Item {
	items := make([]catalog.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, catalog.Item{
			ID:          r.ID,
			Title:       r.Title,
			Synopsis:    r.Synopsis,
			CoverURL:    r.CoverURL,
			MediaURL:    r.MediaURL,
			Type:        catalog.MediaType(r.Type),
			Category:    r.Category,
			CategoryID:  r.CategoryID,
			Language:    r.Language,
			Popularity:  r.Popularity,
			SeasonCount: r.SeasonCount,

			ProviderStreamID: r.ProviderStreamID,
			ProviderSeriesID: r.ProviderSeriesID,
		})
	}
	return items
}

func responseFromItem(it catalog.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Title:       it.Title,
		Synopsis:    it.Synopsis,
		CoverURL:    it.CoverURL,
		MediaURL:    it.MediaURL,
		Type:        string(it.Type),
		Category:    it.Category,
		CategoryID:  it.CategoryID,
		Language:    it.Language,
		Popularity:  it.Popularity,
		SeasonCount: it.SeasonCount,

		ProviderStreamID: it.ProviderStreamID,
		ProviderSeriesID: it.ProviderSeriesID,
	}
}

var _ catalog.Source = (*apiSource)(nil)
