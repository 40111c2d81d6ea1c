package xtream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vklink/flix/internal/aggregate"
	"github.com/vklink/flix/internal/catalog"
)

const defaultListTTL = 10 * time.Minute

// Source adapts the panel client to the catalog.Source contract. The
// panel has no native pagination or search, so full category lists are
// fetched (through the ListCache) and sliced or filtered locally.
type Source struct {
	client *Client
	cache  ListCache
	ttl    time.Duration
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithListCache replaces the default in-memory list cache.
func WithListCache(cache ListCache) SourceOption {
	return func(s *Source) {
		s.cache = cache
	}
}

// WithListTTL sets the list cache TTL.
func WithListTTL(ttl time.Duration) SourceOption {
	return func(s *Source) {
		s.ttl = ttl
	}
}

// NewSource creates a provider catalog source.
func NewSource(client *Client, opts ...SourceOption) *Source {
	s := &Source{
		client: client,
		cache:  NewMemoryCache(),
		ttl:    defaultListTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListCategories merges movie and series categories, movies first,
// fetching both lists in parallel. One side failing degrades to the
// other; both failing reports the upstream as unavailable.
func (s *Source) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var vodCats, seriesCats []wireCategory
	var vodErr, seriesErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vodCats, vodErr = s.client.GetVODCategories(gctx)
		return nil
	})
	g.Go(func() error {
		seriesCats, seriesErr = s.client.GetSeriesCategories(gctx)
		return nil
	})
	_ = g.Wait()

	if vodErr != nil && seriesErr != nil {
		return nil, catalog.ErrUpstreamUnavailable
	}

	cats := make([]catalog.Category, 0, len(vodCats)+len(seriesCats))
	for _, c := range vodCats {
		cats = append(cats, catalog.Category{
			ID:   c.CategoryID.String(),
			Name: c.CategoryName,
			Type: catalog.MediaTypeMovie,
		})
	}
	for _, c := range seriesCats {
		cats = append(cats, catalog.Category{
			ID:   c.CategoryID.String(),
			Name: c.CategoryName,
			Type: catalog.MediaTypeSeries,
		})
	}
	return cats, nil
}

// fullList returns every item of the given type in the given category
// ("" means the whole catalog), from cache when fresh.
func (s *Source) fullList(ctx context.Context, typ catalog.MediaType, cat *catalog.Category) ([]catalog.Item, error) {
	categoryID := ""
	if cat != nil {
		categoryID = cat.ID
	}
	key := "xtream:" + string(typ) + ":" + categoryID
	if items, ok := s.cache.Get(ctx, key); ok {
		return items, nil
	}

	var items []catalog.Item
	switch typ {
	case catalog.MediaTypeSeries:
		rows, err := s.client.GetSeries(ctx, categoryID)
		if err != nil {
			return nil, catalog.ErrUpstreamUnavailable
		}
		items = make([]catalog.Item, 0, len(rows))
		for _, r := range rows {
			items = append(items, s.seriesItem(r, cat))
		}
	default:
		rows, err := s.client.GetVODStreams(ctx, categoryID)
		if err != nil {
			return nil, catalog.ErrUpstreamUnavailable
		}
		items = make([]catalog.Item, 0, len(rows))
		for _, r := range rows {
			items = append(items, s.movieItem(r, cat))
		}
	}

	s.cache.Set(ctx, key, items, s.ttl)
	return items, nil
}

func (s *Source) movieItem(r wireVODStream, cat *catalog.Category) catalog.Item {
	id := r.StreamID.String()
	if id == "" {
		id = r.Num.String()
	}
	category := r.CategoryName
	categoryID := r.CategoryID.String()
	// Per-category listings often omit the category name; inherit the
	// requested category's fields only where the row lacks its own.
	if cat != nil {
		if category == "" {
			category = cat.Name
		}
		if categoryID == "" {
			categoryID = cat.ID
		}
	}
	if category == "" {
		category = categoryID
	}
	return catalog.Item{
		ID:               id,
		Title:            r.Name,
		Synopsis:         r.Plot,
		CoverURL:         r.StreamIcon,
		MediaURL:         s.client.MovieURL(r.StreamID.String(), r.ContainerExtension),
		Type:             catalog.MediaTypeMovie,
		Category:         category,
		CategoryID:       categoryID,
		Language:         r.StreamType,
		Popularity:       float64(r.Rating),
		ProviderStreamID: r.StreamID.String(),
	}
}

func (s *Source) seriesItem(r wireSeries, cat *catalog.Category) catalog.Item {
	category := ""
	categoryID := r.CategoryID.String()
	if cat != nil {
		category = cat.Name
		if categoryID == "" {
			categoryID = cat.ID
		}
	}
	if category == "" {
		category = categoryID
	}
	return catalog.Item{
		ID:               r.SeriesID.String(),
		Title:            r.Name,
		Synopsis:         r.Plot,
		CoverURL:         r.Cover,
		MediaURL:         "", // resolved per-episode
		Type:             catalog.MediaTypeSeries,
		Category:         category,
		CategoryID:       categoryID,
		Popularity:       float64(r.Rating),
		ProviderSeriesID: r.SeriesID.String(),
	}
}

// ListItems fetches the category's full list and slices it locally.
// First-page latency is O(category size); the panel offers nothing
// better. A category without an id is resolved by name first: an empty
// category_id means "everything" to the panel, which would relabel the
// whole catalog as the requested category.
func (s *Source) ListItems(ctx context.Context, cat catalog.Category, page, pageSize int) ([]catalog.Item, bool, error) {
	if cat.ID == "" {
		resolved, err := s.resolveCategory(ctx, cat)
		if err != nil {
			return nil, false, err
		}
		cat = resolved
	}
	all, err := s.fullList(ctx, cat.Type, &cat)
	if err != nil {
		return nil, false, err
	}
	items, hasMore := catalog.Paginate(all, page, pageSize)
	return items, hasMore, nil
}

// resolveCategory finds the panel category matching the given name and
// type, case-insensitively.
func (s *Source) resolveCategory(ctx context.Context, cat catalog.Category) (catalog.Category, error) {
	if cat.Name == "" {
		return cat, fmt.Errorf("category id or name required: %w", catalog.ErrNotFound)
	}
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return cat, err
	}
	for _, c := range cats {
		if c.Type == cat.Type && strings.EqualFold(c.Name, cat.Name) {
			return c, nil
		}
	}
	return cat, fmt.Errorf("category %q: %w", cat.Name, catalog.ErrNotFound)
}

// FetchDetail queries get_vod_info for movies. Series and items without
// a stream id fall back to what the item already carries; detail absence
// never blocks playback.
func (s *Source) FetchDetail(ctx context.Context, item catalog.Item) (*catalog.Detail, error) {
	if item.Type != catalog.MediaTypeMovie || item.ProviderStreamID == "" {
		return &catalog.Detail{
			Synopsis: item.Synopsis,
			Genre:    item.Category,
		}, nil
	}

	info, err := s.client.GetVODInfo(ctx, item.ProviderStreamID)
	if err != nil {
		return nil, catalog.ErrUpstreamUnavailable
	}

	d := info.Info
	if d == nil {
		d = info.MovieData
	}
	if d == nil {
		return &catalog.Detail{Synopsis: item.Synopsis, Genre: item.Category}, nil
	}

	detail := &catalog.Detail{
		Synopsis: d.Plot,
		Rating:   float64(d.Rating),
		Genre:    d.Genre,
		Duration: d.Duration,
		Cast:     d.Cast,
		Director: d.Director,
		Year:     d.ReleaseDate,
	}
	if detail.Synopsis == "" {
		detail.Synopsis = d.Description
	}
	if detail.Rating == 0 {
		detail.Rating = float64(d.Rating5Based)
	}
	if detail.Year == "" {
		detail.Year = d.Year
	}
	if len(d.BackdropPath) > 0 {
		detail.Backdrop = d.BackdropPath[0]
	}
	return detail, nil
}

// ListEpisodes flattens get_series_info's season map into a single
// (season, episode)-ordered slice. Upstream errors yield an empty slice
// so the caller shows "no episodes found".
func (s *Source) ListEpisodes(ctx context.Context, series catalog.Item) ([]catalog.Episode, error) {
	if series.ProviderSeriesID == "" {
		return nil, nil
	}
	info, err := s.client.GetSeriesInfo(ctx, series.ProviderSeriesID)
	if err != nil {
		return nil, nil
	}

	var eps []catalog.Episode
	for season, rows := range info.Episodes {
		seasonNum := parseSeason(season)
		for _, r := range rows {
			name := r.Title
			if name == "" {
				name = r.ID.String()
			}
			eps = append(eps, catalog.Episode{
				ID:      r.ID.String(),
				Name:    name,
				URL:     s.client.EpisodeURL(r.ID.String(), r.ContainerExtension),
				Season:  seasonNum,
				Episode: int(r.EpisodeNum),
			})
		}
	}
	catalog.SortEpisodes(eps)
	return eps, nil
}

func parseSeason(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// Search fetches the entire movie and/or series catalog, then filters
// titles by case-insensitive substring. The panel exposes no search
// endpoint, so this fetch-all strategy is deliberate; the list cache
// keeps repeated queries from refetching. It will not scale to panels
// with very large catalogs.
func (s *Source) Search(ctx context.Context, query string, typeFilter *catalog.MediaType) ([]catalog.Item, error) {
	wantMovies := typeFilter == nil || *typeFilter == catalog.MediaTypeMovie
	wantSeries := typeFilter == nil || *typeFilter == catalog.MediaTypeSeries

	var movies, series []catalog.Item
	g, gctx := errgroup.WithContext(ctx)
	if wantMovies {
		g.Go(func() error {
			var err error
			movies, err = s.fullList(gctx, catalog.MediaTypeMovie, nil)
			return err
		})
	}
	if wantSeries {
		g.Go(func() error {
			var err error
			series, err = s.fullList(gctx, catalog.MediaTypeSeries, nil)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Cached slices are shared; never append into them.
	all := make([]catalog.Item, 0, len(movies)+len(series))
	all = append(all, movies...)
	all = append(all, series...)

	q := aggregate.Normalize(query)
	var out []catalog.Item
	for _, it := range all {
		if strings.Contains(aggregate.Normalize(it.Title), q) {
			out = append(out, it)
		}
	}
	return out, nil
}

var _ catalog.Source = (*Source)(nil)
