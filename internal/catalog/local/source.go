package local

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vklink/flix/internal/aggregate"
	"github.com/vklink/flix/internal/catalog"
)

const defaultCatalogTTL = 5 * time.Minute

// Source adapts the curated catalog client to the catalog.Source
// contract. The whole catalog arrives in one response, so categories,
// pagination, and search all work off a briefly cached snapshot.
type Source struct {
	client *Client
	ttl    time.Duration

	mu        sync.Mutex
	snapshot  *Payload
	fetchedAt time.Time
}

// NewSource creates a local catalog source.
func NewSource(client *Client) *Source {
	return &Source{client: client, ttl: defaultCatalogTTL}
}

func (s *Source) load(ctx context.Context) (*Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil && time.Since(s.fetchedAt) < s.ttl {
		return s.snapshot, nil
	}
	p, err := s.client.FetchCatalog(ctx)
	if err != nil {
		// Serve the stale snapshot rather than an error state if we have one.
		if s.snapshot != nil {
			return s.snapshot, nil
		}
		return nil, err
	}
	s.snapshot = p
	s.fetchedAt = time.Now()
	return p, nil
}

// CuratedSections returns the admin-defined sections delivered with the
// catalog, for the aggregator's precedence pass.
func (s *Source) CuratedSections(ctx context.Context) ([]catalog.CuratedSection, error) {
	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return p.Sections, nil
}

// ListCategories derives categories from the items' labels: one category
// per distinct (label, media type) pair, first-seen order. The curated
// backend has no category endpoint of its own.
func (s *Source) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var cats []catalog.Category
	seen := map[string]bool{}
	for _, it := range p.Items {
		for _, label := range it.CategoryLabels() {
			key := strings.ToLower(label) + "|" + string(it.Type)
			if seen[key] {
				continue
			}
			seen[key] = true
			cats = append(cats, catalog.Category{
				ID:   key,
				Name: label,
				Type: it.Type,
			})
		}
	}
	return cats, nil
}

// ListItems pages through the items carrying the category's label and
// media type, in catalog order.
func (s *Source) ListItems(ctx context.Context, cat catalog.Category, page, pageSize int) ([]catalog.Item, bool, error) {
	p, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}

	var members []catalog.Item
	for _, it := range p.Items {
		if it.Type != cat.Type {
			continue
		}
		for _, label := range it.CategoryLabels() {
			if strings.EqualFold(label, cat.Name) {
				members = append(members, it)
				break
			}
		}
	}

	items, hasMore := catalog.Paginate(members, page, pageSize)
	return items, hasMore, nil
}

// FetchDetail is a no-op for the curated catalog; everything it knows is
// already on the item.
func (s *Source) FetchDetail(ctx context.Context, item catalog.Item) (*catalog.Detail, error) {
	return &catalog.Detail{
		Synopsis: item.Synopsis,
		Rating:   item.Popularity,
		Genre:    item.Category,
	}, nil
}

// ListEpisodes fetches a series' episodes by title. Upstream failure
// yields an empty slice so callers render "no episodes found".
func (s *Source) ListEpisodes(ctx context.Context, series catalog.Item) ([]catalog.Episode, error) {
	eps, err := s.client.FetchEpisodes(ctx, series.Title)
	if err != nil {
		return nil, nil
	}
	return eps, nil
}

// Search matches title and synopsis across the whole catalog.
func (s *Source) Search(ctx context.Context, query string, typeFilter *catalog.MediaType) ([]catalog.Item, error) {
	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.Filter(p.Items, query, typeFilter), nil
}

var _ catalog.Source = (*Source)(nil)
