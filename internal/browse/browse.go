// Package browse coordinates category and search requests against a
// catalog source. Requests race: a category switch or a new search may
// be issued while an older one is in flight. Each logical channel
// (category listing, search) carries a monotonically increasing
// generation; a response is applied only when its generation is still
// the latest issued, so the visible state never regresses to an older
// request's result.
package browse

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/vklink/flix/internal/catalog"
)

const (
	defaultDebounce = 500 * time.Millisecond
	minQueryLength  = 2
)

// State is a snapshot of what the presentation layer should render.
type State struct {
	Category        *catalog.Category
	Items           []catalog.Item
	HasMore         bool
	Page            int
	SearchActive    bool
	SearchResults   []catalog.Item
	SearchErr       error
	CategoryListErr error
}

// Browser mediates between the presentation layer and a catalog source.
type Browser struct {
	source   catalog.Source
	pageSize int
	debounce time.Duration

	mu          sync.Mutex
	catGen      uint64
	searchGen   uint64
	searchTimer *time.Timer
	state       State
}

// Option configures a Browser.
type Option func(*Browser)

// WithDebounce overrides the search debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(b *Browser) {
		b.debounce = d
	}
}

// New creates a Browser over the given source.
func New(source catalog.Source, pageSize int, opts ...Option) *Browser {
	b := &Browser{
		source:   source,
		pageSize: pageSize,
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns a copy of the current browse state.
func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SelectCategory loads the first page of a category. A newer selection
// issued while this one is in flight wins: the stale response is
// discarded on arrival.
func (b *Browser) SelectCategory(ctx context.Context, cat catalog.Category) error {
	b.mu.Lock()
	b.catGen++
	gen := b.catGen
	b.mu.Unlock()

	items, hasMore, err := b.source.ListItems(ctx, cat, 1, b.pageSize)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.catGen {
		return nil // superseded; drop silently
	}
	if err != nil {
		b.state.Category = &cat
		b.state.Items = nil
		b.state.HasMore = false
		b.state.Page = 0
		b.state.CategoryListErr = err
		return err
	}
	b.state.Category = &cat
	b.state.Items = items
	b.state.HasMore = hasMore
	b.state.Page = 1
	b.state.CategoryListErr = nil
	return nil
}

// LoadMore appends the next page of the current category. It shares the
// category channel's generation, so a category switch issued meanwhile
// discards the page.
func (b *Browser) LoadMore(ctx context.Context) error {
	b.mu.Lock()
	if b.state.Category == nil || !b.state.HasMore {
		b.mu.Unlock()
		return nil
	}
	cat := *b.state.Category
	page := b.state.Page + 1
	gen := b.catGen
	b.mu.Unlock()

	items, hasMore, err := b.source.ListItems(ctx, cat, page, b.pageSize)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.catGen {
		return nil
	}
	b.state.Items = append(b.state.Items, items...)
	b.state.HasMore = hasMore
	b.state.Page = page
	return nil
}

// SetQuery schedules a debounced global search. Every keystroke lands
// here: a pending scheduled search is canceled and replaced, and the
// search only fires after the debounce interval passes without a newer
// query. Queries shorter than two runes clear search mode immediately.
func (b *Browser) SetQuery(ctx context.Context, query string, typeFilter *catalog.MediaType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.searchTimer != nil {
		b.searchTimer.Stop()
		b.searchTimer = nil
	}

	if utf8.RuneCountInString(query) < minQueryLength {
		b.searchGen++
		b.state.SearchActive = false
		b.state.SearchResults = nil
		b.state.SearchErr = nil
		return
	}

	b.searchGen++
	gen := b.searchGen
	b.searchTimer = time.AfterFunc(b.debounce, func() {
		b.runSearch(ctx, gen, query, typeFilter)
	})
}

// SearchNow bypasses the debounce, for callers that already waited.
func (b *Browser) SearchNow(ctx context.Context, query string, typeFilter *catalog.MediaType) {
	b.mu.Lock()
	b.searchGen++
	gen := b.searchGen
	b.mu.Unlock()
	b.runSearch(ctx, gen, query, typeFilter)
}

func (b *Browser) runSearch(ctx context.Context, gen uint64, query string, typeFilter *catalog.MediaType) {
	b.mu.Lock()
	if gen != b.searchGen {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	results, err := b.source.Search(ctx, query, typeFilter)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.searchGen {
		return // a newer query superseded this one while it was in flight
	}
	b.state.SearchActive = true
	b.state.SearchResults = results
	b.state.SearchErr = err
}
