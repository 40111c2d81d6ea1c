package catalog

import "context"

//go:generate mockgen -destination=mocks/source.go -package=mocks github.com/vklink/flix/internal/catalog Source

// Source is the uniform contract over a catalog backend. Two
// implementations exist: the locally-curated catalog and the Xtream-style
// remote provider. Consumers depend only on this interface; the active
// implementation is selected once per session by configuration.
type Source interface {
	// ListCategories returns the source's categories in upstream order.
	// Fails with ErrUpstreamUnavailable when the remote call errors.
	ListCategories(ctx context.Context) ([]Category, error)

	// ListItems returns page `page` (1-based) of the category's full item
	// list, sliced to pageSize, and whether more pages exist. The provider
	// implementation fetches the full category list per request and slices
	// locally, so first-page latency is O(category size).
	ListItems(ctx context.Context, cat Category, page, pageSize int) ([]Item, bool, error)

	// FetchDetail returns optional per-item metadata. A missing detail
	// record must not block playback.
	FetchDetail(ctx context.Context, item Item) (*Detail, error)

	// ListEpisodes returns a series' episodes ordered by
	// (season, episode) ascending. Fails soft: an upstream error yields an
	// empty slice so the caller shows "no episodes found".
	ListEpisodes(ctx context.Context, series Item) ([]Episode, error)

	// Search matches query case-insensitively against titles (and
	// synopses, for the local source) across all items of the matching
	// media types, regardless of the selected category. typeFilter nil
	// means both types.
	Search(ctx context.Context, query string, typeFilter *MediaType) ([]Item, error)
}
