package xtream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vklink/flix/internal/catalog"
)

// panelHandler routes player_api.php actions to canned responses.
func panelHandler(calls map[string]*int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := r.URL.Query().Get("action")
		if c, ok := calls[action]; ok {
			atomic.AddInt32(c, 1)
		}
		switch action {
		case "get_vod_categories":
			_, _ = w.Write([]byte(`[{"category_id": "10", "category_name": "Terror"}]`))
		case "get_series_categories":
			_, _ = w.Write([]byte(`[{"category_id": "20", "category_name": "Drama"}]`))
		case "get_vod_streams":
			_, _ = w.Write([]byte(`[
				{"num": 1, "stream_id": 500, "name": "O Filme", "stream_icon": "http://img/500.jpg",
				 "category_id": "10", "rating": "8.1", "container_extension": "avi"},
				{"num": 2, "name": "Sem Stream ID", "category_id": "10"}
			]`))
		case "get_series":
			_, _ = w.Write([]byte(`[
				{"series_id": 900, "name": "A Série", "cover": "http://img/900.jpg",
				 "plot": "Enredo", "category_id": "20", "rating": 9}
			]`))
		case "get_series_info":
			_, _ = w.Write([]byte(`{
				"episodes": {
					"2": [{"id": "201", "title": "S2E1", "episode_num": 1}],
					"1": [
						{"id": "102", "title": "", "episode_num": 2},
						{"id": "101", "title": "Pilot", "episode_num": 1, "container_extension": "mp4"}
					]
				}
			}`))
		case "get_vod_info":
			_, _ = w.Write([]byte(`{
				"movie_data": {
					"description": "Descrição", "rating_5based": "4.5", "genre": "Terror",
					"duration": "01:30:00", "year": "2020", "backdrop_path": ["http://img/bd.jpg"]
				}
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestPanel(t *testing.T, handler http.Handler) *Source {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewSource(NewClient(server.URL, "user", "pass"))
}

func TestXtreamListCategories(t *testing.T) {
	src := newTestPanel(t, panelHandler(nil))

	cats, err := src.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)

	// Movies first.
	assert.Equal(t, "10", cats[0].ID)
	assert.Equal(t, "Terror", cats[0].Name)
	assert.Equal(t, catalog.MediaTypeMovie, cats[0].Type)
	assert.Equal(t, "20", cats[1].ID)
	assert.Equal(t, catalog.MediaTypeSeries, cats[1].Type)
}

func TestXtreamListCategories_OneSideDown(t *testing.T) {
	src := newTestPanel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "get_series_categories" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"category_id": "10", "category_name": "Terror"}]`))
	}))

	cats, err := src.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, catalog.MediaTypeMovie, cats[0].Type)
}

func TestXtreamListCategories_BothDown(t *testing.T) {
	src := newTestPanel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := src.ListCategories(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUpstreamUnavailable))
}

func TestXtreamListItems(t *testing.T) {
	src := newTestPanel(t, panelHandler(nil))

	cat := catalog.Category{ID: "10", Name: "Terror", Type: catalog.MediaTypeMovie}
	items, hasMore, err := src.ListItems(context.Background(), cat, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.False(t, hasMore)

	movie := items[0]
	assert.Equal(t, "500", movie.ID)
	assert.Equal(t, "O Filme", movie.Title)
	assert.Contains(t, movie.MediaURL, "/movie/user/pass/500.avi")
	assert.Equal(t, "Terror", movie.Category, "inherits the listing category name")
	assert.Equal(t, "10", movie.CategoryID)
	assert.Equal(t, 8.1, movie.Popularity)

	// Missing stream_id falls back to num for the item id.
	assert.Equal(t, "2", items[1].ID)
}

// categoryAwarePanel serves two movie categories and filters
// get_vod_streams by the category_id parameter, the way real panels do.
// An empty category_id means the whole catalog.
func categoryAwarePanel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "get_vod_categories":
			_, _ = w.Write([]byte(`[
				{"category_id": "10", "category_name": "Terror"},
				{"category_id": "11", "category_name": "Comedia"}
			]`))
		case "get_series_categories":
			_, _ = w.Write([]byte(`[]`))
		case "get_vod_streams":
			switch r.URL.Query().Get("category_id") {
			case "10":
				_, _ = w.Write([]byte(`[{"stream_id": 500, "name": "Filme de Terror", "category_id": "10"}]`))
			case "11":
				_, _ = w.Write([]byte(`[{"stream_id": 501, "name": "Comedia Romantica", "category_id": "11"}]`))
			default:
				_, _ = w.Write([]byte(`[
					{"stream_id": 500, "name": "Filme de Terror", "category_id": "10"},
					{"stream_id": 501, "name": "Comedia Romantica", "category_id": "11"}
				]`))
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestXtreamListItems_ResolvesCategoryByName(t *testing.T) {
	src := newTestPanel(t, categoryAwarePanel())

	// No id: the name must resolve to the panel's category id, never to
	// the panel's "everything" listing.
	cat := catalog.Category{Name: "terror", Type: catalog.MediaTypeMovie}
	items, _, err := src.ListItems(context.Background(), cat, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1, "only Terror items for the Terror category")
	assert.Equal(t, "500", items[0].ID)
	assert.Equal(t, "10", items[0].CategoryID)
	assert.Equal(t, "Terror", items[0].Category)
}

func TestXtreamListItems_UnknownCategoryName(t *testing.T) {
	src := newTestPanel(t, categoryAwarePanel())

	cat := catalog.Category{Name: "Faroeste", Type: catalog.MediaTypeMovie}
	_, _, err := src.ListItems(context.Background(), cat, 1, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestXtreamListItems_NoIDNoName(t *testing.T) {
	src := newTestPanel(t, categoryAwarePanel())

	_, _, err := src.ListItems(context.Background(), catalog.Category{Type: catalog.MediaTypeMovie}, 1, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestXtreamListItems_RowCategoryNotOverridden(t *testing.T) {
	src := newTestPanel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "get_vod_streams":
			_, _ = w.Write([]byte(`[
				{"stream_id": 500, "name": "O Clássico", "category_id": "12", "category_name": "Clássicos"}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	// A row carrying its own category fields keeps them.
	cat := catalog.Category{ID: "10", Name: "Terror", Type: catalog.MediaTypeMovie}
	items, _, err := src.ListItems(context.Background(), cat, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Clássicos", items[0].Category)
	assert.Equal(t, "12", items[0].CategoryID)
}

func TestXtreamListItems_Pagination(t *testing.T) {
	src := newTestPanel(t, panelHandler(nil))

	cat := catalog.Category{ID: "10", Name: "Terror", Type: catalog.MediaTypeMovie}
	items, hasMore, err := src.ListItems(context.Background(), cat, 1, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, hasMore)

	items, hasMore, err = src.ListItems(context.Background(), cat, 2, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, hasMore)
}

func TestXtreamListCaching(t *testing.T) {
	calls := map[string]*int32{"get_vod_streams": new(int32)}
	src := newTestPanel(t, panelHandler(calls))

	cat := catalog.Category{ID: "10", Name: "Terror", Type: catalog.MediaTypeMovie}
	_, _, err := src.ListItems(context.Background(), cat, 1, 1)
	require.NoError(t, err)
	_, _, err = src.ListItems(context.Background(), cat, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls["get_vod_streams"]), "second page served from cache")
}

func TestXtreamFetchDetail(t *testing.T) {
	src := newTestPanel(t, panelHandler(nil))

	d, err := src.FetchDetail(context.Background(), catalog.Item{
		Type:             catalog.MediaTypeMovie,
		ProviderStreamID: "500",
	})
	require.NoError(t, err)

	// Falls back to description and rating_5based when plot/rating are
	// absent from the detail record.
	assert.Equal(t, "Descrição", d.Synopsis)
	assert.Equal(t, 4.5, d.Rating)
	assert.Equal(t, "Terror", d.Genre)
	assert.Equal(t, "2020", d.Year)
	assert.Equal(t, "http://img/bd.jpg", d.Backdrop)
}

func TestXtreamFetchDetail_SeriesPassthrough(t *testing.T) {
	src := newTestPanel(t, panelHandler(nil))

	d, err := src.FetchDetail(context.Background(), catalog.Item{
		Type:     catalog.MediaTypeSeries,
		Synopsis: "Enredo",
		Category: "Drama",
	})
	require.NoError(t, err)
	assert.Equal(t, "Enredo", d.Synopsis)
	assert.Equal(t, "Drama", d.Genre)
}

func TestXtreamListEpisodes(t *testing.T) {
	src := newTestPanel(t, panelHandler(nil))

	eps, err := src.ListEpisodes(context.Background(), catalog.Item{
		Type:             catalog.MediaTypeSeries,
		ProviderSeriesID: "900",
	})
	require.NoError(t, err)
	require.Len(t, eps, 3)

	// Season map flattened and ordered by (season, episode).
	assert.Equal(t, "101", eps[0].ID)
	assert.Equal(t, "Pilot", eps[0].Name)
	assert.Contains(t, eps[0].URL, "/series/user/pass/101.mp4")
	assert.Equal(t, "102", eps[1].ID)
	assert.Equal(t, "102", eps[1].Name, "missing title falls back to the id")
	assert.Contains(t, eps[1].URL, "/series/user/pass/102.mkv")
	assert.Equal(t, "201", eps[2].ID)
	assert.Equal(t, 2, eps[2].Season)
}

func TestXtreamListEpisodes_FailsSoft(t *testing.T) {
	src := newTestPanel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	eps, err := src.ListEpisodes(context.Background(), catalog.Item{
		Type:             catalog.MediaTypeSeries,
		ProviderSeriesID: "900",
	})
	require.NoError(t, err)
	assert.Empty(t, eps)
}

func TestXtreamSearch(t *testing.T) {
	src := newTestPanel(t, panelHandler(nil))

	results, err := src.Search(context.Background(), "filme", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "500", results[0].ID)

	// Accent-insensitive across both media types.
	results, err = src.Search(context.Background(), "serie", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "900", results[0].ID)

	series := catalog.MediaTypeSeries
	results, err = src.Search(context.Background(), "filme", &series)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestXtreamSearch_DoesNotMutateCache(t *testing.T) {
	src := newTestPanel(t, panelHandler(nil))

	_, err := src.Search(context.Background(), "", nil)
	require.NoError(t, err)

	// The cached movie list must still hold only movies.
	cached, ok := src.cache.Get(context.Background(), "xtream:movie:")
	require.True(t, ok)
	for _, it := range cached {
		assert.Equal(t, catalog.MediaTypeMovie, it.Type)
	}
}
