package local

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vklink/flix/internal/catalog"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewSource(NewClient(server.URL))
}

func catalogHandler(calls *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogJSON))
	}
}

func TestSourceListCategories(t *testing.T) {
	src := newTestSource(t, catalogHandler(nil))

	cats, err := src.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 3)

	assert.Equal(t, "Terror", cats[0].Name)
	assert.Equal(t, catalog.MediaTypeMovie, cats[0].Type)
	assert.Equal(t, "terror|movie", cats[0].ID)
	assert.Equal(t, "Suspense", cats[1].Name)
	assert.Equal(t, "Drama", cats[2].Name)
	assert.Equal(t, catalog.MediaTypeSeries, cats[2].Type)
}

func TestSourceListItems(t *testing.T) {
	src := newTestSource(t, catalogHandler(nil))

	items, hasMore, err := src.ListItems(context.Background(), catalog.Category{
		Name: "terror",
		Type: catalog.MediaTypeMovie,
	}, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, hasMore)
	assert.Equal(t, "m1", items[0].ID)

	// Type mismatch excludes the series even under a matching label.
	items, _, err = src.ListItems(context.Background(), catalog.Category{
		Name: "Drama",
		Type: catalog.MediaTypeMovie,
	}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSourceSnapshotReuse(t *testing.T) {
	var calls int32
	src := newTestSource(t, catalogHandler(&calls))

	_, err := src.ListCategories(context.Background())
	require.NoError(t, err)
	_, err = src.Search(context.Background(), "filme", nil)
	require.NoError(t, err)
	_, err = src.CuratedSections(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "snapshot served within TTL")
}

func TestSourceServesStaleOnRefreshFailure(t *testing.T) {
	var calls int32
	var fail atomic.Bool
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogJSON))
	})

	_, err := src.ListCategories(context.Background())
	require.NoError(t, err)

	// Expire the snapshot and make the backend fail.
	src.ttl = 0
	fail.Store(true)

	cats, err := src.ListCategories(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, cats)
}

func TestSourceSearch(t *testing.T) {
	src := newTestSource(t, catalogHandler(nil))

	// Accent-insensitive: "serie" matches "A Série".
	results, err := src.Search(context.Background(), "serie", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "s1", results[0].ID)

	movie := catalog.MediaTypeMovie
	results, err = src.Search(context.Background(), "serie", &movie)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSourceFetchDetail(t *testing.T) {
	src := newTestSource(t, catalogHandler(nil))

	d, err := src.FetchDetail(context.Background(), catalog.Item{
		Synopsis: "Uma história",
		Category: "Terror",
	})
	require.NoError(t, err)
	assert.Equal(t, "Uma história", d.Synopsis)
	assert.Equal(t, "Terror", d.Genre)
}

func TestSourceListEpisodesFailsSoft(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	eps, err := src.ListEpisodes(context.Background(), catalog.Item{Title: "A Série"})
	require.NoError(t, err)
	assert.Empty(t, eps)
}
