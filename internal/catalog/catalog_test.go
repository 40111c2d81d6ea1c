package catalog

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		in   string
		want MediaType
	}{
		{"movie", MediaTypeMovie},
		{"filme", MediaTypeMovie},
		{"series", MediaTypeSeries},
		{"Serie", MediaTypeSeries},
		{"série", MediaTypeSeries},
		{"SÉRIE", MediaTypeSeries},
		{"tv", MediaTypeSeries},
		{"  series  ", MediaTypeSeries},
		{"", MediaTypeMovie},
		{"garbage", MediaTypeMovie},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMediaType(tt.in), "input %q", tt.in)
	}
}

func TestMediaTypeDisplay(t *testing.T) {
	assert.Equal(t, "Movie", MediaTypeMovie.Display())
	assert.Equal(t, "Series", MediaTypeSeries.Display())
}

func TestCategoryLabels(t *testing.T) {
	it := Item{Category: "Terror, Suspense , ,Drama"}
	assert.Equal(t, []string{"Terror", "Suspense", "Drama"}, it.CategoryLabels())

	assert.Empty(t, Item{}.CategoryLabels())
}

func TestGroupKey(t *testing.T) {
	s := CuratedSection{Label: "Lançamentos", Type: MediaTypeMovie}
	assert.Equal(t, "Lançamentos (Movie)", s.GroupKey())

	s = CuratedSection{Label: "Novidades", Type: MediaTypeSeries}
	assert.Equal(t, "Novidades (Series)", s.GroupKey())
}

func TestPaginate(t *testing.T) {
	items := makeItems(5)

	page, more := Paginate(items, 1, 2)
	assert.Len(t, page, 2)
	assert.True(t, more)
	assert.Equal(t, "item-0", page[0].ID)

	page, more = Paginate(items, 3, 2)
	assert.Len(t, page, 1)
	assert.False(t, more)
	assert.Equal(t, "item-4", page[0].ID)

	page, more = Paginate(items, 4, 2)
	assert.Empty(t, page)
	assert.False(t, more)

	page, more = Paginate(items, 0, 2)
	assert.Empty(t, page)
	assert.False(t, more)

	page, more = Paginate(nil, 1, 10)
	assert.Empty(t, page)
	assert.False(t, more)
}

// Pagination over any item list partitions it exactly: concatenating the
// pages in order reproduces the list, and hasMore is true on every page
// except the last.
func TestPaginatePartitionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("pages partition the item list", prop.ForAll(
		func(n, size int) bool {
			items := makeItems(n)

			var got []Item
			page := 1
			for {
				slice, more := Paginate(items, page, size)
				got = append(got, slice...)
				if len(slice) > size {
					return false
				}
				if !more {
					break
				}
				if len(slice) != size {
					// Every page before the last must be full.
					return false
				}
				page++
			}
			if len(got) != n {
				return false
			}
			for i := range got {
				if got[i].ID != items[i].ID {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 500),
		gen.IntRange(1, 50),
	))

	properties.TestingRun(t)
}

// Sorting is idempotent and yields a (season, episode) ascending order.
func TestSortEpisodesOrderProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	genEpisode := gopter.CombineGens(
		gen.IntRange(1, 12),
		gen.IntRange(1, 40),
	).Map(func(vals []interface{}) Episode {
		return Episode{
			Season:  vals[0].(int),
			Episode: vals[1].(int),
		}
	})

	properties.Property("sorted episodes are season/episode ascending", prop.ForAll(
		func(eps []Episode) bool {
			SortEpisodes(eps)
			for i := 1; i < len(eps); i++ {
				prev, cur := eps[i-1], eps[i]
				if prev.Season > cur.Season {
					return false
				}
				if prev.Season == cur.Season && prev.Episode > cur.Episode {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genEpisode),
	))

	properties.TestingRun(t)
}

func TestSortEpisodesStable(t *testing.T) {
	eps := []Episode{
		{ID: "a", Season: 2, Episode: 1},
		{ID: "b", Season: 1, Episode: 2},
		{ID: "c", Season: 1, Episode: 1},
		{ID: "d", Season: 1, Episode: 2},
	}
	SortEpisodes(eps)

	assert.Equal(t, "c", eps[0].ID)
	assert.Equal(t, "b", eps[1].ID)
	assert.Equal(t, "d", eps[2].ID)
	assert.Equal(t, "a", eps[3].ID)
}

func makeItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: fmt.Sprintf("item-%d", i)}
	}
	return items
}
