package aggregate

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vklink/flix/internal/catalog"
)

// Normalize lowercases and strips accents so "Léon" matches "leon".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, strings.ToLower(s))
	return result
}

// Rank orders search results by Jaro-Winkler similarity of the title to
// the query, descending. The sort is stable, so equally similar items
// keep their source order. Matching itself stays a substring test; this
// only decides presentation order.
func Rank(items []catalog.Item, query string) []catalog.Item {
	q := Normalize(query)
	scored := make([]scoredItem, len(items))
	for i, it := range items {
		scored[i] = scoredItem{
			item:  it,
			score: float64(edlib.JaroWinklerSimilarity(q, Normalize(it.Title))),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	out := make([]catalog.Item, len(items))
	for i, s := range scored {
		out[i] = s.item
	}
	return out
}

type scoredItem struct {
	item  catalog.Item
	score float64
}
