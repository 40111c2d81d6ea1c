// Package aggregate organizes normalized catalog items into named display
// groups and provides the in-memory filter used by the already-loaded
// browsing path.
package aggregate

import (
	"strings"

	"github.com/vklink/flix/internal/catalog"
)

// Group is one display rail: a label and its items in source order.
type Group struct {
	Key   string         `json:"key"`
	Items []catalog.Item `json:"items"`
}

// GroupItems merges items into display groups. Two passes: curated
// sections claim matching items first (group key "{label} ({Type})"),
// then every item is fanned out to one inferred group per category label,
// skipping labels already used by a curated section. Curated rows take
// display precedence without items appearing lost when they match no
// section. Group order is first-seen; items keep source order and are
// deduplicated by id within each group.
func GroupItems(items []catalog.Item, sections []catalog.CuratedSection) []Group {
	var groups []Group
	index := map[string]int{} // group key -> position in groups

	curated := map[string]bool{} // lowercased curated labels
	for _, s := range sections {
		curated[strings.ToLower(s.Label)] = true
	}

	for _, s := range sections {
		want := strings.ToLower(s.Label)
		var matched []catalog.Item
		for _, it := range items {
			if it.Type != s.Type {
				continue
			}
			for _, label := range it.CategoryLabels() {
				if strings.ToLower(label) == want {
					matched = append(matched, it)
					break
				}
			}
		}
		if len(matched) > 0 {
			index[s.GroupKey()] = len(groups)
			groups = append(groups, Group{Key: s.GroupKey(), Items: matched})
		}
	}

	seen := map[string]map[string]bool{} // group key -> item id set
	for _, it := range items {
		for _, label := range it.CategoryLabels() {
			if curated[strings.ToLower(label)] {
				continue
			}
			i, ok := index[label]
			if !ok {
				i = len(groups)
				index[label] = i
				groups = append(groups, Group{Key: label})
				seen[label] = map[string]bool{}
			}
			if seen[label] == nil {
				seen[label] = map[string]bool{}
			}
			if !seen[label][it.ID] {
				seen[label][it.ID] = true
				groups[i].Items = append(groups[i].Items, it)
			}
		}
	}

	return groups
}

// Filter matches items whose title or synopsis contains the query,
// case- and accent-insensitively, restricted to the given media type
// (nil means both). Empty queries match everything of the type.
func Filter(items []catalog.Item, query string, typeFilter *catalog.MediaType) []catalog.Item {
	q := Normalize(query)
	var out []catalog.Item
	for _, it := range items {
		if typeFilter != nil && it.Type != *typeFilter {
			continue
		}
		if q == "" ||
			strings.Contains(Normalize(it.Title), q) ||
			strings.Contains(Normalize(it.Synopsis), q) {
			out = append(out, it)
		}
	}
	return out
}

// PickFeatured returns the item with the highest popularity, first-seen
// winning ties. Returns nil for an empty slice.
func PickFeatured(items []catalog.Item) *catalog.Item {
	var best *catalog.Item
	for i := range items {
		if best == nil || items[i].Popularity > best.Popularity {
			best = &items[i]
		}
	}
	return best
}
