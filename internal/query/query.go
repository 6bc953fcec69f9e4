// Package query implements the client-side visibility rules for media
// collections: a category filter, a case-insensitive name search and the
// locale-aware ordering used on list and profile pages.
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"cinelist/pkg/models"
)

// Filter selects one media category, or everything.
type Filter string

const (
	FilterAll   Filter = "all"
	FilterMovie Filter = "movie"
	FilterSerie Filter = "serie"
	FilterAnime Filter = "anime"
)

// ParseFilter maps user input onto a Filter. Empty input means FilterAll;
// anything else must be a known category.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterMovie:
		return FilterMovie, nil
	case FilterSerie:
		return FilterSerie, nil
	case FilterAnime:
		return FilterAnime, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q", s)
	}
}

// Matches reports whether a single item passes the filter.
func (f Filter) Matches(t models.MediaType) bool {
	return f == FilterAll || string(f) == string(t)
}

// SelectVisible returns the items that pass both the category filter and the
// title search, in their original order. Both conditions must hold: narrowing
// the category never widens what a search shows. The query matches as a
// case-insensitive substring anywhere in the title.
func SelectVisible(items []models.Media, f Filter, query string) []models.Media {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Media, 0, len(items))
	for _, m := range items {
		if !f.Matches(m.Type) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(m.Title), needle) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SortByTitle orders items by title under pt-BR collation, ignoring case,
// so accented titles land where a Brazilian reader expects them instead of
// after 'z'. The sort is stable and in place.
//
// A collator keeps internal buffers and is not safe for concurrent use, so
// each call builds its own.
func SortByTitle(items []models.Media) {
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(items[i].Title, items[j].Title) < 0
	})
}

// ViewState is the shareable filter-plus-search state of a collection view.
// It round-trips through URL query parameters so a filtered view can be
// bookmarked or sent around.
type ViewState struct {
	Filter Filter
	Query  string
}

// Values encodes the state as URL query parameters. Defaults are omitted to
// keep URLs short.
func (v ViewState) Values() url.Values {
	vals := url.Values{}
	if v.Filter != "" && v.Filter != FilterAll {
		vals.Set("filter", string(v.Filter))
	}
	if strings.TrimSpace(v.Query) != "" {
		vals.Set("q", v.Query)
	}
	return vals
}

// ParseViewState restores a ViewState from URL query parameters. An unknown
// filter value falls back to FilterAll rather than failing the whole view.
func ParseViewState(vals url.Values) ViewState {
	f, err := ParseFilter(vals.Get("filter"))
	if err != nil {
		f = FilterAll
	}
	return ViewState{Filter: f, Query: vals.Get("q")}
}
