package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelist/pkg/models"
)

func sample() []models.Media {
	return []models.Media{
		{ID: 1, Type: models.TypeMovie, Title: "Matrix"},
		{ID: 2, Type: models.TypeSerie, Title: "Friends"},
		{ID: 3, Type: models.TypeAnime, Title: "Naruto"},
		{ID: 4, Type: models.TypeMovie, Title: "Cidade de Deus"},
	}
}

func TestParseFilter(t *testing.T) {
	for in, want := range map[string]Filter{
		"":       FilterAll,
		"all":    FilterAll,
		"movie":  FilterMovie,
		"Serie":  FilterSerie,
		" anime": FilterAnime,
	} {
		got, err := ParseFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFilter("series")
	assert.Error(t, err)
}

func TestSelectVisibleFilterOnly(t *testing.T) {
	out := SelectVisible(sample(), FilterMovie, "")
	require.Len(t, out, 2)
	assert.Equal(t, "Matrix", out[0].Title)
	assert.Equal(t, "Cidade de Deus", out[1].Title)
}

func TestSelectVisibleQueryIsCaseInsensitiveSubstring(t *testing.T) {
	out := SelectVisible(sample(), FilterAll, "RI")
	require.Len(t, out, 2) // Matrix, Friends
	assert.Equal(t, "Matrix", out[0].Title)
	assert.Equal(t, "Friends", out[1].Title)
}

func TestSelectVisibleIsConjunctive(t *testing.T) {
	// both conditions must hold: "fri" only matches within the serie category
	out := SelectVisible(sample(), FilterSerie, "fri")
	require.Len(t, out, 1)
	assert.Equal(t, "Friends", out[0].Title)

	// "na" matches Naruto, but Naruto is not a serie
	assert.Empty(t, SelectVisible(sample(), FilterSerie, "na"))
}

func TestSelectVisiblePreservesOrder(t *testing.T) {
	in := sample()
	out := SelectVisible(in, FilterAll, "")
	assert.Equal(t, in, out)
}

func TestSortByTitleLocaleAware(t *testing.T) {
	items := []models.Media{
		{Title: "Zebra"},
		{Title: "Água Viva"},
		{Title: "amor"},
		{Title: "Época"},
	}
	SortByTitle(items)

	got := make([]string, len(items))
	for i, m := range items {
		got[i] = m.Title
	}
	// accented initials collate next to their base letter, not after 'z'
	assert.Equal(t, []string{"Água Viva", "amor", "Época", "Zebra"}, got)
}

func TestSortByTitleIgnoresCase(t *testing.T) {
	items := []models.Media{{Title: "banana"}, {Title: "Abacaxi"}, {Title: "CAJU"}}
	SortByTitle(items)
	assert.Equal(t, "Abacaxi", items[0].Title)
	assert.Equal(t, "banana", items[1].Title)
	assert.Equal(t, "CAJU", items[2].Title)
}

func TestViewStateRoundTrip(t *testing.T) {
	v := ViewState{Filter: FilterAnime, Query: "naru"}
	assert.Equal(t, v, ParseViewState(v.Values()))

	// defaults are omitted from the URL entirely
	assert.Empty(t, ViewState{Filter: FilterAll}.Values().Encode())
}

func TestParseViewStateUnknownFilterFallsBack(t *testing.T) {
	vals := url.Values{"filter": {"bogus"}, "q": {"x"}}
	v := ParseViewState(vals)
	assert.Equal(t, FilterAll, v.Filter)
	assert.Equal(t, "x", v.Query)
}
