package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cinelist/pkg/models"
)

func TestDedupeFirstWins(t *testing.T) {
	first := models.Media{ID: 1, Type: models.TypeMovie, Title: "first"}
	dup := models.Media{ID: 1, Type: models.TypeMovie, Title: "second copy"}
	other := models.Media{ID: 2, Type: models.TypeMovie, Title: "other"}

	out := Dedupe([]models.Media{first, dup, other, dup})

	assert.Equal(t, []models.Media{first, other}, out)
}

func TestDedupeKeyIncludesType(t *testing.T) {
	// same numeric id in different categories is two distinct entries
	in := []models.Media{
		{ID: 42, Type: models.TypeMovie},
		{ID: 42, Type: models.TypeAnime},
		{ID: 42, Type: models.TypeSerie},
	}
	assert.Len(t, Dedupe(in), 3)
}

func TestDedupePreservesOrder(t *testing.T) {
	in := []models.Media{
		{ID: 3, Type: models.TypeMovie},
		{ID: 1, Type: models.TypeAnime},
		{ID: 3, Type: models.TypeMovie},
		{ID: 2, Type: models.TypeSerie},
		{ID: 1, Type: models.TypeAnime},
	}
	out := Dedupe(in)
	assert.Equal(t, []models.Media{in[0], in[1], in[3]}, out)
}

func TestDedupeEmpty(t *testing.T) {
	out := Dedupe(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
