package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCategories_IncludesID(t *testing.T) {
	out := formatCategories([]CategoryResponse{
		{ID: "terror|movie", Name: "Terror", Type: "movie"},
		{ID: "20", Name: "Drama", Type: "series"},
	})

	assert.Contains(t, out, "terror|movie")
	assert.Contains(t, out, "Terror")
	assert.Contains(t, out, "20")
	assert.Contains(t, out, "series")
}

func TestFormatCategories_Empty(t *testing.T) {
	assert.Empty(t, formatCategories(nil))
}
