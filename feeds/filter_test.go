package feeds_test

import (
	"encoding/json"
	"os"
	"testing"

	"propfeed/feeds"
	"propfeed/models"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadListings reads the shared listing fixture.
func loadListings(t *testing.T) []models.Listing {
	t.Helper()

	data, err := os.ReadFile("testdata/listings.json")
	require.NoError(t, err)

	var listings []models.Listing
	require.NoError(t, json.Unmarshal(data, &listings))
	return listings
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "empty string",
			raw:      "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			raw:      "   ",
			expected: nil,
		},
		{
			name:     "single token",
			raw:      "apartment",
			expected: []string{"apartment"},
		},
		{
			name:     "multiple tokens",
			raw:      "apartment,house,condo",
			expected: []string{"apartment", "house", "condo"},
		},
		{
			name:     "tokens with spaces",
			raw:      " apartment , house ",
			expected: []string{"apartment", "house"},
		},
		{
			name:     "empty tokens dropped",
			raw:      "apartment,,house,",
			expected: []string{"apartment", "house"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := feeds.ParseTypes(tt.raw)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFilterListingsActiveOnly(t *testing.T) {
	listings := loadListings(t)

	filtered := feeds.FilterListings(listings, nil)

	ids := lo.Map(filtered, func(l models.Listing, _ int) string { return l.ID })
	assert.Equal(t, []string{"1001", "2002"}, ids)
}

func TestFilterListingsByType(t *testing.T) {
	listings := loadListings(t)

	tests := []struct {
		name     string
		types    []string
		expected []string
	}{
		{
			name:     "no filter keeps all active",
			types:    nil,
			expected: []string{"1001", "2002"},
		},
		{
			name:     "property type match",
			types:    []string{"apartment"},
			expected: []string{"1001"},
		},
		{
			name:     "listing type match",
			types:    []string{"sale"},
			expected: []string{"2002"},
		},
		{
			name:     "either field matches",
			types:    []string{"rent", "manufactured_home"},
			expected: []string{"1001", "2002"},
		},
		{
			name:     "unknown type matches nothing",
			types:    []string{"rv"},
			expected: []string{},
		},
		{
			name:     "inactive listing never matches",
			types:    []string{"house"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := feeds.FilterListings(listings, tt.types)
			ids := lo.Map(filtered, func(l models.Listing, _ int) string { return l.ID })
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestFilterManufacturedHomes(t *testing.T) {
	listings := []models.Listing{
		{ID: "a", PropertyType: "manufactured_home"},
		{ID: "b", PropertyType: "apartment"},
		{ID: "c", PropertyType: "house", MHDetails: &models.MHDetails{Manufacturer: "Skyline"}},
	}

	filtered := feeds.FilterManufacturedHomes(listings)

	ids := lo.Map(filtered, func(l models.Listing, _ int) string { return l.ID })
	assert.Equal(t, []string{"a", "c"}, ids)
}
