package feeds_test

import (
	"testing"

	"propfeed/feeds"

	"github.com/stretchr/testify/assert"
)

func TestILSPropertyType(t *testing.T) {
	tests := []struct {
		name         string
		propertyType string
		expected     string
	}{
		{
			name:         "apartment",
			propertyType: "apartment",
			expected:     "Apartment",
		},
		{
			name:         "condo",
			propertyType: "condo",
			expected:     "Condo",
		},
		{
			name:         "house",
			propertyType: "house",
			expected:     "House for Rent",
		},
		{
			name:         "manufactured home renders as house",
			propertyType: "manufactured_home",
			expected:     "House for Rent",
		},
		{
			name:         "storage renders as house",
			propertyType: "storage",
			expected:     "House for Rent",
		},
		{
			name:         "unknown type falls back to house",
			propertyType: "castle",
			expected:     "House for Rent",
		},
		{
			name:         "empty type falls back to house",
			propertyType: "",
			expected:     "House for Rent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := feeds.ILSPropertyType(tt.propertyType)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAmenityCategory(t *testing.T) {
	tests := []struct {
		name     string
		amenity  string
		expected string
	}{
		{
			name:     "dishwasher",
			amenity:  "Dishwasher",
			expected: "Dishwasher",
		},
		{
			name:     "central air",
			amenity:  "Central Air Conditioning",
			expected: "AirConditioner",
		},
		{
			name:     "in-unit laundry",
			amenity:  "In-unit Laundry",
			expected: "WasherDryer",
		},
		{
			name:     "washer dryer hookups",
			amenity:  "Washer/Dryer Hookups",
			expected: "WasherDryer",
		},
		{
			name:     "radiant heating",
			amenity:  "Radiant Heating",
			expected: "Heating",
		},
		{
			name:     "case insensitive match",
			amenity:  "DISHWASHER INCLUDED",
			expected: "Dishwasher",
		},
		{
			name:     "unmatched amenity",
			amenity:  "Rooftop Pool",
			expected: "Other",
		},
		{
			name:     "empty amenity",
			amenity:  "",
			expected: "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := feeds.AmenityCategory(tt.amenity)
			assert.Equal(t, tt.expected, result)
		})
	}
}
