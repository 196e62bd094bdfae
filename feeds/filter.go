package feeds

import (
	"strings"

	"propfeed/models"

	"github.com/samber/lo"
)

// ParseTypes splits a comma separated listingTypes parameter into its tokens,
// dropping empty entries.
func ParseTypes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var types []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		types = append(types, token)
	}
	return types
}

// FilterListings narrows the listing set to active records, optionally
// restricted to the requested type tokens. A token matches when it equals
// either the listing type or the property type, so partial or unknown
// filters stay permissive instead of returning nothing.
func FilterListings(listings []models.Listing, types []string) []models.Listing {
	active := lo.Filter(listings, func(l models.Listing, _ int) bool {
		return l.Status == models.StatusActive
	})

	if len(types) == 0 {
		return active
	}

	return lo.Filter(active, func(l models.Listing, _ int) bool {
		return lo.Contains(types, l.ListingType) || lo.Contains(types, l.PropertyType)
	})
}

// FilterManufacturedHomes narrows listings to those that qualify for the
// manufactured home feed, independent of any upstream type filter.
func FilterManufacturedHomes(listings []models.Listing) []models.Listing {
	return lo.Filter(listings, func(l models.Listing, _ int) bool {
		return l.IsManufacturedHome()
	})
}
