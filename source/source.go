// Package source defines where feed requests get their listings from.
package source

import (
	"context"

	"propfeed/db"
	"propfeed/models"
)

// ListingSource supplies the listing set a feed is generated from. The feed
// formatters stay pure; everything stateful sits behind this interface.
type ListingSource interface {
	FetchActive(ctx context.Context, types []string) ([]models.Listing, error)
}

// DBSource reads listings from the local SQLite database
type DBSource struct {
	Reader *db.Reader
}

func (s *DBSource) FetchActive(ctx context.Context, types []string) ([]models.Listing, error) {
	return s.Reader.GetActiveListings(types)
}

var _ ListingSource = (*DBSource)(nil)
