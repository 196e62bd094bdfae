package db

import (
	"propfeed/query"

	"github.com/huandu/go-sqlbuilder"
)

// ActiveFilter restricts the query to syndicatable listings
type ActiveFilter struct {
	Status string
}

func (f *ActiveFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	sb.Where(sb.Equal("listings.status", f.Status))
}

// TypeFilter matches a listing when either its listing type or its property
// type equals one of the requested tokens
type TypeFilter struct {
	Types []string
}

func (f *TypeFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	if len(f.Types) == 0 {
		return
	}

	conditions := make([]string, 0, len(f.Types)*2)
	for _, t := range f.Types {
		conditions = append(conditions,
			sb.Equal("listings.listing_type", t),
			sb.Equal("listings.property_type", t),
		)
	}
	sb.Where(sb.Or(conditions...))
}

var _ query.FilterStrategy = (*ActiveFilter)(nil)
var _ query.FilterStrategy = (*TypeFilter)(nil)
