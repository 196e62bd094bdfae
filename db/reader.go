package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"propfeed/models"
	"propfeed/query"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type Reader struct {
	db *sql.DB
}

func NewReader(database string) *Reader {
	// Open in read-only mode with optimized settings
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?mode=ro&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", database))
	if err != nil {
		panic("failed to connect database")
	}

	// Set connection pool settings for reader
	db.SetMaxOpenConns(4)            // Allow multiple concurrent readers
	db.SetMaxIdleConns(2)            // Keep some connections ready
	db.SetConnMaxLifetime(time.Hour) // Recreate connections after an hour
	db.SetConnMaxIdleTime(time.Hour) // Close idle connections after an hour

	if _, err := db.Exec(`
		PRAGMA busy_timeout = 5000;
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -32000; -- 32MB cache
		PRAGMA temp_store = MEMORY;
	`); err != nil {
		panic(fmt.Sprintf("failed to set pragmas: %v", err))
	}

	return &Reader{
		db: db,
	}
}

var listingColumns = []string{
	"listings.id", "listings.listing_type", "listings.property_type", "listings.status",
	"listings.title", "listings.description",
	"listings.address", "listings.address2", "listings.city", "listings.state", "listings.zip_code",
	"listings.latitude", "listings.longitude",
	"listings.rent", "listings.purchase_price",
	"listings.bedrooms", "listings.bathrooms", "listings.square_footage",
	"listings.pet_policy", "listings.availability_url",
	"listings.company_id", "listings.contact_company", "listings.contact_email", "listings.contact_phone",
	"listings.mh_details", "listings.created_at", "listings.updated_at",
}

// GetActiveListings returns the active listings, optionally narrowed to the
// requested listing/property type tokens, newest first.
func (reader *Reader) GetActiveListings(types []string) ([]models.Listing, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(listingColumns...).From("listings")

	filters := []query.FilterStrategy{
		&ActiveFilter{Status: models.StatusActive},
		&TypeFilter{Types: types},
	}
	for _, filter := range filters {
		filter.ApplyFilter(sb)
	}

	sb.OrderBy("listings.created_at").Desc()

	sql, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))

	rows, err := reader.db.Query(sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if err := reader.attachAmenities(listings); err != nil {
		return nil, err
	}
	if err := reader.attachImages(listings); err != nil {
		return nil, err
	}

	return listings, nil
}

func scanListing(rows *sql.Rows) (models.Listing, error) {
	var l models.Listing
	var contact models.ContactInfo
	var latitude, longitude sql.NullFloat64
	var mhDetails sql.NullString

	if err := rows.Scan(
		&l.ID, &l.ListingType, &l.PropertyType, &l.Status,
		&l.Title, &l.Description,
		&l.Address, &l.Address2, &l.City, &l.State, &l.ZipCode,
		&latitude, &longitude,
		&l.Rent, &l.PurchasePrice,
		&l.Bedrooms, &l.Bathrooms, &l.SquareFootage,
		&l.PetPolicy, &l.AvailabilityURL,
		&l.CompanyID, &contact.CompanyName, &contact.Email, &contact.Phone,
		&mhDetails, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return l, fmt.Errorf("scan error: %w", err)
	}

	if latitude.Valid {
		l.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		l.Longitude = &longitude.Float64
	}
	if contact != (models.ContactInfo{}) {
		l.ContactInfo = &contact
	}
	if mhDetails.Valid && mhDetails.String != "" {
		var details models.MHDetails
		if err := json.Unmarshal([]byte(mhDetails.String), &details); err != nil {
			// A malformed extension never fails the whole feed
			log.WithFields(log.Fields{
				"listing": l.ID,
				"error":   err,
			}).Warn("Skipping malformed mh_details")
		} else {
			l.MHDetails = &details
		}
	}

	return l, nil
}

func (reader *Reader) attachAmenities(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	index := listingIndex(listings)

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("listing_id", "amenity").From("listing_amenities")
	sb.Where(sb.In("listing_id", listingIDs(listings)...))
	sb.OrderBy("listing_id", "amenity").Asc()

	sql, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))
	rows, err := reader.db.Query(sql, args...)
	if err != nil {
		return fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listingID, amenity string
		if err := rows.Scan(&listingID, &amenity); err != nil {
			return fmt.Errorf("scan error: %w", err)
		}
		if i, ok := index[listingID]; ok {
			listings[i].Amenities = append(listings[i].Amenities, amenity)
		}
	}

	return rows.Err()
}

func (reader *Reader) attachImages(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	index := listingIndex(listings)

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("listing_id", "url").From("listing_images")
	sb.Where(sb.In("listing_id", listingIDs(listings)...))
	sb.OrderBy("listing_id", "rank").Asc()

	sql, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))
	rows, err := reader.db.Query(sql, args...)
	if err != nil {
		return fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listingID, url string
		if err := rows.Scan(&listingID, &url); err != nil {
			return fmt.Errorf("scan error: %w", err)
		}
		if i, ok := index[listingID]; ok {
			listings[i].Images = append(listings[i].Images, url)
		}
	}

	return rows.Err()
}

func listingIDs(listings []models.Listing) []interface{} {
	return lo.Map(listings, func(l models.Listing, _ int) interface{} {
		return l.ID
	})
}

func listingIndex(listings []models.Listing) map[string]int {
	index := make(map[string]int, len(listings))
	for i := range listings {
		index[listings[i].ID] = i
	}
	return index
}

// GetListingCountPerTime returns the number of listings created per time
// bucket, optionally narrowed to one property type.
func (reader *Reader) GetListingCountPerTime(propertyType string, timeAgg string) ([]models.ListingsAggregatedByTime, error) {
	var sqlFormat string
	var timeParse func(string) (time.Time, error)

	switch timeAgg {
	case "day":
		sqlFormat = `STRFTIME('%Y-%m-%d', created_at, 'unixepoch')`
		timeParse = func(str string) (time.Time, error) {
			return time.Parse("2006-01-02", str)
		}
	case "week":
		sqlFormat = "STRFTIME('%Y-%W', created_at, 'unixepoch')"
		timeParse = func(str string) (time.Time, error) {
			// Manually parse year and week number as separate integers
			year, err := time.Parse("2006", str[:4])
			if err != nil {
				return time.Time{}, err
			}
			week, err := strconv.ParseInt(str[5:], 10, 64)
			if err != nil {
				return time.Time{}, err
			}

			_, weekOffset := year.ISOWeek()
			weekOffset = weekOffset - 1
			firstDay := year.AddDate(0, 0, -int(year.Weekday())+weekOffset*7)

			// Add the number of weeks to the first day of the week
			return firstDay.AddDate(0, 0, int(week)*7), nil
		}
	default: // hour
		sqlFormat = `STRFTIME('%Y-%m-%d-%H', created_at, 'unixepoch')`
		timeParse = func(str string) (time.Time, error) {
			return time.Parse("2006-01-02-15", str)
		}
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(sqlFormat, "count(*) as count").From("listings")
	if propertyType != "" {
		sb.Where(sb.Equal("property_type", propertyType))
	}
	sb.GroupBy(sqlFormat)
	sb.OrderBy("created_at").Asc()

	sql, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))

	rows, err := reader.db.Query(sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.ListingsAggregatedByTime

	for rows.Next() {
		var sqlTime string
		var count models.ListingsAggregatedByTime

		if err := rows.Scan(&sqlTime, &count.Count); err != nil {
			continue // Skip this row
		}

		bucketTime, err := timeParse(sqlTime)
		if err == nil {
			count.Time = bucketTime
		}
		counts = append(counts, count)
	}

	return counts, nil
}
