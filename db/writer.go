package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"propfeed/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

type Writer struct {
	db *sql.DB
}

func NewWriter(database string) (*Writer, error) {
	db, err := connection(database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return &Writer{db: db}, nil
}

func (writer *Writer) Close() error {
	return writer.db.Close()
}

// UpsertListing writes a listing and its amenities and images, replacing any
// previous record with the same id.
func (writer *Writer) UpsertListing(ctx context.Context, listing models.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	log.WithFields(log.Fields{
		"id":           listing.ID,
		"listingType":  listing.ListingType,
		"propertyType": listing.PropertyType,
		"status":       listing.Status,
	}).Info("Upserting listing")

	var mhDetails sql.NullString
	if listing.MHDetails != nil {
		encoded, err := json.Marshal(listing.MHDetails)
		if err != nil {
			return fmt.Errorf("encode mh details error: %w", err)
		}
		mhDetails = sql.NullString{String: string(encoded), Valid: true}
	}

	contact := listing.ContactInfo
	if contact == nil {
		contact = &models.ContactInfo{}
	}

	createdAt := listing.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}

	tx, err := writer.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin error: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO listings (
			id, listing_type, property_type, status, title, description,
			address, address2, city, state, zip_code, latitude, longitude,
			rent, purchase_price, bedrooms, bathrooms, square_footage,
			pet_policy, availability_url, company_id,
			contact_company, contact_email, contact_phone,
			mh_details, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			listing_type = excluded.listing_type,
			property_type = excluded.property_type,
			status = excluded.status,
			title = excluded.title,
			description = excluded.description,
			address = excluded.address,
			address2 = excluded.address2,
			city = excluded.city,
			state = excluded.state,
			zip_code = excluded.zip_code,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			rent = excluded.rent,
			purchase_price = excluded.purchase_price,
			bedrooms = excluded.bedrooms,
			bathrooms = excluded.bathrooms,
			square_footage = excluded.square_footage,
			pet_policy = excluded.pet_policy,
			availability_url = excluded.availability_url,
			company_id = excluded.company_id,
			contact_company = excluded.contact_company,
			contact_email = excluded.contact_email,
			contact_phone = excluded.contact_phone,
			mh_details = excluded.mh_details,
			updated_at = excluded.updated_at`,
		listing.ID, listing.ListingType, listing.PropertyType, listing.Status,
		listing.Title, listing.Description,
		listing.Address, listing.Address2, listing.City, listing.State, listing.ZipCode,
		nullFloat(listing.Latitude), nullFloat(listing.Longitude),
		listing.Rent, listing.PurchasePrice,
		listing.Bedrooms, listing.Bathrooms, listing.SquareFootage,
		listing.PetPolicy, listing.AvailabilityURL, listing.CompanyID,
		contact.CompanyName, contact.Email, contact.Phone,
		mhDetails, createdAt, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert error: %w", err)
	}

	if err := replaceAmenities(ctx, tx, listing.ID, listing.Amenities); err != nil {
		return err
	}
	if err := replaceImages(ctx, tx, listing.ID, listing.Images); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit error: %w", err)
	}

	return nil
}

func replaceAmenities(ctx context.Context, tx *sql.Tx, listingID string, amenities []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM listing_amenities WHERE listing_id = ?", listingID); err != nil {
		return fmt.Errorf("delete amenities error: %w", err)
	}
	if len(amenities) == 0 {
		return nil
	}

	insert := sqlbuilder.NewInsertBuilder()
	insert.InsertInto("listing_amenities").Cols("listing_id", "amenity")
	for _, amenity := range amenities {
		insert.Values(listingID, amenity)
	}

	sql, args := insert.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))
	if _, err := tx.ExecContext(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert amenities error: %w", err)
	}
	return nil
}

func replaceImages(ctx context.Context, tx *sql.Tx, listingID string, images []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM listing_images WHERE listing_id = ?", listingID); err != nil {
		return fmt.Errorf("delete images error: %w", err)
	}
	if len(images) == 0 {
		return nil
	}

	insert := sqlbuilder.NewInsertBuilder()
	insert.InsertInto("listing_images").Cols("listing_id", "rank", "url")
	for i, url := range images {
		insert.Values(listingID, i+1, url)
	}

	sql, args := insert.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))
	if _, err := tx.ExecContext(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert images error: %w", err)
	}
	return nil
}

// DeleteListing removes a listing that disappeared upstream.
func (writer *Writer) DeleteListing(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	log.WithFields(log.Fields{"id": id}).Info("Deleting listing")
	if _, err := writer.db.ExecContext(ctx, "DELETE FROM listings WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	return nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
