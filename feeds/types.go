// Package feeds renders partner facing syndication feed documents from
// listing records.
package feeds

import "propfeed/models"

// Request carries the validated parameters of a single feed request.
type Request struct {
	// PartnerID identifies the consuming marketplace partner
	PartnerID string

	// LeadEmail, when set, overrides every contact email written to the feed
	LeadEmail string

	// Types is the parsed listingTypes filter, empty for no restriction
	Types []string

	// Params holds the remaining query parameters. Neither built in formatter
	// reads them yet; they are carried for partner specific extensions.
	Params map[string]string
}

// RenderFunc produces a feed document body from the filtered listings.
type RenderFunc func(listings []models.Listing, req Request) (string, error)

// Formatter is a named feed renderer with its wire content type.
type Formatter struct {
	Name        string
	ContentType string
	Render      RenderFunc
}

// Fallback contact written whenever a listing carries no usable contact info.
const (
	fallbackCompanyName = "RenterInsight"
	fallbackEmail       = "support@renterinsight.com"
	fallbackPhone       = "(555) 123-4567"
)

// contactEmail picks the email for a listing, with the request lead email
// taking precedence over the listing's own contact.
func contactEmail(l *models.Listing, req Request) string {
	if req.LeadEmail != "" {
		return req.LeadEmail
	}
	if l.ContactInfo != nil && l.ContactInfo.Email != "" {
		return l.ContactInfo.Email
	}
	return fallbackEmail
}

func contactPhone(l *models.Listing) string {
	if l.ContactInfo != nil && l.ContactInfo.Phone != "" {
		return l.ContactInfo.Phone
	}
	return fallbackPhone
}

func contactCompany(l *models.Listing) string {
	if l.ContactInfo != nil && l.ContactInfo.CompanyName != "" {
		return l.ContactInfo.CompanyName
	}
	return fallbackCompanyName
}
