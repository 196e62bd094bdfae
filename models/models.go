package models

import "time"

// StatusActive is the only listing status that is ever syndicated to partners.
const StatusActive = "active"

// PetPolicyNone is the upstream sentinel for listings that do not allow pets.
// Any other non-empty pet policy text means pets are allowed.
const PetPolicyNone = "No pets allowed"

// ContactInfo holds the contact block attached to a listing
type ContactInfo struct {
	CompanyName string `json:"companyName,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// MHDetails is the manufactured home extension of a listing. All fields are
// optional upstream; formatters apply their own defaults.
type MHDetails struct {
	Manufacturer  string `json:"manufacturer,omitempty"`
	Model         string `json:"model,omitempty"`
	Year          int    `json:"year,omitempty"`
	Color         string `json:"color,omitempty"`
	SerialNumber  string `json:"serialNumber,omitempty"`
	CommunityName string `json:"communityName,omitempty"`

	// Section dimensions in feet, up to three sections for multi-wides
	Width1  float64 `json:"width1,omitempty"`
	Length1 float64 `json:"length1,omitempty"`
	Width2  float64 `json:"width2,omitempty"`
	Length2 float64 `json:"length2,omitempty"`
	Width3  float64 `json:"width3,omitempty"`
	Length3 float64 `json:"length3,omitempty"`

	RoofType   string `json:"roofType,omitempty"`
	SidingType string `json:"sidingType,omitempty"`

	// Structure and lot features
	Garage           bool `json:"garage,omitempty"`
	Carport          bool `json:"carport,omitempty"`
	Fireplace        bool `json:"fireplace,omitempty"`
	CentralAir       bool `json:"centralAir,omitempty"`
	CeilingFans      bool `json:"ceilingFans,omitempty"`
	CathedralCeiling bool `json:"cathedralCeiling,omitempty"`
	Skylights        bool `json:"skylights,omitempty"`
	Deck             bool `json:"deck,omitempty"`
	Patio            bool `json:"patio,omitempty"`
	Porch            bool `json:"porch,omitempty"`
	Shed             bool `json:"shed,omitempty"`
	Gutters          bool `json:"gutters,omitempty"`
	Shutters         bool `json:"shutters,omitempty"`
	Thermopane       bool `json:"thermopane,omitempty"`
	WalkInClosets    bool `json:"walkInClosets,omitempty"`
	LaundryRoom      bool `json:"laundryRoom,omitempty"`
	Pantry           bool `json:"pantry,omitempty"`
	SunRoom          bool `json:"sunRoom,omitempty"`
	Basement         bool `json:"basement,omitempty"`
	GardenTub        bool `json:"gardenTub,omitempty"`

	// Included appliances
	Dishwasher      bool `json:"dishwasher,omitempty"`
	GarbageDisposal bool `json:"garbageDisposal,omitempty"`
	Microwave       bool `json:"microwave,omitempty"`
	Refrigerator    bool `json:"refrigerator,omitempty"`
	Oven            bool `json:"oven,omitempty"`
	Washer          bool `json:"washer,omitempty"`
	Dryer           bool `json:"dryer,omitempty"`
}

// Listing is a single listing record as delivered by the upstream listing
// source. Field names follow the upstream JSON schema.
type Listing struct {
	ID           string `json:"id"`
	ListingType  string `json:"listingType"`  // rent | sale
	PropertyType string `json:"propertyType"` // apartment, house, condo, manufactured_home, storage, rv
	Status       string `json:"status"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Address   string   `json:"address,omitempty"`
	Address2  string   `json:"address2,omitempty"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	ZipCode   string   `json:"zipCode,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Rent          float64 `json:"rent,omitempty"`
	PurchasePrice float64 `json:"purchasePrice,omitempty"`

	Bedrooms      int     `json:"bedrooms,omitempty"`
	Bathrooms     float64 `json:"bathrooms,omitempty"`
	SquareFootage int     `json:"squareFootage,omitempty"`

	Amenities []string `json:"amenities,omitempty"`
	PetPolicy string   `json:"petPolicy,omitempty"`
	Images    []string `json:"images,omitempty"`

	AvailabilityURL string `json:"availabilityUrl,omitempty"`

	ContactInfo *ContactInfo `json:"contactInfo,omitempty"`
	CompanyID   string       `json:"companyId,omitempty"`
	MHDetails   *MHDetails   `json:"mhDetails,omitempty"`

	CreatedAt int64 `json:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// Company returns the owning company id, synthesized from the listing id when
// the upstream record carries none.
func (l *Listing) Company() string {
	if l.CompanyID != "" {
		return l.CompanyID
	}
	return "c" + l.ID
}

// PetsAllowed derives the single pet allowance flag from the free-text pet
// policy. Absence or the upstream sentinel means no pets; any other text
// allows both cats and dogs.
func (l *Listing) PetsAllowed() bool {
	return l.PetPolicy != "" && l.PetPolicy != PetPolicyNone
}

// Price returns the single price value for the listing based on its type.
func (l *Listing) Price() float64 {
	if l.ListingType == "sale" {
		return l.PurchasePrice
	}
	return l.Rent
}

// IsManufacturedHome reports whether the listing qualifies for the
// manufactured home feed.
func (l *Listing) IsManufacturedHome() bool {
	return l.PropertyType == "manufactured_home" || l.MHDetails != nil
}

// ManagementCompany is synthesized per distinct company id while scanning
// listings. It is never persisted.
type ManagementCompany struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ListingsAggregatedByTime struct {
	Time  time.Time `json:"time"`
	Count int64     `json:"count"`
}
