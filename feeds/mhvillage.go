package feeds

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"propfeed/models"
)

// MHVillageJSON renders the manufactured home feed consumed by MHVillage
// style partners.
var MHVillageJSON = Formatter{
	Name:        "mhvillage-json",
	ContentType: "application/json",
	Render:      renderMHVillageJSON,
}

// Feature defaults applied when the listing's mh details omit a value.
const (
	defaultRoofType   = "Shingled"
	defaultSidingType = "Vinyl"
)

type mhvillageFeed struct {
	PartnerID     string   `json:"partnerId"`
	GeneratedAt   string   `json:"generatedAt"`
	TotalListings int      `json:"totalListings"`
	FeedType      string   `json:"feedType"`
	Homes         []mhHome `json:"homes"`
}

type mhHome struct {
	ListingID    string `json:"listingId"`
	CommunityKey int    `json:"communityKey"`

	Seller  mhSeller  `json:"seller"`
	Price   mhPrice   `json:"price"`
	Address mhAddress `json:"address"`

	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Color        string `json:"color"`
	SerialNumber string `json:"serialNumber"`

	Width1  float64 `json:"width1,omitempty"`
	Length1 float64 `json:"length1,omitempty"`
	Width2  float64 `json:"width2,omitempty"`
	Length2 float64 `json:"length2,omitempty"`
	Width3  float64 `json:"width3,omitempty"`
	Length3 float64 `json:"length3,omitempty"`

	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	SquareFootage int     `json:"squareFootage"`

	Features mhFeatures `json:"features"`
}

type mhSeller struct {
	CompanyID     string `json:"companyId"`
	CompanyName   string `json:"companyName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	CommunityName string `json:"communityName,omitempty"`
}

// Exactly one of the price fields is set, based on the listing type.
type mhPrice struct {
	SalePrice *float64 `json:"salePrice,omitempty"`
	RentPrice *float64 `json:"rentPrice,omitempty"`
	SoldPrice *float64 `json:"soldPrice,omitempty"`
}

type mhAddress struct {
	Street  string `json:"street"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

type mhFeatures struct {
	RoofType   string `json:"roofType"`
	SidingType string `json:"sidingType"`

	SectionCount int `json:"sectionCount"`

	Garage           bool `json:"garage"`
	Carport          bool `json:"carport"`
	Fireplace        bool `json:"fireplace"`
	CentralAir       bool `json:"centralAir"`
	CeilingFans      bool `json:"ceilingFans"`
	CathedralCeiling bool `json:"cathedralCeiling"`
	Skylights        bool `json:"skylights"`
	Deck             bool `json:"deck"`
	Patio            bool `json:"patio"`
	Porch            bool `json:"porch"`
	Shed             bool `json:"shed"`
	Gutters          bool `json:"gutters"`
	Shutters         bool `json:"shutters"`
	Thermopane       bool `json:"thermopane"`
	WalkInClosets    bool `json:"walkInClosets"`
	LaundryRoom      bool `json:"laundryRoom"`
	Pantry           bool `json:"pantry"`
	SunRoom          bool `json:"sunRoom"`
	Basement         bool `json:"basement"`
	GardenTub        bool `json:"gardenTub"`
	PetsAllowed      bool `json:"petsAllowed"`

	Dishwasher      bool `json:"dishwasher"`
	GarbageDisposal bool `json:"garbageDisposal"`
	Microwave       bool `json:"microwave"`
	Refrigerator    bool `json:"refrigerator"`
	Oven            bool `json:"oven"`
	Washer          bool `json:"washer"`
	Dryer           bool `json:"dryer"`
}

func renderMHVillageJSON(listings []models.Listing, req Request) (string, error) {
	homes := []mhHome{}
	for _, l := range FilterManufacturedHomes(listings) {
		homes = append(homes, buildHome(&l, req))
	}

	feed := mhvillageFeed{
		PartnerID:     req.PartnerID,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		TotalListings: len(homes),
		FeedType:      "MHVillage",
		Homes:         homes,
	}

	// Pretty printed so partner side diffs stay readable
	out, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal error: %w", err)
	}

	return string(out), nil
}

func buildHome(l *models.Listing, req Request) mhHome {
	details := l.MHDetails
	if details == nil {
		details = &models.MHDetails{}
	}

	home := mhHome{
		ListingID:    l.ID,
		CommunityKey: communityKey(l.Company()),
		Seller: mhSeller{
			CompanyID:     l.Company(),
			CompanyName:   contactCompany(l),
			Email:         contactEmail(l, req),
			Phone:         contactPhone(l),
			CommunityName: details.CommunityName,
		},
		Price: buildPrice(l),
		Address: mhAddress{
			Street:  l.Address,
			Street2: l.Address2,
			City:    l.City,
			State:   l.State,
			Zip:     l.ZipCode,
		},
		Make:          details.Manufacturer,
		Model:         details.Model,
		Year:          details.Year,
		Color:         details.Color,
		SerialNumber:  details.SerialNumber,
		Width1:        details.Width1,
		Length1:       details.Length1,
		Width2:        details.Width2,
		Length2:       details.Length2,
		Width3:        details.Width3,
		Length3:       details.Length3,
		Bedrooms:      l.Bedrooms,
		Bathrooms:     l.Bathrooms,
		SquareFootage: l.SquareFootage,
		Features:      buildFeatures(l, details),
	}

	return home
}

func buildPrice(l *models.Listing) mhPrice {
	price := l.Price()
	if l.ListingType == "sale" {
		return mhPrice{SalePrice: &price}
	}
	return mhPrice{RentPrice: &price}
}

func buildFeatures(l *models.Listing, details *models.MHDetails) mhFeatures {
	roofType := details.RoofType
	if roofType == "" {
		roofType = defaultRoofType
	}
	sidingType := details.SidingType
	if sidingType == "" {
		sidingType = defaultSidingType
	}

	return mhFeatures{
		RoofType:         roofType,
		SidingType:       sidingType,
		SectionCount:     sectionCount(details),
		Garage:           details.Garage,
		Carport:          details.Carport,
		Fireplace:        details.Fireplace,
		CentralAir:       details.CentralAir,
		CeilingFans:      details.CeilingFans,
		CathedralCeiling: details.CathedralCeiling,
		Skylights:        details.Skylights,
		Deck:             details.Deck,
		Patio:            details.Patio,
		Porch:            details.Porch,
		Shed:             details.Shed,
		Gutters:          details.Gutters,
		Shutters:         details.Shutters,
		Thermopane:       details.Thermopane,
		WalkInClosets:    details.WalkInClosets,
		LaundryRoom:      details.LaundryRoom,
		Pantry:           details.Pantry,
		SunRoom:          details.SunRoom,
		Basement:         details.Basement,
		GardenTub:        details.GardenTub,
		PetsAllowed:      l.PetsAllowed(),
		Dishwasher:       details.Dishwasher,
		GarbageDisposal:  details.GarbageDisposal,
		Microwave:        details.Microwave,
		Refrigerator:     details.Refrigerator,
		Oven:             details.Oven,
		Washer:           details.Washer,
		Dryer:            details.Dryer,
	}
}

func sectionCount(details *models.MHDetails) int {
	count := 0
	for _, width := range []float64{details.Width1, details.Width2, details.Width3} {
		if width > 0 {
			count++
		}
	}
	if count == 0 {
		count = 1
	}
	return count
}

// communityKey derives the numeric partner community key from the company id
// by stripping the "c" prefix. Ids that do not follow the convention map to
// the default key 1.
func communityKey(companyID string) int {
	trimmed := strings.TrimPrefix(companyID, "c")
	key, err := strconv.Atoi(trimmed)
	if err != nil || key <= 0 {
		return 1
	}
	return key
}
