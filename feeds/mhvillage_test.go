package feeds_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"propfeed/feeds"
	"propfeed/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mhFeedDoc struct {
	PartnerID     string `json:"partnerId"`
	GeneratedAt   string `json:"generatedAt"`
	TotalListings int    `json:"totalListings"`
	FeedType      string `json:"feedType"`
	Homes         []struct {
		ListingID    string `json:"listingId"`
		CommunityKey int    `json:"communityKey"`
		Seller       struct {
			CompanyID     string `json:"companyId"`
			CompanyName   string `json:"companyName"`
			Email         string `json:"email"`
			Phone         string `json:"phone"`
			CommunityName string `json:"communityName"`
		} `json:"seller"`
		Price struct {
			SalePrice *float64 `json:"salePrice"`
			RentPrice *float64 `json:"rentPrice"`
			SoldPrice *float64 `json:"soldPrice"`
		} `json:"price"`
		Make     string `json:"make"`
		Model    string `json:"model"`
		Year     int    `json:"year"`
		Features struct {
			RoofType     string `json:"roofType"`
			SidingType   string `json:"sidingType"`
			SectionCount int    `json:"sectionCount"`
			CentralAir   bool   `json:"centralAir"`
			Deck         bool   `json:"deck"`
			PetsAllowed  bool   `json:"petsAllowed"`
			Dishwasher   bool   `json:"dishwasher"`
		} `json:"features"`
	} `json:"homes"`
}

func renderMHFeed(t *testing.T, listings []models.Listing, req feeds.Request) (string, mhFeedDoc) {
	t.Helper()

	body, err := feeds.MHVillageJSON.Render(listings, req)
	require.NoError(t, err)

	var doc mhFeedDoc
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	return body, doc
}

func TestRenderMHVillageJSONDocument(t *testing.T) {
	listings := feeds.FilterListings(loadListings(t), nil)

	body, doc := renderMHFeed(t, listings, feeds.Request{PartnerID: "mhvillage"})

	assert.Equal(t, "mhvillage", doc.PartnerID)
	assert.Equal(t, "MHVillage", doc.FeedType)

	generatedAt, err := time.Parse(time.RFC3339, doc.GeneratedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), generatedAt, time.Minute)

	// Only the manufactured home survives, total matches the home count
	assert.Equal(t, 1, doc.TotalListings)
	require.Len(t, doc.Homes, 1)

	home := doc.Homes[0]
	assert.Equal(t, "2002", home.ListingID)
	assert.Equal(t, 2002, home.CommunityKey)
	assert.Equal(t, "Clayton Homes", home.Make)
	assert.Equal(t, "The Breeze II", home.Model)
	assert.Equal(t, 2019, home.Year)
	assert.Equal(t, "Pine Grove Sales", home.Seller.CompanyName)
	assert.Equal(t, "Pine Grove", home.Seller.CommunityName)

	// Pretty printed output
	assert.True(t, strings.HasPrefix(body, "{\n  \"partnerId\""))
}

func TestRenderMHVillageJSONPrice(t *testing.T) {
	sale := models.Listing{
		ID:            "s1",
		ListingType:   "sale",
		PropertyType:  "manufactured_home",
		Status:        models.StatusActive,
		PurchasePrice: 89500,
	}
	rent := models.Listing{
		ID:           "r1",
		ListingType:  "rent",
		PropertyType: "manufactured_home",
		Status:       models.StatusActive,
		Rent:         1250,
	}

	_, doc := renderMHFeed(t, []models.Listing{sale, rent}, feeds.Request{PartnerID: "mhvillage"})
	require.Len(t, doc.Homes, 2)

	salePrice := doc.Homes[0].Price
	require.NotNil(t, salePrice.SalePrice)
	assert.Equal(t, 89500.0, *salePrice.SalePrice)
	assert.Nil(t, salePrice.RentPrice)
	assert.Nil(t, salePrice.SoldPrice)

	rentPrice := doc.Homes[1].Price
	require.NotNil(t, rentPrice.RentPrice)
	assert.Equal(t, 1250.0, *rentPrice.RentPrice)
	assert.Nil(t, rentPrice.SalePrice)
	assert.Nil(t, rentPrice.SoldPrice)
}

func TestRenderMHVillageJSONFeatureDefaults(t *testing.T) {
	listings := []models.Listing{
		{
			ID:           "bare",
			ListingType:  "sale",
			PropertyType: "manufactured_home",
			Status:       models.StatusActive,
		},
	}

	_, doc := renderMHFeed(t, listings, feeds.Request{PartnerID: "mhvillage"})
	require.Len(t, doc.Homes, 1)

	features := doc.Homes[0].Features
	assert.Equal(t, "Shingled", features.RoofType)
	assert.Equal(t, "Vinyl", features.SidingType)
	assert.Equal(t, 1, features.SectionCount)
	assert.False(t, features.PetsAllowed)
}

func TestRenderMHVillageJSONFeatures(t *testing.T) {
	listings := feeds.FilterListings(loadListings(t), nil)

	_, doc := renderMHFeed(t, listings, feeds.Request{PartnerID: "mhvillage"})
	require.Len(t, doc.Homes, 1)

	features := doc.Homes[0].Features
	assert.Equal(t, 2, features.SectionCount)
	assert.True(t, features.CentralAir)
	assert.True(t, features.Deck)
	assert.True(t, features.Dishwasher)
	// "No pets allowed" maps to pets disallowed
	assert.False(t, features.PetsAllowed)
}

func TestRenderMHVillageJSONCommunityKey(t *testing.T) {
	tests := []struct {
		name      string
		companyID string
		expected  int
	}{
		{
			name:      "prefixed numeric id",
			companyID: "c2002",
			expected:  2002,
		},
		{
			name:      "unprefixed numeric id",
			companyID: "42",
			expected:  42,
		},
		{
			name:      "non numeric id",
			companyID: "acme",
			expected:  1,
		},
		{
			name:      "zero id",
			companyID: "c0",
			expected:  1,
		},
		{
			name:      "negative id",
			companyID: "c-5",
			expected:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings := []models.Listing{
				{
					ID:           "k1",
					ListingType:  "rent",
					PropertyType: "manufactured_home",
					Status:       models.StatusActive,
					CompanyID:    tt.companyID,
				},
			}

			_, doc := renderMHFeed(t, listings, feeds.Request{PartnerID: "mhvillage"})
			require.Len(t, doc.Homes, 1)
			assert.Equal(t, tt.expected, doc.Homes[0].CommunityKey)
		})
	}
}

func TestRenderMHVillageJSONEmptyFeed(t *testing.T) {
	body, doc := renderMHFeed(t, nil, feeds.Request{PartnerID: "mhvillage"})

	assert.Equal(t, 0, doc.TotalListings)
	assert.Empty(t, doc.Homes)
	// homes renders as an empty array, not null
	assert.Contains(t, body, "\"homes\": []")
}
