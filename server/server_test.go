package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"propfeed/config"
	"propfeed/feeds"
	"propfeed/models"
	"propfeed/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource serves a fixed listing set, standing in for the database backed
// source.
type stubSource struct {
	listings []models.Listing
	err      error
}

func (s *stubSource) FetchActive(ctx context.Context, types []string) ([]models.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.listings, nil
}

func fixtureListings(t *testing.T) []models.Listing {
	t.Helper()

	data, err := os.ReadFile("testdata/listings.json")
	require.NoError(t, err)

	var listings []models.Listing
	require.NoError(t, json.Unmarshal(data, &listings))
	return listings
}

func newTestServer(t *testing.T, src *stubSource, partners *config.TomlConfig) *fiber.App {
	t.Helper()

	return server.Server(&server.ServerConfig{
		Hostname: "feeds.test",
		Source:   src,
		Registry: feeds.InitializeRegistry(partners),
		Partners: partners,
	})
}

func get(t *testing.T, app *fiber.App, target string) (int, string, map[string]string) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	headers := map[string]string{
		"Content-Type":  resp.Header.Get("Content-Type"),
		"Cache-Control": resp.Header.Get("Cache-Control"),
	}
	return resp.StatusCode, string(body), headers
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestServer(t, &stubSource{}, nil)

	status, body, _ := get(t, app, "/health")

	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"status": "ok"}`, body)
}

func TestFeedRequiresPartnerID(t *testing.T) {
	app := newTestServer(t, &stubSource{listings: fixtureListings(t)}, nil)

	status, body, _ := get(t, app, "/feed")

	assert.Equal(t, 400, status)
	assert.JSONEq(t, `{"error": "Partner ID is required"}`, body)
}

func TestFeedFormatDispatch(t *testing.T) {
	listings := fixtureListings(t)

	tests := []struct {
		name        string
		target      string
		contentType string
		bodyHint    string
	}{
		{
			name:        "default is the XML feed",
			target:      "/feed?partnerId=test",
			contentType: "application/xml",
			bodyHint:    "<PhysicalProperty>",
		},
		{
			name:        "JSON token selects the MHVillage feed",
			target:      "/feed?partnerId=test&format=JSON",
			contentType: "application/json",
			bodyHint:    `"feedType": "MHVillage"`,
		},
		{
			name:        "lowercase json token is not recognized",
			target:      "/feed?partnerId=test&format=json",
			contentType: "application/xml",
			bodyHint:    "<PhysicalProperty>",
		},
		{
			name:        "unknown token falls back to XML",
			target:      "/feed?partnerId=test&format=CSV",
			contentType: "application/xml",
			bodyHint:    "<PhysicalProperty>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestServer(t, &stubSource{listings: listings}, nil)

			status, body, headers := get(t, app, tt.target)

			assert.Equal(t, 200, status)
			assert.Equal(t, tt.contentType, headers["Content-Type"])
			assert.Equal(t, "public, max-age=3600", headers["Cache-Control"])
			assert.Contains(t, body, tt.bodyHint)
		})
	}
}

func TestFeedXMLContent(t *testing.T) {
	app := newTestServer(t, &stubSource{listings: fixtureListings(t)}, nil)

	status, body, _ := get(t, app, "/feed?partnerId=zillow")

	assert.Equal(t, 200, status)
	assert.True(t, strings.HasPrefix(body, "<?xml"))
	// Active listings only
	assert.Contains(t, body, `IDValue="1001"`)
	assert.Contains(t, body, `IDValue="2002"`)
	assert.NotContains(t, body, `IDValue="3003"`)
}

func TestFeedJSONContent(t *testing.T) {
	app := newTestServer(t, &stubSource{listings: fixtureListings(t)}, nil)

	status, body, _ := get(t, app, "/feed?partnerId=mhv&format=JSON")
	assert.Equal(t, 200, status)

	var feed struct {
		PartnerID     string `json:"partnerId"`
		TotalListings int    `json:"totalListings"`
		Homes         []struct {
			Make string `json:"make"`
		} `json:"homes"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &feed))

	assert.Equal(t, "mhv", feed.PartnerID)
	assert.Equal(t, 1, feed.TotalListings)
	require.Len(t, feed.Homes, 1)
	assert.Equal(t, "Clayton Homes", feed.Homes[0].Make)
}

func TestFeedListingTypesFilter(t *testing.T) {
	app := newTestServer(t, &stubSource{listings: fixtureListings(t)}, nil)

	status, body, _ := get(t, app, "/feed?partnerId=zillow&listingTypes=apartment")

	assert.Equal(t, 200, status)
	assert.Contains(t, body, `IDValue="1001"`)
	assert.NotContains(t, body, `IDValue="2002"`)
}

func TestFeedLeadEmailOverride(t *testing.T) {
	app := newTestServer(t, &stubSource{listings: fixtureListings(t)}, nil)

	status, body, _ := get(t, app, "/feed?partnerId=zillow&leadEmail=leads%40partner.example.com")

	assert.Equal(t, 200, status)
	assert.Contains(t, body, "leads@partner.example.com")
	assert.NotContains(t, body, "office@sunsetridge.example.com")
}

func TestFeedPartnerDefaults(t *testing.T) {
	partners := &config.TomlConfig{
		Partners: []config.TomlPartner{
			{
				ID:        "mhvillage",
				Format:    "mhvillage-json",
				LeadEmail: "leads-mh@renterinsight.com",
			},
		},
	}
	app := newTestServer(t, &stubSource{listings: fixtureListings(t)}, partners)

	// No format parameter; the partner's configured format applies
	status, body, headers := get(t, app, "/feed?partnerId=mhvillage")

	assert.Equal(t, 200, status)
	assert.Equal(t, "application/json", headers["Content-Type"])
	assert.Contains(t, body, `"feedType": "MHVillage"`)
	assert.Contains(t, body, "leads-mh@renterinsight.com")
}

func TestFeedPartnerDefaultsOverriddenByQuery(t *testing.T) {
	partners := &config.TomlConfig{
		Partners: []config.TomlPartner{
			{ID: "mhvillage", Format: "mhvillage-json"},
		},
	}
	app := newTestServer(t, &stubSource{listings: fixtureListings(t)}, partners)

	// Explicit format wins over the configured one
	_, body, headers := get(t, app, "/feed?partnerId=mhvillage&format=XML")

	assert.Equal(t, "application/xml", headers["Content-Type"])
	assert.Contains(t, body, "<PhysicalProperty>")
}

func TestFeedSourceError(t *testing.T) {
	app := newTestServer(t, &stubSource{err: errors.New("connection refused")}, nil)

	status, body, _ := get(t, app, "/feed?partnerId=test")

	assert.Equal(t, 500, status)
	assert.JSONEq(t, `{"error": "Internal server error"}`, body)
}
