// Package upstream is the client for the listings API that propfeed
// synchronizes from.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"propfeed/models"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propfeed_upstream_fetch_attempts_total",
		Help: "The total number of listing fetch attempts against the upstream API",
	})

	fetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propfeed_upstream_fetch_errors_total",
		Help: "The total number of failed listing fetches",
	})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "propfeed_upstream_fetch_duration_seconds",
		Help:    "Duration of upstream listing fetches",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // Start at 10ms, double each bucket, 10 buckets
	})
)

type Client struct {
	host string
	http *retryablehttp.Client
}

// NewClient returns a listings API client for the given host, e.g.
// "https://listings.example.com".
func NewClient(host string) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 10 * time.Second
	client.Logger = nil // We do our own request logging

	return &Client{
		host: strings.TrimSuffix(host, "/"),
		http: client,
	}
}

// FetchActive pulls the active listings from the upstream API, optionally
// restricted to the given listing/property types.
func (c *Client) FetchActive(ctx context.Context, types []string) ([]models.Listing, error) {
	u, err := url.Parse(c.host + "/listings")
	if err != nil {
		return nil, fmt.Errorf("failed to parse upstream URL: %w", err)
	}

	q := u.Query()
	q.Set("status", models.StatusActive)
	if len(types) > 0 {
		q.Set("types", strings.Join(types, ","))
	}
	u.RawQuery = q.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	fetchAttempts.Inc()
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		fetchErrors.Inc()
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()
	fetchDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		fetchErrors.Inc()
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var listings []models.Listing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		fetchErrors.Inc()
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	log.Infof("Fetched %d listings from %s", len(listings), c.host)

	return listings, nil
}
