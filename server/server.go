package server

import (
	"strings"
	"time"

	"propfeed/config"
	"propfeed/db"
	"propfeed/feeds"
	"propfeed/source"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	feedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propfeed_feed_requests_total",
		Help: "The total number of feed requests served",
	}, []string{"partner", "format"})

	feedFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propfeed_feed_failures_total",
		Help: "The total number of feed requests that failed with an internal error",
	})

	feedDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "propfeed_feed_generation_duration_seconds",
		Help:    "Duration of feed generation",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // Start at 1ms, double each bucket, 12 buckets
	})
)

type ServerConfig struct {

	// The hostname to use for the server
	Hostname string

	// The source to fetch listings from
	Source source.ListingSource

	// The reader used by the dashboard endpoints
	Reader *db.Reader

	// The formatter registry used to dispatch feed formats
	Registry *feeds.Registry

	// Partner configuration, may be nil
	Partners *config.TomlConfig
}

// Parameters the feed handler consumes itself; everything else is passed
// through to the formatter untouched.
var reservedParams = map[string]bool{
	"partnerId":    true,
	"format":       true,
	"listingTypes": true,
	"leadEmail":    true,
}

// Returns a fiber.App instance to be used as the HTTP server for the
// syndication feed
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New()

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes
		err := c.Next()

		// stop timer
		stop := time.Now()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"latency": stop.Sub(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	// Cache generated feeds for the same window we advertise in
	// Cache-Control, keyed by the full request URI
	app.Use(cache.New(cache.Config{
		Expiration: time.Hour,
		Next: func(c *fiber.Ctx) bool {
			if c.Method() != "GET" {
				return true
			}
			return !strings.HasPrefix(c.Path(), "/feed")
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			// Include the query parameters in the cache key
			return c.Request().URI().String()
		},
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/feed", feedHandler(config))

	app.Get("/dashboard/listings-per-time", func(c *fiber.Ctx) error {
		propertyType := c.Query("propertyType", "")
		timeAgg := c.Query("time", "hour")

		// check if time is hour, day or week
		if timeAgg != "hour" && timeAgg != "day" && timeAgg != "week" {
			return c.Status(400).SendString("Invalid time")
		}

		counts, err := config.Reader.GetListingCountPerTime(propertyType, timeAgg)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error getting listings per time")

			return c.Status(500).SendString("Error getting listings per time")
		}

		log.WithFields(log.Fields{
			"propertyType": propertyType,
			"count":        len(counts),
		}).Info("Get listings per time")

		return c.Status(200).JSON(counts)
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}

func feedHandler(config *ServerConfig) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		// A formatter panic must never leak past the handler; partners only
		// ever see the generic error shape
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"panic": r,
				}).Error("Recovered panic while generating feed")
				err = internalError(c)
			}
		}()

		partnerID := c.Query("partnerId")
		if partnerID == "" {
			return c.Status(400).JSON(fiber.Map{"error": "Partner ID is required"})
		}

		format := c.Query("format")
		leadEmail := c.Query("leadEmail")
		types := feeds.ParseTypes(c.Query("listingTypes"))

		req := feeds.Request{
			PartnerID: partnerID,
			LeadEmail: leadEmail,
			Types:     types,
			Params:    passthroughParams(c),
		}

		formatter := config.Registry.Resolve(format)

		// Partner configuration supplies defaults the request did not set
		if config.Partners != nil {
			if p, ok := config.Partners.Partner(partnerID); ok {
				if req.LeadEmail == "" {
					req.LeadEmail = p.LeadEmail
				}
				if len(req.Types) == 0 {
					req.Types = p.ListingTypes
				}
				if format == "" && p.Format != "" {
					formatter = config.Registry.Named(p.Format)
				}
			}
		}

		log.WithFields(log.Fields{
			"partner": partnerID,
			"format":  formatter.Name,
			"types":   req.Types,
		}).Info("Generate feed with parameters")

		listings, err := config.Source.FetchActive(c.UserContext(), req.Types)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error fetching listings")
			return internalError(c)
		}

		filtered := feeds.FilterListings(listings, req.Types)

		start := time.Now()
		body, err := formatter.Render(filtered, req)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error rendering feed")
			return internalError(c)
		}
		feedDuration.Observe(time.Since(start).Seconds())
		feedRequests.WithLabelValues(partnerID, formatter.Name).Inc()

		c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
		c.Set(fiber.HeaderContentType, formatter.ContentType)
		return c.SendString(body)
	}
}

func internalError(c *fiber.Ctx) error {
	feedFailures.Inc()
	return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
}

func passthroughParams(c *fiber.Ctx) map[string]string {
	params := make(map[string]string)
	for key, value := range c.Queries() {
		if reservedParams[key] {
			continue
		}
		params[key] = value
	}
	return params
}
