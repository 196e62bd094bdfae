package source

import (
	"context"
	"time"

	"propfeed/db"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

// Sync pulls listings from the given source into the local database on an
// interval. Fetch failures back off exponentially without ever giving up;
// the next tick resets the cycle after a successful pass.
func Sync(ctx context.Context, src ListingSource, writer *db.Writer, interval time.Duration) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 5 * time.Minute
	bo.Multiplier = 1.5
	bo.MaxElapsedTime = 0 // Never stop retrying

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := syncOnce(ctx, src, writer); err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Sync pass failed")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(bo.NextBackOff()):
				continue
			}
		}

		bo.Reset()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func syncOnce(ctx context.Context, src ListingSource, writer *db.Writer) error {
	listings, err := src.FetchActive(ctx, nil)
	if err != nil {
		return err
	}

	written := 0
	for _, listing := range listings {
		if listing.ID == "" {
			log.Warn("Skipping listing without id")
			continue
		}
		if err := writer.UpsertListing(ctx, listing); err != nil {
			return err
		}
		written++
	}

	log.WithFields(log.Fields{
		"fetched": len(listings),
		"written": written,
	}).Info("Sync pass complete")

	return nil
}
