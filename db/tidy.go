package db

import (
	"database/sql"
	"time"

	"propfeed/models"

	sb "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Tidy removes listings that have been inactive for more than 90 days
func Tidy(database string) error {
	db, err := connection(database)
	if err != nil {
		return err
	}
	defer db.Close()

	return tidy(db)
}

func tidy(db *sql.DB) error {
	cutoff := time.Now().Add(-90 * 24 * time.Hour).Unix()
	deleteListings := sb.NewDeleteBuilder()
	deleteListings.DeleteFrom("listings").Where(
		deleteListings.NotEqual("status", models.StatusActive),
		deleteListings.LessEqualThan("updated_at", cutoff),
	)
	sql, args := deleteListings.BuildWithFlavor(sb.Flavor(sb.SQLite))

	log.WithFields(log.Fields{
		"sql":  sql,
		"args": args,
	}).Info("Tidying database")

	res, err := db.Exec(sql, args...)
	if err != nil {
		return err
	}

	if removed, err := res.RowsAffected(); err == nil {
		log.WithFields(log.Fields{"removed": removed}).Info("Removed stale listings")
	}

	return nil
}
