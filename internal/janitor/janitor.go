// Package janitor sweeps the object store for binaries that no longer have a
// meme row, the leftovers of failed uploads or missed deletions.
package janitor

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/kliksy/kliksy-be/internal/config"
	"github.com/kliksy/kliksy-be/internal/storage"
)

// Janitor periodically removes orphaned objects. A grace period keeps it from
// racing uploads whose row insert is still in flight.
type Janitor struct {
	db       *sql.DB
	store    storage.Store
	schedule string
	grace    time.Duration
	cron     *cron.Cron
}

// New creates a Janitor from the configured schedule and grace period.
func New(db *sql.DB, store storage.Store, cfg config.JanitorConfig) *Janitor {
	return &Janitor{
		db:       db,
		store:    store,
		schedule: cfg.Schedule,
		grace:    time.Duration(cfg.GraceMinutes) * time.Minute,
	}
}

// Start schedules the sweep.
func (j *Janitor) Start() error {
	j.cron = cron.New()
	_, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.Sweep(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Orphan sweep failed")
		}
	})
	if err != nil {
		return err
	}
	j.cron.Start()
	log.Info().Str("schedule", j.schedule).Msg("Orphan janitor started")
	return nil
}

// Stop halts the schedule. A sweep already in progress finishes.
func (j *Janitor) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// Sweep lists stored objects and removes those older than the grace period
// whose key matches no meme row. It returns the number of objects removed.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	objects, err := j.store.List(ctx, storage.KeyPrefix)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-j.grace)
	removed := 0
	for _, obj := range objects {
		if obj.LastModified.After(cutoff) {
			continue
		}

		var exists int
		err := j.db.QueryRowContext(ctx,
			`SELECT 1 FROM memes WHERE s3_key = $1 LIMIT 1`, obj.Key).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Str("key", obj.Key).Msg("Orphan check failed, skipping key")
			continue
		}

		if err := j.store.Remove(ctx, obj.Key); err != nil {
			log.Warn().Err(err).Str("key", obj.Key).Msg("Failed to remove orphaned object")
			continue
		}
		log.Info().Str("key", obj.Key).Msg("Removed orphaned object")
		removed++
	}
	return removed, nil
}
