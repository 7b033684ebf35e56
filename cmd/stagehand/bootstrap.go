package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stagehand/internal/kv"
	"stagehand/internal/logging"
	"stagehand/internal/reference"
	"stagehand/internal/store"
)

const purgeInterval = time.Hour

// referenceTables returns the configured override directory, or the embedded
// tables when none is set.
func referenceTables(dir string) (reference.Tables, error) {
	if dir == "" {
		return reference.Default(), nil
	}
	tables, err := reference.LoadDir(dir)
	if err != nil {
		return reference.Tables{}, fmt.Errorf("load reference data: %w", err)
	}
	return tables, nil
}

// bootstrapReferenceData seeds an empty database with the reference tables.
func bootstrapReferenceData(ctx context.Context, db *sql.DB, dataStore *store.Store, tables reference.Tables) error {
	venuesTableExists, err := tableExists(ctx, db, "venues")
	if err != nil {
		return fmt.Errorf("check venues table: %w", err)
	}
	if !venuesTableExists {
		return fmt.Errorf("venues table is missing; run the migrations first")
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues`).Scan(&count); err != nil {
		return fmt.Errorf("count venues: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := dataStore.SeedReference(ctx, tables); err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}
	return nil
}

// purgeExpired removes expired key-value entries every interval until ctx ends.
func purgeExpired(ctx context.Context, purger kv.Purger, interval time.Duration, logger *logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purgeOnce(ctx, purger, logger)
		}
	}
}

func purgeOnce(ctx context.Context, purger kv.Purger, logger *logging.Logger) int64 {
	n, err := purger.PurgeExpired(ctx)
	if err != nil {
		logger.Warn(err, "purge expired entries")
		return 0
	}
	if n > 0 {
		logger.Zerolog().Debug().Int64("removed", n).Msg("purged expired entries")
	}
	return n
}

type queryRower interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func tableExists(ctx context.Context, q queryRower, table string) (bool, error) {
	var name sql.NullString
	if err := q.QueryRowContext(ctx, `SELECT to_regclass($1)`, table).Scan(&name); err != nil {
		return false, err
	}
	return name.Valid, nil
}
