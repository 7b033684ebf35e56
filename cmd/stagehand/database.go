package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"stagehand/internal/logging"
)

// dbOptions sizes the pool and bounds the startup wait for Postgres.
type dbOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	PingTimeout    time.Duration
	MaxWait        time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func defaultDBOptions() dbOptions {
	return dbOptions{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		PingTimeout:     5 * time.Second,
		MaxWait:         30 * time.Second,
		InitialBackoff:  500 * time.Millisecond,
		MaxBackoff:      5 * time.Second,
	}
}

// openDatabase opens the pgx pool and waits for Postgres to answer.
func openDatabase(ctx context.Context, dsn string, logger *logging.Logger) (*sql.DB, error) {
	opts := defaultDBOptions()

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := waitForDatabase(ctx, db, opts, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// waitForDatabase pings with exponential backoff until the database answers,
// ctx ends, or the next retry would pass opts.MaxWait.
func waitForDatabase(ctx context.Context, db pinger, opts dbOptions, logger *logging.Logger) error {
	deadline := time.Now().Add(opts.MaxWait)
	backoff := opts.InitialBackoff

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := db.PingContext(pingCtx)
		cancel()

		if err == nil {
			if attempt > 1 {
				logger.Zerolog().Info().Int("attempts", attempt).Msg("database reachable")
			}
			return nil
		}
		if time.Now().Add(backoff).After(deadline) {
			return fmt.Errorf("ping database after %d attempts: %w", attempt, err)
		}

		logger.Zerolog().Warn().Err(err).Int("attempt", attempt).Dur("retry_in", backoff).Msg("database not ready")
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping database: %w", ctx.Err())
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, opts.MaxBackoff)
	}
}
