// Package store persists reference tables and key-value entries in Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"stagehand/internal/reference"
)

var (
	// ErrVenueNotFound signals an unknown venue id.
	ErrVenueNotFound = errors.New("venue not found")
	// ErrTalentNotFound signals an unknown talent id.
	ErrTalentNotFound = errors.New("talent not found")
	// ErrConflict indicates a unique constraint violation.
	ErrConflict = errors.New("conflict")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// LoadReference reads every reference table. Tables with no rows keep the
// embedded defaults so a fresh database still plans sensibly.
func (s *Store) LoadReference(ctx context.Context) (reference.Tables, error) {
	tables := reference.Default()

	venues, err := s.ListVenues(ctx)
	if err != nil {
		return reference.Tables{}, err
	}
	if len(venues) > 0 {
		tables.Venues = venues
	}

	rates, err := s.ListMusicianRates(ctx)
	if err != nil {
		return reference.Tables{}, err
	}
	if len(rates) > 0 {
		tables.MusicianRates = rates
	}

	standards, ok, err := s.ExpenseStandards(ctx)
	if err != nil {
		return reference.Tables{}, err
	}
	if ok {
		tables.ExpenseStandards = standards
	}

	talent, err := s.ListTalent(ctx)
	if err != nil {
		return reference.Tables{}, err
	}
	if len(talent) > 0 {
		tables.Talent = talent
	}

	if err := tables.Validate(); err != nil {
		return reference.Tables{}, fmt.Errorf("stored reference data: %w", err)
	}
	return tables, nil
}

// SeedReference writes tables in one transaction, replacing rows with the same key.
func (s *Store) SeedReference(ctx context.Context, tables reference.Tables) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for i, v := range tables.Venues {
		if err := upsertVenue(ctx, tx, i, v); err != nil {
			return err
		}
	}
	for i, r := range tables.MusicianRates {
		if err := upsertMusicianRate(ctx, tx, i, r); err != nil {
			return err
		}
	}
	for i, p := range tables.Talent {
		if err := upsertTalent(ctx, tx, i, p); err != nil {
			return err
		}
	}
	if err := setJSON(ctx, tx, expenseStandardsKey, tables.ExpenseStandards); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
