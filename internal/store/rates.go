package store

import (
	"context"
	"fmt"

	"stagehand/internal/models"
)

const expenseStandardsKey = "reference:expense_standards"

// ListMusicianRates returns the rate bands in seed order.
func (s *Store) ListMusicianRates(ctx context.Context) ([]models.MusicianRole, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, rate_type, rate_min, rate_max
		FROM musician_rates
		ORDER BY position ASC, role ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select musician rates: %w", err)
	}
	defer rows.Close()

	var rates []models.MusicianRole
	for rows.Next() {
		var (
			r        models.MusicianRole
			rateType string
		)
		if err := rows.Scan(&r.Role, &rateType, &r.RateMin, &r.RateMax); err != nil {
			return nil, fmt.Errorf("scan musician rate: %w", err)
		}
		r.RateType = models.RateType(rateType)
		rates = append(rates, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate musician rates: %w", err)
	}

	return rates, nil
}

// ExpenseStandards returns the stored standards; ok is false when none were seeded.
func (s *Store) ExpenseStandards(ctx context.Context) (standards models.TourExpenseStandards, ok bool, err error) {
	found, err := s.getJSON(ctx, expenseStandardsKey, &standards)
	if err != nil {
		return models.TourExpenseStandards{}, false, fmt.Errorf("load expense standards: %w", err)
	}
	return standards, found, nil
}

func upsertMusicianRate(ctx context.Context, db execer, position int, r models.MusicianRole) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO musician_rates (role, rate_type, rate_min, rate_max, position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (role) DO UPDATE SET
			rate_type = EXCLUDED.rate_type,
			rate_min = EXCLUDED.rate_min,
			rate_max = EXCLUDED.rate_max,
			position = EXCLUDED.position
	`, r.Role, string(r.RateType), r.RateMin, r.RateMax, position)
	if err != nil {
		return fmt.Errorf("upsert musician rate %s: %w", r.Role, err)
	}
	return nil
}
