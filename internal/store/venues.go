package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"stagehand/internal/models"
)

const venueColumns = `id, name, city, state, tier, capacity, guarantee_min, guarantee_max,
		       door_split_percentage, avg_ticket_price, genres, requires_draw`

// ListVenues returns the venue directory in seed order.
func (s *Store) ListVenues(ctx context.Context) ([]models.Venue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+venueColumns+`
		FROM venues
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select venues: %w", err)
	}
	defer rows.Close()

	var venues []models.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venues: %w", err)
	}

	return venues, nil
}

// GetVenue retrieves a single venue by ID
func (s *Store) GetVenue(ctx context.Context, id string) (models.Venue, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+venueColumns+`
		FROM venues
		WHERE id = $1
	`, id)

	v, err := scanVenue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Venue{}, ErrVenueNotFound
	}
	return v, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVenue(row scanner) (models.Venue, error) {
	var (
		v      models.Venue
		tier   string
		genres []byte
	)
	err := row.Scan(&v.ID, &v.Name, &v.City, &v.State, &tier, &v.Capacity,
		&v.GuaranteeMin, &v.GuaranteeMax, &v.DoorSplitPercentage, &v.AvgTicketPrice,
		&genres, &v.RequiresDraw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Venue{}, err
		}
		return models.Venue{}, fmt.Errorf("scan venue: %w", err)
	}

	v.Tier = models.Tier(tier)
	if len(genres) > 0 {
		if err := json.Unmarshal(genres, &v.Genres); err != nil {
			return models.Venue{}, fmt.Errorf("decode venue %s genres: %w", v.ID, err)
		}
	}
	return v, nil
}

func upsertVenue(ctx context.Context, db execer, position int, v models.Venue) error {
	genres, err := json.Marshal(nonNil(v.Genres))
	if err != nil {
		return fmt.Errorf("encode venue %s genres: %w", v.ID, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO venues (id, name, city, state, tier, capacity, guarantee_min, guarantee_max,
		                    door_split_percentage, avg_ticket_price, genres, requires_draw, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			tier = EXCLUDED.tier,
			capacity = EXCLUDED.capacity,
			guarantee_min = EXCLUDED.guarantee_min,
			guarantee_max = EXCLUDED.guarantee_max,
			door_split_percentage = EXCLUDED.door_split_percentage,
			avg_ticket_price = EXCLUDED.avg_ticket_price,
			genres = EXCLUDED.genres,
			requires_draw = EXCLUDED.requires_draw,
			position = EXCLUDED.position,
			updated_at = NOW()
	`, v.ID, v.Name, v.City, v.State, string(v.Tier), v.Capacity, v.GuaranteeMin, v.GuaranteeMax,
		v.DoorSplitPercentage, v.AvgTicketPrice, genres, v.RequiresDraw, position)
	if err != nil {
		return fmt.Errorf("upsert venue %s: %w", v.ID, err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
