package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"stagehand/internal/models"
)

// ListTalent returns the talent directory in seed order.
func (s *Store) ListTalent(ctx context.Context) ([]models.TalentProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT profile
		FROM talent_profiles
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select talent: %w", err)
	}
	defer rows.Close()

	var profiles []models.TalentProfile
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan talent: %w", err)
		}
		var p models.TalentProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode talent: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate talent: %w", err)
	}

	return profiles, nil
}

// GetTalent retrieves a single profile by ID.
func (s *Store) GetTalent(ctx context.Context, id string) (models.TalentProfile, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT profile
		FROM talent_profiles
		WHERE id = $1
	`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TalentProfile{}, ErrTalentNotFound
		}
		return models.TalentProfile{}, fmt.Errorf("lookup talent: %w", err)
	}

	var p models.TalentProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.TalentProfile{}, fmt.Errorf("decode talent: %w", err)
	}
	return p, nil
}

// CreateTalent adds a profile, typically one imported from an external source.
func (s *Store) CreateTalent(ctx context.Context, p models.TalentProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode talent: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO talent_profiles (id, name, profile, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), -1) + 1 FROM talent_profiles))
	`, p.ID, p.Name, raw)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert talent: %w", err)
	}
	return nil
}

func upsertTalent(ctx context.Context, db execer, position int, p models.TalentProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode talent %s: %w", p.ID, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO talent_profiles (id, name, profile, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			profile = EXCLUDED.profile,
			position = EXCLUDED.position,
			updated_at = NOW()
	`, p.ID, p.Name, raw, position)
	if err != nil {
		return fmt.Errorf("upsert talent %s: %w", p.ID, err)
	}
	return nil
}
