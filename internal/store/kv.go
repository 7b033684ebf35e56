package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stagehand/internal/kv"
)

var (
	_ kv.Store  = (*KV)(nil)
	_ kv.Purger = (*KV)(nil)
)

// KV is a kv.Store backed by the kv_entries table.
type KV struct {
	db  *sql.DB
	now func() time.Time
}

// KV returns the key-value view of the store.
func (s *Store) KV() *KV {
	return &KV{db: s.db, now: time.Now}
}

// Get implements kv.Store. Expired rows read as missing.
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := k.db.QueryRowContext(ctx, `
		SELECT value
		FROM kv_entries
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)
	`, key, k.now().UTC()).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("select kv entry: %w", err)
	}
	return value, nil
}

// Set implements kv.Store.
func (k *KV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: k.now().UTC().Add(ttl), Valid: true}
	}
	if err := upsertEntry(ctx, k.db, key, value, expiresAt); err != nil {
		return fmt.Errorf("upsert kv entry: %w", err)
	}
	return nil
}

// Remove implements kv.Store.
func (k *KV) Remove(ctx context.Context, key string) error {
	if _, err := k.db.ExecContext(ctx, `
		DELETE FROM kv_entries
		WHERE key = $1
	`, key); err != nil {
		return fmt.Errorf("delete kv entry: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired entries and reports how many went.
func (k *KV) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := k.db.ExecContext(ctx, `
		DELETE FROM kv_entries
		WHERE expires_at IS NOT NULL AND expires_at <= $1
	`, k.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge kv entries: %w", err)
	}
	return res.RowsAffected()
}

func upsertEntry(ctx context.Context, db execer, key string, value []byte, expiresAt sql.NullTime) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
	`, key, value, expiresAt)
	return err
}

func setJSON(ctx context.Context, db execer, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := upsertEntry(ctx, db, key, raw, sql.NullTime{}); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (s *Store) getJSON(ctx context.Context, key string, target any) (bool, error) {
	raw, err := s.KV().Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
