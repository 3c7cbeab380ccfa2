package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SetMeta stores a store metadata key/value.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("meta key is required")
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO meta (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("store meta: %w", err)
	}

	return nil
}

// GetMeta returns a store metadata value, or empty when unset.
func (s *Store) GetMeta(ctx context.Context, key string) (string, error) {
	if s == nil || s.DB == nil {
		return "", errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if strings.TrimSpace(key) == "" {
		return "", errors.New("meta key is required")
	}

	var value string
	if err := s.DB.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("fetch meta: %w", err)
	}

	return value, nil
}
