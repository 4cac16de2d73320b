package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// ViewportRepo implements ports.ViewportStore on the settings table.
type ViewportRepo struct {
	db  *DB
	key string
}

func NewViewportRepo(db *DB, key string) *ViewportRepo {
	if key == "" {
		key = "lastMapView"
	}
	return &ViewportRepo{db: db, key: key}
}

func (r *ViewportRepo) Load(ctx context.Context) (*domain.Viewport, error) {
	var raw []byte
	err := r.db.Pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, r.key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrViewportNotFound
	}
	if err != nil {
		return nil, err
	}

	var v domain.Viewport
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.key, err)
	}
	return &v, nil
}

func (r *ViewportRepo) Save(ctx context.Context, v *domain.Viewport) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, r.key, data)
	return err
}

func (r *ViewportRepo) Clear(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM settings WHERE key = $1`, r.key)
	return err
}
