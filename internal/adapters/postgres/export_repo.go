package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// ErrExportNotFound is returned by GetByID for unknown exports.
var ErrExportNotFound = errors.New("export not found")

// ExportRepo implements ports.ExportRepository.
type ExportRepo struct {
	db *DB
}

func NewExportRepo(db *DB) *ExportRepo {
	return &ExportRepo{db: db}
}

func (r *ExportRepo) Create(ctx context.Context, rec *domain.ExportRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO polygon_exports (id, polygon_id, format, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, rec.PolygonID, string(rec.Format), rec.Body, rec.CreatedAt)
	return err
}

func (r *ExportRepo) GetByID(ctx context.Context, id string) (*domain.ExportRecord, error) {
	rec := &domain.ExportRecord{}
	var format string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id::text, polygon_id, format, body, created_at
		FROM polygon_exports WHERE id = $1
	`, id).Scan(&rec.ID, &rec.PolygonID, &format, &rec.Body, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExportNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Format = domain.ExportFormat(format)
	return rec, nil
}

func (r *ExportRepo) ListByPolygon(ctx context.Context, polygonID string) ([]domain.ExportRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, polygon_id, format, body, created_at
		FROM polygon_exports WHERE polygon_id = $1
		ORDER BY created_at DESC
	`, polygonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExportRecord
	for rows.Next() {
		var rec domain.ExportRecord
		var format string
		if err := rows.Scan(&rec.ID, &rec.PolygonID, &format, &rec.Body, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Format = domain.ExportFormat(format)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *ExportRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM polygon_exports WHERE id = $1`, id)
	return err
}
