package ports

import (
	"context"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// ViewportStore persists the last map view under a fixed key.
type ViewportStore interface {
	// Load returns domain.ErrViewportNotFound when nothing is stored.
	Load(ctx context.Context) (*domain.Viewport, error)
	Save(ctx context.Context, v *domain.Viewport) error
	Clear(ctx context.Context) error
}

// ExportRepository archives rendered exports.
type ExportRepository interface {
	Create(ctx context.Context, rec *domain.ExportRecord) error
	GetByID(ctx context.Context, id string) (*domain.ExportRecord, error)
	ListByPolygon(ctx context.Context, polygonID string) ([]domain.ExportRecord, error)
	Delete(ctx context.Context, id string) error
}
