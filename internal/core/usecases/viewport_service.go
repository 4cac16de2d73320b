package usecases

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/ports"
	"github.com/samirrijal/areaselector/internal/pkg/telemetry"
)

// ViewportService persists the last map view.
type ViewportService struct {
	store ports.ViewportStore
}

// NewViewportService creates a new ViewportService.
func NewViewportService(store ports.ViewportStore) *ViewportService {
	return &ViewportService{store: store}
}

// Restore returns the stored view, or the default view when none is stored.
func (s *ViewportService) Restore(ctx context.Context) (*domain.Viewport, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanViewportRestore)
	defer span.End()

	v, err := s.store.Load(ctx)
	if errors.Is(err, domain.ErrViewportNotFound) {
		def := domain.DefaultViewport
		span.SetAttributes(attribute.Bool(telemetry.AttrViewportDefault, true))
		return &def, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load viewport: %w", err)
	}
	return v, nil
}

// Update validates and stores v. Called on every center or zoom change.
func (s *ViewportService) Update(ctx context.Context, v domain.Viewport) error {
	if err := v.Validate(); err != nil {
		return err
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanViewportUpdate)
	defer span.End()
	span.SetAttributes(attribute.Int(telemetry.AttrViewportZoom, v.Zoom))

	if err := s.store.Save(ctx, &v); err != nil {
		span.RecordError(err)
		return fmt.Errorf("save viewport: %w", err)
	}
	return nil
}

// Clear forgets the stored view.
func (s *ViewportService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear viewport: %w", err)
	}
	return nil
}
