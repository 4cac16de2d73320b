package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/ports"
)

// ArchiveActivities holds the activity implementations for the archive workflow.
type ArchiveActivities struct {
	Exports   ports.ExportRepository
	Publisher ports.EventPublisher
}

// StoreExport writes the export record.
func (a *ArchiveActivities) StoreExport(ctx context.Context, rec domain.ExportRecord) error {
	if err := a.Exports.Create(ctx, &rec); err != nil {
		return fmt.Errorf("store export %s: %w", rec.ID, err)
	}
	return nil
}

// PublishExportReady announces the stored export.
func (a *ArchiveActivities) PublishExportReady(ctx context.Context, rec domain.ExportRecord) error {
	if a.Publisher == nil {
		slog.Info("export ready (no publisher)", "export_id", rec.ID, "polygon_id", rec.PolygonID)
		return nil
	}
	return a.Publisher.PublishExportReady(ctx, &rec)
}

// DeleteExport removes an export record (saga compensation / rollback).
func (a *ArchiveActivities) DeleteExport(ctx context.Context, id string) error {
	if err := a.Exports.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete export %s: %w", id, err)
	}
	slog.Info("export deleted (saga compensation)", "export_id", id)
	return nil
}
