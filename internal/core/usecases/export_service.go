package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/ports"
	"github.com/samirrijal/areaselector/internal/pkg/exportfmt"
	"github.com/samirrijal/areaselector/internal/pkg/metrics"
	"github.com/samirrijal/areaselector/internal/pkg/telemetry"
)

// Rendering is a polygon export ready to be served.
type Rendering struct {
	Format      domain.ExportFormat
	ContentType string
	Filename    string
	Body        []byte
}

// ArchiveResult reports where an archived export went.
type ArchiveResult struct {
	Record     *domain.ExportRecord `json:"record"`
	WorkflowID string               `json:"workflow_id,omitempty"`
}

// ExportService renders, imports and archives polygon exports.
type ExportService struct {
	editor    *Editor
	cache     ports.CacheService
	archive   ports.ExportRepository
	scheduler ports.ExportScheduler
	publisher ports.EventPublisher
}

// NewExportService creates a new ExportService. Every collaborator other
// than editor may be nil.
func NewExportService(
	editor *Editor,
	cache ports.CacheService,
	archive ports.ExportRepository,
	scheduler ports.ExportScheduler,
	publisher ports.EventPublisher,
) *ExportService {
	return &ExportService{
		editor:    editor,
		cache:     cache,
		archive:   archive,
		scheduler: scheduler,
		publisher: publisher,
	}
}

// ParseFormat maps a query value to an export format. Empty means text.
func ParseFormat(s string) (domain.ExportFormat, error) {
	switch f := domain.ExportFormat(strings.ToLower(s)); f {
	case "", domain.FormatText:
		return domain.FormatText, nil
	case domain.FormatGeoJSON, domain.FormatKML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, s)
	}
}

// Render produces the export of polygon id in the given format.
func (s *ExportService) Render(ctx context.Context, id string, format domain.ExportFormat) (*Rendering, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanExportRender)
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrExportFormat, string(format)))

	poly, err := s.editor.Get(id)
	if err != nil {
		return nil, err
	}

	r := &Rendering{Format: format}
	switch format {
	case domain.FormatText:
		r.ContentType = exportfmt.TextContentType
		r.Filename = poly.ID + ".txt"
		r.Body = []byte(exportfmt.Text(poly.Vertices))
		metrics.ExportsTotal.WithLabelValues(string(format)).Inc()
		return r, nil
	case domain.FormatGeoJSON:
		r.ContentType = exportfmt.GeoJSONContentType
		r.Filename = poly.ID + ".geojson"
	case domain.FormatKML:
		r.ContentType = exportfmt.KMLContentType
		r.Filename = poly.ID + ".kml"
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}

	// Try cache; the revision changes on every edit
	cacheKey := fmt.Sprintf("export:%s:%d:%s", poly.ID, poly.Revision, format)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil && len(data) > 0 {
			metrics.CacheHits.WithLabelValues("export").Inc()
			metrics.ExportsTotal.WithLabelValues(string(format)).Inc()
			r.Body = data
			return r, nil
		}
		metrics.CacheMisses.WithLabelValues("export").Inc()
	}

	if format == domain.FormatGeoJSON {
		r.Body, err = exportfmt.GeoJSON(poly)
	} else {
		r.Body, err = exportfmt.KML(poly)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, r.Body, 300)
	}
	metrics.ExportsTotal.WithLabelValues(string(format)).Inc()
	return r, nil
}

// Import parses a text export and commits it as a polygon. A sequence below
// the commit threshold yields (nil, nil), like a short collection.
func (s *ExportService) Import(ctx context.Context, text string) (*domain.Polygon, error) {
	seq, err := exportfmt.ParseString(text)
	if err != nil {
		return nil, err
	}
	return s.editor.Import(ctx, seq)
}

// Archive stores a rendering of polygon id. With a scheduler the work runs
// as a workflow; otherwise the record is written directly and an "export
// ready" event is published on a best-effort basis.
func (s *ExportService) Archive(ctx context.Context, id string, format domain.ExportFormat) (*ArchiveResult, error) {
	r, err := s.Render(ctx, id, format)
	if err != nil {
		return nil, err
	}

	rec := &domain.ExportRecord{
		ID:        uuid.NewString(),
		PolygonID: id,
		Format:    format,
		Body:      string(r.Body),
		CreatedAt: time.Now(),
	}

	if s.scheduler != nil {
		runID, err := s.scheduler.ScheduleArchive(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("schedule archive: %w", err)
		}
		return &ArchiveResult{Record: rec, WorkflowID: runID}, nil
	}

	if s.archive == nil {
		return nil, domain.ErrArchiveUnavailable
	}
	if err := s.archive.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create export record: %w", err)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishExportReady(ctx, rec); err != nil {
			slog.WarnContext(ctx, "export ready publish failed", "export_id", rec.ID, "error", err)
		}
	}
	return &ArchiveResult{Record: rec}, nil
}

// ListArchived returns archived exports of a polygon.
func (s *ExportService) ListArchived(ctx context.Context, polygonID string) ([]domain.ExportRecord, error) {
	if s.archive == nil {
		return nil, domain.ErrArchiveUnavailable
	}
	return s.archive.ListByPolygon(ctx, polygonID)
}
