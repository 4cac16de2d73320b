package ports

import (
	"context"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// Surface receives rendering requests for the map widget.
type Surface interface {
	AddPolygon(ctx context.Context, p *domain.Polygon) error
	RemovePolygon(ctx context.Context, id string) error
	SetPath(ctx context.Context, p *domain.Polygon) error
	SetStyle(ctx context.Context, id string, style domain.Style) error
	SetZIndex(ctx context.Context, id string, z int) error
	ShowPreview(ctx context.Context, seq domain.VertexSequence) error
	ClearPreview(ctx context.Context) error
}

// EventPublisher publishes export notifications to a message broker.
type EventPublisher interface {
	PublishExportReady(ctx context.Context, rec *domain.ExportRecord) error
}

// InputPublisher queues input events for the dispatcher consumer.
type InputPublisher interface {
	PublishInput(ctx context.Context, ev *domain.InputEvent) error
}

// InputSubscriber delivers input events forwarded by remote surfaces.
type InputSubscriber interface {
	SubscribeInput(ctx context.Context, handler func(ctx context.Context, ev *domain.InputEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// ExportScheduler runs archiving out of process.
type ExportScheduler interface {
	ScheduleArchive(ctx context.Context, rec *domain.ExportRecord) (string, error)
}
