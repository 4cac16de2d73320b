package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// Subjects.
const (
	SubjectSurfaceAll        = "areaselector.surface.>"
	SubjectSurfacePolygon    = "areaselector.surface.polygon."
	SubjectSurfaceCollection = "areaselector.surface.collection"
	SubjectInputAll          = "areaselector.input.>"
	SubjectInput             = "areaselector.input.events"
	SubjectExportsAll        = "areaselector.exports.>"
	SubjectExportReady       = "areaselector.exports.ready"
)

// Publisher implements ports.Surface and ports.EventPublisher using NATS
// JetStream. Every surface request becomes one domain.SurfaceCommand
// message.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	now  func() time.Time
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureStreams(js); err != nil {
		return nil, err
	}

	return &Publisher{conn: conn, js: js, now: time.Now}, nil
}

func ensureStreams(js nats.JetStreamContext) error {
	streams := []nats.StreamConfig{
		{
			Name:      "SURFACE_COMMANDS",
			Subjects:  []string{SubjectSurfaceAll},
			Retention: nats.LimitsPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.MemoryStorage,
		},
		{
			Name:      "SURFACE_INPUT",
			Subjects:  []string{SubjectInputAll},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    10 * time.Minute,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "EXPORTS",
			Subjects:  []string{SubjectExportsAll},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, subject string, cmd domain.SurfaceCommand) error {
	cmd.Time = p.now()
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	return err
}

func (p *Publisher) AddPolygon(ctx context.Context, poly *domain.Polygon) error {
	style := poly.Style()
	z := poly.ZIndex
	return p.publish(ctx, SubjectSurfacePolygon+poly.ID, domain.SurfaceCommand{
		Op:        domain.OpAddPolygon,
		PolygonID: poly.ID,
		Vertices:  poly.Vertices,
		Style:     &style,
		ZIndex:    &z,
	})
}

func (p *Publisher) RemovePolygon(ctx context.Context, id string) error {
	return p.publish(ctx, SubjectSurfacePolygon+id, domain.SurfaceCommand{
		Op:        domain.OpRemovePolygon,
		PolygonID: id,
	})
}

func (p *Publisher) SetPath(ctx context.Context, poly *domain.Polygon) error {
	return p.publish(ctx, SubjectSurfacePolygon+poly.ID, domain.SurfaceCommand{
		Op:        domain.OpSetPath,
		PolygonID: poly.ID,
		Vertices:  poly.Vertices,
	})
}

func (p *Publisher) SetStyle(ctx context.Context, id string, style domain.Style) error {
	return p.publish(ctx, SubjectSurfacePolygon+id, domain.SurfaceCommand{
		Op:        domain.OpSetStyle,
		PolygonID: id,
		Style:     &style,
	})
}

func (p *Publisher) SetZIndex(ctx context.Context, id string, z int) error {
	return p.publish(ctx, SubjectSurfacePolygon+id, domain.SurfaceCommand{
		Op:        domain.OpSetZIndex,
		PolygonID: id,
		ZIndex:    &z,
	})
}

func (p *Publisher) ShowPreview(ctx context.Context, seq domain.VertexSequence) error {
	return p.publish(ctx, SubjectSurfaceCollection, domain.SurfaceCommand{
		Op:       domain.OpShowPreview,
		Vertices: seq,
	})
}

func (p *Publisher) ClearPreview(ctx context.Context) error {
	return p.publish(ctx, SubjectSurfaceCollection, domain.SurfaceCommand{
		Op: domain.OpClearPreview,
	})
}

// PublishExportReady announces an archived export. The body is left out.
func (p *Publisher) PublishExportReady(ctx context.Context, rec *domain.ExportRecord) error {
	data, err := json.Marshal(struct {
		ID        string              `json:"id"`
		PolygonID string              `json:"polygon_id"`
		Format    domain.ExportFormat `json:"format"`
		CreatedAt time.Time           `json:"created_at"`
	}{rec.ID, rec.PolygonID, rec.Format, rec.CreatedAt})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectExportReady, data, nats.Context(ctx))
	return err
}

// PublishInput forwards an input event for the dispatcher consumer.
func (p *Publisher) PublishInput(ctx context.Context, ev *domain.InputEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectInput, data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
