package usecases

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/pkg/input"
	"github.com/samirrijal/areaselector/internal/pkg/telemetry"
)

// DispatchResult reports the effect of one input event.
type DispatchResult struct {
	Kind      domain.InputKind    `json:"kind"`
	Added     bool                `json:"added,omitempty"`
	Polygon   *domain.Polygon     `json:"polygon,omitempty"`
	Discarded bool                `json:"discarded,omitempty"`
	ZIndex    *int                `json:"z_index,omitempty"`
	Menu      *domain.ContextMenu `json:"menu,omitempty"`
}

// Dispatcher turns surface events into editor operations. Shape events are
// resolved by polygon ID through the editor.
type Dispatcher struct {
	editor     *Editor
	menus      *MenuService
	tracker    *input.Tracker
	collectKey int
}

// NewDispatcher creates a Dispatcher. collectKey <= 0 selects shift.
func NewDispatcher(editor *Editor, menus *MenuService, tracker *input.Tracker, collectKey int) *Dispatcher {
	if collectKey <= 0 {
		collectKey = input.CollectKey
	}
	return &Dispatcher{editor: editor, menus: menus, tracker: tracker, collectKey: collectKey}
}

// Dispatch applies a single event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *domain.InputEvent) (*DispatchResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanDispatch)
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrInputKind, string(ev.Kind)))

	res := &DispatchResult{Kind: ev.Kind}

	switch ev.Kind {
	case domain.KeyDown:
		d.tracker.Press(ev.Key)
		if ev.Key == d.collectKey {
			d.editor.BeginCollection(ctx)
		}

	case domain.KeyUp:
		d.tracker.Release(ev.Key)
		if ev.Key == d.collectKey && d.editor.Collecting() {
			poly, err := d.editor.EndCollection(ctx)
			if err != nil {
				return nil, err
			}
			res.Polygon = poly
			res.Discarded = poly == nil
		}

	case domain.MapClick:
		d.menus.Close()
		if ev.Point == nil {
			return nil, fmt.Errorf("%w: map_click without point", domain.ErrInvalidEvent)
		}
		if !d.tracker.IsPressed(d.collectKey) {
			return res, nil
		}
		d.editor.BeginCollection(ctx)
		if err := d.editor.AddVertex(ctx, *ev.Point); err != nil {
			return nil, err
		}
		res.Added = true

	case domain.ShapeClick:
		if err := requireShape(ev); err != nil {
			return nil, err
		}
		z, err := d.editor.CycleZOrder(ctx, ev.ShapeID)
		if err != nil {
			return nil, err
		}
		res.ZIndex = &z

	case domain.ShapeMouseOver, domain.ShapeMouseOut:
		if err := requireShape(ev); err != nil {
			return nil, err
		}
		if err := d.editor.SetHighlight(ctx, ev.ShapeID, ev.Kind == domain.ShapeMouseOver); err != nil {
			return nil, err
		}

	case domain.ShapeRightClick:
		if err := requireShape(ev); err != nil {
			return nil, err
		}
		if ev.Point == nil {
			return nil, fmt.Errorf("%w: shape_right_click without point", domain.ErrInvalidEvent)
		}
		menu, err := d.menus.Open(ctx, ev.ShapeID, *ev.Point)
		if err != nil {
			return nil, err
		}
		res.Menu = menu

	case domain.PointerMove:
		d.tracker.MoveTo(ev.X, ev.Y)

	case domain.MenuClose:
		d.menus.Close()

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidEvent, ev.Kind)
	}

	return res, nil
}

func requireShape(ev *domain.InputEvent) error {
	if ev.ShapeID == "" {
		return fmt.Errorf("%w: %s without shape_id", domain.ErrInvalidEvent, ev.Kind)
	}
	return nil
}
