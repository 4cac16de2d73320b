package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/usecases"
	"github.com/samirrijal/areaselector/internal/pkg/input"
)

type harness struct {
	editor  *usecases.Editor
	menus   *usecases.MenuService
	tracker *input.Tracker
	d       *usecases.Dispatcher
}

func newHarness() *harness {
	e := newEditor(nil)
	tr := input.NewTracker()
	m := usecases.NewMenuService(e, tr)
	return &harness{editor: e, menus: m, tracker: tr, d: usecases.NewDispatcher(e, m, tr, 0)}
}

func (h *harness) send(t *testing.T, ev domain.InputEvent) *usecases.DispatchResult {
	t.Helper()
	res, err := h.d.Dispatch(context.Background(), &ev)
	if err != nil {
		t.Fatalf("dispatch %s: %v", ev.Kind, err)
	}
	return res
}

func click(p domain.Point) domain.InputEvent {
	return domain.InputEvent{Kind: domain.MapClick, Point: &p}
}

func TestDispatcher_ShiftClickCollects(t *testing.T) {
	h := newHarness()

	h.send(t, domain.InputEvent{Kind: domain.KeyDown, Key: input.CollectKey})
	for _, p := range triangle {
		if res := h.send(t, click(p)); !res.Added {
			t.Fatal("click with shift held should add a vertex")
		}
	}
	res := h.send(t, domain.InputEvent{Kind: domain.KeyUp, Key: input.CollectKey})
	if res.Polygon == nil || res.Discarded {
		t.Fatalf("expected a committed polygon, got %+v", res)
	}
	if len(res.Polygon.Vertices) != 3 {
		t.Errorf("expected 3 vertices, got %d", len(res.Polygon.Vertices))
	}
}

func TestDispatcher_ClickWithoutShiftIgnored(t *testing.T) {
	h := newHarness()
	res := h.send(t, click(triangle[0]))
	if res.Added || h.editor.Collecting() {
		t.Error("plain click must not collect")
	}
}

func TestDispatcher_SingleClickDiscarded(t *testing.T) {
	h := newHarness()
	h.send(t, domain.InputEvent{Kind: domain.KeyDown, Key: input.CollectKey})
	h.send(t, click(triangle[0]))
	res := h.send(t, domain.InputEvent{Kind: domain.KeyUp, Key: input.CollectKey})
	if !res.Discarded || res.Polygon != nil {
		t.Errorf("expected discard, got %+v", res)
	}
	if len(h.editor.List()) != 0 {
		t.Error("no polygon should exist")
	}
}

func TestDispatcher_OtherKeysIgnored(t *testing.T) {
	h := newHarness()
	h.send(t, domain.InputEvent{Kind: domain.KeyDown, Key: 17})
	if h.editor.Collecting() {
		t.Error("only the collect key starts a collection")
	}
	h.send(t, domain.InputEvent{Kind: domain.KeyUp, Key: 17})
	if h.tracker.IsPressed(17) {
		t.Error("key should be released")
	}
}

func TestDispatcher_ShapeEvents(t *testing.T) {
	h := newHarness()
	poly := collect(t, h.editor, triangle...)

	res := h.send(t, domain.InputEvent{Kind: domain.ShapeClick, ShapeID: poly.ID})
	if res.ZIndex == nil || *res.ZIndex != -1 {
		t.Errorf("expected z -1, got %v", res.ZIndex)
	}

	h.send(t, domain.InputEvent{Kind: domain.ShapeMouseOver, ShapeID: poly.ID})
	if got, _ := h.editor.Get(poly.ID); !got.Highlighted {
		t.Error("mouse over should highlight")
	}
	h.send(t, domain.InputEvent{Kind: domain.ShapeMouseOut, ShapeID: poly.ID})
	if got, _ := h.editor.Get(poly.ID); got.Highlighted {
		t.Error("mouse out should restore the normal style")
	}
}

func TestDispatcher_RightClickOpensMenu(t *testing.T) {
	h := newHarness()
	poly := collect(t, h.editor, triangle...)

	h.send(t, domain.InputEvent{Kind: domain.PointerMove, X: 120, Y: 48})
	p := triangle[1]
	res := h.send(t, domain.InputEvent{Kind: domain.ShapeRightClick, ShapeID: poly.ID, Point: &p})
	if res.Menu == nil {
		t.Fatal("expected a menu")
	}
	if res.Menu.X != 120 || res.Menu.Y != 48 {
		t.Errorf("menu should open at the pointer, got %v,%v", res.Menu.X, res.Menu.Y)
	}

	// a click anywhere on the map hides it
	h.send(t, click(triangle[0]))
	if h.menus.Current() != nil {
		t.Error("map click should close the menu")
	}
}

func TestDispatcher_MenuClose(t *testing.T) {
	h := newHarness()
	poly := collect(t, h.editor, triangle...)
	p := triangle[0]
	h.send(t, domain.InputEvent{Kind: domain.ShapeRightClick, ShapeID: poly.ID, Point: &p})
	h.send(t, domain.InputEvent{Kind: domain.MenuClose})
	if h.menus.Current() != nil {
		t.Error("menu_close should hide the menu")
	}
}

func TestDispatcher_InvalidEvents(t *testing.T) {
	h := newHarness()
	tests := []struct {
		name string
		ev   domain.InputEvent
		want error
	}{
		{"unknown kind", domain.InputEvent{Kind: "double_click"}, domain.ErrInvalidEvent},
		{"click without point", domain.InputEvent{Kind: domain.MapClick}, domain.ErrInvalidEvent},
		{"shape click without id", domain.InputEvent{Kind: domain.ShapeClick}, domain.ErrInvalidEvent},
		{"right click without point", domain.InputEvent{Kind: domain.ShapeRightClick, ShapeID: "x"}, domain.ErrInvalidEvent},
		{"unknown shape", domain.InputEvent{Kind: domain.ShapeMouseOver, ShapeID: "x"}, domain.ErrPolygonNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tt.ev
			_, err := h.d.Dispatch(context.Background(), &ev)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
