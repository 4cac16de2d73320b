package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/usecases"
	"github.com/samirrijal/areaselector/internal/pkg/input"
)

func newMenu(t *testing.T) (*usecases.Editor, *usecases.MenuService) {
	t.Helper()
	e := newEditor(nil)
	return e, usecases.NewMenuService(e, input.NewTracker())
}

func TestMenu_OpenDeleteVertexVisibility(t *testing.T) {
	ctx := context.Background()
	e, menus := newMenu(t)
	tri := collect(t, e, triangle...)
	line := collect(t, e, triangle[:2]...)

	m, err := menus.Open(ctx, tri.ID, triangle[2])
	if err != nil {
		t.Fatal(err)
	}
	if !m.CanDeleteVertex {
		t.Error("delete vertex should be offered on a triangle")
	}
	if m.NearestVertex == nil || *m.NearestVertex != 2 {
		t.Errorf("expected nearest vertex 2, got %v", m.NearestVertex)
	}

	m, err = menus.Open(ctx, line.ID, triangle[0])
	if err != nil {
		t.Fatal(err)
	}
	if m.CanDeleteVertex || m.NearestVertex != nil {
		t.Error("delete vertex must be hidden at two vertices")
	}
}

func TestMenu_OpenUnknownPolygon(t *testing.T) {
	_, menus := newMenu(t)
	if _, err := menus.Open(context.Background(), "missing", triangle[0]); !errors.Is(err, domain.ErrPolygonNotFound) {
		t.Errorf("expected ErrPolygonNotFound, got %v", err)
	}
	if menus.Current() != nil {
		t.Error("failed open must not leave a menu")
	}
}

func TestMenu_RebindRejectsStaleToken(t *testing.T) {
	ctx := context.Background()
	e, menus := newMenu(t)
	a := collect(t, e, triangle...)
	b := collect(t, e, triangle...)

	first, _ := menus.Open(ctx, a.ID, triangle[0])
	second, _ := menus.Open(ctx, b.ID, triangle[0])
	if first.Token == second.Token {
		t.Fatal("tokens must differ between invocations")
	}

	if _, err := menus.Invoke(ctx, first.Token, domain.ActionDeletePolygon); !errors.Is(err, domain.ErrStaleMenu) {
		t.Fatalf("expected ErrStaleMenu, got %v", err)
	}
	if _, err := e.Get(a.ID); err != nil {
		t.Error("stale action must not touch the earlier polygon")
	}

	res, err := menus.Invoke(ctx, second.Token, domain.ActionDeletePolygon)
	if err != nil {
		t.Fatal(err)
	}
	if !res.PolygonDeleted || res.PolygonID != b.ID {
		t.Errorf("unexpected result %+v", res)
	}
	if len(e.List()) != 1 {
		t.Errorf("expected exactly one polygon removed")
	}
}

func TestMenu_InvokeClosesMenu(t *testing.T) {
	ctx := context.Background()
	e, menus := newMenu(t)
	poly := collect(t, e, triangle...)

	m, _ := menus.Open(ctx, poly.ID, triangle[0])
	res, err := menus.Invoke(ctx, m.Token, domain.ActionDeleteVertex)
	if err != nil {
		t.Fatal(err)
	}
	if !res.VertexDeleted {
		t.Error("expected vertex deleted")
	}
	got, _ := e.Get(poly.ID)
	if len(got.Vertices) != 2 || got.Vertices[0] != triangle[1] {
		t.Errorf("expected the clicked vertex removed, got %v", got.Vertices)
	}
	if menus.Current() != nil {
		t.Error("menu should be closed after an action")
	}
	if _, err := menus.Invoke(ctx, m.Token, domain.ActionDeleteVertex); !errors.Is(err, domain.ErrStaleMenu) {
		t.Errorf("reused token should be stale, got %v", err)
	}
}

func TestMenu_Export(t *testing.T) {
	ctx := context.Background()
	e, menus := newMenu(t)
	poly := collect(t, e, domain.Point{Lat: 1.5, Lng: -2}, domain.Point{Lat: 3, Lng: 4.25})

	m, _ := menus.Open(ctx, poly.ID, domain.Point{})
	res, err := menus.Invoke(ctx, m.Token, domain.ActionExport)
	if err != nil {
		t.Fatal(err)
	}
	if res.Export != "(1.5, -2)\n(3, 4.25)\n" {
		t.Errorf("unexpected export %q", res.Export)
	}
}

func TestMenu_UnknownAction(t *testing.T) {
	ctx := context.Background()
	e, menus := newMenu(t)
	poly := collect(t, e, triangle...)

	m, _ := menus.Open(ctx, poly.ID, triangle[0])
	if _, err := menus.Invoke(ctx, m.Token, "rename"); !errors.Is(err, domain.ErrUnknownMenuAction) {
		t.Errorf("expected ErrUnknownMenuAction, got %v", err)
	}
}

func TestMenu_CloseDropsBinding(t *testing.T) {
	ctx := context.Background()
	e, menus := newMenu(t)
	poly := collect(t, e, triangle...)

	m, _ := menus.Open(ctx, poly.ID, triangle[0])
	menus.Close()
	if _, err := menus.Invoke(ctx, m.Token, domain.ActionDeletePolygon); !errors.Is(err, domain.ErrStaleMenu) {
		t.Errorf("expected ErrStaleMenu after close, got %v", err)
	}
}
