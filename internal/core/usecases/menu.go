package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/pkg/input"
)

// MenuResult describes what a menu action did.
type MenuResult struct {
	Action         domain.MenuAction `json:"action"`
	PolygonID      string            `json:"polygon_id"`
	VertexDeleted  bool              `json:"vertex_deleted,omitempty"`
	PolygonDeleted bool              `json:"polygon_deleted,omitempty"`
	Export         string            `json:"export,omitempty"`
}

// MenuService binds the context menu to one polygon at a time. Opening a
// menu replaces the previous binding, so actions issued with an older token
// are rejected instead of hitting the wrong polygon.
type MenuService struct {
	mu      sync.Mutex
	editor  *Editor
	tracker *input.Tracker
	current *domain.ContextMenu
}

// NewMenuService creates a MenuService.
func NewMenuService(editor *Editor, tracker *input.Tracker) *MenuService {
	return &MenuService{editor: editor, tracker: tracker}
}

// Open binds a fresh menu to polygonID. click is the map location the menu
// was opened at; it selects the vertex a delete_vertex action removes.
func (m *MenuService) Open(ctx context.Context, polygonID string, click domain.Point) (*domain.ContextMenu, error) {
	poly, err := m.editor.Get(polygonID)
	if err != nil {
		return nil, err
	}
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("menu token: %w", err)
	}

	menu := &domain.ContextMenu{
		Token:           token,
		PolygonID:       polygonID,
		Click:           click,
		CanDeleteVertex: len(poly.Vertices) > m.editor.cfg.DeleteFloor,
	}
	if m.tracker != nil {
		menu.X, menu.Y = m.tracker.Pointer()
	}
	if menu.CanDeleteVertex {
		idx := nearestIndex(poly.Vertices, click)
		menu.NearestVertex = &idx
	}

	m.mu.Lock()
	m.current = menu
	m.mu.Unlock()

	cp := *menu
	return &cp, nil
}

// Current returns the open menu, or nil.
func (m *MenuService) Current() *domain.ContextMenu {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	cp := *m.current
	return &cp
}

// Close hides the menu and drops its binding.
func (m *MenuService) Close() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Invoke runs action against the polygon bound to token. The menu closes
// afterwards whatever the outcome.
func (m *MenuService) Invoke(ctx context.Context, token string, action domain.MenuAction) (*MenuResult, error) {
	m.mu.Lock()
	menu := m.current
	if menu == nil || menu.Token != token {
		m.mu.Unlock()
		return nil, domain.ErrStaleMenu
	}
	m.current = nil
	m.mu.Unlock()

	res := &MenuResult{Action: action, PolygonID: menu.PolygonID}
	switch action {
	case domain.ActionDeleteVertex:
		ok, err := m.editor.DeleteNearestVertex(ctx, menu.PolygonID, menu.Click)
		if err != nil {
			return nil, err
		}
		res.VertexDeleted = ok

	case domain.ActionDeletePolygon:
		res.PolygonDeleted = m.editor.DeletePolygon(ctx, menu.PolygonID)

	case domain.ActionExport:
		lines, err := m.editor.Serialize(menu.PolygonID)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		for l := range lines {
			b.WriteString(l)
		}
		res.Export = b.String()

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMenuAction, action)
	}
	return res, nil
}

func newToken() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
