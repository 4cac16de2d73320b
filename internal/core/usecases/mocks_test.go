package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// --- Mock Surface ---

type mockSurface struct {
	mu    sync.Mutex
	ops   []domain.SurfaceOp
	err   error
	lastZ int
	style domain.Style
}

func (m *mockSurface) record(op domain.SurfaceOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, op)
	return m.err
}

func (m *mockSurface) count(op domain.SurfaceOp) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.ops {
		if o == op {
			n++
		}
	}
	return n
}

func (m *mockSurface) sequence() []domain.SurfaceOp {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SurfaceOp(nil), m.ops...)
}

func (m *mockSurface) AddPolygon(ctx context.Context, p *domain.Polygon) error {
	return m.record(domain.OpAddPolygon)
}
func (m *mockSurface) RemovePolygon(ctx context.Context, id string) error {
	return m.record(domain.OpRemovePolygon)
}
func (m *mockSurface) SetPath(ctx context.Context, p *domain.Polygon) error {
	return m.record(domain.OpSetPath)
}
func (m *mockSurface) SetStyle(ctx context.Context, id string, style domain.Style) error {
	m.mu.Lock()
	m.style = style
	m.mu.Unlock()
	return m.record(domain.OpSetStyle)
}
func (m *mockSurface) SetZIndex(ctx context.Context, id string, z int) error {
	m.mu.Lock()
	m.lastZ = z
	m.mu.Unlock()
	return m.record(domain.OpSetZIndex)
}
func (m *mockSurface) ShowPreview(ctx context.Context, seq domain.VertexSequence) error {
	return m.record(domain.OpShowPreview)
}
func (m *mockSurface) ClearPreview(ctx context.Context) error {
	return m.record(domain.OpClearPreview)
}

// stallingSurface holds ShowPreview until release is closed or the
// update's context ends.
type stallingSurface struct {
	mockSurface
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *stallingSurface) ShowPreview(ctx context.Context, seq domain.VertexSequence) error {
	s.once.Do(func() { close(s.entered) })
	select {
	case <-s.release:
		return s.record(domain.OpShowPreview)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- Mock ViewportStore ---

type mockViewportStore struct {
	loadFn  func(ctx context.Context) (*domain.Viewport, error)
	saveFn  func(ctx context.Context, v *domain.Viewport) error
	clearFn func(ctx context.Context) error
}

func (m *mockViewportStore) Load(ctx context.Context) (*domain.Viewport, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return nil, domain.ErrViewportNotFound
}

func (m *mockViewportStore) Save(ctx context.Context, v *domain.Viewport) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, v)
	}
	return nil
}

func (m *mockViewportStore) Clear(ctx context.Context) error {
	if m.clearFn != nil {
		return m.clearFn(ctx)
	}
	return nil
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newMockCache() *mockCache { return &mockCache{data: make(map[string][]byte)} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock ExportRepository ---

type mockExportRepo struct {
	createFn func(ctx context.Context, rec *domain.ExportRecord) error
	created  []domain.ExportRecord
}

func (m *mockExportRepo) Create(ctx context.Context, rec *domain.ExportRecord) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, rec); err != nil {
			return err
		}
	}
	m.created = append(m.created, *rec)
	return nil
}

func (m *mockExportRepo) GetByID(ctx context.Context, id string) (*domain.ExportRecord, error) {
	for _, r := range m.created {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrPolygonNotFound
}

func (m *mockExportRepo) ListByPolygon(ctx context.Context, polygonID string) ([]domain.ExportRecord, error) {
	var out []domain.ExportRecord
	for _, r := range m.created {
		if r.PolygonID == polygonID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockExportRepo) Delete(ctx context.Context, id string) error { return nil }

// --- Mock ExportScheduler / EventPublisher ---

type mockScheduler struct {
	scheduled []domain.ExportRecord
}

func (m *mockScheduler) ScheduleArchive(ctx context.Context, rec *domain.ExportRecord) (string, error) {
	m.scheduled = append(m.scheduled, *rec)
	return "archive-" + rec.ID, nil
}

type mockPublisher struct {
	published []string
	err       error
}

func (m *mockPublisher) PublishExportReady(ctx context.Context, rec *domain.ExportRecord) error {
	m.published = append(m.published, rec.ID)
	return m.err
}
