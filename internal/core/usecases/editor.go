package usecases

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/ports"
	"github.com/samirrijal/areaselector/internal/pkg/exportfmt"
	"github.com/samirrijal/areaselector/internal/pkg/geospatial"
	"github.com/samirrijal/areaselector/internal/pkg/metrics"
)

// EditorConfig holds the vertex-count thresholds.
type EditorConfig struct {
	// MinVertices is the smallest collection that commits to a polygon.
	MinVertices int
	// DeleteFloor is the vertex count at or below which deletion is refused.
	DeleteFloor int
	// SurfaceTimeout bounds each surface update.
	SurfaceTimeout time.Duration
}

// DefaultEditorConfig commits at two vertices and refuses vertex deletion
// once a polygon is down to two.
var DefaultEditorConfig = EditorConfig{MinVertices: 2, DeleteFloor: 2, SurfaceTimeout: 5 * time.Second}

// Editor owns the live polygon set and the single in-progress collection.
// All state changes are serialised by one mutex, so events apply in arrival
// order. Surface updates are staged under that mutex and delivered after it
// is released, in the same order the changes were made.
type Editor struct {
	mu       sync.Mutex
	cfg      EditorConfig
	surface  ports.Surface
	polygons map[string]*domain.Polygon
	order    []string

	collecting bool
	pending    domain.VertexSequence

	// staged is guarded by mu; delivered by outMu.
	staged    uint64
	outMu     sync.Mutex
	outCond   *sync.Cond
	delivered uint64

	newID func() string
	now   func() time.Time
}

// NewEditor creates an Editor. surface may be nil.
func NewEditor(surface ports.Surface, cfg EditorConfig) *Editor {
	if cfg.MinVertices <= 0 {
		cfg.MinVertices = DefaultEditorConfig.MinVertices
	}
	if cfg.DeleteFloor <= 0 {
		cfg.DeleteFloor = DefaultEditorConfig.DeleteFloor
	}
	if cfg.SurfaceTimeout <= 0 {
		cfg.SurfaceTimeout = DefaultEditorConfig.SurfaceTimeout
	}
	e := &Editor{
		cfg:      cfg,
		surface:  surface,
		polygons: make(map[string]*domain.Polygon),
		newID:    uuid.NewString,
		now:      time.Now,
	}
	e.outCond = sync.NewCond(&e.outMu)
	return e
}

// BeginCollection starts collecting vertices. No-op while already collecting.
func (e *Editor) BeginCollection(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.collecting {
		return
	}
	e.collecting = true
	e.pending = domain.VertexSequence{}
}

// AddVertex appends p to the pending sequence.
func (e *Editor) AddVertex(ctx context.Context, p domain.Point) error {
	b, err := e.addVertex(p)
	e.deliver(ctx, b)
	return err
}

func (e *Editor) addVertex(p domain.Point) (batch, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.collecting {
		return batch{}, domain.ErrCollectionInactive
	}
	if !p.Valid() {
		return batch{}, domain.ErrInvalidPoint
	}
	e.pending = append(e.pending, p)
	preview := e.pending.Clone()
	return e.stage(update{"show preview", func(ctx context.Context, s ports.Surface) error {
		return s.ShowPreview(ctx, preview)
	}}), nil
}

// EndCollection finishes the collection. A sequence below the minimum is
// discarded and (nil, nil) is returned.
func (e *Editor) EndCollection(ctx context.Context) (*domain.Polygon, error) {
	poly, b, err := e.endCollection(ctx)
	e.deliver(ctx, b)
	return poly, err
}

func (e *Editor) endCollection(ctx context.Context) (*domain.Polygon, batch, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.collecting {
		return nil, batch{}, domain.ErrCollectionInactive
	}
	seq := e.pending
	e.collecting = false
	e.pending = nil

	ups := []update{{"clear preview", func(ctx context.Context, s ports.Surface) error {
		return s.ClearPreview(ctx)
	}}}
	poly, up, err := e.commit(ctx, seq)
	if up != nil {
		ups = append(ups, *up)
	}
	return poly, e.stage(ups...), err
}

// Import commits an externally supplied sequence with the same threshold as
// a collection.
func (e *Editor) Import(ctx context.Context, seq domain.VertexSequence) (*domain.Polygon, error) {
	for _, p := range seq {
		if !p.Valid() {
			return nil, domain.ErrInvalidPoint
		}
	}

	e.mu.Lock()
	poly, up, err := e.commit(ctx, seq)
	var b batch
	if up != nil {
		b = e.stage(*up)
	}
	e.mu.Unlock()

	e.deliver(ctx, b)
	return poly, err
}

// commit must be called with mu held.
func (e *Editor) commit(ctx context.Context, seq domain.VertexSequence) (*domain.Polygon, *update, error) {
	poly, err := domain.NewPolygon(e.newID(), seq, e.cfg.MinVertices, e.now())
	if errors.Is(err, domain.ErrInsufficientVertices) {
		metrics.CollectionsDiscarded.Inc()
		slog.DebugContext(ctx, "collection discarded", "vertices", len(seq), "min", e.cfg.MinVertices)
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	e.polygons[poly.ID] = poly
	e.order = append(e.order, poly.ID)
	metrics.PolygonsCommitted.Inc()
	metrics.ActivePolygons.Set(float64(len(e.polygons)))

	added := poly.Clone()
	return poly.Clone(), &update{"add polygon", func(ctx context.Context, s ports.Surface) error {
		return s.AddPolygon(ctx, added)
	}}, nil
}

// Collecting reports whether a collection is in progress.
func (e *Editor) Collecting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collecting
}

// Pending returns a copy of the in-progress sequence.
func (e *Editor) Pending() domain.VertexSequence {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending.Clone()
}

// Get returns a copy of a live polygon.
func (e *Editor) Get(id string) (*domain.Polygon, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.polygons[id]
	if !ok {
		return nil, domain.ErrPolygonNotFound
	}
	return p.Clone(), nil
}

// List returns copies of all live polygons in creation order.
func (e *Editor) List() []domain.Polygon {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Polygon, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.polygons[id].Clone())
	}
	return out
}

// NearestVertex returns the index and position of the vertex closest to ref
// by great-circle distance. The first of equally near vertices wins. Both
// values come from the same snapshot of the polygon.
func (e *Editor) NearestVertex(id string, ref domain.Point) (int, domain.Point, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.polygons[id]
	if !ok {
		return -1, domain.Point{}, domain.ErrPolygonNotFound
	}
	idx := nearestIndex(p.Vertices, ref)
	return idx, p.Vertices[idx], nil
}

func nearestIndex(seq domain.VertexSequence, ref domain.Point) int {
	return geospatial.NearestIndex(ref.Lat, ref.Lng, len(seq), func(i int) (float64, float64) {
		return seq[i].Lat, seq[i].Lng
	})
}

// DeleteVertex removes the vertex at index. It returns false without
// changing anything when the polygon is already at the deletion floor.
func (e *Editor) DeleteVertex(ctx context.Context, id string, index int) (bool, error) {
	return e.deleteVertex(ctx, id, func(domain.VertexSequence) int { return index })
}

// DeleteNearestVertex removes the vertex nearest to ref.
func (e *Editor) DeleteNearestVertex(ctx context.Context, id string, ref domain.Point) (bool, error) {
	return e.deleteVertex(ctx, id, func(seq domain.VertexSequence) int { return nearestIndex(seq, ref) })
}

func (e *Editor) deleteVertex(ctx context.Context, id string, pick func(domain.VertexSequence) int) (bool, error) {
	e.mu.Lock()
	p, ok := e.polygons[id]
	if !ok {
		e.mu.Unlock()
		return false, domain.ErrPolygonNotFound
	}
	deleted, b, err := e.removeVertex(p, pick(p.Vertices))
	e.mu.Unlock()

	e.deliver(ctx, b)
	return deleted, err
}

// removeVertex must be called with mu held.
func (e *Editor) removeVertex(p *domain.Polygon, index int) (bool, batch, error) {
	err := p.RemoveVertex(index, e.cfg.DeleteFloor)
	if errors.Is(err, domain.ErrInsufficientVertices) {
		metrics.VertexDeletions.WithLabelValues("refused").Inc()
		return false, batch{}, nil
	}
	if err != nil {
		return false, batch{}, err
	}

	metrics.VertexDeletions.WithLabelValues("deleted").Inc()
	path := p.Clone()
	return true, e.stage(update{"set path", func(ctx context.Context, s ports.Surface) error {
		return s.SetPath(ctx, path)
	}}), nil
}

// DeletePolygon removes a polygon from the live set. It reports whether the
// polygon existed; removing an unknown polygon is a no-op.
func (e *Editor) DeletePolygon(ctx context.Context, id string) bool {
	e.mu.Lock()
	if _, ok := e.polygons[id]; !ok {
		e.mu.Unlock()
		return false
	}
	delete(e.polygons, id)
	for i, oid := range e.order {
		if oid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	metrics.PolygonsDeleted.Inc()
	metrics.ActivePolygons.Set(float64(len(e.polygons)))
	b := e.stage(update{"remove polygon", func(ctx context.Context, s ports.Surface) error {
		return s.RemovePolygon(ctx, id)
	}})
	e.mu.Unlock()

	e.deliver(ctx, b)
	return true
}

// CycleZOrder sinks the polygon one level and returns its new z-index.
func (e *Editor) CycleZOrder(ctx context.Context, id string) (int, error) {
	e.mu.Lock()
	p, ok := e.polygons[id]
	if !ok {
		e.mu.Unlock()
		return 0, domain.ErrPolygonNotFound
	}
	p.ZIndex--
	p.Revision++
	metrics.ZOrderCycles.Inc()

	z := p.ZIndex
	b := e.stage(update{"set z-index", func(ctx context.Context, s ports.Surface) error {
		return s.SetZIndex(ctx, id, z)
	}})
	e.mu.Unlock()

	e.deliver(ctx, b)
	return z, nil
}

// SetHighlight switches the polygon between the normal and highlight styles.
func (e *Editor) SetHighlight(ctx context.Context, id string, highlighted bool) error {
	e.mu.Lock()
	p, ok := e.polygons[id]
	if !ok {
		e.mu.Unlock()
		return domain.ErrPolygonNotFound
	}
	if p.Highlighted == highlighted {
		e.mu.Unlock()
		return nil
	}
	p.Highlighted = highlighted
	p.Revision++

	style := p.Style()
	b := e.stage(update{"set style", func(ctx context.Context, s ports.Surface) error {
		return s.SetStyle(ctx, id, style)
	}})
	e.mu.Unlock()

	e.deliver(ctx, b)
	return nil
}

// Serialize returns the text export lines of a polygon. The lines are taken
// from a snapshot, so later edits do not affect an existing sequence.
func (e *Editor) Serialize(id string) (iter.Seq[string], error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.polygons[id]
	if !ok {
		return nil, domain.ErrPolygonNotFound
	}
	return exportfmt.Lines(p.Vertices.Clone()), nil
}

// update is one surface call built from a snapshot of editor state.
type update struct {
	what string
	fn   func(context.Context, ports.Surface) error
}

// batch is the set of updates produced by one state change, tagged with its
// position in the delivery sequence.
type batch struct {
	seq     uint64
	updates []update
}

// stage assigns the next delivery slot to ups. Must be called with mu held.
func (e *Editor) stage(ups ...update) batch {
	if e.surface == nil || len(ups) == 0 {
		return batch{}
	}
	b := batch{seq: e.staged, updates: ups}
	e.staged++
	return b
}

// deliver waits for earlier batches, then sends b to the surface without
// holding mu. Each update gets its own timeout and survives cancellation of
// the caller's context. Failures are logged only.
func (e *Editor) deliver(ctx context.Context, b batch) {
	if len(b.updates) == 0 {
		return
	}

	e.outMu.Lock()
	for e.delivered != b.seq {
		e.outCond.Wait()
	}
	e.outMu.Unlock()

	base := context.WithoutCancel(ctx)
	for _, u := range b.updates {
		uctx, cancel := context.WithTimeout(base, e.cfg.SurfaceTimeout)
		if err := u.fn(uctx, e.surface); err != nil {
			slog.WarnContext(ctx, "surface update failed", "op", u.what, "error", err)
		}
		cancel()
	}

	e.outMu.Lock()
	e.delivered++
	e.outCond.Broadcast()
	e.outMu.Unlock()
}
