package domain

import (
	"time"
)

// Style is a fill/stroke preset used by the surface to draw a polygon.
type Style struct {
	FillColor     string  `json:"fill_color"`
	FillOpacity   float64 `json:"fill_opacity"`
	StrokeColor   string  `json:"stroke_color"`
	StrokeOpacity float64 `json:"stroke_opacity"`
}

var (
	NormalStyle = Style{
		FillColor:     "black",
		FillOpacity:   0.4,
		StrokeColor:   "black",
		StrokeOpacity: 0.6,
	}
	HighlightStyle = Style{
		FillColor:     "green",
		FillOpacity:   0.4,
		StrokeColor:   "#0ac200",
		StrokeOpacity: 0.6,
	}
)

// Polygon is a committed shape. The ring is implicitly closed: only the open
// vertex list is stored.
type Polygon struct {
	ID          string         `json:"id"`
	Vertices    VertexSequence `json:"vertices"`
	ZIndex      int            `json:"z_index"`
	Highlighted bool           `json:"highlighted"`
	Revision    int            `json:"revision"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Style returns the preset currently in effect.
func (p *Polygon) Style() Style {
	if p.Highlighted {
		return HighlightStyle
	}
	return NormalStyle
}

// Clone returns a deep copy safe to hand out of the editor.
func (p *Polygon) Clone() *Polygon {
	cp := *p
	cp.Vertices = p.Vertices.Clone()
	return &cp
}

// NewPolygon commits seq as a polygon. Sequences shorter than minVertices
// yield ErrInsufficientVertices.
func NewPolygon(id string, seq VertexSequence, minVertices int, now time.Time) (*Polygon, error) {
	if len(seq) < minVertices {
		return nil, ErrInsufficientVertices
	}
	return &Polygon{
		ID:        id,
		Vertices:  seq.Clone(),
		CreatedAt: now,
	}, nil
}

// RemoveVertex deletes the vertex at index, keeping the order of the rest.
// Removal is refused while the polygon has floor or fewer vertices.
func (p *Polygon) RemoveVertex(index, floor int) error {
	if len(p.Vertices) <= floor {
		return ErrInsufficientVertices
	}
	if index < 0 || index >= len(p.Vertices) {
		return ErrVertexIndex
	}
	p.Vertices = append(p.Vertices[:index:index], p.Vertices[index+1:]...)
	p.Revision++
	return nil
}
