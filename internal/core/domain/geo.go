package domain

// Point is a vertex on the map surface (WGS 84).
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies inside the latitude/longitude range.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// VertexSequence is an ordered list of points in drawing order.
type VertexSequence []Point

// Clone returns an independent copy of the sequence.
func (s VertexSequence) Clone() VertexSequence {
	if s == nil {
		return nil
	}
	out := make(VertexSequence, len(s))
	copy(out, s)
	return out
}
