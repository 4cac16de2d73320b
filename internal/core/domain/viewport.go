package domain

import "fmt"

const (
	MinZoom = 0
	MaxZoom = 21
)

// Viewport is the persisted map view. Field names match the stored record.
type Viewport struct {
	Zoom      int     `json:"zoom"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DefaultViewport is used when nothing has been stored yet.
var DefaultViewport = Viewport{Zoom: 2, Latitude: 0, Longitude: 0}

// Validate checks zoom and center ranges.
func (v Viewport) Validate() error {
	if v.Zoom < MinZoom || v.Zoom > MaxZoom {
		return fmt.Errorf("%w: zoom must be %d-%d, got %d", ErrInvalidViewport, MinZoom, MaxZoom, v.Zoom)
	}
	if !(Point{Lat: v.Latitude, Lng: v.Longitude}).Valid() {
		return fmt.Errorf("%w: center %g, %g", ErrInvalidViewport, v.Latitude, v.Longitude)
	}
	return nil
}
