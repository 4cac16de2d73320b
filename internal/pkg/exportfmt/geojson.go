package exportfmt

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// GeoJSONContentType is the registered GeoJSON media type.
const GeoJSONContentType = "application/geo+json"

// Ring converts a vertex sequence into a closed orb ring (lng, lat order).
func Ring(seq domain.VertexSequence) orb.Ring {
	ring := make(orb.Ring, 0, len(seq)+1)
	for _, p := range seq {
		ring = append(ring, orb.Point{p.Lng, p.Lat})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// GeoJSON renders the polygon as a GeoJSON Feature.
func GeoJSON(p *domain.Polygon) ([]byte, error) {
	f := geojson.NewFeature(orb.Polygon{Ring(p.Vertices)})
	f.ID = p.ID
	style := p.Style()
	f.Properties["z_index"] = p.ZIndex
	f.Properties["fill"] = style.FillColor
	f.Properties["fill-opacity"] = style.FillOpacity
	f.Properties["stroke"] = style.StrokeColor
	f.Properties["stroke-opacity"] = style.StrokeOpacity
	return f.MarshalJSON()
}
