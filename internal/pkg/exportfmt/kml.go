package exportfmt

import (
	"bytes"
	"fmt"

	"github.com/twpayne/go-kml/v3"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// KMLContentType is the KML media type.
const KMLContentType = "application/vnd.google-earth.kml+xml"

// KML renders the polygon as a KML document with a single placemark.
func KML(p *domain.Polygon) ([]byte, error) {
	coords := make([]kml.Coordinate, 0, len(p.Vertices)+1)
	for _, v := range p.Vertices {
		coords = append(coords, kml.Coordinate{Lon: v.Lng, Lat: v.Lat})
	}
	// KML rings are explicitly closed
	if len(coords) > 0 {
		coords = append(coords, coords[0])
	}

	doc := kml.KML(
		kml.Document(
			kml.Name("areaselector export"),
			kml.Placemark(
				kml.Name(p.ID),
				kml.Description(fmt.Sprintf("%d vertices, z-index %d", len(p.Vertices), p.ZIndex)),
				kml.Polygon(
					kml.OuterBoundaryIs(
						kml.LinearRing(
							kml.Coordinates(coords...),
						),
					),
				),
			),
		),
	)

	var buf bytes.Buffer
	if err := doc.WriteIndent(&buf, "", "  "); err != nil {
		return nil, fmt.Errorf("write kml: %w", err)
	}
	return buf.Bytes(), nil
}
