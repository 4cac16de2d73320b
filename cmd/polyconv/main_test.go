package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

const square = "(0, 0)\n(0, 1)\n(1, 1)\n(1, 0)\n"

func TestConvert_GeoJSON(t *testing.T) {
	var out bytes.Buffer
	n, err := convert(strings.NewReader(square), &out, "sq", domain.FormatGeoJSON, 2)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("expected 4 vertices, got %d", n)
	}
	if !strings.Contains(out.String(), `"type":"Polygon"`) || !strings.Contains(out.String(), `"id":"sq"`) {
		t.Errorf("unexpected geojson %s", out.String())
	}
}

func TestConvert_TextIsCanonical(t *testing.T) {
	var out bytes.Buffer
	in := "\n( 0.50 , -1.0 )\n\n(2, 3)\n"
	if _, err := convert(strings.NewReader(in), &out, "x", domain.FormatText, 2); err != nil {
		t.Fatal(err)
	}
	if out.String() != "(0.5, -1)\n(2, 3)\n" {
		t.Errorf("unexpected text %q", out.String())
	}
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestConvert_TextWriteFailure(t *testing.T) {
	_, err := convert(strings.NewReader(square), brokenWriter{}, "sq", domain.FormatText, 2)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected the write error, got %v", err)
	}
}

func TestConvert_KML(t *testing.T) {
	var out bytes.Buffer
	if _, err := convert(strings.NewReader(square), &out, "sq", domain.FormatKML, 2); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "<Polygon>") {
		t.Errorf("unexpected kml %s", out.String())
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"malformed", "0 0\n", domain.ErrMalformedExport},
		{"out of range", "(95, 0)\n(0, 0)\n", domain.ErrMalformedExport},
		{"too short", "(1, 1)\n", domain.ErrInsufficientVertices},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := convert(strings.NewReader(tc.in), &out, "x", domain.FormatGeoJSON, 2)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if out.Len() != 0 {
				t.Error("nothing may be written on error")
			}
		})
	}
}
