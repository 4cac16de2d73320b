// Command polyconv converts a polygon text export into another format.
//
//	polyconv [-format text|geojson|kml] [-o out] [in]
//
// Input defaults to stdin and output to stdout.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/usecases"
	"github.com/samirrijal/areaselector/internal/pkg/exportfmt"
	"github.com/samirrijal/areaselector/internal/pkg/logging"
)

func main() {
	format := flag.String("format", "geojson", "output format: text, geojson or kml")
	out := flag.String("o", "", "output file (default stdout)")
	minVertices := flag.Int("min-vertices", usecases.DefaultEditorConfig.MinVertices, "smallest polygon accepted")
	flag.Parse()

	logging.Setup("info", "text")

	f, err := usecases.ParseFormat(*format)
	if err != nil {
		fatal(err)
	}

	in := io.Reader(os.Stdin)
	id := uuid.NewString()
	if name := flag.Arg(0); name != "" {
		file, err := os.Open(name)
		if err != nil {
			fatal(err)
		}
		defer file.Close()
		in = file
		id = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}

	w := io.Writer(os.Stdout)
	if *out != "" {
		file, err := os.Create(*out)
		if err != nil {
			fatal(err)
		}
		defer file.Close()
		w = file
	}

	n, err := convert(in, w, id, f, *minVertices)
	if err != nil {
		fatal(err)
	}
	slog.Info("converted", "id", id, "vertices", n, "format", f)
}

func fatal(err error) {
	slog.Error("polyconv failed", "error", err)
	os.Exit(1)
}

// convert parses a text export from r, checks that it survives a text round
// trip and writes it to w in format. It returns the vertex count.
func convert(r io.Reader, w io.Writer, id string, format domain.ExportFormat, minVertices int) (int, error) {
	seq, err := exportfmt.Parse(r)
	if err != nil {
		return 0, err
	}
	again, err := exportfmt.ParseString(exportfmt.Text(seq))
	if err != nil {
		return 0, fmt.Errorf("round trip: %w", err)
	}
	if !slices.Equal(seq, again) {
		return 0, errors.New("round trip changed the vertices")
	}

	poly, err := domain.NewPolygon(id, seq, minVertices, time.Now())
	if err != nil {
		return 0, fmt.Errorf("%d vertices: %w", len(seq), err)
	}

	var body []byte
	switch format {
	case domain.FormatText:
		if err := exportfmt.WriteText(w, poly.Vertices); err != nil {
			return 0, fmt.Errorf("write output: %w", err)
		}
		return len(seq), nil
	case domain.FormatGeoJSON:
		body, err = exportfmt.GeoJSON(poly)
	case domain.FormatKML:
		body, err = exportfmt.KML(poly)
	default:
		err = fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(body); err != nil {
		return 0, fmt.Errorf("write output: %w", err)
	}
	return len(seq), nil
}
