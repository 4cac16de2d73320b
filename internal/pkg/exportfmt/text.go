// Package exportfmt renders polygons into their export formats and parses
// the plain-text format back.
//
// The text format is one "(lat, lng)" line per vertex in boundary order,
// each terminated by "\n", including the last one.
package exportfmt

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// TextContentType is the MIME type the text export is offered with.
const TextContentType = "application/octet-stream"

// FormatCoord renders a coordinate the way a browser prints a number:
// shortest round-trip decimal, no trailing zeros, "0" for both zeroes and
// exponent form below 1e-6.
func FormatCoord(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.Abs(v) >= 1e-6 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

// Line renders a single vertex line including its line break.
func Line(p domain.Point) string {
	return "(" + FormatCoord(p.Lat) + ", " + FormatCoord(p.Lng) + ")\n"
}

// Lines yields one line per vertex. The sequence can be ranged over any
// number of times.
func Lines(seq domain.VertexSequence) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, p := range seq {
			if !yield(Line(p)) {
				return
			}
		}
	}
}

// Text concatenates Lines into a single string.
func Text(seq domain.VertexSequence) string {
	var b strings.Builder
	for l := range Lines(seq) {
		b.WriteString(l)
	}
	return b.String()
}

// WriteText streams the text export to w.
func WriteText(w io.Writer, seq domain.VertexSequence) error {
	bw := bufio.NewWriter(w)
	for l := range Lines(seq) {
		if _, err := bw.WriteString(l); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Parse reads a text export. Blank lines are skipped.
func Parse(r io.Reader) (domain.VertexSequence, error) {
	var seq domain.VertexSequence
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		p, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedExport, n, err)
		}
		seq = append(seq, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return seq, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (domain.VertexSequence, error) {
	return Parse(strings.NewReader(s))
}

func parseLine(line string) (domain.Point, error) {
	if !strings.HasPrefix(line, "(") || !strings.HasSuffix(line, ")") {
		return domain.Point{}, fmt.Errorf("expected (lat, lng), got %q", line)
	}
	latStr, lngStr, ok := strings.Cut(line[1:len(line)-1], ",")
	if !ok {
		return domain.Point{}, fmt.Errorf("missing comma in %q", line)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("longitude: %w", err)
	}
	p := domain.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return domain.Point{}, domain.ErrInvalidPoint
	}
	return p, nil
}
