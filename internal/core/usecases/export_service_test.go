package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/usecases"
	"github.com/samirrijal/areaselector/internal/pkg/exportfmt"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ExportFormat
		ok   bool
	}{
		{"", domain.FormatText, true},
		{"text", domain.FormatText, true},
		{"GeoJSON", domain.FormatGeoJSON, true},
		{"kml", domain.FormatKML, true},
		{"shp", "", false},
	}
	for _, tt := range tests {
		got, err := usecases.ParseFormat(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
		if !tt.ok && !errors.Is(err, domain.ErrUnsupportedFormat) {
			t.Errorf("ParseFormat(%q): expected ErrUnsupportedFormat, got %v", tt.in, err)
		}
	}
}

func TestExportService_RenderText(t *testing.T) {
	e := newEditor(nil)
	poly := collect(t, e, domain.Point{Lat: 0, Lng: 0}, domain.Point{Lat: 1, Lng: 1})
	svc := usecases.NewExportService(e, nil, nil, nil, nil)

	r, err := svc.Render(context.Background(), poly.ID, domain.FormatText)
	if err != nil {
		t.Fatal(err)
	}
	if string(r.Body) != "(0, 0)\n(1, 1)\n" {
		t.Errorf("unexpected body %q", r.Body)
	}
	if r.ContentType != exportfmt.TextContentType {
		t.Errorf("unexpected content type %s", r.ContentType)
	}
}

func TestExportService_RenderCachesByRevision(t *testing.T) {
	ctx := context.Background()
	e := newEditor(nil)
	poly := collect(t, e, triangle...)
	cache := newMockCache()
	svc := usecases.NewExportService(e, cache, nil, nil, nil)

	first, err := svc.Render(ctx, poly.ID, domain.FormatGeoJSON)
	if err != nil {
		t.Fatal(err)
	}
	if len(cache.data) != 1 {
		t.Fatalf("expected rendering cached, got %d entries", len(cache.data))
	}
	second, _ := svc.Render(ctx, poly.ID, domain.FormatGeoJSON)
	if string(first.Body) != string(second.Body) {
		t.Error("cached rendering differs")
	}

	// an edit bumps the revision, so the next render misses
	if _, err := e.DeleteVertex(ctx, poly.ID, 0); err != nil {
		t.Fatal(err)
	}
	third, _ := svc.Render(ctx, poly.ID, domain.FormatGeoJSON)
	if string(third.Body) == string(first.Body) {
		t.Error("stale rendering served after edit")
	}
	if len(cache.data) != 2 {
		t.Errorf("expected two cache entries, got %d", len(cache.data))
	}
}

func TestExportService_RenderKML(t *testing.T) {
	e := newEditor(nil)
	poly := collect(t, e, triangle...)
	svc := usecases.NewExportService(e, nil, nil, nil, nil)

	r, err := svc.Render(context.Background(), poly.ID, domain.FormatKML)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(r.Body), "<Placemark>") || !strings.HasSuffix(r.Filename, ".kml") {
		t.Errorf("unexpected kml rendering %s: %s", r.Filename, r.Body)
	}
}

func TestExportService_RenderUnknownPolygon(t *testing.T) {
	svc := usecases.NewExportService(newEditor(nil), nil, nil, nil, nil)
	if _, err := svc.Render(context.Background(), "missing", domain.FormatText); !errors.Is(err, domain.ErrPolygonNotFound) {
		t.Errorf("expected ErrPolygonNotFound, got %v", err)
	}
}

func TestExportService_Import(t *testing.T) {
	ctx := context.Background()
	e := newEditor(nil)
	svc := usecases.NewExportService(e, nil, nil, nil, nil)

	poly, err := svc.Import(ctx, "(1.5, -2)\n(3, 4.25)\n(5, 6)\n")
	if err != nil || poly == nil {
		t.Fatalf("expected import, got %v %v", poly, err)
	}
	r, _ := svc.Render(ctx, poly.ID, domain.FormatText)
	if string(r.Body) != "(1.5, -2)\n(3, 4.25)\n(5, 6)\n" {
		t.Errorf("round trip mismatch: %q", r.Body)
	}

	if _, err := svc.Import(ctx, "1.5, -2\n"); !errors.Is(err, domain.ErrMalformedExport) {
		t.Errorf("expected ErrMalformedExport, got %v", err)
	}
}

func TestExportService_ArchiveDirect(t *testing.T) {
	ctx := context.Background()
	e := newEditor(nil)
	poly := collect(t, e, triangle...)
	repo := &mockExportRepo{}
	pub := &mockPublisher{err: errors.New("nats down")}
	svc := usecases.NewExportService(e, nil, repo, nil, pub)

	res, err := svc.Archive(ctx, poly.ID, domain.FormatText)
	if err != nil {
		t.Fatal(err)
	}
	if res.WorkflowID != "" {
		t.Error("direct archive should not report a workflow")
	}
	if len(repo.created) != 1 || repo.created[0].PolygonID != poly.ID {
		t.Errorf("expected record stored, got %+v", repo.created)
	}
	if len(pub.published) != 1 {
		t.Error("expected export ready event despite publish failure")
	}

	list, err := svc.ListArchived(ctx, poly.ID)
	if err != nil || len(list) != 1 {
		t.Errorf("expected one archived export, got %d (%v)", len(list), err)
	}
}

func TestExportService_ArchiveScheduled(t *testing.T) {
	ctx := context.Background()
	e := newEditor(nil)
	poly := collect(t, e, triangle...)
	repo := &mockExportRepo{}
	sched := &mockScheduler{}
	svc := usecases.NewExportService(e, nil, repo, sched, nil)

	res, err := svc.Archive(ctx, poly.ID, domain.FormatKML)
	if err != nil {
		t.Fatal(err)
	}
	if res.WorkflowID != "archive-"+res.Record.ID {
		t.Errorf("unexpected workflow id %q", res.WorkflowID)
	}
	if len(sched.scheduled) != 1 || len(repo.created) != 0 {
		t.Error("scheduled archive must not write the record inline")
	}
}

func TestExportService_ArchiveUnavailable(t *testing.T) {
	e := newEditor(nil)
	poly := collect(t, e, triangle...)
	svc := usecases.NewExportService(e, nil, nil, nil, nil)

	if _, err := svc.Archive(context.Background(), poly.ID, domain.FormatText); !errors.Is(err, domain.ErrArchiveUnavailable) {
		t.Errorf("expected ErrArchiveUnavailable, got %v", err)
	}
	if _, err := svc.ListArchived(context.Background(), poly.ID); !errors.Is(err, domain.ErrArchiveUnavailable) {
		t.Errorf("expected ErrArchiveUnavailable, got %v", err)
	}
}
