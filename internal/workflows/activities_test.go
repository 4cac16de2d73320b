package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

type fakeExports struct {
	created []string
	deleted []string
	err     error
}

func (f *fakeExports) Create(ctx context.Context, rec *domain.ExportRecord) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, rec.ID)
	return nil
}
func (f *fakeExports) GetByID(ctx context.Context, id string) (*domain.ExportRecord, error) {
	return nil, errors.New("not found")
}
func (f *fakeExports) ListByPolygon(ctx context.Context, polygonID string) ([]domain.ExportRecord, error) {
	return nil, nil
}
func (f *fakeExports) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePublisher struct {
	ids []string
}

func (f *fakePublisher) PublishExportReady(ctx context.Context, rec *domain.ExportRecord) error {
	f.ids = append(f.ids, rec.ID)
	return nil
}

func TestArchiveActivities(t *testing.T) {
	exports := &fakeExports{}
	pub := &fakePublisher{}
	a := &ArchiveActivities{Exports: exports, Publisher: pub}
	ctx := context.Background()

	if err := a.StoreExport(ctx, testRecord()); err != nil {
		t.Fatal(err)
	}
	if err := a.PublishExportReady(ctx, testRecord()); err != nil {
		t.Fatal(err)
	}
	if err := a.DeleteExport(ctx, "e1"); err != nil {
		t.Fatal(err)
	}
	if len(exports.created) != 1 || len(pub.ids) != 1 || len(exports.deleted) != 1 {
		t.Errorf("unexpected calls: %+v %+v", exports, pub)
	}
}

func TestArchiveActivities_StoreError(t *testing.T) {
	a := &ArchiveActivities{Exports: &fakeExports{err: errors.New("boom")}}
	if err := a.StoreExport(context.Background(), testRecord()); err == nil {
		t.Error("expected error")
	}
}

func TestArchiveActivities_NoPublisher(t *testing.T) {
	a := &ArchiveActivities{Exports: &fakeExports{}}
	if err := a.PublishExportReady(context.Background(), testRecord()); err != nil {
		t.Errorf("publish without publisher should succeed, got %v", err)
	}
}
