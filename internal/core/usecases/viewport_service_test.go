package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/usecases"
)

func TestViewportService_RestoreDefault(t *testing.T) {
	svc := usecases.NewViewportService(&mockViewportStore{})

	v, err := svc.Restore(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *v != domain.DefaultViewport {
		t.Errorf("expected default viewport, got %+v", v)
	}
}

func TestViewportService_RestoreStored(t *testing.T) {
	stored := &domain.Viewport{Zoom: 14, Latitude: 43.26, Longitude: -2.93}
	svc := usecases.NewViewportService(&mockViewportStore{
		loadFn: func(ctx context.Context) (*domain.Viewport, error) { return stored, nil },
	})

	v, err := svc.Restore(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if *v != *stored {
		t.Errorf("expected %+v, got %+v", stored, v)
	}
}

func TestViewportService_RestoreError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := usecases.NewViewportService(&mockViewportStore{
		loadFn: func(ctx context.Context) (*domain.Viewport, error) { return nil, boom },
	})

	if _, err := svc.Restore(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

func TestViewportService_Update(t *testing.T) {
	var saved *domain.Viewport
	svc := usecases.NewViewportService(&mockViewportStore{
		saveFn: func(ctx context.Context, v *domain.Viewport) error {
			saved = v
			return nil
		},
	})

	want := domain.Viewport{Zoom: 10, Latitude: 40.4, Longitude: -3.7}
	if err := svc.Update(context.Background(), want); err != nil {
		t.Fatal(err)
	}
	if saved == nil || *saved != want {
		t.Errorf("expected %+v saved, got %+v", want, saved)
	}
}

func TestViewportService_UpdateRejectsInvalid(t *testing.T) {
	called := false
	svc := usecases.NewViewportService(&mockViewportStore{
		saveFn: func(ctx context.Context, v *domain.Viewport) error {
			called = true
			return nil
		},
	})

	for _, v := range []domain.Viewport{
		{Zoom: -1},
		{Zoom: 22},
		{Zoom: 5, Latitude: 95},
		{Zoom: 5, Longitude: -181},
	} {
		if err := svc.Update(context.Background(), v); !errors.Is(err, domain.ErrInvalidViewport) {
			t.Errorf("%+v: expected ErrInvalidViewport, got %v", v, err)
		}
	}
	if called {
		t.Error("invalid viewport must not reach the store")
	}
}

func TestViewportService_Clear(t *testing.T) {
	cleared := false
	svc := usecases.NewViewportService(&mockViewportStore{
		clearFn: func(ctx context.Context) error {
			cleared = true
			return nil
		},
	})
	if err := svc.Clear(context.Background()); err != nil || !cleared {
		t.Errorf("expected clear, got %v", err)
	}
}
