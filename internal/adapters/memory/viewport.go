// Package memory holds in-process adapters used when no external store is
// configured.
package memory

import (
	"context"
	"sync"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// ViewportStore keeps the last map view for the lifetime of the process.
type ViewportStore struct {
	mu sync.Mutex
	v  *domain.Viewport
}

func NewViewportStore() *ViewportStore {
	return &ViewportStore{}
}

func (s *ViewportStore) Load(ctx context.Context) (*domain.Viewport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.v == nil {
		return nil, domain.ErrViewportNotFound
	}
	cp := *s.v
	return &cp, nil
}

func (s *ViewportStore) Save(ctx context.Context, v *domain.Viewport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	s.v = &cp
	return nil
}

func (s *ViewportStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.v = nil
	s.mu.Unlock()
	return nil
}
