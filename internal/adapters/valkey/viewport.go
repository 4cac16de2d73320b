package valkey

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// DefaultViewportKey is the key the last map view is stored under.
const DefaultViewportKey = "lastMapView"

// ViewportStore implements ports.ViewportStore on a single Valkey key.
// The value never expires.
type ViewportStore struct {
	client valkey.Client
	key    string
}

// NewViewportStore creates a store. An empty key selects DefaultViewportKey.
func NewViewportStore(client valkey.Client, key string) *ViewportStore {
	if key == "" {
		key = DefaultViewportKey
	}
	return &ViewportStore{client: client, key: key}
}

func (s *ViewportStore) Load(ctx context.Context) (*domain.Viewport, error) {
	b, err := s.client.Do(ctx, s.client.B().Get().Key(s.key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, domain.ErrViewportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.key, err)
	}

	var v domain.Viewport
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return &v, nil
}

func (s *ViewportStore) Save(ctx context.Context, v *domain.Viewport) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Do(ctx, s.client.B().Set().Key(s.key).Value(valkey.BinaryString(data)).Build()).Error()
}

func (s *ViewportStore) Clear(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.key).Build()).Error()
}
