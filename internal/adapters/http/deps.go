package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/areaselector/internal/adapters/postgres"
	"github.com/samirrijal/areaselector/internal/adapters/valkey"
	"github.com/samirrijal/areaselector/internal/core/ports"
	"github.com/samirrijal/areaselector/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers. Only Editor,
// Dispatcher and Menus are required; the rest may be nil.
type Dependencies struct {
	Editor     *usecases.Editor
	Dispatcher *usecases.Dispatcher
	Menus      *usecases.MenuService
	Viewports  *usecases.ViewportService
	Exports    *usecases.ExportService
	Input      ports.InputPublisher
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache
}
