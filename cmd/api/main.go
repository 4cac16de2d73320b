package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	valkeygo "github.com/valkey-io/valkey-go"
	"go.temporal.io/sdk/client"
	temporallog "go.temporal.io/sdk/log"

	"github.com/samirrijal/areaselector/internal/adapters/http"
	"github.com/samirrijal/areaselector/internal/adapters/memory"
	natsadapter "github.com/samirrijal/areaselector/internal/adapters/nats"
	"github.com/samirrijal/areaselector/internal/adapters/postgres"
	"github.com/samirrijal/areaselector/internal/adapters/valkey"
	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/ports"
	"github.com/samirrijal/areaselector/internal/core/usecases"
	"github.com/samirrijal/areaselector/internal/pkg/config"
	"github.com/samirrijal/areaselector/internal/pkg/input"
	"github.com/samirrijal/areaselector/internal/pkg/logging"
	"github.com/samirrijal/areaselector/internal/pkg/telemetry"
	"github.com/samirrijal/areaselector/internal/workflows"
)

func main() {
	cfg, err := config.Load("areaselector-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{}

	// Database
	var db *postgres.DB
	if cfg.Database.Enabled {
		db, err = postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		deps.DB = db
	}

	// Cache
	var cache *valkey.Cache
	var kv valkeygo.Client
	if cfg.Valkey.Enabled {
		kv, err = valkey.Connect(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			cache = valkey.New(kv)
			defer cache.Close()
			deps.Cache = cache
		}
	}

	// NATS: surface commands out, input events in
	var surface ports.Surface
	var publisher ports.EventPublisher
	var pub *natsadapter.Publisher
	if cfg.NATS.Enabled {
		pub, err = natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			surface, publisher = pub, pub
			deps.NATS = pub.Conn()
		}
	}

	// Editor core
	editor := usecases.NewEditor(surface, usecases.EditorConfig{
		MinVertices: cfg.Editor.MinVertices,
		DeleteFloor: cfg.Editor.DeleteFloor,
	})
	tracker := input.NewTracker()
	menus := usecases.NewMenuService(editor, tracker)
	dispatcher := usecases.NewDispatcher(editor, menus, tracker, cfg.Editor.CollectKey)

	// Viewport persistence
	var store ports.ViewportStore
	switch cfg.Viewport.Backend {
	case config.ViewportPostgres:
		if db == nil {
			log.Fatal("viewport backend postgres needs database.enabled")
		}
		store = postgres.NewViewportRepo(db, cfg.Viewport.Key)
	case config.ViewportValkey:
		if kv == nil {
			log.Fatal("viewport backend valkey needs a reachable valkey")
		}
		store = valkey.NewViewportStore(kv, cfg.Viewport.Key)
	default:
		store = memory.NewViewportStore()
	}

	// Exports
	var exportCache ports.CacheService
	if cache != nil {
		exportCache = cache
	}
	var archive ports.ExportRepository
	if db != nil {
		archive = postgres.NewExportRepo(db)
	}
	var scheduler ports.ExportScheduler
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
			Logger:    temporallog.NewStructuredLogger(slog.Default()),
		})
		if err != nil {
			slog.Warn("temporal unavailable, archiving inline", "error", err)
		} else {
			defer tc.Close()
			scheduler = workflows.NewScheduler(tc, cfg.Temporal.TaskQueue)
		}
	}

	deps.Editor = editor
	deps.Dispatcher = dispatcher
	deps.Menus = menus
	deps.Viewports = usecases.NewViewportService(store)
	deps.Exports = usecases.NewExportService(editor, exportCache, archive, scheduler, publisher)

	// Remote surfaces and WebSocket clients share one durable input consumer.
	// WebSocket events go through it only once the consumer is running.
	if pub != nil {
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats input subscriber unavailable", "error", err)
		} else {
			defer sub.Close()
			if err := consumeInput(ctx, sub, dispatcher); err != nil {
				slog.Warn("subscribe input", "error", err)
			} else {
				deps.Input = pub
			}
		}
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Area Selector API",
	})
	app.Use(recover.New())

	http.SetupRoutes(app, deps, http.RouteOptions{CORSOrigins: cfg.Server.CORSOrigins})

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "viewport_backend", cfg.Viewport.Backend)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())
	cancel()

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// consumeInput feeds every event delivered by sub to the dispatcher.
func consumeInput(ctx context.Context, sub ports.InputSubscriber, d *usecases.Dispatcher) error {
	return sub.SubscribeInput(ctx, func(ctx context.Context, ev *domain.InputEvent) error {
		_, err := d.Dispatch(ctx, ev)
		return err
	})
}
