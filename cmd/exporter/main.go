package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	temporallog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/areaselector/internal/adapters/nats"
	"github.com/samirrijal/areaselector/internal/adapters/postgres"
	"github.com/samirrijal/areaselector/internal/core/ports"
	"github.com/samirrijal/areaselector/internal/pkg/config"
	"github.com/samirrijal/areaselector/internal/pkg/logging"
	"github.com/samirrijal/areaselector/internal/workflows"
)

func main() {
	cfg, err := config.Load("areaselector-exporter")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	// The archive lives in Postgres
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, export ready events are logged only", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    temporallog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.ArchiveExportWorkflow)
	w.RegisterActivity(&workflows.ArchiveActivities{
		Exports:   postgres.NewExportRepo(db),
		Publisher: publisher,
	})

	slog.Info("exporter worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
