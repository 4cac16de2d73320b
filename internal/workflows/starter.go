package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// Scheduler starts archive workflows on a Temporal task queue.
type Scheduler struct {
	client    client.Client
	taskQueue string
}

// NewScheduler creates a Scheduler.
func NewScheduler(c client.Client, taskQueue string) *Scheduler {
	return &Scheduler{client: c, taskQueue: taskQueue}
}

// ScheduleArchive starts the archive workflow for rec and returns the workflow ID.
func (s *Scheduler) ScheduleArchive(ctx context.Context, rec *domain.ExportRecord) (string, error) {
	opts := client.StartWorkflowOptions{
		ID:        "archive-" + rec.ID,
		TaskQueue: s.taskQueue,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, ArchiveExportWorkflow, ArchiveInput{Record: *rec})
	if err != nil {
		return "", fmt.Errorf("start archive workflow: %w", err)
	}
	return run.GetID(), nil
}
