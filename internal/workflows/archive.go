package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// ArchiveInput is the input for the archive workflow.
type ArchiveInput struct {
	Record domain.ExportRecord
}

// ArchiveExportWorkflow stores an export and announces it. If the
// announcement fails, the record is deleted (saga compensation).
func ArchiveExportWorkflow(ctx workflow.Context, input ArchiveInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting archive workflow", "exportID", input.Record.ID, "format", input.Record.Format)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Store the record
	if err := workflow.ExecuteActivity(ctx, "StoreExport", input.Record).Get(ctx, nil); err != nil {
		return err
	}

	// Step 2: Announce it
	err := workflow.ExecuteActivity(ctx, "PublishExportReady", input.Record).Get(ctx, nil)
	if err != nil {
		logger.Warn("export ready publish failed, compensating", "error", err)
		_ = workflow.ExecuteActivity(ctx, "DeleteExport", input.Record.ID).Get(ctx, nil)
		return err
	}

	logger.Info("Export archived", "exportID", input.Record.ID)
	return nil
}
