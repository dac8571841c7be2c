package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// LateFeeRefresher recomputes late fees for overdue borrowings.
type LateFeeRefresher interface {
	RefreshLateFees() (int, error)
}

// RefreshLateFeesTask recalculates the late fee of every active overdue
// borrowing. Enqueued nightly by the overdue sweep scheduler.
type RefreshLateFeesTask struct{}

// Config returns the queue configuration for late fee refresh tasks.
func (t RefreshLateFeesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_late_fees",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefreshLateFeesProcessor creates a processor function for RefreshLateFeesTask.
func RefreshLateFeesProcessor(refresher LateFeeRefresher) backlite.QueueProcessor[RefreshLateFeesTask] {
	return func(ctx context.Context, task RefreshLateFeesTask) error {
		if refresher == nil {
			return fmt.Errorf("late fee refresher not configured")
		}

		updated, err := refresher.RefreshLateFees()
		if err != nil {
			return fmt.Errorf("refresh late fees: %w", err)
		}

		log.Printf("[TASK] Refreshed late fees on %d overdue borrowings", updated)
		return nil
	}
}

// NewRefreshLateFeesQueue creates a backlite queue for late fee refresh tasks.
func NewRefreshLateFeesQueue(refresher LateFeeRefresher) backlite.Queue {
	return backlite.NewQueue(RefreshLateFeesProcessor(refresher))
}
