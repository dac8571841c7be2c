package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/openshelf/librarian/internal/config"
	"github.com/openshelf/librarian/internal/tasks"
)

// OverdueSweepScheduler periodically enqueues a late fee refresh so that
// overdue borrowings accumulate fees without waiting for a read or return.
type OverdueSweepScheduler struct {
	taskClient *tasks.Client
	config     config.OverdueSweep

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewOverdueSweepScheduler creates a new scheduler instance
func NewOverdueSweepScheduler(taskClient *tasks.Client, cfg config.OverdueSweep) *OverdueSweepScheduler {
	return &OverdueSweepScheduler{
		taskClient: taskClient,
		config:     cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if the sweep is enabled
func (s *OverdueSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Overdue sweep scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Overdue sweep scheduler: started with schedule '%s'", s.config.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *OverdueSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Overdue sweep scheduler: stopped")
}

// RunNow triggers an immediate sweep
func (s *OverdueSweepScheduler) RunNow() error {
	if _, err := s.taskClient.Add(tasks.RefreshLateFeesTask{}).Save(); err != nil {
		return fmt.Errorf("failed to enqueue late fee refresh: %w", err)
	}
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *OverdueSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sweep will occur
func (s *OverdueSweepScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *OverdueSweepScheduler) runSweep() {
	log.Printf("Overdue sweep: enqueueing late fee refresh")
	if _, err := s.taskClient.Add(tasks.RefreshLateFeesTask{}).Save(); err != nil {
		log.Printf("Overdue sweep: failed to enqueue late fee refresh: %v", err)
	}
}
