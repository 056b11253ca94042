// Package scheduler runs the periodic NAV-history synchronization job.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/fund-compare/internal/service"
)

// Scheduler manages the scheduled NAV sync job
type Scheduler struct {
	cron        *cron.Cron
	syncSvc     *service.NAVSyncService
	log         *logrus.Entry
	mu          sync.RWMutex
	isRunning   bool
	jobIDs      []cron.EntryID
	syncTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(syncSvc *service.NAVSyncService, baseLogger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		syncSvc:     syncSvc,
		log:         baseLogger.WithField("component", "scheduler"),
		jobIDs:      make([]cron.EntryID, 0),
		syncTimeout: 30 * time.Minute,
	}
}

// ScheduleNAVSync schedules recurring synchronization of the given
// instruments' NAV histories
func (s *Scheduler) ScheduleNAVSync(cronExpression string, instrumentIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
		defer cancel()

		s.log.WithField("instruments", len(instrumentIDs)).Info("Starting scheduled NAV sync")

		report, err := s.syncSvc.SyncAll(ctx, instrumentIDs)
		if err != nil {
			s.log.WithField("error", err).Error("Scheduled NAV sync failed")
			return
		}
		s.log.WithFields(logrus.Fields{
			"rows_written": report.RowsWritten,
			"failures":     report.Failures,
			"duration":     report.Duration.String(),
		}).Info("Scheduled NAV sync completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.log.WithField("cron", cronExpression).Info("Scheduled NAV sync job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.log.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
