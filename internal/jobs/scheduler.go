// File: internal/jobs/scheduler.go
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	StaleDocumentSpec = "@every 10m"
	ResetPurgeSpec    = "@every 1h"
	StaleAfter        = 30 * time.Minute
	jobTimeout        = 2 * time.Minute
)

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// DocumentReaper fails documents stuck in processing.
type DocumentReaper interface {
	MarkStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// ResetPurger deletes expired password reset codes.
type ResetPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Scheduler runs periodic housekeeping.
type Scheduler struct {
	cron   *cron.Cron
	docs   DocumentReaper
	resets ResetPurger
	logger Logger
}

func NewScheduler(docs DocumentReaper, resets ResetPurger, logger Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		docs:   docs,
		resets: resets,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(StaleDocumentSpec, s.reapDocuments); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(ResetPurgeSpec, s.purgeResetCodes); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("housekeeping scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("housekeeping scheduler stopped")
}

func (s *Scheduler) reapDocuments() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.docs.MarkStale(ctx, StaleAfter); err != nil {
		s.logger.Error("stale document job failed", "error", err)
	}
}

func (s *Scheduler) purgeResetCodes() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.resets.PurgeExpired(ctx); err != nil {
		s.logger.Error("reset code purge job failed", "error", err)
	}
}
