package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
)

type followUpRunner interface {
	ProcessDue(ctx context.Context) (*dto.FollowUpRunResult, error)
}

type exportCleaner interface {
	Cleanup(ttl time.Duration) ([]string, error)
}

// Config carries the schedules the background jobs run on.
type Config struct {
	FollowUpsEnabled bool
	FollowUpSpec     string
	FollowUpTimeout  time.Duration

	ExportCleanupEnabled  bool
	ExportCleanupInterval time.Duration
}

// Scheduler runs the daily follow-up dispatch and export cleanup on cron schedules.
type Scheduler struct {
	engine    *cron.Cron
	followUps followUpRunner
	exports   exportCleaner
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Scheduler. Jobs are registered on Start.
func New(followUps followUpRunner, exports exportCleaner, cfg Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FollowUpTimeout <= 0 {
		cfg.FollowUpTimeout = 5 * time.Minute
	}
	return &Scheduler{
		engine:    cron.New(),
		followUps: followUps,
		exports:   exports,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the configured jobs and starts the cron engine.
func (s *Scheduler) Start() error {
	if s.cfg.FollowUpsEnabled && s.followUps != nil {
		if _, err := s.engine.AddFunc(s.cfg.FollowUpSpec, s.runFollowUps); err != nil {
			return err
		}
		s.logger.Info("scheduled follow-up dispatch", zap.String("spec", s.cfg.FollowUpSpec))
	}

	if s.cfg.ExportCleanupEnabled && s.exports != nil && s.cfg.ExportCleanupInterval > 0 {
		spec := "@every " + s.cfg.ExportCleanupInterval.String()
		if _, err := s.engine.AddFunc(spec, s.runExportCleanup); err != nil {
			return err
		}
		s.logger.Info("scheduled export cleanup", zap.String("spec", spec))
	}

	s.engine.Start()
	return nil
}

// Stop halts the engine and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.engine.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runFollowUps() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FollowUpTimeout)
	defer cancel()

	result, err := s.followUps.ProcessDue(ctx)
	if err != nil {
		s.logger.Error("follow-up dispatch failed", zap.Error(err))
		return
	}
	s.logger.Info("follow-up dispatch finished",
		zap.Int("processed", result.Processed),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed))
}

func (s *Scheduler) runExportCleanup() {
	removed, err := s.exports.Cleanup(0)
	if err != nil {
		s.logger.Error("export cleanup failed", zap.Error(err))
		return
	}
	if len(removed) > 0 {
		s.logger.Info("export cleanup removed files", zap.Int("count", len(removed)))
	}
}
