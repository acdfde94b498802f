package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/config"
	"github.com/mamadbah2/estoque-admin/internal/service/reporting"
)

const exportTimeout = 2 * time.Minute

// Exporter runs one export into a writer.
type Exporter interface {
	Export(ctx context.Context, target string, w reporting.RowWriter) (int, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.ExportConfig
	exporter Exporter
	writer   reporting.RowWriter
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.ExportConfig, exporter Exporter, writer reporting.RowWriter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
		}
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
		exporter: exporter,
		writer:   writer,
		logger:   logger,
	}, nil
}

// Start schedules the Sheets export and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runExport); err != nil {
		return fmt.Errorf("schedule export %q: %w", s.cfg.CronSchedule, err)
	}
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running export to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runExport() {
	s.logger.Info("running scheduled export")
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	n, err := s.exporter.Export(ctx, reporting.TargetSheets, s.writer)
	if err != nil {
		s.logger.Error("scheduled export failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled export finished", zap.Int("rows", n))
}
