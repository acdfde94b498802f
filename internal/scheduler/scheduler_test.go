package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/estoque-admin/internal/config"
	"github.com/mamadbah2/estoque-admin/internal/service/reporting"
)

type recordingExporter struct {
	targets []string
	err     error
}

func (e *recordingExporter) Export(_ context.Context, target string, _ reporting.RowWriter) (int, error) {
	e.targets = append(e.targets, target)
	return 3, e.err
}

func TestNewSchedulerRejectsUnknownTimezone(t *testing.T) {
	if _, err := NewScheduler(config.ExportConfig{Timezone: "Mars/Olympus"}, &recordingExporter{}, nil, nil); err == nil {
		t.Fatalf("expected timezone error")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s, err := NewScheduler(config.ExportConfig{CronSchedule: "every day", Timezone: "America/Sao_Paulo"}, &recordingExporter{}, nil, nil)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	if err := s.Start(); err == nil {
		t.Fatalf("expected schedule error")
	}
}

func TestStartAndStop(t *testing.T) {
	s, err := NewScheduler(config.ExportConfig{CronSchedule: "0 20 * * *"}, &recordingExporter{}, nil, nil)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := len(s.cron.Entries()); got != 1 {
		t.Fatalf("entries = %d", got)
	}
	s.Stop()
}

func TestRunExportTargetsSheets(t *testing.T) {
	exporter := &recordingExporter{err: errors.New("quota")}
	s, err := NewScheduler(config.ExportConfig{CronSchedule: "0 20 * * *"}, exporter, nil, nil)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	s.runExport()
	if len(exporter.targets) != 1 || exporter.targets[0] != reporting.TargetSheets {
		t.Fatalf("targets = %v", exporter.targets)
	}
}
