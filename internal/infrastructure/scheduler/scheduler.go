// Package scheduler runs patient imports on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"vethub-sync/internal/application/port/input"
	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
)

const defaultRunTimeout = 5 * time.Minute

type ImportScheduler struct {
	importer input.PatientImporter
	creds    entity.Credentials
	logger   output.LoggerPort
	cron     *cron.Cron
	timeout  time.Duration

	mu      sync.Mutex
	entryID cron.EntryID
	last    *entity.ImportRun
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewImportScheduler(importer input.PatientImporter, creds entity.Credentials, logger output.LoggerPort, timeout time.Duration) *ImportScheduler {
	if timeout <= 0 {
		timeout = defaultRunTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{logger: logger}
	return &ImportScheduler{
		importer: importer,
		creds:    creds,
		logger:   logger,
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		timeout:  timeout,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Schedule registers the import under a standard five-field cron
// expression, replacing any previous schedule.
func (s *ImportScheduler) Schedule(expr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
		s.entryID = 0
	}
	id, err := s.cron.AddFunc(expr, func() { _, _ = s.RunOnce(s.ctx) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	s.entryID = id
	s.logger.Info("Import scheduled", "cron", expr)
	return nil
}

// Next returns the next activation time, zero when nothing is scheduled.
func (s *ImportScheduler) Next() time.Time {
	s.mu.Lock()
	id := s.entryID
	s.mu.Unlock()
	if id == 0 {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

func (s *ImportScheduler) RunOnce(ctx context.Context) (*entity.ImportRun, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info("Scheduled import triggered")
	run, err := s.importer.Import(ctx, s.creds)
	if run != nil {
		s.mu.Lock()
		s.last = run
		s.mu.Unlock()
	}
	if err != nil {
		s.logger.Error("Scheduled import failed", "error", err)
		return run, err
	}
	s.logger.Info("Scheduled import completed", "run_id", run.ID, "patients", len(run.Patients))
	return run, nil
}

func (s *ImportScheduler) LastRun() *entity.ImportRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *ImportScheduler) Start() {
	s.cron.Start()
}

// Stop cancels a running import and waits for it to return or ctx to end.
func (s *ImportScheduler) Stop(ctx context.Context) error {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cronLogger struct {
	logger output.LoggerPort
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
