// Package importer pulls the active patient list of one department out of
// VetRadar and stores it as a snapshot.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vethub-sync/internal/application/port/input"
	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/usecase/cascade"
	"vethub-sync/internal/usecase/invoker"
	"vethub-sync/internal/usecase/wait"
)

var (
	ErrNoPatients = errors.New("no patients found on page")
	ErrFilter     = errors.New("department filter unavailable")
)

var (
	_ input.PatientImporter = (*UseCase)(nil)
	_ input.PatientSyncer   = (*UseCase)(nil)
)

type Clicker interface {
	ClickTarget(ctx context.Context, page output.PagePort, target entity.SearchTarget, opts invoker.Options) (bool, error)
}

type Config struct {
	BaseURL    string
	Department string
	// DepartmentLabels are tried in order in the filter menu.
	DepartmentLabels []string

	NavigateTimeout time.Duration
	IdleTimeout     time.Duration
	MenuDelay       time.Duration
	ReloadDelay     time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:          "https://app.vetradar.com",
		Department:       "Neurology & Neurosurgery",
		DepartmentLabels: []string{"Neurology & Neurosurgery", "Neurology"},
		NavigateTimeout:  30 * time.Second,
		IdleTimeout:      10 * time.Second,
		MenuDelay:        1 * time.Second,
		ReloadDelay:      3 * time.Second,
	}
}

type UseCase struct {
	sessions input.SessionAcquirer
	clicker  Clicker
	store    output.PatientStore
	logger   output.LoggerPort
	metrics  output.MetricsPort
	sleep    wait.SleepFunc
	cfg      Config
}

type Option func(*UseCase)

func WithMetrics(m output.MetricsPort) Option {
	return func(uc *UseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

func WithSleep(fn wait.SleepFunc) Option {
	return func(uc *UseCase) {
		if fn != nil {
			uc.sleep = fn
		}
	}
}

func New(
	sessions input.SessionAcquirer,
	clicker Clicker,
	store output.PatientStore,
	logger output.LoggerPort,
	cfg Config,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		sessions: sessions,
		clicker:  clicker,
		store:    store,
		logger:   logger,
		metrics:  output.NopMetrics{},
		sleep:    wait.Sleep,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Import logs in, filters the patient list by department and parses it. The
// returned run is populated even on failure.
func (uc *UseCase) Import(ctx context.Context, creds entity.Credentials) (*entity.ImportRun, error) {
	run := &entity.ImportRun{
		ID:         uuid.NewString(),
		Department: uc.cfg.Department,
		Status:     entity.ImportStatusRunning,
		StartedAt:  time.Now(),
	}
	log := uc.logger.WithFields(map[string]any{"run_id": run.ID, "department": run.Department})
	log.Info("Import started")

	err := uc.run(ctx, creds, run, log)

	run.FinishedAt = time.Now()
	if err != nil {
		run.Status = entity.ImportStatusFailed
		run.Error = err.Error()
		log.Error("Import failed", "error", err)
	} else {
		run.Status = entity.ImportStatusCompleted
		log.Info("Import completed", "patients", len(run.Patients), "duplicates", run.Duplicates)
	}
	uc.metrics.ObserveImport(run.Status, len(run.Patients), run.FinishedAt.Sub(run.StartedAt).Seconds())
	return run, err
}

func (uc *UseCase) run(ctx context.Context, creds entity.Credentials, run *entity.ImportRun, log output.LoggerPort) error {
	sess, err := uc.sessions.Acquire(ctx, creds)
	if err != nil {
		return err
	}
	defer sess.Close()

	info := sess.Info
	run.Session = &info
	page := sess.Page

	if !strings.Contains(page.CurrentURL(), "/patients") {
		navCtx, cancel := context.WithTimeout(ctx, uc.cfg.NavigateTimeout)
		err := page.Navigate(navCtx, uc.cfg.BaseURL+"/patients")
		cancel()
		if err != nil {
			return fmt.Errorf("open patient list: %w", err)
		}
	}
	page.WaitIdle(ctx, uc.cfg.IdleTimeout)

	if err := uc.applyFilter(ctx, page, log); err != nil {
		return err
	}
	page.WaitIdle(ctx, uc.cfg.IdleTimeout)

	text, err := page.VisibleText(ctx)
	if err != nil {
		return fmt.Errorf("read patient list: %w", err)
	}
	log.Debug("Extracted page text", "length", len(text))

	patients, dups := ParsePatients(text)
	run.Patients = patients
	run.Duplicates = dups
	if len(patients) == 0 {
		return ErrNoPatients
	}

	snapshot := entity.PatientSnapshot{
		Department: run.Department,
		Patients:   patients,
		StoredAt:   time.Now(),
	}
	if err := uc.store.SaveSnapshot(ctx, snapshot); err != nil {
		log.Warn("Storing snapshot failed", "error", err)
	}
	return nil
}

func (uc *UseCase) applyFilter(ctx context.Context, page output.PagePort, log output.LoggerPort) error {
	menu := []entity.SearchTarget{
		{Text: "Filter", ExactMatch: true},
		{Text: "Department"},
	}
	for _, target := range menu {
		if _, err := uc.clicker.ClickTarget(ctx, page, target, invoker.Options{Timeout: 5 * time.Second, RetryCount: 2}); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %s: %w", ErrFilter, target.Text, err)
		}
		if err := uc.sleep(ctx, uc.cfg.MenuDelay); err != nil {
			return err
		}
	}

	labels := uc.cfg.DepartmentLabels
	if len(labels) == 0 {
		labels = []string{uc.cfg.Department}
	}
	steps := make([]cascade.Step, 0, len(labels))
	for _, label := range labels {
		steps = append(steps, cascade.Step{
			Name: label,
			Run: func(ctx context.Context) error {
				_, err := uc.clicker.ClickTarget(ctx, page, entity.SearchTarget{Text: label}, invoker.Options{Timeout: 2 * time.Second, RetryCount: 1})
				return err
			},
		})
	}
	via, err := cascade.Run(ctx, steps...)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		log.Warn("Department option not found, list may be unfiltered", "error", err)
	default:
		log.Info("Department filter applied", "via", via)
	}

	if err := uc.sleep(ctx, uc.cfg.ReloadDelay); err != nil {
		return err
	}
	if err := page.PressKey(ctx, "Escape"); err != nil {
		log.Warn("Closing filter panel failed", "error", err)
	}
	return uc.sleep(ctx, uc.cfg.MenuDelay)
}
