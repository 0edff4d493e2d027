package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"vethub-sync/internal/application/port/input"
	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/infrastructure/browser/playwright"
	"vethub-sync/internal/infrastructure/browser/rod"
	"vethub-sync/internal/infrastructure/cache"
	"vethub-sync/internal/infrastructure/logger"
	"vethub-sync/internal/infrastructure/metrics"
	"vethub-sync/internal/infrastructure/scheduler"
	"vethub-sync/internal/usecase/importer"
	"vethub-sync/internal/usecase/invoker"
	"vethub-sync/internal/usecase/login"
	"vethub-sync/internal/usecase/pinchallenge"
	"vethub-sync/internal/usecase/search"
	"vethub-sync/internal/usecase/treatment"
)

type Container struct {
	Config   Config
	Logger   output.LoggerPort
	Browser  output.BrowserPort
	Metrics  *metrics.SyncMetrics
	Registry *prometheus.Registry
	Store    output.PatientStore

	Sessions   input.SessionAcquirer
	Importer   input.PatientImporter
	Syncer     input.PatientSyncer
	Treatments input.TreatmentFetcher
	Scheduler  *scheduler.ImportScheduler

	redis *redis.Client
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter("vethub-sync", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c := &Container{Config: cfg, Logger: log}
	if err := c.build(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	cfg := c.Config

	loginCfg := login.DefaultConfig()
	loginCfg.BaseURL = cfg.BaseURL
	loginCfg.DebugDir = cfg.DebugDir
	if err := loginCfg.Validate(); err != nil {
		return err
	}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.Metrics = metrics.NewSyncMetrics(c.Registry)

	store, client, err := NewStore(ctx, cfg)
	if err != nil {
		return err
	}
	c.Store, c.redis = store, client

	browser, err := NewBrowser(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create browser: %w", err)
	}
	c.Browser = browser
	c.Logger.Info("Browser ready", "driver", cfg.BrowserDriver, "headless", cfg.BrowserHeadless)

	finder := search.New(c.Logger)
	clicker := invoker.New(finder, c.Logger, invoker.WithMetrics(c.Metrics))

	pinCfg := pinchallenge.DefaultConfig()
	pinCfg.DebugDir = cfg.DebugDir
	resolver := pinchallenge.New(clicker, c.Logger, pinCfg, pinchallenge.WithMetrics(c.Metrics))

	sessions := login.New(c.Browser, resolver, c.Logger, loginCfg)
	c.Sessions = sessions

	importCfg := importer.DefaultConfig()
	importCfg.BaseURL = loginCfg.BaseURL
	if !strings.EqualFold(cfg.Department, importCfg.Department) {
		importCfg.Department = cfg.Department
		importCfg.DepartmentLabels = []string{cfg.Department}
	}
	imp := importer.New(sessions, clicker, c.Store, c.Logger, importCfg, importer.WithMetrics(c.Metrics))
	c.Importer, c.Syncer = imp, imp

	treatmentCfg := treatment.DefaultConfig()
	treatmentCfg.BaseURL = loginCfg.BaseURL
	treatmentCfg.Department = importCfg.Department
	c.Treatments = treatment.New(sessions, c.Store, c.Logger, treatmentCfg)

	c.Scheduler = scheduler.NewImportScheduler(c.Importer, cfg.Creds, c.Logger, 5*time.Minute)
	return nil
}

// NewBrowser launches the driver named by cfg.BrowserDriver.
func NewBrowser(ctx context.Context, cfg Config) (output.BrowserPort, error) {
	switch strings.ToLower(cfg.BrowserDriver) {
	case "", DriverRod:
		rc := rod.DefaultConfig()
		rc.Headless = cfg.BrowserHeadless
		rc.Timeout = cfg.BrowserTimeout
		return rod.NewBrowserAdapter(ctx, rc)
	case DriverPlaywright:
		pc := playwright.DefaultConfig()
		pc.Headless = cfg.BrowserHeadless
		pc.Timeout = cfg.BrowserTimeout
		return playwright.NewBrowserAdapter(pc)
	default:
		return nil, fmt.Errorf("unknown browser driver %q", cfg.BrowserDriver)
	}
}

// NewStore returns a redis-backed store when REDIS_ADDR is set, otherwise an
// in-process one.
func NewStore(ctx context.Context, cfg Config) (output.PatientStore, *redis.Client, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryStore(), nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	store := cache.NewRedisStore(client, cfg.SnapshotTTL)
	if err := store.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	return store, client, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
