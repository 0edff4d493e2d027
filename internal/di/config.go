package di

import (
	"time"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
)

const (
	DriverRod        = "rod"
	DriverPlaywright = "playwright"
)

type Config struct {
	BaseURL    string
	Department string
	Creds      entity.Credentials

	BrowserDriver   string
	BrowserHeadless bool
	BrowserTimeout  time.Duration
	DebugDir        string

	HTTPAddr     string
	RedisAddr    string
	SnapshotTTL  time.Duration
	SyncSchedule string
	LogLevel     string
}

// LoadConfig reads the VETRADAR_*, BROWSER_* and service keys.
func LoadConfig(env output.ConfigPort) Config {
	return Config{
		BaseURL:    env.GetWithDefault("VETRADAR_BASE_URL", "https://app.vetradar.com"),
		Department: env.GetWithDefault("VETRADAR_DEPARTMENT", "Neurology & Neurosurgery"),
		Creds: entity.Credentials{
			Username: env.Get("VETRADAR_USERNAME"),
			Password: env.Get("VETRADAR_PASSWORD"),
			PIN:      env.Get("VETRADAR_PIN"),
		},
		BrowserDriver:   env.GetWithDefault("BROWSER_DRIVER", DriverRod),
		BrowserHeadless: env.GetBool("BROWSER_HEADLESS", true),
		BrowserTimeout:  env.GetDuration("BROWSER_TIMEOUT", 10*time.Second),
		DebugDir:        env.GetWithDefault("DEBUG_DIR", "debug"),
		HTTPAddr:        env.GetWithDefault("HTTP_ADDR", ":8080"),
		RedisAddr:       env.Get("REDIS_ADDR"),
		SnapshotTTL:     env.GetDuration("SNAPSHOT_TTL", 24*time.Hour),
		SyncSchedule:    env.Get("SYNC_SCHEDULE"),
		LogLevel:        env.GetWithDefault("LOG_LEVEL", "info"),
	}
}
