package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vethub-sync/internal/di"
	"vethub-sync/internal/infrastructure/env"
)

var (
	driverFlag   string
	headfulFlag  bool
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "vethub-sync",
	Short: "Sign in to VetRadar and import department patient lists",
	Long: `vethub-sync drives a headless browser through the VetRadar login,
including the PIN screen shown on new devices, and imports the active
patient list of a department.

Configuration comes from .env, .env.<APP_ENV> and the process environment.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "browser driver: rod or playwright (overrides BROWSER_DRIVER)")
	rootCmd.PersistentFlags().BoolVar(&headfulFlag, "headful", false, "show the browser window")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd, loginCmd, importCmd)
}

// loadConfig merges the environment with command-line overrides.
func loadConfig() di.Config {
	cfg := di.LoadConfig(env.NewEnvService())
	if driverFlag != "" {
		cfg.BrowserDriver = driverFlag
	}
	if headfulFlag {
		cfg.BrowserHeadless = false
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	return cfg
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
