package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vethub-sync/internal/di"
)

var runTimeout time.Duration

// loginCmd signs in once and prints the session and PIN challenge outcome.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Acquire a VetRadar session and print the outcome",
	RunE:  runLogin,
}

// importCmd runs a single patient import and prints the run as JSON.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the department patient list once",
	RunE:  runImport,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, importCmd} {
		c.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "overall deadline")
	}
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	container, err := di.NewContainer(ctx, loadConfig())
	if err != nil {
		return err
	}
	defer container.Close()

	sess, err := container.Sessions.Acquire(ctx, container.Config.Creds)
	if err != nil {
		return err
	}
	defer sess.Close()

	return printJSON(sess.Info)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	container, err := di.NewContainer(ctx, loadConfig())
	if err != nil {
		return err
	}
	defer container.Close()

	run, err := container.Importer.Import(ctx, container.Config.Creds)
	if run != nil {
		if perr := printJSON(run); perr != nil {
			return perr
		}
	}
	if err != nil {
		return fmt.Errorf("import %s: %w", container.Config.Department, err)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
