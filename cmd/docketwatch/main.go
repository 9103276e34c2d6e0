// Package main implements the docketwatch CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"DocketWatch/internal/app"
	"DocketWatch/internal/config"
	"DocketWatch/internal/domain"
	"DocketWatch/internal/logging"
)

// Exit codes reported to the shell.
const (
	exitOK      = 0
	exitOther   = 1
	exitFetch   = 2
	exitExtract = 3
	exitParse   = 4
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "docketwatch:", err)
	}
	os.Exit(exitCode(err))
}

var rootCmd = &cobra.Command{
	Use:   "docketwatch",
	Short: "Surface new supreme court orders and opinions",
	Long: `docketwatch fetches the latest order list, slip opinion or opinion
relating to orders, splits it into per-case entries, classifies them and
prints only entries that were not reported by an earlier run.

Examples:
  # Newest order list as text
  docketwatch orders

  # Second newest slip opinion as JSON lines
  docketwatch slip --index 1 --json

  # Poll every category every 30 minutes
  docketwatch watch --interval 30m`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCode maps a command error onto the documented exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrNotFound):
		return exitFetch
	case errors.Is(err, domain.ErrCorrupt):
		return exitExtract
	case errors.Is(err, domain.ErrNoEntries):
		return exitParse
	default:
		return exitOther
	}
}

func newApplication(ctx context.Context, cfg config.Config) (*app.Application, error) {
	logger := logging.NewWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	return app.New(ctx, cfg, logger)
}
