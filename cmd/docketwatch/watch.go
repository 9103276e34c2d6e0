package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"DocketWatch/internal/config"
	"DocketWatch/internal/domain"
	"DocketWatch/internal/usecase"
)

var (
	watchCategories []string
	watchInterval   time.Duration
	watchJSON       bool
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchCategories, "category", nil, "Category to poll: orders, slip or relating (repeatable, defaults to config)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Polling interval (defaults to config)")
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Output entries as JSON lines")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the court website and report new entries until interrupted",
	Long: `Poll the most recent release of each category on a fixed interval.
A failed run is logged and retried on the next tick.

Examples:
  # Orders and slip opinions every 15 minutes
  docketwatch watch --category orders --category slip --interval 15m`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	categories, err := watchSelection(watchCategories, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	application, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	out := cmd.OutOrStdout()
	return application.Watch(ctx, categories, watchInterval, func(r usecase.Result) {
		if err := writeEntries(out, r.New, watchJSON); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "write entries:", err)
		}
	})
}

// watchSelection prefers categories given on the command line over the
// configured ones.
func watchSelection(flags []string, cfg config.Config) ([]domain.Category, error) {
	if len(flags) == 0 {
		flags = cfg.Scheduler.Categories
	}
	return parseCategories(flags)
}

func parseCategories(selectors []string) ([]domain.Category, error) {
	seen := map[domain.Category]bool{}
	var out []domain.Category
	for _, s := range selectors {
		c, err := domain.ParseCategory(s)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return domain.Categories(), nil
	}
	return out, nil
}
