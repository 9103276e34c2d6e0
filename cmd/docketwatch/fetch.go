package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"DocketWatch/internal/config"
	"DocketWatch/internal/domain"
	"DocketWatch/internal/scanner"
	"DocketWatch/internal/usecase"
)

var (
	fetchIndex int
	fetchURL   string
	fetchTerm  string
	fetchJSON  bool
)

func init() {
	for _, c := range []struct {
		use, short string
		category   domain.Category
	}{
		{"orders", "Report new entries of the latest order list", domain.CategoryOrder},
		{"slip", "Report new entries of the latest slip opinion", domain.CategorySlip},
		{"relating", "Report new entries of the latest opinion relating to orders", domain.CategoryRelating},
	} {
		rootCmd.AddCommand(newFetchCmd(c.use, c.short, c.category))
	}
}

func newFetchCmd(use, short string, category domain.Category) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, scanner.Request{
				Category: category,
				Index:    fetchIndex,
				URL:      fetchURL,
				Term:     fetchTerm,
			})
		},
	}
	cmd.Flags().IntVar(&fetchIndex, "index", 0, "Listing position to fetch, 0 is the most recent")
	cmd.Flags().StringVar(&fetchURL, "url", "", "Fetch this document instead of walking the listing")
	cmd.Flags().StringVar(&fetchTerm, "term", "", "Two-digit term year of the listing (defaults to the current term)")
	cmd.Flags().BoolVar(&fetchJSON, "json", false, "Output entries as JSON lines")
	return cmd
}

func runFetch(cmd *cobra.Command, req scanner.Request) error {
	if req.Index < 0 {
		return fmt.Errorf("--index must not be negative")
	}

	ctx := cmd.Context()
	application, err := newApplication(ctx, config.Load())
	if err != nil {
		return err
	}
	defer application.Close()

	result, err := application.RunOnce(ctx, req)
	if err != nil {
		return err
	}
	return writeEntries(cmd.OutOrStdout(), result.New, fetchJSON)
}

func writeEntries(w io.Writer, entries []domain.ClassifiedEntry, asJSON bool) error {
	if asJSON {
		return usecase.WriteJSONLines(w, entries)
	}
	return usecase.WriteText(w, entries)
}
