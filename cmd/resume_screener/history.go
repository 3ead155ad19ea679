package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a user's screening history",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var (
	historyEmail string
	historyLimit int
	historyJSON  bool
)

func init() {
	historyCmd.Flags().StringVarP(&historyEmail, "email", "e", "", "Account email (required)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", db.DefaultHistoryLimit, "Maximum number of records")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print history as JSON")

	if err := historyCmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
	}
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", historyLimit)
	}
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	ctx := cmd.Context()

	store, err := rt.store(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := store.GetUserByEmail(ctx, historyEmail)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("no account for %s", historyEmail)
	}

	records, err := store.ListHistory(ctx, user.ID, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if historyJSON {
		return writeJSON(cmd.OutOrStdout(), records)
	}
	return printHistory(cmd.OutOrStdout(), records)
}

func printHistory(out io.Writer, records []types.HistoryRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No screenings recorded.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tDOMAIN\tSCORE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Domain, r.Score)
	}
	return tw.Flush()
}
