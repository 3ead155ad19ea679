package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/export"
	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Screen resume files against a domain",
	Long: `Extract text from each resume (PDF, DOCX, HTML or plain text), match it against
the skills of a domain and print the score with matched and missing skills.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeDomain      string
	analyzeDetect      bool
	analyzeInteractive bool
	analyzeMode        string
	analyzeThreshold   float64
	analyzeCSV         string
	analyzeJSON        bool
	analyzeVerbose     bool
)

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeDomain, "domain", "d", "", "Domain to score against")
	f.BoolVar(&analyzeDetect, "detect", false, "Detect the best-matching domain for each resume")
	f.BoolVarP(&analyzeInteractive, "interactive", "i", false, "Pick the domain from a list")
	f.StringVar(&analyzeMode, "mode", "", "Scoring mode: weighted or unweighted (default from config)")
	f.Float64Var(&analyzeThreshold, "threshold", 0, "Fuzzy match threshold 0-100 (default from config)")
	f.StringVar(&analyzeCSV, "csv", "", "Also write the reports to this CSV file")
	f.BoolVar(&analyzeJSON, "json", false, "Print reports as JSON")
	f.BoolVarP(&analyzeVerbose, "verbose", "v", false, "Report progress per file")

	analyzeCmd.MarkFlagsMutuallyExclusive("domain", "detect", "interactive")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	var opts []pipeline.Option
	if analyzeVerbose {
		var mu sync.Mutex
		stderr := cmd.ErrOrStderr()
		opts = append(opts, pipeline.WithProgress(func(e pipeline.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(stderr, "[%d/%d] %s %.2f%%\n", e.Index+1, e.Total, e.Filename, e.Report.Score)
		}))
	}
	screener, err := rt.screener(cmd.Context(), opts...)
	if err != nil {
		return err
	}

	overrides := pipeline.Overrides{Mode: analyzeMode}
	if cmd.Flags().Changed("threshold") {
		overrides.Threshold = &analyzeThreshold
	}
	if analyzeDetect {
		overrides.DetectDomain = &analyzeDetect
	}
	screener, err = screener.WithOverrides(overrides)
	if err != nil {
		return err
	}

	domain := strings.TrimSpace(analyzeDomain)
	if analyzeInteractive {
		domain, err = pickDomain(screener.Matcher().Vocabulary().Domains())
		if err != nil {
			return err
		}
	}
	if domain == "" && !screener.Matcher().Options().DetectDomain {
		return errors.New("a domain is required: use --domain, --detect or --interactive")
	}

	docs, err := readDocuments(args)
	if err != nil {
		return err
	}
	reports, err := screener.ScreenBatch(cmd.Context(), docs, domain)
	if err != nil {
		return err
	}

	if analyzeCSV != "" {
		if err := writeCSVFile(analyzeCSV, reports); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d reports to %s\n", len(reports), analyzeCSV)
	}
	return printReports(cmd.OutOrStdout(), reports, analyzeJSON)
}

// pickDomain asks the user to choose a domain.
func pickDomain(domains []string) (string, error) {
	prompt := promptui.Select{
		Label: "Domain",
		Items: domains,
		Size:  min(len(domains), 10),
	}
	_, choice, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("domain selection cancelled: %w", err)
	}
	return choice, nil
}

func readDocuments(paths []string) ([]pipeline.Document, error) {
	docs := make([]pipeline.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, pipeline.Document{Filename: filepath.Base(path), Data: data})
	}
	return docs, nil
}

func writeCSVFile(path string, reports []types.AnalysisReport) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return export.WriteCSV(f, reports)
}

func printReports(out io.Writer, reports []types.AnalysisReport, asJSON bool) error {
	if asJSON {
		return writeJSON(out, reports)
	}
	printer := observability.NewPrinter(out)
	for _, r := range reports {
		printer.PrintReport(r)
	}
	if len(reports) > 1 {
		printer.PrintSummary(reports)
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
