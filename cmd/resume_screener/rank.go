package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/ranking"
)

var rankCmd = &cobra.Command{
	Use:   "rank FILE...",
	Short: "Rank resumes by similarity to a job description",
	Long: `Embed a job description and every resume with the configured embedding model
and order the resumes by cosine similarity. Requires an LLM API key.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRank,
}

var (
	rankJDFile string
	rankJDURL  string
	rankJSON   bool
)

func init() {
	rankCmd.Flags().StringVar(&rankJDFile, "jd", "", "Path to the job description (any supported format)")
	rankCmd.Flags().StringVar(&rankJDURL, "jd-url", "", "URL of the job description")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "Print the ranking as JSON")
	rankCmd.MarkFlagsMutuallyExclusive("jd", "jd-url")
	rankCmd.MarkFlagsOneRequired("jd", "jd-url")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	ctx := cmd.Context()

	jobDescription, err := loadJobDescription(cmd)
	if err != nil {
		return err
	}

	docs, err := readDocuments(args)
	if err != nil {
		return err
	}
	candidates := make([]ranking.Candidate, len(docs))
	for i, doc := range docs {
		candidates[i] = ranking.Candidate{Filename: doc.Filename, Text: ingestion.Extract(doc.Filename, doc.Data)}
	}

	client, err := rt.requireLLMClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ranked, err := ranking.Rank(ctx, client, jobDescription, candidates, rt.cfg.Matching.Concurrency)
	if err != nil {
		return err
	}
	if rankJSON {
		return writeJSON(cmd.OutOrStdout(), ranked)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRanking(ranked)
	return nil
}

func loadJobDescription(cmd *cobra.Command) (string, error) {
	var (
		text string
		err  error
	)
	if rankJDURL != "" {
		text, err = ingestion.FetchURL(cmd.Context(), nil, rankJDURL)
	} else {
		var data []byte
		data, err = os.ReadFile(rankJDFile)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		text, err = ingestion.ExtractText(rankJDFile, data)
	}
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errors.New("job description is empty")
	}
	return text, nil
}
