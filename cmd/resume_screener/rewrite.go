package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/rewriting"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite experience text with the language model",
	Long: `Rewrite a resume's experience section to lead with strong verbs and measurable
impact. Without an API key, or when the model fails, the original text is
printed unchanged and the reason goes to stderr.`,
	Args: cobra.NoArgs,
	RunE: runRewrite,
}

var rewriteInput string

func init() {
	rewriteCmd.Flags().StringVar(&rewriteInput, "in", "-", "Text file to rewrite (- for stdin)")
	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	text, err := readInput(cmd.InOrStdin(), rewriteInput)
	if err != nil {
		return err
	}

	client, err := rt.llmClient(cmd.Context())
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	result := rewriting.NewRewriter(client, llm.ParseTier(rt.cfg.LLM.Tier), rt.log).Enhance(cmd.Context(), text)
	if result.Diagnostic != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), result.Diagnostic)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Text)
	return nil
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}
