package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the screening tools over MCP on stdio",
	Long: `Expose screen_resume and list_domains (and rank_resumes when an LLM API key is
configured) as Model Context Protocol tools on stdin/stdout. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	ctx := cmd.Context()

	screener, err := rt.screener(ctx)
	if err != nil {
		return err
	}

	opts := mcpserver.Options{
		Version:     version,
		Concurrency: rt.cfg.Matching.Concurrency,
		Logger:      rt.log,
	}
	client, err := rt.llmClient(ctx)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
		opts.Embedder = client
	}

	rt.log.Info("serving MCP on stdio")
	return mcpserver.Run(ctx, mcpserver.NewServer(screener, opts))
}
