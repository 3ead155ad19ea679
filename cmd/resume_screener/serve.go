package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/rendering"
	"github.com/jonathan/resume-screener/internal/rewriting"
	"github.com/jonathan/resume-screener/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes screening, ranking, rewriting and rendering endpoints.
Accounts and history are enabled when a database is configured; rewriting and
ranking when an LLM API key is configured.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	bindFlag("server.port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
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

	deps := server.Dependencies{
		Config:   rt.cfg,
		Screener: screener,
		PDF:      rendering.NewPDFRenderer(rt.cfg.Rendering.PDFTimeout, os.Getenv("CHROME_PATH")),
		Logger:   rt.log,
	}

	if rt.cfg.Database.URL != "" {
		store, err := rt.store(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		deps.Store = store
	} else {
		rt.log.Warn("no database configured; accounts and history are disabled")
	}

	client, err := rt.llmClient(ctx)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
		deps.Rewriter = rewriting.NewRewriter(client, llm.ParseTier(rt.cfg.LLM.Tier), rt.log)
		deps.Embedder = client
	} else {
		rt.log.Warn("no LLM API key configured; rewriting and ranking are disabled")
	}

	srv, err := server.New(deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	rt.log.Info("serving",
		zap.Int("port", rt.cfg.Server.Port),
		zap.Bool("accounts", deps.Store != nil),
		zap.Bool("llm", client != nil),
	)
	return srv.Start(ctx)
}

