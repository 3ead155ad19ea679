// Package main provides the resume_screener command line: batch screening,
// the HTTP API server and the MCP tool server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/resume-screener/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configFile string
	v          = config.NewViper()
)

var rootCmd = &cobra.Command{
	Use:           "resume_screener",
	Short:         "Resume skill matcher and ATS scorer",
	Long:          "resume_screener extracts text from resumes, matches it against a weighted skill vocabulary and scores each resume for a job domain.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Path to a YAML config file")
	pf.String("vocabulary", "", "Path to a vocabulary file (YAML or JSON)")
	pf.Bool("log-json", false, "Log as JSON")
	pf.Bool("debug", false, "Enable debug logging")

	bindFlag("matching.vocabulary_path", pf.Lookup("vocabulary"))
	bindFlag("log.json", pf.Lookup("log-json"))
	bindFlag("log.debug", pf.Lookup("debug"))
}

// bindFlag makes a flag override the config key when set.
func bindFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", flag.Name, err))
	}
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
