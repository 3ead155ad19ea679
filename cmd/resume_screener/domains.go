package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/pipeline"
)

var domainsJSON bool

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the vocabulary's domains and skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		matcher, err := rt.matcher(cmd.Context())
		if err != nil {
			return err
		}
		summaries := pipeline.DomainSummaries(matcher)
		if domainsJSON {
			return writeJSON(cmd.OutOrStdout(), summaries)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintDomains(summaries)
		return nil
	},
}

func init() {
	domainsCmd.Flags().BoolVar(&domainsJSON, "json", false, "Print domains as JSON")
	rootCmd.AddCommand(domainsCmd)
}
