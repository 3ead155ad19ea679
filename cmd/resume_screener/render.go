package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/rendering"
	"github.com/jonathan/resume-screener/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render resume data to HTML or PDF",
	Long: `Render a ResumeData JSON document through a template. The output format follows
the --out extension: .pdf prints through headless Chrome, anything else is HTML.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

var (
	renderResumeFile string
	renderTemplate   string
	renderOut        string
)

func init() {
	renderCmd.Flags().StringVarP(&renderResumeFile, "resume", "r", "", "Path to ResumeData JSON (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template: "+strings.Join(rendering.Templates(), ", ")+" (default from config)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output path, .html or .pdf (required)")

	if err := renderCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := renderCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	content, err := os.ReadFile(renderResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	req := types.RenderRequest{Template: renderTemplate, Format: outputFormat(renderOut)}
	if err := json.Unmarshal(content, &req.Resume); err != nil {
		return fmt.Errorf("failed to unmarshal resume JSON: %w", err)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid resume data: %w", err)
	}
	if req.Template == "" {
		req.Template = rt.cfg.Rendering.DefaultTemplate
	}

	html, err := rendering.RenderHTML(req.Resume, req.Template)
	if err != nil {
		return err
	}

	output := []byte(html)
	if req.Format == "pdf" {
		renderer := rendering.NewPDFRenderer(rt.cfg.Rendering.PDFTimeout, os.Getenv("CHROME_PATH"))
		output, err = renderer.RenderPDF(cmd.Context(), html)
		if err != nil {
			return err
		}
	}

	if dir := filepath.Dir(renderOut); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(renderOut, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s (%s, %d bytes)\n", renderOut, req.Template, len(output))
	return nil
}

// outputFormat picks pdf or html from the output file extension.
func outputFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "pdf"
	}
	return "html"
}
