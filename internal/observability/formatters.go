// Package observability provides formatted console output for screening results.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-screener/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow caps ranked entries and per-report skill lists
	maxItemsToShow = 10
)

// Printer renders reports for the terminal.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if r := []rune(line); len(r) > boxWidth-4 {
			line = string(r[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintReport outputs one resume's domain, score and skill partition.
func (p *Printer) PrintReport(report types.AnalysisReport) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Domain:   %s\n", report.Domain))
	sb.WriteString(fmt.Sprintf("Score:    %.2f%% (%s, threshold %.0f)\n", report.Score, report.Mode, report.Threshold))
	if report.ExtractionFailed {
		sb.WriteString("Warning:  text extraction failed\n")
	}
	if report.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("Unknown domain, did you mean %q?\n", report.Suggestion))
	}

	writeSkillList(&sb, "Matched", report.Matched)
	writeSkillList(&sb, "Missing", report.Missing)

	p.printBox(report.Filename, strings.TrimSuffix(sb.String(), "\n"))
}

func writeSkillList(sb *strings.Builder, label string, skills []string) {
	sb.WriteString(fmt.Sprintf("\n%s (%d):\n", label, len(skills)))
	if len(skills) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	for i, s := range skills {
		if i == maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", s))
	}
}

// PrintSummary outputs a one-line-per-resume score table, in input order.
func (p *Printer) PrintSummary(reports []types.AnalysisReport) {
	if len(reports) == 0 {
		return
	}

	var sb strings.Builder
	for _, r := range reports {
		sb.WriteString(fmt.Sprintf("%6.2f%%  %-20s %s\n", r.Score, r.Domain, r.Filename))
	}
	p.printBox(fmt.Sprintf("SCREENED %d RESUMES", len(reports)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanking outputs resumes ordered by similarity to a job description.
func (p *Printer) PrintRanking(ranked []types.RankedResume) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(ranked), maxItemsToShow)
	for _, r := range ranked[:count] {
		sb.WriteString(fmt.Sprintf("#%-3d %6.2f%%  %s\n", r.Rank, r.Percent, r.Filename))
	}
	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more resumes", len(ranked)-maxItemsToShow))
	}

	p.printBox("RANKED BY SIMILARITY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDomains outputs every domain with its weighted skills.
func (p *Printer) PrintDomains(domains []types.DomainSummary) {
	if len(domains) == 0 {
		return
	}

	var sb strings.Builder
	for i, d := range domains {
		sb.WriteString(fmt.Sprintf("%s (total weight %d)\n", d.Name, d.TotalWeight))
		for _, s := range d.Skills {
			line := fmt.Sprintf("  %-22s %d", s.Name, s.Weight)
			if len(s.Synonyms) > 0 {
				line += "  aka " + strings.Join(s.Synonyms, ", ")
			}
			sb.WriteString(line + "\n")
		}
		if i < len(domains)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("DOMAINS", strings.TrimSuffix(sb.String(), "\n"))
}
