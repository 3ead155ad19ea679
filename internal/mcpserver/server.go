// Package mcpserver exposes screening, domain listing and ranking as MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/ranking"
	"github.com/jonathan/resume-screener/internal/types"
)

const serverName = "resume-screener"

// ScreenInput is the screen_resume argument.
type ScreenInput struct {
	Text         string   `json:"text" jsonschema:"Plain resume text"`
	Domain       string   `json:"domain,omitempty" jsonschema:"Domain to score against, e.g. Data Science"`
	Filename     string   `json:"filename,omitempty" jsonschema:"Name shown in the report (default resume.txt)"`
	Threshold    *float64 `json:"threshold,omitempty" jsonschema:"Fuzzy match threshold from 0 to 100"`
	Mode         string   `json:"mode,omitempty" jsonschema:"Scoring mode: weighted or unweighted"`
	DetectDomain *bool    `json:"detect_domain,omitempty" jsonschema:"Pick the best-matching domain when none is given"`
}

// ScreenOutput wraps one analysis report.
type ScreenOutput struct {
	Report types.AnalysisReport `json:"report"`
}

// DomainsInput takes no arguments.
type DomainsInput struct{}

// DomainsOutput lists the vocabulary.
type DomainsOutput struct {
	Domains []types.DomainSummary `json:"domains"`
}

// RankResume is one resume to rank.
type RankResume struct {
	Filename string `json:"filename" jsonschema:"Resume name"`
	Text     string `json:"text" jsonschema:"Plain resume text"`
}

// RankInput is the rank_resumes argument.
type RankInput struct {
	JobDescription string       `json:"job_description" jsonschema:"Job description text"`
	Resumes        []RankResume `json:"resumes" jsonschema:"Resumes to rank"`
}

// RankOutput holds resumes ordered by similarity, best first.
type RankOutput struct {
	Ranked []types.RankedResume `json:"ranked"`
}

// Options configures the tools. Embedder is optional; without it rank_resumes is not registered.
type Options struct {
	Version     string
	Embedder    ranking.Embedder
	Concurrency int
	Logger      *zap.Logger
}

type tools struct {
	screener    *pipeline.Screener
	embedder    ranking.Embedder
	concurrency int
	logger      *zap.Logger
}

// NewServer builds an MCP server with the screening tools registered.
func NewServer(screener *pipeline.Screener, opts Options) *mcp.Server {
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, nil)

	t := &tools{
		screener:    screener,
		embedder:    opts.Embedder,
		concurrency: opts.Concurrency,
		logger:      logger.OrNop(opts.Logger),
	}
	t.registerScreen(server)
	t.registerDomains(server)
	if t.embedder != nil {
		t.registerRank(server)
	}
	return server
}

// Run serves the tools over stdin/stdout until ctx is done or the client disconnects.
func Run(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func (t *tools) registerScreen(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "screen_resume",
		Description: "Score resume text against a job domain. Returns matched and missing skills and a 0-100 score.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.screen)
}

func (t *tools) screen(_ context.Context, _ *mcp.CallToolRequest, in ScreenInput) (*mcp.CallToolResult, ScreenOutput, error) {
	text := ingestion.CleanText(in.Text)
	if text == "" {
		return nil, ScreenOutput{}, errors.New("text is required")
	}
	screener, err := t.screener.WithOverrides(pipeline.Overrides{
		Threshold:    in.Threshold,
		Mode:         in.Mode,
		DetectDomain: in.DetectDomain,
	})
	if err != nil {
		return nil, ScreenOutput{}, err
	}
	domain := strings.TrimSpace(in.Domain)
	if domain == "" && !screener.Matcher().Options().DetectDomain {
		return nil, ScreenOutput{}, errors.New("domain is required unless detect_domain is set")
	}

	filename := in.Filename
	if filename == "" {
		filename = "resume.txt"
	}
	report := screener.ScreenText(filename, text, domain)
	logger.WithDocument(t.logger, filename, report.Domain).Debug("screened via MCP", zap.Float64("score", report.Score))
	return nil, ScreenOutput{Report: report}, nil
}

func (t *tools) registerDomains(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_domains",
		Description: "List the job domains with their skills, weights and synonyms.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ DomainsInput) (*mcp.CallToolResult, DomainsOutput, error) {
		return nil, DomainsOutput{Domains: pipeline.DomainSummaries(t.screener.Matcher())}, nil
	})
}

func (t *tools) registerRank(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "rank_resumes",
		Description: "Rank resumes by semantic similarity to a job description using text embeddings.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.rank)
}

func (t *tools) rank(ctx context.Context, _ *mcp.CallToolRequest, in RankInput) (*mcp.CallToolResult, RankOutput, error) {
	if len(in.Resumes) == 0 {
		return nil, RankOutput{}, errors.New("at least one resume is required")
	}
	candidates := make([]ranking.Candidate, len(in.Resumes))
	for i, r := range in.Resumes {
		name := r.Filename
		if name == "" {
			name = fmt.Sprintf("resume-%d", i+1)
		}
		candidates[i] = ranking.Candidate{Filename: name, Text: ingestion.CleanText(r.Text)}
	}
	ranked, err := ranking.Rank(ctx, t.embedder, ingestion.CleanText(in.JobDescription), candidates, t.concurrency)
	if err != nil {
		return nil, RankOutput{}, err
	}
	return nil, RankOutput{Ranked: ranked}, nil
}
