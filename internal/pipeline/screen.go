// Package pipeline screens batches of resumes: extraction followed by skill matching.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/skills"
	"github.com/jonathan/resume-screener/internal/types"
)

// DefaultConcurrency is the number of documents screened in parallel when none is configured.
const DefaultConcurrency = 4

// Document is an uploaded resume file.
type Document struct {
	Filename string
	Data     []byte
}

// ProgressEvent represents a progress update during batch screening
type ProgressEvent struct {
	Index    int                   `json:"index"`
	Total    int                   `json:"total"`
	Filename string                `json:"filename"`
	Report   *types.AnalysisReport `json:"report,omitempty"`
}

// ProgressCallback is called once per finished document. It may be called concurrently.
type ProgressCallback func(event ProgressEvent)

// Screener runs extraction and matching for one or many resumes.
type Screener struct {
	matcher     *skills.Matcher
	logger      *zap.Logger
	concurrency int
	onProgress  ProgressCallback
}

// Option configures a Screener.
type Option func(*Screener)

// WithConcurrency bounds how many documents are processed at once.
func WithConcurrency(n int) Option {
	return func(s *Screener) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithProgress registers a per-document progress callback.
func WithProgress(cb ProgressCallback) Option {
	return func(s *Screener) {
		s.onProgress = cb
	}
}

// NewScreener creates a Screener around a configured matcher.
func NewScreener(matcher *skills.Matcher, log *zap.Logger, opts ...Option) *Screener {
	s := &Screener{
		matcher:     matcher,
		logger:      logger.OrNop(log),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Matcher returns the screener's matcher.
func (s *Screener) Matcher() *skills.Matcher {
	return s.matcher
}

// ScreenText scores already-extracted text against domain. An unknown domain
// yields an empty, zero-score report with the closest known domain as a suggestion.
func (s *Screener) ScreenText(filename, text, domain string) types.AnalysisReport {
	opts := s.matcher.Options()
	result := s.matcher.Analyze(text, domain)

	report := types.AnalysisReport{
		Filename:         filename,
		Domain:           result.Domain,
		Score:            result.Score,
		Matched:          result.Matched,
		Missing:          result.Missing,
		Mode:             string(result.Mode),
		Threshold:        opts.Threshold,
		ContentHash:      ingestion.ContentHash(text),
		ExtractionFailed: ingestion.IsFailure(text),
	}
	if result.Domain != "" && !s.matcher.Vocabulary().Has(result.Domain) {
		report.Suggestion = s.matcher.Vocabulary().Suggest(result.Domain)
	}
	return report
}

// ScreenDocument extracts text from doc and screens it. Extraction failures are
// scored like any other text and flagged on the report.
func (s *Screener) ScreenDocument(doc Document, domain string) types.AnalysisReport {
	text := ingestion.Extract(doc.Filename, doc.Data)
	report := s.ScreenText(doc.Filename, text, domain)
	if report.ExtractionFailed {
		logger.WithDocument(s.logger, doc.Filename, domain).Warn("text extraction failed", zap.String("reason", text))
	}
	return report
}

// ScreenBatch screens every document concurrently. Reports come back in input
// order; only cancellation of ctx produces an error.
func (s *Screener) ScreenBatch(ctx context.Context, docs []Document, domain string) ([]types.AnalysisReport, error) {
	reports := make([]types.AnalysisReport, len(docs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			reports[i] = s.ScreenDocument(doc, domain)
			if s.onProgress != nil {
				s.onProgress(ProgressEvent{Index: i, Total: len(docs), Filename: doc.Filename, Report: &reports[i]})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screening cancelled: %w", err)
	}

	s.logger.Debug("batch screened",
		zap.Int("documents", len(docs)),
		zap.String(logger.FieldDomain, domain),
	)
	return reports, nil
}
