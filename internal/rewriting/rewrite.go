// Package rewriting improves resume experience text with a hosted language model.
// Rewriting is best-effort: failures return the original text with a diagnostic.
package rewriting

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/prompts"
)

// Diagnostics reported when the original text is returned unchanged.
const (
	DiagnosticNotConfigured = "AI rewriting is not configured"
	diagnosticFailedPrefix  = "AI rewrite failed: "
)

// Result is the outcome of one rewrite.
type Result struct {
	Text       string            `json:"text"`
	Enhanced   bool              `json:"enhanced"`
	Diagnostic string            `json:"diagnostic,omitempty"`
	Style      StyleChecksResult `json:"style"`
}

// Rewriter rewrites experience text. A nil client disables rewriting.
type Rewriter struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// NewRewriter creates a Rewriter that generates with the given model tier.
func NewRewriter(client llm.Client, tier llm.ModelTier, log *zap.Logger) *Rewriter {
	if tier == "" {
		tier = llm.TierStandard
	}
	return &Rewriter{client: client, tier: tier, logger: logger.OrNop(log)}
}

// Configured reports whether a model client is available.
func (r *Rewriter) Configured() bool {
	return r != nil && r.client != nil
}

// Enhance rewrites text. It never fails: empty input comes back unchanged,
// and a missing client or model error yields the original text with a diagnostic.
func (r *Rewriter) Enhance(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Text: text}
	}
	if !r.Configured() {
		return Result{Text: text, Diagnostic: DiagnosticNotConfigured, Style: CheckStyle(text)}
	}

	log := logger.WithModel(r.logger, "", r.client.GetModel(r.tier))
	prompt := prompts.Format(
		prompts.MustGet(prompts.RewritingFile, "enhance-experience"),
		map[string]string{"Text": text},
	)

	response, err := r.client.GenerateContent(ctx, prompt, r.tier)
	if err == nil {
		response = parseRewriteResponse(response)
		if response == "" {
			err = llm.ErrEmptyResponse
		}
	}
	if err != nil {
		log.Warn("rewrite failed, returning original text", zap.Error(err))
		return Result{Text: text, Diagnostic: failureDiagnostic(err), Style: CheckStyle(text)}
	}

	style := CheckStyle(response)
	log.Debug("rewrite completed",
		zap.Int("bullets", style.Bullets),
		zap.Int("strong_verb", style.StrongVerb),
		zap.Int("quantified", style.Quantified),
	)
	return Result{Text: response, Enhanced: true, Style: style}
}

func failureDiagnostic(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return diagnosticFailedPrefix + "request timed out"
	}
	return diagnosticFailedPrefix + err.Error()
}

// parseRewriteResponse strips code fences and unwraps a {"text": ...} object
// some models return even when asked for plain text.
func parseRewriteResponse(responseText string) string {
	text := llm.StripCodeFence(responseText)

	var wrapped struct {
		Text string `json:"text"`
	}
	if strings.HasPrefix(text, "{") && json.Unmarshal([]byte(text), &wrapped) == nil && wrapped.Text != "" {
		return strings.TrimSpace(wrapped.Text)
	}
	return text
}
