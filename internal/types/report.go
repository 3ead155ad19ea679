package types

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisReport is the screening outcome for one resume.
type AnalysisReport struct {
	Filename  string   `json:"filename"`
	Domain    string   `json:"domain"`
	Score     float64  `json:"score"`
	Matched   []string `json:"matched"`
	Missing   []string `json:"missing"`
	Mode      string   `json:"mode"`
	Threshold float64  `json:"threshold"`
	// ContentHash is the SHA-256 of the extracted text, for spotting duplicate uploads.
	ContentHash string `json:"content_hash,omitempty"`
	// ExtractionFailed marks reports scored against an extraction failure message.
	ExtractionFailed bool `json:"extraction_failed,omitempty"`
	// Suggestion names a known domain when the requested one does not exist.
	Suggestion string `json:"suggestion,omitempty"`
}

// HistoryRecord is one entry in a user's append-only screening history.
type HistoryRecord struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Domain    string    `json:"domain"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// RankedResume is a resume ordered by embedding similarity to a job description.
type RankedResume struct {
	Rank       int     `json:"rank"`
	Filename   string  `json:"filename"`
	Similarity float64 `json:"similarity"`
	// Percent is Similarity*100 rounded to two decimals.
	Percent float64 `json:"percent"`
}

// AnalyzeTextRequest asks for a single already-extracted resume to be screened.
type AnalyzeTextRequest struct {
	Text         string   `json:"text" validate:"required"`
	Filename     string   `json:"filename,omitempty"`
	Domain       string   `json:"domain,omitempty"`
	Threshold    *float64 `json:"threshold,omitempty" validate:"omitempty,min=0,max=100"`
	Mode         string   `json:"mode,omitempty" validate:"omitempty,oneof=weighted unweighted"`
	DetectDomain *bool    `json:"detect_domain,omitempty"`
}

// Validate validates the AnalyzeTextRequest using the validator.
func (r *AnalyzeTextRequest) Validate() error {
	return validate.Struct(r)
}

// DomainSummary describes one domain of the active vocabulary.
type DomainSummary struct {
	Name        string       `json:"name"`
	TotalWeight int          `json:"total_weight"`
	Skills      []SkillEntry `json:"skills"`
}

// SkillEntry is a weighted skill with its accepted surface forms.
type SkillEntry struct {
	Name     string   `json:"name"`
	Weight   int      `json:"weight"`
	Synonyms []string `json:"synonyms,omitempty"`
}

// RewriteRequest asks for experience text to be improved.
type RewriteRequest struct {
	Text string `json:"text" validate:"required"`
}

// Validate validates the RewriteRequest using the validator.
func (r *RewriteRequest) Validate() error {
	return validate.Struct(r)
}

// RewriteResponse carries rewritten text, or the original with a diagnostic.
type RewriteResponse struct {
	Text       string `json:"text"`
	Enhanced   bool   `json:"enhanced"`
	Diagnostic string `json:"diagnostic,omitempty"`
}
