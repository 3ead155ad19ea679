package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/ranking"
	"github.com/jonathan/resume-screener/internal/rendering"
	"github.com/jonathan/resume-screener/internal/schemas"
	"github.com/jonathan/resume-screener/internal/server/middleware"
	"github.com/jonathan/resume-screener/internal/types"
)

// handleDomains lists the vocabulary's domains with skills and weights.
//
// @Summary List domains
// @Tags vocabulary
// @Produce json
// @Success 200 {array} types.DomainSummary
// @Router /domains [get]
func (s *Server) handleDomains(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pipeline.DomainSummaries(s.screener.Matcher()))
}

// handleVocabularySchema serves the JSON schema vocabulary documents must satisfy.
//
// @Summary Vocabulary document schema
// @Tags vocabulary
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /vocabulary/schema [get]
func (s *Server) handleVocabularySchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(schemas.VocabularySchema()))
}

// handleRank orders resumes by embedding similarity to a job description.
//
// @Summary Rank resumes against a job description
// @Tags ranking
// @Accept multipart/form-data
// @Produce json
// @Param job_description formData string true "Job description text"
// @Param files formData file true "Resume files"
// @Success 200 {array} types.RankedResume
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /rank [post]
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	if s.embedder == nil {
		writeServiceError(w, &ErrUnavailable{Feature: "embedding model"})
		return
	}

	maxBytes := s.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	jobDescription := ingestion.CleanText(r.FormValue("job_description"))
	if jobDescription == "" {
		writeServiceError(w, &ErrValidation{Field: "job_description", Message: "required"})
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}
	docs, err := readUploads(files)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	candidates := make([]ranking.Candidate, len(docs))
	for i, doc := range docs {
		candidates[i] = ranking.Candidate{Filename: doc.Filename, Text: ingestion.Extract(doc.Filename, doc.Data)}
	}

	ranked, err := ranking.Rank(r.Context(), s.embedder, jobDescription, candidates, s.cfg.Matching.Concurrency)
	if err != nil {
		if errors.Is(err, ranking.ErrEmptyJobDescription) {
			writeServiceError(w, &ErrValidation{Field: "job_description", Message: "required"})
			return
		}
		s.logger.Warn("ranking failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "embedding request failed")
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

// handleRewrite improves experience text with the language model. Model
// problems come back as a diagnostic with the original text, never as an error.
//
// @Summary Rewrite experience text
// @Tags rewriting
// @Accept json
// @Produce json
// @Param request body types.RewriteRequest true "Text to rewrite"
// @Success 200 {object} types.RewriteResponse
// @Failure 400 {object} map[string]string
// @Router /rewrite [post]
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	var req types.RewriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result := s.rewriter.Enhance(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, types.RewriteResponse{
		Text:       result.Text,
		Enhanced:   result.Enhanced,
		Diagnostic: result.Diagnostic,
	})
}

// handleRender renders resume data through a template as an HTML preview or a PDF.
//
// @Summary Render a resume
// @Tags rendering
// @Accept json
// @Produce text/html
// @Produce application/pdf
// @Param request body types.RenderRequest true "Resume data, template and format"
// @Success 200 {string} string "Rendered document"
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /render [post]
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req types.RenderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	choice := req.Template
	if choice == "" {
		choice = s.cfg.Rendering.DefaultTemplate
	}
	html, err := rendering.RenderHTML(req.Resume, choice)
	if err != nil {
		var templateErr *rendering.TemplateError
		if errors.As(err, &templateErr) && templateErr.Cause == nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("template rendering failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render resume")
		return
	}

	if !strings.EqualFold(req.Format, "pdf") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(html))
		return
	}

	if s.pdf == nil {
		writeServiceError(w, &ErrUnavailable{Feature: "PDF rendering"})
		return
	}
	pdf, err := s.pdf.RenderPDF(r.Context(), html)
	if err != nil {
		s.logger.Error("PDF rendering failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// handleHistory returns the caller's screening history, most recent first.
//
// @Summary Screening history
// @Tags history
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum records (default 100)"
// @Success 200 {array} types.HistoryRecord
// @Failure 401 {object} map[string]string
// @Router /history [get]
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeServiceError(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := s.store.ListHistory(r.Context(), userID, limit)
	if err != nil {
		s.logger.Error("failed to list history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if records == nil {
		records = []types.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
