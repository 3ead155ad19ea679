package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/export"
	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/server/middleware"
	"github.com/jonathan/resume-screener/internal/types"
)

const defaultTextFilename = "resume.txt"

// handleAnalyze screens uploaded resume files.
//
// @Summary Screen resume files
// @Description Extracts text from each uploaded file and scores it against a domain.
// @Description Guests get a limited number of free analyses; signed-in requests are saved to history.
// @Tags screening
// @Accept multipart/form-data
// @Produce json
// @Produce text/csv
// @Param files formData file true "Resume files (PDF, DOCX, HTML, TXT)"
// @Param domain formData string false "Domain name"
// @Param threshold formData number false "Fuzzy match threshold (0-100)"
// @Param mode formData string false "weighted or unweighted"
// @Param detect_domain formData boolean false "Pick the best domain when none is given"
// @Param format query string false "csv for a CSV export"
// @Success 200 {array} types.AnalysisReport
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /analyze [post]
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d MB", s.cfg.Server.MaxUploadMB))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	overrides, err := overridesFromForm(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	screener, err := s.screener.WithOverrides(overrides)
	if err != nil {
		writeServiceError(w, &ErrValidation{Field: "options", Message: err.Error()})
		return
	}
	domain := strings.TrimSpace(r.FormValue("domain"))
	if err := requireDomain(domain, screener); err != nil {
		writeServiceError(w, err)
		return
	}

	docs, err := readUploads(files)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	userID, authenticated, ok := s.admit(w, r)
	if !ok {
		return
	}

	reports, err := screener.ScreenBatch(r.Context(), docs, domain)
	if err != nil {
		if !authenticated {
			s.guests.Refund(extractClientID(r))
		}
		s.logger.Warn("batch screening aborted", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "screening was cancelled")
		return
	}
	if authenticated {
		s.recordHistory(r, userID, reports)
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, reports)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// handleAnalyzeText screens one already-extracted resume.
//
// @Summary Screen resume text
// @Tags screening
// @Accept json
// @Produce json
// @Param request body types.AnalyzeTextRequest true "Resume text and options"
// @Success 200 {object} types.AnalysisReport
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /analyze/text [post]
func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())

	var req types.AnalyzeTextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	screener, err := s.screener.WithOverrides(pipeline.Overrides{
		Threshold:    req.Threshold,
		Mode:         req.Mode,
		DetectDomain: req.DetectDomain,
	})
	if err != nil {
		writeServiceError(w, &ErrValidation{Field: "options", Message: err.Error()})
		return
	}
	domain := strings.TrimSpace(req.Domain)
	if err := requireDomain(domain, screener); err != nil {
		writeServiceError(w, err)
		return
	}

	userID, authenticated, ok := s.admit(w, r)
	if !ok {
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = defaultTextFilename
	}
	report := screener.ScreenText(filename, ingestion.CleanText(req.Text), domain)
	if authenticated {
		s.recordHistory(r, userID, []types.AnalysisReport{report})
	}
	writeJSON(w, http.StatusOK, report)
}

// handleExport converts reports to CSV.
//
// @Summary Export reports as CSV
// @Tags screening
// @Accept json
// @Produce text/csv
// @Param reports body []types.AnalysisReport true "Reports to export"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} map[string]string
// @Router /export [post]
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())

	var reports []types.AnalysisReport
	if err := decodeJSON(r, &reports); err != nil {
		writeServiceError(w, err)
		return
	}
	writeCSV(w, reports)
}

// admit lets authenticated users through and spends one guest analysis otherwise.
// It writes the 401 itself and returns ok=false when the guest is out of analyses.
func (s *Server) admit(w http.ResponseWriter, r *http.Request) (userID uuid.UUID, authenticated, ok bool) {
	if id, err := middleware.GetUserID(r); err == nil {
		return id, true, true
	}
	if !s.guests.Take(extractClientID(r)) {
		writeServiceError(w, &ErrLoginRequired{})
		return uuid.Nil, false, false
	}
	return uuid.Nil, false, true
}

// recordHistory appends one history entry per report. Failures are logged, never returned.
func (s *Server) recordHistory(r *http.Request, userID uuid.UUID, reports []types.AnalysisReport) {
	if s.store == nil {
		return
	}
	log := logger.WithFields(s.logger, zap.String(logger.FieldUserID, userID.String()))
	for _, report := range reports {
		if _, err := s.store.AppendHistory(r.Context(), userID, report.Domain, report.Score); err != nil {
			logger.WithDocument(log, report.Filename, report.Domain).Warn("failed to save history", zap.Error(err))
		}
	}
}

// overridesFromForm reads threshold, mode and detect_domain form values.
func overridesFromForm(r *http.Request) (pipeline.Overrides, error) {
	var o pipeline.Overrides
	if raw := strings.TrimSpace(r.FormValue("threshold")); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return o, &ErrValidation{Field: "threshold", Message: "must be a number"}
		}
		o.Threshold = &threshold
	}
	o.Mode = strings.TrimSpace(r.FormValue("mode"))
	if raw := strings.TrimSpace(r.FormValue("detect_domain")); raw != "" {
		detect, err := strconv.ParseBool(raw)
		if err != nil {
			return o, &ErrValidation{Field: "detect_domain", Message: "must be true or false"}
		}
		o.DetectDomain = &detect
	}
	return o, nil
}

// requireDomain rejects requests that name no domain while detection is off.
func requireDomain(domain string, screener *pipeline.Screener) error {
	if domain == "" && !screener.Matcher().Options().DetectDomain {
		return &ErrValidation{Field: "domain", Message: "required unless detect_domain is set"}
	}
	return nil
}

// readUploads reads every uploaded file into memory.
func readUploads(files []*multipart.FileHeader) ([]pipeline.Document, error) {
	docs := make([]pipeline.Document, 0, len(files))
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			return nil, &ErrValidation{Field: "files", Message: fmt.Sprintf("cannot read %s", fh.Filename)}
		}
		docs = append(docs, pipeline.Document{Filename: fh.Filename, Data: data})
	}
	return docs, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeCSV(w http.ResponseWriter, reports []types.AnalysisReport) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, reports); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build CSV export")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="analysis.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
