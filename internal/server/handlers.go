package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/db"
	"github.com/jonathan/resume-fit/internal/resume"
	"github.com/jonathan/resume-fit/internal/types"
	"go.uber.org/zap"
)

// SubmitResponse is the body returned by POST /submit-application.
type SubmitResponse struct {
	Message string               `json:"message"`
	Data    types.AnalysisResult `json:"data"`
	// ApplicationID is set when the submission was persisted.
	ApplicationID string `json:"application_id,omitempty"`
}

// ExtractJobRequest is the body accepted by POST /extract-job.
type ExtractJobRequest struct {
	URL string `json:"url"`
}

var errUploadTooLarge = errors.New("upload exceeds size limit")

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// handleSubmitApplication accepts a PDF resume with job context, scores the fit and records the application.
func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Resume file is required")
		return
	}
	defer func() { _ = file.Close() }()

	if strings.ToLower(filepath.Ext(header.Filename)) != ".pdf" {
		s.errorResponse(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	jobTitle := strings.TrimSpace(r.FormValue("job_title"))
	jobDescription := strings.TrimSpace(r.FormValue("job_description"))
	jobURL := strings.TrimSpace(r.FormValue("job_url"))

	if jobURL == "" && jobDescription == "" {
		s.errorResponse(w, http.StatusBadRequest, "Either job description or job URL is required")
		return
	}
	if jobURL != "" {
		if err := analysis.ValidateJobURL(jobURL); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid job URL format")
			return
		}
	}

	data, err := readAll(file, s.maxUploadBytes)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Resume file is too large")
		return
	}

	path, err := s.saveUpload(header.Filename, data)
	if err != nil {
		s.logger.Error("failed to save upload", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	resumeText, err := s.extractText(resume.ContentTypePDF, data)
	if err != nil {
		s.handleError(w, fmt.Errorf("failed to extract resume text: %w", err))
		return
	}

	req := types.AnalysisRequest{
		ResumeText:     resumeText,
		JobURL:         jobURL,
		JobTitle:       jobTitle,
		JobDescription: jobDescription,
	}
	if jobURL != "" {
		// The URL is authoritative when both are submitted.
		req.JobTitle, req.JobDescription = "", ""
	}

	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.handleError(w, err)
		return
	}

	resp := SubmitResponse{
		Message: "Application submitted successfully",
		Data:    *result,
	}

	if s.store != nil {
		app, err := s.store.SaveApplication(r.Context(), &db.ApplicationCreateInput{
			JobTitle:       jobTitle,
			JobURL:         jobURL,
			JobDescription: jobDescription,
			ResumeFilePath: path,
			FitScore:       result.FitScore,
			Insights:       result.Insights,
		})
		if err != nil {
			s.logger.Error("failed to save application", zap.Error(err))
		} else {
			resp.ApplicationID = app.ID.String()
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleAnalyze scores a resume supplied as text against a job URL or description.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalysisRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := analysis.ValidateRequest(req); err != nil {
		s.handleError(w, err)
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleExtractJob returns the structured record for a job posting URL.
func (s *Server) handleExtractJob(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		s.handleError(w, analysis.ErrExtractorUnavailable)
		return
	}

	var req ExtractJobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if err := analysis.ValidateJobURL(req.URL); err != nil {
		s.handleError(w, err)
		return
	}

	job, err := s.extractor.Extract(r.Context(), req.URL)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleGetApplication returns one stored application.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Database not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

// handleDeleteApplication removes a stored application and its uploaded resume.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Database not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.handleError(w, err)
		return
	}

	deleted, err := s.store.DeleteApplication(r.Context(), id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	if app != nil {
		s.removeUpload(app.ResumeFilePath)
	}

	w.WriteHeader(http.StatusNoContent)
}

// removeUpload deletes a stored resume. Paths outside the upload directory are left alone.
func (s *Server) removeUpload(path string) {
	if path == "" {
		return
	}
	rel, err := filepath.Rel(s.uploadDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove uploaded resume", zap.String("path", path), zap.Error(err))
	}
}

// handleListApplications returns stored applications, newest first.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Database not configured")
		return
	}

	limit, err := queryInt(r, "limit", db.DefaultListLimit)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	apps, err := s.store.ListApplications(r.Context(), limit, offset)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if apps == nil {
		apps = []db.Application{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applications": apps,
		"count":        len(apps),
	})
}

// handleError logs err and writes the mapped status with a client-safe message.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		s.logger.Info("request rejected", zap.Int("status", status), zap.Error(err))
	}
	s.errorResponse(w, status, publicMessage(err, status))
}

// saveUpload writes data under the upload directory with a unique prefix and returns the path.
func (s *Server) saveUpload(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(s.uploadDir, uuid.NewString()+"_"+sanitizeFilename(name))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path, nil
}

// sanitizeFilename strips directories and replaces characters outside [A-Za-z0-9._-].
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeFileChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "resume.pdf"
	}
	return base
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer")
	}
	return n, nil
}

// readAll reads at most limit bytes from r.
func readAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errUploadTooLarge
	}
	return data, nil
}
