package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/On-Jun9/MetaSpy/internal/pipeline"
	"github.com/On-Jun9/MetaSpy/internal/report"
	"github.com/On-Jun9/MetaSpy/internal/scanner"
	"github.com/On-Jun9/MetaSpy/pkg/types"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type APIErrorResponse struct {
	Message string `json:"message"`
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIErrorResponse{Message: message})
}

func writeValidationError(w http.ResponseWriter, field, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ValidationError{
		Field:   field,
		Message: message,
	})
}

type AnalyzeRequest struct {
	Paths     []string `json:"paths"`
	Format    string   `json:"format"`
	Recursive bool     `json:"recursive"`
}

// RunIDHeader carries the run identifier of an analyze response.
const RunIDHeader = "X-MetaSpy-Run-ID"

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(req.Paths) == 0 {
		writeValidationError(w, "paths", "at least one path is required")
		return
	}
	mode, ok := types.ParseOutputMode(req.Format)
	if !ok {
		writeValidationError(w, "format", fmt.Sprintf("unsupported format %q (use print, txt, csv or json)", req.Format))
		return
	}

	if !s.runMu.TryLock() {
		writeAPIError(w, http.StatusConflict, "analysis already running")
		return
	}
	defer s.runMu.Unlock()

	recursive := req.Recursive || s.cfg.Recursive
	paths, err := scanner.New(s.extractor.SupportedExtensions(), recursive).Expand(req.Paths)
	if err != nil {
		s.logger.Error("directory scan incomplete", err)
	}

	p := pipeline.NewWithExtractor(s.cfg, s.logger, s.extractor, s.cache)
	p.SetProgressCallback(s.broadcastProgress)
	rep, summary := p.Run(r.Context(), paths)

	var buf bytes.Buffer
	if err := report.Render(&buf, mode, rep); err != nil {
		if errors.Is(err, report.ErrNoData) {
			writeAPIError(w, http.StatusUnprocessableEntity, "No data to write.")
			return
		}
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", report.ContentType(mode))
	w.Header().Set(RunIDHeader, summary.RunID)
	w.Write(buf.Bytes())
}

type FormatsResponse struct {
	Extensions []string `json:"extensions"`
	Outputs    []string `json:"outputs"`
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(FormatsResponse{
		Extensions: s.extractor.SupportedExtensions(),
		Outputs: []string{
			string(types.OutputPrint),
			string(types.OutputText),
			string(types.OutputCSV),
			string(types.OutputJSON),
		},
	})
}

func (s *Server) broadcastJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.hub.broadcast <- data
}

func (s *Server) broadcastProgress(update pipeline.ProgressUpdate) {
	s.broadcastJSON(update)
}

// Version handler

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": s.version})
}
