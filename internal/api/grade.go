package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/autograde/autograde/internal/autograder"
	"github.com/autograde/autograde/internal/source"
	"github.com/autograde/autograde/pkg/report"
	"github.com/autograde/autograde/pkg/scoring"
	"github.com/autograde/autograde/pkg/surface"
)

// gradeRequest is the JSON body for POST /api/v1/grade. Exactly one of
// Bundle, BundleID and BundleRef must be set.
type gradeRequest struct {
	Configuration *scoring.Configuration `json:"configuration"`
	Bundle        *report.Bundle         `json:"bundle"`
	BundleID      string                 `json:"bundle_id"`
	BundleRef     string                 `json:"bundle_ref"`
	InitialGrade  int                    `json:"initial_grade"`
}

type gradeResponse struct {
	*autograder.Result
	Conclusion string   `json:"conclusion"`
	Summary    string   `json:"summary"`
	Console    []string `json:"console"`
}

type gradeErrorResponse struct {
	Error   string   `json:"error"`
	Console []string `json:"console,omitempty"`
}

// requestError carries the HTTP status a failed request should be answered with.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func (h *Handler) handleGrade(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req gradeRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cfg := h.grading
	if req.Configuration != nil {
		if err := req.Configuration.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cfg = req.Configuration
	}

	bundle, err := h.resolveBundle(r.Context(), req)
	if err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			writeError(w, reqErr.status, reqErr.msg)
			return
		}
		h.log.Errorw("loading bundle failed", "ref", req.BundleRef, "error", err)
		writeError(w, http.StatusBadGateway, "failed to load bundle: "+err.Error())
		return
	}

	var console bytes.Buffer
	result, err := autograder.New(&console, h.log).WithInitialGrade(req.InitialGrade).Grade(cfg, bundle)
	if err != nil {
		status := http.StatusInternalServerError
		var noResults *scoring.NoResultsError
		switch {
		case errors.As(err, &noResults):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, scoring.ErrNegativeCount), errors.Is(err, scoring.ErrCountTooLarge):
			status = http.StatusBadRequest
		}
		writeJSON(w, status, gradeErrorResponse{Error: err.Error(), Console: consoleLines(console.String())})
		return
	}

	summary := (&surface.MarkdownRenderer{}).BuildSummary(result.Score)
	writeJSON(w, http.StatusOK, gradeResponse{
		Result:     result,
		Conclusion: summary.Conclusion,
		Summary:    summary.Summary,
		Console:    consoleLines(console.String()),
	})
}

// handleUploadBundle handles POST /api/v1/bundles: it decodes a JSON, YAML or
// zstd-compressed bundle and keeps it for a later grade request.
func (h *Handler) handleUploadBundle(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bundle, err := report.DecodeLimit(body, h.maxBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bundle: "+err.Error())
		return
	}

	bundleID := uuid.New().String()
	h.cache.Put(uploadKey(bundleID), bundle)

	runs := make(map[scoring.Category]int)
	for _, c := range scoring.Categories() {
		runs[c] = bundle.Runs(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{"bundle_id": bundleID, "runs": runs})
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, err := scoring.ParseConfiguration(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	skipped := []scoring.Category{}
	for _, c := range scoring.Categories() {
		if !cfg.IsConfigured(c) {
			skipped = append(skipped, c)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": cfg.Configured(),
		"skipped":    skipped,
		"max_score":  cfg.MaxScore(),
	})
}

func uploadKey(id string) string { return "upload:" + id }

func (h *Handler) resolveBundle(ctx context.Context, req gradeRequest) (*report.Bundle, error) {
	set := 0
	for _, v := range []bool{req.Bundle != nil, req.BundleID != "", req.BundleRef != ""} {
		if v {
			set++
		}
	}
	if set != 1 {
		return nil, badRequest("exactly one of bundle, bundle_id and bundle_ref is required")
	}

	switch {
	case req.Bundle != nil:
		if err := req.Bundle.Validate(); err != nil {
			return nil, badRequest("invalid bundle: %v", err)
		}
		return req.Bundle, nil

	case req.BundleID != "":
		b := h.cache.Get(uploadKey(req.BundleID))
		if b == nil {
			return nil, &requestError{status: http.StatusNotFound, msg: "bundle " + req.BundleID + " not found"}
		}
		return b, nil

	default:
		ref, err := source.ParseRef(req.BundleRef)
		if err != nil {
			return nil, badRequest("%v", err)
		}
		if ref.IsLocal() {
			return nil, badRequest("bundle_ref must be an s3:// or gs:// reference")
		}
		if b := h.cache.Get(ref.String()); b != nil {
			return b, nil
		}
		store, err := h.open(ctx, ref)
		if err != nil {
			return nil, err
		}
		b, err := source.Fetch(ctx, store, ref)
		if err != nil {
			return nil, err
		}
		h.cache.Put(ref.String(), b)
		return b, nil
	}
}

// readBody reads the request body, undoing gzip or zstd content encoding.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	var body io.Reader = http.MaxBytesReader(w, r.Body, h.maxBytes)
	switch r.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip body: %w", err)
		}
		defer gz.Close()
		body = gz
	case "zstd":
		zr, err := zstd.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("invalid zstd body: %w", err)
		}
		defer zr.Close()
		body = zr
	}

	data, err := io.ReadAll(io.LimitReader(body, h.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", h.maxBytes)
	}
	return data, nil
}

func consoleLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
