// Package api implements the autograde HTTP API.
// It grades result bundles posted inline, uploaded beforehand, or referenced in blob storage.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/autograde/autograde/internal/source"
	"github.com/autograde/autograde/pkg/scoring"
)

// Opener returns the store serving a bundle reference.
type Opener func(ctx context.Context, ref source.Ref) (source.BundleStore, error)

// Handler is the top-level API handler for the grading service.
type Handler struct {
	log      *zap.SugaredLogger
	grading  *scoring.Configuration
	cache    *BundleCache
	open     Opener
	maxBytes int64
}

// NewHandler creates a new API handler. grading is used for requests that do
// not carry their own configuration.
func NewHandler(log *zap.SugaredLogger, grading *scoring.Configuration, s3cfg source.S3Config, cache *BundleCache) *Handler {
	if cache == nil {
		cache = NewBundleCacheFromEnv()
	}
	if grading == nil {
		grading = &scoring.Configuration{}
	}
	return &Handler{
		log:     log,
		grading: grading,
		cache:   cache,
		open: func(ctx context.Context, ref source.Ref) (source.BundleStore, error) {
			return source.Open(ctx, ref, s3cfg)
		},
		maxBytes: 32 << 20,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/grade", h.handleGrade)
	mux.HandleFunc("POST /api/v1/bundles", h.handleUploadBundle)
	mux.HandleFunc("POST /api/v1/validate", h.handleValidate)
	mux.HandleFunc("GET /api/v1/defaults", h.handleDefaults)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scoring.DefaultConfiguration())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
