package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/domain/application"
	"github.com/caseconsulting/job-apply/internal/domain/upload"
	"github.com/caseconsulting/job-apply/internal/relay"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

const (
	msgSubmitted      = "Submission was successful"
	msgInternalError  = "Internal server error"
	msgInvalidBody    = "Invalid request body."
	msgFileNotAllowed = "File type not allowed"

	maxBodyBytes = 1 << 20
)

// Uploader issues direct-to-storage upload credentials
type Uploader interface {
	Authorize(ctx context.Context, path, contentType string) (upload.Credential, error)
}

// HandlerOption configures optional routes
type HandlerOption func(*Handler)

// WithUploader enables POST /upload/{path...}
func WithUploader(u Uploader) HandlerOption {
	return func(h *Handler) { h.uploads = u }
}

// WithRelayIngress enables POST /relay/records, publishing to p
func WithRelayIngress(p relay.Publisher) HandlerOption {
	return func(h *Handler) { h.relay = p }
}

// WithMCP mounts the operator tools at /mcp/stream
func WithMCP(mcp http.Handler) HandlerOption {
	return func(h *Handler) { h.mcp = mcp }
}

// Handler serves the public intake API
type Handler struct {
	intake  application.Service
	uploads Uploader
	relay   relay.Publisher
	mcp     http.Handler
	origin  string
	logger  *logging.Logger
}

func NewHandler(intake application.Service, origin string, logger *logging.Logger, opts ...HandlerOption) *Handler {
	if origin == "" {
		origin = "*"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	h := &Handler{intake: intake, origin: origin, logger: logger.Named("api")}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the HTTP router
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /apply", h.handleApply)
	mux.HandleFunc("OPTIONS /apply", h.handlePreflight)

	if h.uploads != nil {
		mux.HandleFunc("POST /upload/{path...}", h.handleUpload)
		mux.HandleFunc("OPTIONS /upload/{path...}", h.handlePreflight)
	}
	if h.relay != nil {
		mux.HandleFunc("POST /relay/records", h.handleRelayRecords)
	}
	if h.mcp != nil {
		mux.Handle("/mcp/stream", h.mcp)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	h.cors(w)

	var sub application.Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&sub); err != nil {
		h.logger.Info("rejected malformed submission", "err", err)
		intakeRequestsTotal.WithLabelValues("invalid").Inc()
		respondMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	id, err := h.intake.Submit(r.Context(), &sub)
	if err != nil {
		var verr application.ValidationError
		if errors.As(err, &verr) {
			intakeRequestsTotal.WithLabelValues("invalid").Inc()
			respondMessage(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.logger.Error("submission failed", "err", err)
		intakeRequestsTotal.WithLabelValues("error").Inc()
		respondMessage(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	intakeRequestsTotal.WithLabelValues("accepted").Inc()
	respondJSON(w, http.StatusOK, map[string]string{
		"id":      id,
		"message": msgSubmitted,
	})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	h.cors(w)

	path := r.PathValue("path")
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		respondMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	cred, err := h.uploads.Authorize(r.Context(), path, r.FormValue("contentType"))
	if err != nil {
		if errors.Is(err, upload.ErrContentTypeNotAllowed) {
			respondMessage(w, http.StatusUnsupportedMediaType, msgFileNotAllowed)
			return
		}
		h.logger.Error("upload authorization failed", "path", path, "err", err)
		respondMessage(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	respondJSON(w, http.StatusOK, cred)
}

type relayRequest struct {
	Records []map[string]any `json:"records"`
}

// handleRelayRecords accepts records from an external change stream. The
// response only acknowledges queuing.
func (h *Handler) handleRelayRecords(w http.ResponseWriter, r *http.Request) {
	var req relayRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	accepted := 0
	for _, raw := range req.Records {
		rec := domain.CleanRecord(raw)
		if rec.ID() == "" {
			h.logger.Warn("skipping relayed record without id")
			continue
		}
		if err := h.relay.Publish(r.Context(), rec); err != nil {
			h.logger.Error("failed to queue relayed record", "id", rec.ID(), "err", err)
			respondMessage(w, http.StatusServiceUnavailable, msgInternalError)
			return
		}
		accepted++
	}

	respondJSON(w, http.StatusAccepted, map[string]int{"accepted": accepted})
}

func (h *Handler) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	h.cors(w)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) cors(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", h.origin)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
