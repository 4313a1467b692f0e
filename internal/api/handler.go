package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openiap/openflow/internal/config"
	"github.com/openiap/openflow/internal/federation"
	"github.com/openiap/openflow/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// ConfigSource is the part of the settings store the handlers need.
type ConfigSource interface {
	Settings() config.Settings
	Reload()
}

// Handler wires the settings store and metadata storage into HTTP handlers.
type Handler struct {
	config  ConfigSource
	storage storage.Storage

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(cfg ConfigSource, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		config:  cfg,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Version:   strings.TrimSpace(h.config.Settings().Version),
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	_ = r
	writeJSON(w, http.StatusOK, h.config.Settings().Public())
}

func (h *Handler) handleReloadConfig(w http.ResponseWriter, r *http.Request) {
	_ = r
	h.config.Reload()

	resp := reloadResponse{
		Settings:   h.config.Settings().Public(),
		ReloadedAt: h.clock(),
		Message:    "Settings reloaded from environment",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	_ = r
	entry, err := h.storage.GetMetadata()
	if err != nil {
		if errors.Is(err, storage.ErrNotResolved) {
			writeError(w, http.StatusNotFound, "Not resolved", err.Error(), "Set saml_federation_metadata and wait for the service to fetch it")
			return
		}
		writeInternalError(w, err)
		return
	}

	resp := metadataResponse{
		Metadata:  entry.Metadata,
		UpdatedAt: entry.UpdatedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

type reloadResponse struct {
	Settings   config.PublicSettings `json:"settings"`
	ReloadedAt time.Time             `json:"reloadedAt"`
	Message    string                `json:"message,omitempty"`
}

type metadataResponse struct {
	Metadata  federation.Metadata `json:"metadata"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
