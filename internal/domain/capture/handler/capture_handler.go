// Package handler exposes the capture service over JSON HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eric1207cvb/expense-capture/internal/domain/capture"
)

const maxBodyBytes = 16 << 10

// CaptureHandler serves capture requests.
type CaptureHandler struct {
	svc    *capture.Service
	logger *slog.Logger
}

// NewCaptureHandler constructs a new handler.
func NewCaptureHandler(svc *capture.Service, logger *slog.Logger) *CaptureHandler {
	return &CaptureHandler{svc: svc, logger: logger}
}

// CaptureRequest is the body of POST /v1/capture.
type CaptureRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type categoriesResponse struct {
	Categories []capture.Category `json:"categories"`
}

// Register mounts the handler's routes on mux.
func (h *CaptureHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/capture", h.Capture)
	mux.HandleFunc("GET /v1/categories", h.Categories)
	mux.HandleFunc("GET /healthz", h.Health)
}

// Capture parses the request text. An optional ?category= query keeps only
// records of the closest matching category.
func (h *CaptureHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req CaptureRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	var only capture.Category
	if q := r.URL.Query().Get("category"); q != "" {
		category, ok := capture.LookupCategory(q)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown category"})
			return
		}
		only = category
	}

	result, err := h.svc.Capture(r.Context(), req.Text)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusRequestTimeout
		}
		h.logger.Warn("capture failed", slog.Any("error", err))
		writeJSON(w, status, errorResponse{Error: "capture failed"})
		return
	}

	if only != "" {
		result.Records = filterCategory(result.Records, only)
	}

	writeJSON(w, http.StatusOK, result)
}

// Categories lists the category vocabulary.
func (h *CaptureHandler) Categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: capture.Categories()})
}

// Health is a liveness probe.
func (h *CaptureHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func filterCategory(records []capture.Record, category capture.Category) []capture.Record {
	out := make([]capture.Record, 0, len(records))
	for _, r := range records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
