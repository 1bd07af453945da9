package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SonakshiKundu06/FloatChat/internal/service/chat"
)

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Answer  string           `json:"answer"`
	Sources []map[string]any `json:"sources"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	service *chat.Service
	timeout time.Duration
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	answer, err := h.service.Ask(ctx, req.Query)
	if err != nil {
		if len(strings.TrimSpace(req.Query)) == 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		slog.ErrorContext(ctx, "chat request failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"})
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:  answer.Answer,
		Sources: sources,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
