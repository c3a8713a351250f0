package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"fintrack/internal/domain/ingest"
	"fintrack/internal/shared/middleware"
)

const defaultListLimit = 50

// Ingester runs the pipeline over one raw message.
type Ingester interface {
	Ingest(ctx context.Context, raw string) (*ingest.Result, error)
}

// LogReader serves the persisted ingestion trace.
type LogReader interface {
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*ingest.LogRecord, error)
}

// AlertReader serves persisted fraud alerts.
type AlertReader interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]*ingest.AlertRecord, error)
}

type IngestHandler struct {
	pipeline Ingester
	logs     LogReader
	alerts   AlertReader
	log      zerolog.Logger
}

func NewIngestHandler(pipeline Ingester, logs LogReader, alerts AlertReader, log zerolog.Logger) *IngestHandler {
	return &IngestHandler{pipeline: pipeline, logs: logs, alerts: alerts, log: log}
}

type ingestRequest struct {
	Text string `json:"text"`
}

// IngestMessage pushes one raw bank message through the pipeline.
func (h *IngestHandler) IngestMessage(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "Message text is required")
		return
	}

	result, err := h.pipeline.Ingest(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, ingest.ErrNoUsers) {
			respondError(w, http.StatusConflict, "No users to attribute the message to")
			return
		}
		h.log.Error().Err(err).Msg("message ingestion failed")
		respondError(w, http.StatusInternalServerError, "Failed to ingest message")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// ListMessages returns the authenticated user's recent message logs.
func (h *IngestHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	records, err := h.logs.ListRecentByUser(r.Context(), userID, listLimit(r))
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to list message logs")
		respondError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}
	if records == nil {
		records = []*ingest.LogRecord{}
	}

	respondJSON(w, http.StatusOK, records)
}

// ListAlerts returns the authenticated user's fraud alerts.
func (h *IngestHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	alerts, err := h.alerts.ListByUser(r.Context(), userID, listLimit(r))
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to list fraud alerts")
		respondError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}
	if alerts == nil {
		alerts = []*ingest.AlertRecord{}
	}

	respondJSON(w, http.StatusOK, alerts)
}

func listLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			return n
		}
	}
	return defaultListLimit
}
