package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/survea/api/internal/adapters/broadcast"
	"github.com/survea/api/internal/core/ports"
)

type ResultsHandler struct {
	analytics ports.AnalyticsService
	hub       *broadcast.Hub
}

func NewResultsHandler(analytics ports.AnalyticsService, hub *broadcast.Hub) *ResultsHandler {
	return &ResultsHandler{
		analytics: analytics,
		hub:       hub,
	}
}

func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.analytics.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// StreamResults serves the live result feed as server-sent events. The viewer
// receives the current snapshot on connect, then a fresh one after every
// accepted submission. The subscription ends with the connection.
func (h *ResultsHandler) StreamResults(w http.ResponseWriter, r *http.Request) {
	surveyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid survey id", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	snapshot, err := h.analytics.Snapshot(r.Context(), surveyID.String())
	if err != nil {
		respondError(w, err)
		return
	}

	sub := h.hub.Subscribe(surveyID.String())
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, snapshot); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeEvent(w, snapshot); err != nil {
				slog.Debug("result stream closed", "survey_id", surveyID, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
