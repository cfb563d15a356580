package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/survea/api/internal/core/domain"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError maps the domain error taxonomy onto HTTP statuses. Storage and
// transport failures are logged and surfaced as a generic 500, never masked as
// business-logic rejections.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSurveyID), errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrSurveyNotFound), errors.Is(err, domain.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyResponded):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrNotEligible), errors.Is(err, domain.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, domain.ErrInternal.Error(), http.StatusInternalServerError)
	}
}
