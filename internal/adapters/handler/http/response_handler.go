package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/survea/api/internal/core/domain"
	"github.com/survea/api/internal/core/ports"
)

type ResponseHandler struct {
	service ports.ResponseService
}

func NewResponseHandler(service ports.ResponseService) *ResponseHandler {
	return &ResponseHandler{
		service: service,
	}
}

type answerRequest struct {
	QuestionID uuid.UUID `json:"question_id"`
	Value      string    `json:"value"`
}

type submitRequest struct {
	Answers []answerRequest `json:"answers"`
}

func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	surveyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid survey id", http.StatusBadRequest)
		return
	}

	user, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := ports.SubmitInput{
		SurveyID:     surveyID,
		RespondentID: user.ID,
	}
	for _, a := range req.Answers {
		input.Answers = append(input.Answers, domain.Answer{
			QuestionID: a.QuestionID,
			Value:      a.Value,
		})
	}

	response, err := h.service.Submit(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, response)
}

func (h *ResponseHandler) ListMyResponses(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	responses, err := h.service.ListByRespondent(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, responses)
}
