package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/survea/api/internal/core/domain"
	"github.com/survea/api/internal/core/ports"
)

type SurveyHandler struct {
	surveys   ports.SurveyService
	responses ports.ResponseService
}

func NewSurveyHandler(surveys ports.SurveyService, responses ports.ResponseService) *SurveyHandler {
	return &SurveyHandler{
		surveys:   surveys,
		responses: responses,
	}
}

type questionRequest struct {
	Text     string   `json:"text"`
	Kind     string   `json:"kind"`
	Options  []string `json:"options,omitempty"`
	ScaleMin int      `json:"scale_min,omitempty"`
	ScaleMax int      `json:"scale_max,omitempty"`
}

type targetingRequest struct {
	AgeMin      *int     `json:"age_min,omitempty"`
	AgeMax      *int     `json:"age_max,omitempty"`
	Departments []string `json:"departments,omitempty"`
	Occupations []string `json:"occupations,omitempty"`
}

type surveyRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Kind        string            `json:"kind"`
	Questions   []questionRequest `json:"questions"`
	Targeting   targetingRequest  `json:"targeting"`
}

func (req surveyRequest) toInput() ports.SurveyInput {
	input := ports.SurveyInput{
		Title:       req.Title,
		Description: req.Description,
		Kind:        domain.QuestionKind(req.Kind),
		Targeting: domain.TargetingRule{
			AgeMin:      req.Targeting.AgeMin,
			AgeMax:      req.Targeting.AgeMax,
			Departments: req.Targeting.Departments,
			Occupations: req.Targeting.Occupations,
		},
	}
	for _, q := range req.Questions {
		input.Questions = append(input.Questions, ports.QuestionInput{
			Text:     q.Text,
			Kind:     domain.QuestionKind(q.Kind),
			Options:  q.Options,
			ScaleMin: q.ScaleMin,
			ScaleMax: q.ScaleMax,
		})
	}
	return input
}

func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	var req surveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	survey, err := h.surveys.Create(r.Context(), user, req.toInput())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, survey)
}

func (h *SurveyHandler) UpdateSurvey(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	var req surveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	survey, err := h.surveys.Update(r.Context(), user, chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, survey)
}

type surveyDetailResponse struct {
	*domain.Survey
	HasResponded bool `json:"has_responded"`
}

func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	survey, err := h.surveys.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	responded, err := h.responses.HasResponded(r.Context(), survey.ID, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, surveyDetailResponse{Survey: survey, HasResponded: responded})
}

// ListSurveys returns the surveys the caller is eligible for, newest first,
// optionally narrowed by a case-insensitive title search.
func (h *SurveyHandler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	summaries, err := h.surveys.ListEligible(r.Context(), user.Profile(), r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summaries)
}

func (h *SurveyHandler) ListMySurveys(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	surveys, err := h.surveys.ListOwned(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, surveys)
}
