package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/survea/api/internal/core/domain"
	"github.com/survea/api/internal/core/ports"
)

type exportService struct {
	surveyRepo   ports.SurveyRepository
	responseRepo ports.ResponseRepository
	userRepo     ports.UserRepository
}

func NewExportService(surveyRepo ports.SurveyRepository, responseRepo ports.ResponseRepository, userRepo ports.UserRepository) ports.ExportService {
	return &exportService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		userRepo:     userRepo,
	}
}

func (s *exportService) ResponsesCSV(ctx context.Context, surveyID string) ([]byte, error) {
	survey, responses, respondents, err := s.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	questionText := make(map[uuid.UUID]string, len(survey.Questions))
	for _, q := range survey.Questions {
		questionText[q.ID] = q.Text
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"respondent", "age", "department", "occupation", "question", "answer", "date"}); err != nil {
		return nil, err
	}

	for _, response := range responses {
		name, age, department, occupation := respondentColumns(respondents[response.RespondentID])
		date := response.SubmittedAt.UTC().Format("2006-01-02")
		for _, answer := range response.Answers {
			text, ok := questionText[answer.QuestionID]
			if !ok {
				text = "[unknown question]"
			}
			if err := w.Write([]string{name, age, department, occupation, text, answer.Value, date}); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

type exportedResponse struct {
	ID          uuid.UUID          `json:"id"`
	Respondent  exportedRespondent `json:"respondent"`
	Answers     []domain.Answer    `json:"answers"`
	SubmittedAt time.Time          `json:"submitted_at"`
}

type exportedRespondent struct {
	Name       string `json:"name"`
	Age        *int   `json:"age,omitempty"`
	Department string `json:"department,omitempty"`
	Occupation string `json:"occupation,omitempty"`
}

func (s *exportService) ResponsesJSON(ctx context.Context, surveyID string) ([]byte, error) {
	_, responses, respondents, err := s.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	out := make([]exportedResponse, 0, len(responses))
	for _, response := range responses {
		entry := exportedResponse{
			ID:          response.ID,
			Answers:     response.Answers,
			SubmittedAt: response.SubmittedAt,
		}
		if u := respondents[response.RespondentID]; u != nil {
			entry.Respondent = exportedRespondent{
				Name:       u.Name,
				Age:        u.Age,
				Department: u.Department,
				Occupation: u.Occupation,
			}
		} else {
			entry.Respondent = exportedRespondent{Name: "anonymous"}
		}
		out = append(out, entry)
	}

	return json.MarshalIndent(out, "", "  ")
}

func (s *exportService) load(ctx context.Context, surveyID string) (*domain.Survey, []*domain.Response, map[uuid.UUID]*domain.User, error) {
	id, err := uuid.Parse(surveyID)
	if err != nil {
		return nil, nil, nil, domain.ErrInvalidSurveyID
	}

	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}

	responses, err := s.responseRepo.ListBySurvey(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load responses: %w", err)
	}

	respondents := make(map[uuid.UUID]*domain.User)
	for _, response := range responses {
		if _, ok := respondents[response.RespondentID]; ok {
			continue
		}
		user, err := s.userRepo.GetByID(ctx, response.RespondentID.String())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load respondent: %w", err)
		}
		respondents[response.RespondentID] = user
	}

	return survey, responses, respondents, nil
}

func respondentColumns(u *domain.User) (name, age, department, occupation string) {
	if u == nil {
		return "anonymous", "", "", ""
	}
	name = u.Name
	if u.Age != nil {
		age = strconv.Itoa(*u.Age)
	}
	return name, age, u.Department, u.Occupation
}
