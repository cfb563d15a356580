package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/survea/api/internal/core/domain"
	"github.com/survea/api/internal/core/ports"
)

type surveyService struct {
	surveyRepo   ports.SurveyRepository
	responseRepo ports.ResponseRepository
}

func NewSurveyService(surveyRepo ports.SurveyRepository, responseRepo ports.ResponseRepository) ports.SurveyService {
	return &surveyService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
	}
}

func (s *surveyService) Create(ctx context.Context, creator *domain.User, input ports.SurveyInput) (*domain.Survey, error) {
	if creator.Role != domain.RoleOrganization && creator.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	surveyID := uuid.New()
	survey := &domain.Survey{
		ID:        surveyID,
		CreatedBy: creator.ID,
		CreatedAt: time.Now(),
	}
	if err := applyInput(survey, input); err != nil {
		return nil, err
	}

	if err := s.surveyRepo.Save(ctx, survey); err != nil {
		return nil, err
	}

	return survey, nil
}

func (s *surveyService) Update(ctx context.Context, editor *domain.User, id string, input ports.SurveyInput) (*domain.Survey, error) {
	survey, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey.CreatedBy != editor.ID && editor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	// Editing replaces the question list and targeting rule wholesale.
	if err := applyInput(survey, input); err != nil {
		return nil, err
	}

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}

	return survey, nil
}

func (s *surveyService) Get(ctx context.Context, id string) (*domain.Survey, error) {
	surveyID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidSurveyID
	}

	return s.surveyRepo.GetByID(ctx, surveyID)
}

func (s *surveyService) ListEligible(ctx context.Context, profile domain.Profile, search string) ([]*domain.SurveySummary, error) {
	surveys, err := s.surveyRepo.Search(ctx, search)
	if err != nil {
		return nil, err
	}

	eligible := make([]*domain.Survey, 0, len(surveys))
	ids := make([]uuid.UUID, 0, len(surveys))
	for _, survey := range surveys {
		if !survey.Targeting.Matches(profile) {
			continue
		}
		eligible = append(eligible, survey)
		ids = append(ids, survey.ID)
	}

	counts, err := s.responseRepo.CountBySurveys(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.SurveySummary, 0, len(eligible))
	for _, survey := range eligible {
		summaries = append(summaries, &domain.SurveySummary{
			Survey:        *survey,
			ResponseCount: counts[survey.ID],
			QuestionCount: len(survey.Questions),
		})
	}

	return summaries, nil
}

func (s *surveyService) ListOwned(ctx context.Context, owner *domain.User) ([]*domain.Survey, error) {
	if owner.Role != domain.RoleOrganization && owner.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	return s.surveyRepo.ListByOwner(ctx, owner.ID)
}

func applyInput(survey *domain.Survey, input ports.SurveyInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !input.Kind.Valid() {
		return fmt.Errorf("%w: invalid survey kind", domain.ErrValidation)
	}
	if len(input.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", domain.ErrValidation)
	}

	questions := make([]domain.Question, 0, len(input.Questions))
	for _, q := range input.Questions {
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		if !q.Kind.Valid() {
			return fmt.Errorf("%w: invalid question kind", domain.ErrValidation)
		}

		question := domain.Question{
			ID:       uuid.New(),
			SurveyID: survey.ID,
			Text:     q.Text,
			Kind:     q.Kind,
		}
		switch q.Kind {
		case domain.KindClosed:
			for _, opt := range q.Options {
				if opt == "" {
					continue
				}
				question.Options = append(question.Options, opt)
			}
			if len(question.Options) < 2 {
				return fmt.Errorf("%w: closed questions need at least two options", domain.ErrValidation)
			}
		case domain.KindScale:
			if q.ScaleMin >= q.ScaleMax {
				return fmt.Errorf("%w: scale range must have min < max", domain.ErrValidation)
			}
			question.Scale = &domain.ScaleRange{Min: q.ScaleMin, Max: q.ScaleMax}
		}
		questions = append(questions, question)
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: at least one valid question is required", domain.ErrValidation)
	}

	survey.Title = input.Title
	survey.Description = input.Description
	survey.Kind = input.Kind
	survey.Questions = questions
	survey.Targeting = normalizeTargeting(input.Targeting)

	return nil
}

func normalizeTargeting(rule domain.TargetingRule) domain.TargetingRule {
	rule.Departments = trimSet(rule.Departments)
	rule.Occupations = trimSet(rule.Occupations)
	return rule
}

func trimSet(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
