package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/survea/api/internal/core/domain"
	"github.com/survea/api/internal/core/ports"
)

type responseService struct {
	surveyRepo   ports.SurveyRepository
	responseRepo ports.ResponseRepository
	analytics    ports.AnalyticsService
	publisher    ports.ResultPublisher
}

func NewResponseService(
	surveyRepo ports.SurveyRepository,
	responseRepo ports.ResponseRepository,
	analytics ports.AnalyticsService,
	publisher ports.ResultPublisher,
) ports.ResponseService {
	return &responseService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		analytics:    analytics,
		publisher:    publisher,
	}
}

func (s *responseService) Submit(ctx context.Context, input ports.SubmitInput) (*domain.Response, error) {
	survey, err := s.surveyRepo.GetByID(ctx, input.SurveyID)
	if err != nil {
		return nil, err
	}

	// Fast user-visible rejection. The unique constraint on the responses
	// table remains the correctness backstop against concurrent submissions.
	responded, err := s.responseRepo.Exists(ctx, input.SurveyID, input.RespondentID)
	if err != nil {
		return nil, err
	}
	if responded {
		return nil, domain.ErrAlreadyResponded
	}

	known := make(map[uuid.UUID]bool, len(survey.Questions))
	for _, q := range survey.Questions {
		known[q.ID] = true
	}
	answers := make([]domain.Answer, 0, len(input.Answers))
	for _, a := range input.Answers {
		if !known[a.QuestionID] {
			continue
		}
		answers = append(answers, a)
	}

	response := &domain.Response{
		ID:           uuid.New(),
		SurveyID:     input.SurveyID,
		RespondentID: input.RespondentID,
		Answers:      answers,
		SubmittedAt:  time.Now(),
	}

	if err := s.responseRepo.Insert(ctx, response); err != nil {
		return nil, err
	}

	s.broadcast(ctx, input.SurveyID)

	return response, nil
}

func (s *responseService) HasResponded(ctx context.Context, surveyID, respondentID uuid.UUID) (bool, error) {
	return s.responseRepo.Exists(ctx, surveyID, respondentID)
}

func (s *responseService) ListByRespondent(ctx context.Context, respondentID uuid.UUID) ([]*domain.Response, error) {
	return s.responseRepo.ListByRespondent(ctx, respondentID)
}

// broadcast recomputes the snapshot and fans it out to live viewers of the
// survey's results. Failures are logged, never propagated: the submission has
// already been accepted.
func (s *responseService) broadcast(ctx context.Context, surveyID uuid.UUID) {
	snapshot, err := s.analytics.Snapshot(ctx, surveyID.String())
	if err != nil {
		slog.Error("failed to recompute snapshot after submission", "survey_id", surveyID, "error", err)
		return
	}
	s.publisher.Publish(surveyID.String(), snapshot)
}
