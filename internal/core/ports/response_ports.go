package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/survea/api/internal/core/domain"
)

type ResponseRepository interface {
	// Insert fails with domain.ErrAlreadyResponded when the storage-level
	// uniqueness constraint on (survey, respondent) is violated.
	Insert(ctx context.Context, response *domain.Response) error
	Exists(ctx context.Context, surveyID, respondentID uuid.UUID) (bool, error)
	ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]*domain.Response, error)
	ListByRespondent(ctx context.Context, respondentID uuid.UUID) ([]*domain.Response, error)
	// CountBySurveys returns the number of responses per survey. Surveys with
	// no responses are absent from the map.
	CountBySurveys(ctx context.Context, surveyIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	// AgesBySurvey returns the current age of every respondent of the survey
	// that has one set, keyed by respondent id.
	AgesBySurvey(ctx context.Context, surveyID uuid.UUID) (map[uuid.UUID]int, error)
}

type SubmitInput struct {
	SurveyID     uuid.UUID
	RespondentID uuid.UUID
	Answers      []domain.Answer
}

type ResponseService interface {
	Submit(ctx context.Context, input SubmitInput) (*domain.Response, error)
	HasResponded(ctx context.Context, surveyID, respondentID uuid.UUID) (bool, error)
	ListByRespondent(ctx context.Context, respondentID uuid.UUID) ([]*domain.Response, error)
}
