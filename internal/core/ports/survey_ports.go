package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/survea/api/internal/core/domain"
)

type SurveyRepository interface {
	Save(ctx context.Context, survey *domain.Survey) error
	Update(ctx context.Context, survey *domain.Survey) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Survey, error)
	// Search returns surveys whose title contains the query (case-insensitive,
	// empty query matches all), newest first with stable insertion-order ties.
	Search(ctx context.Context, query string) ([]*domain.Survey, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Survey, error)
}

type QuestionInput struct {
	Text     string
	Kind     domain.QuestionKind
	Options  []string
	ScaleMin int
	ScaleMax int
}

type SurveyInput struct {
	Title       string
	Description string
	Kind        domain.QuestionKind
	Questions   []QuestionInput
	Targeting   domain.TargetingRule
}

type SurveyService interface {
	Create(ctx context.Context, creator *domain.User, input SurveyInput) (*domain.Survey, error)
	Update(ctx context.Context, editor *domain.User, id string, input SurveyInput) (*domain.Survey, error)
	Get(ctx context.Context, id string) (*domain.Survey, error)
	ListEligible(ctx context.Context, profile domain.Profile, search string) ([]*domain.SurveySummary, error)
	ListOwned(ctx context.Context, owner *domain.User) ([]*domain.Survey, error)
}
