package ports

import (
	"context"

	"github.com/survea/api/internal/core/domain"
)

type AnalyticsService interface {
	Snapshot(ctx context.Context, surveyID string) (*domain.StatisticsSnapshot, error)
}

// ResultPublisher fans a freshly computed snapshot out to the live viewers of
// a survey's results. Publishing is fire-and-forget: failures for individual
// subscribers never propagate to the submission path.
type ResultPublisher interface {
	Publish(surveyID string, snapshot *domain.StatisticsSnapshot)
}
