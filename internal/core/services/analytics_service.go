package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/survea/api/internal/core/domain"
	"github.com/survea/api/internal/core/ports"
)

type analyticsService struct {
	surveyRepo   ports.SurveyRepository
	responseRepo ports.ResponseRepository
}

func NewAnalyticsService(surveyRepo ports.SurveyRepository, responseRepo ports.ResponseRepository) ports.AnalyticsService {
	return &analyticsService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
	}
}

func (s *analyticsService) Snapshot(ctx context.Context, surveyID string) (*domain.StatisticsSnapshot, error) {
	id, err := uuid.Parse(surveyID)
	if err != nil {
		return nil, domain.ErrInvalidSurveyID
	}

	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	responses, err := s.responseRepo.ListBySurvey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	ages, err := s.responseRepo.AgesBySurvey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load respondent ages: %w", err)
	}

	return Aggregate(survey, responses, ages), nil
}

// Aggregate recomputes the full statistics snapshot from scratch. It is a pure
// function of its inputs: the same survey, responses and ages always produce
// an identical snapshot. Cost is O(responses x questions), acceptable because
// response volumes are bounded by human participation rates.
func Aggregate(survey *domain.Survey, responses []*domain.Response, ages map[uuid.UUID]int) *domain.StatisticsSnapshot {
	snapshot := &domain.StatisticsSnapshot{
		SurveyID:       survey.ID,
		TotalResponses: len(responses),
		TotalQuestions: len(survey.Questions),
		Questions:      make([]domain.QuestionStats, 0, len(survey.Questions)),
		VolumeByDay:    make(map[string]int),
		AgeBrackets:    domain.NewAgeBrackets(),
	}

	for _, question := range survey.Questions {
		stats, ok := questionStats(question, responses)
		if !ok {
			// Unknown question kind: omitted from the snapshot, not an error.
			continue
		}
		snapshot.Questions = append(snapshot.Questions, stats)
	}

	for _, response := range responses {
		day := response.SubmittedAt.UTC().Format("2006-01-02")
		snapshot.VolumeByDay[day]++

		// Brackets reflect respondents' present ages, looked up at aggregation
		// time. Respondents without an age are excluded.
		if age, ok := ages[response.RespondentID]; ok {
			snapshot.AgeBrackets[domain.BracketFor(age)]++
		}
	}

	return snapshot
}

func questionStats(question domain.Question, responses []*domain.Response) (domain.QuestionStats, bool) {
	stats := domain.QuestionStats{
		QuestionID: question.ID,
		Text:       question.Text,
		Kind:       question.Kind,
	}

	switch question.Kind {
	case domain.KindClosed:
		stats.Counts = make(map[string]int)
		forEachAnswer(question.ID, responses, func(value string) {
			if v := strings.TrimSpace(value); v != "" {
				stats.Counts[v]++
			}
		})
	case domain.KindOpen:
		stats.Answers = []string{}
		forEachAnswer(question.ID, responses, func(value string) {
			if v := strings.TrimSpace(value); v != "" {
				stats.Answers = append(stats.Answers, v)
			}
		})
	case domain.KindScale:
		var sum, count int
		forEachAnswer(question.ID, responses, func(value string) {
			v := strings.TrimSpace(value)
			if v == "" {
				return
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				stats.Invalid++
				return
			}
			sum += n
			count++
		})
		if count > 0 {
			stats.Average = fmt.Sprintf("%.1f", float64(sum)/float64(count))
		} else {
			stats.Average = domain.ScaleNoAverage
		}
	default:
		return domain.QuestionStats{}, false
	}

	return stats, true
}

// forEachAnswer visits, in response order, every answer given for a question.
func forEachAnswer(questionID uuid.UUID, responses []*domain.Response, visit func(value string)) {
	for _, response := range responses {
		for _, answer := range response.Answers {
			if answer.QuestionID == questionID {
				visit(answer.Value)
			}
		}
	}
}
