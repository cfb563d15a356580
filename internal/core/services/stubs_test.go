package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/survea/api/internal/core/domain"
)

type stubSurveyRepo struct {
	surveys       map[uuid.UUID]*domain.Survey
	searchResults []*domain.Survey
	searchQuery   string
	saved         []*domain.Survey
	updated       []*domain.Survey
}

func (s *stubSurveyRepo) Save(_ context.Context, survey *domain.Survey) error {
	if s.surveys == nil {
		s.surveys = make(map[uuid.UUID]*domain.Survey)
	}
	s.surveys[survey.ID] = survey
	s.saved = append(s.saved, survey)
	return nil
}

func (s *stubSurveyRepo) Update(_ context.Context, survey *domain.Survey) error {
	s.updated = append(s.updated, survey)
	return nil
}

func (s *stubSurveyRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Survey, error) {
	if survey, ok := s.surveys[id]; ok {
		return survey, nil
	}
	return nil, domain.ErrSurveyNotFound
}

func (s *stubSurveyRepo) Search(_ context.Context, query string) ([]*domain.Survey, error) {
	s.searchQuery = query
	return s.searchResults, nil
}

func (s *stubSurveyRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Survey, error) {
	var out []*domain.Survey
	for _, survey := range s.searchResults {
		if survey.CreatedBy == ownerID {
			out = append(out, survey)
		}
	}
	return out, nil
}

type stubResponseRepo struct {
	responses []*domain.Response
	ages      map[uuid.UUID]int
	counts    map[uuid.UUID]int64
}

func (s *stubResponseRepo) Insert(_ context.Context, response *domain.Response) error {
	for _, r := range s.responses {
		if r.SurveyID == response.SurveyID && r.RespondentID == response.RespondentID {
			return domain.ErrAlreadyResponded
		}
	}
	s.responses = append(s.responses, response)
	return nil
}

func (s *stubResponseRepo) Exists(_ context.Context, surveyID, respondentID uuid.UUID) (bool, error) {
	for _, r := range s.responses {
		if r.SurveyID == surveyID && r.RespondentID == respondentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubResponseRepo) ListBySurvey(_ context.Context, surveyID uuid.UUID) ([]*domain.Response, error) {
	var out []*domain.Response
	for _, r := range s.responses {
		if r.SurveyID == surveyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubResponseRepo) ListByRespondent(_ context.Context, respondentID uuid.UUID) ([]*domain.Response, error) {
	var out []*domain.Response
	for _, r := range s.responses {
		if r.RespondentID == respondentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubResponseRepo) CountBySurveys(_ context.Context, surveyIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	if s.counts != nil {
		return s.counts, nil
	}
	counts := make(map[uuid.UUID]int64)
	for _, id := range surveyIDs {
		for _, r := range s.responses {
			if r.SurveyID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (s *stubResponseRepo) AgesBySurvey(_ context.Context, _ uuid.UUID) (map[uuid.UUID]int, error) {
	if s.ages == nil {
		return map[uuid.UUID]int{}, nil
	}
	return s.ages, nil
}

type stubUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	return s.users[parsed], nil
}

func (s *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if s.users == nil {
		s.users = make(map[uuid.UUID]*domain.User)
	}
	user.ID = uuid.New()
	s.users[user.ID] = user
	return nil
}

type recordingPublisher struct {
	published []*domain.StatisticsSnapshot
	surveyIDs []string
}

func (p *recordingPublisher) Publish(surveyID string, snapshot *domain.StatisticsSnapshot) {
	p.surveyIDs = append(p.surveyIDs, surveyID)
	p.published = append(p.published, snapshot)
}

func intPtr(v int) *int { return &v }
