package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionKind determines how answers to a question are interpreted at
// aggregation time. Answers themselves are stored as plain text.
type QuestionKind string

const (
	KindOpen   QuestionKind = "open"
	KindClosed QuestionKind = "closed"
	KindScale  QuestionKind = "scale"
)

func (k QuestionKind) Valid() bool {
	switch k {
	case KindOpen, KindClosed, KindScale:
		return true
	}
	return false
}

type Survey struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Kind        QuestionKind  `json:"kind"`
	Questions   []Question    `json:"questions"`
	Targeting   TargetingRule `json:"targeting"`
	CreatedBy   uuid.UUID     `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
}

type Question struct {
	ID       uuid.UUID    `json:"id"`
	SurveyID uuid.UUID    `json:"survey_id"`
	Text     string       `json:"text"`
	Kind     QuestionKind `json:"kind"`
	Options  []string     `json:"options,omitempty"`
	Scale    *ScaleRange  `json:"scale,omitempty"`
}

// ScaleRange is the inclusive numeric range of a scale question.
type ScaleRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SurveySummary is a listing entry: the survey plus read-only counters.
type SurveySummary struct {
	Survey
	ResponseCount int64 `json:"response_count"`
	QuestionCount int   `json:"question_count"`
}
