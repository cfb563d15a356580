package domain

import (
	"time"

	"github.com/google/uuid"
)

// Response is one respondent's complete set of answers to one survey.
// At most one exists per (survey, respondent) pair.
type Response struct {
	ID           uuid.UUID `json:"id"`
	SurveyID     uuid.UUID `json:"survey_id"`
	RespondentID uuid.UUID `json:"respondent_id"`
	Answers      []Answer  `json:"answers"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// Answer holds the raw text given for a question. Interpretation is driven by
// the question's kind at aggregation time, not at storage time.
type Answer struct {
	QuestionID uuid.UUID `json:"question_id"`
	Value      string    `json:"value"`
}
