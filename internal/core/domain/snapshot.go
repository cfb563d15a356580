package domain

import "github.com/google/uuid"

// Age bracket labels of the respondent-age histogram.
const (
	BracketUpTo25 = "<=25"
	Bracket26to35 = "26-35"
	Bracket36to50 = "36-50"
	Bracket51Plus = "51+"
)

// ScaleNoAverage is reported for a scale question with no parseable answers.
const ScaleNoAverage = "N/A"

// StatisticsSnapshot is the derived aggregate view over a survey's responses.
// It is recomputed from the response set on demand and never persisted.
type StatisticsSnapshot struct {
	SurveyID       uuid.UUID       `json:"survey_id"`
	TotalResponses int             `json:"total_responses"`
	TotalQuestions int             `json:"total_questions"`
	Questions      []QuestionStats `json:"questions"`
	VolumeByDay    map[string]int  `json:"volume_by_day"`
	AgeBrackets    map[string]int  `json:"age_brackets"`
}

// QuestionStats is the per-question breakdown. Exactly one of Counts, Answers
// or Average is populated, according to the question's kind.
type QuestionStats struct {
	QuestionID uuid.UUID      `json:"question_id"`
	Text       string         `json:"text"`
	Kind       QuestionKind   `json:"kind"`
	Counts     map[string]int `json:"counts,omitempty"`
	Answers    []string       `json:"answers,omitempty"`
	Average    string         `json:"average,omitempty"`
	Invalid    int            `json:"invalid,omitempty"`
}

// NewAgeBrackets returns the fixed, zero-filled bracket histogram.
func NewAgeBrackets() map[string]int {
	return map[string]int{
		BracketUpTo25: 0,
		Bracket26to35: 0,
		Bracket36to50: 0,
		Bracket51Plus: 0,
	}
}

// BracketFor returns the histogram label for an age.
func BracketFor(age int) string {
	switch {
	case age <= 25:
		return BracketUpTo25
	case age <= 35:
		return Bracket26to35
	case age <= 50:
		return Bracket36to50
	default:
		return Bracket51Plus
	}
}
