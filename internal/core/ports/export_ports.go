package ports

import "context"

type ExportService interface {
	// ResponsesCSV renders every response of the survey as long-format CSV,
	// one row per (respondent, question) pair with demographic columns.
	ResponsesCSV(ctx context.Context, surveyID string) ([]byte, error)
	// ResponsesJSON renders the raw response sequence with respondent info.
	ResponsesJSON(ctx context.Context, surveyID string) ([]byte, error)
}
