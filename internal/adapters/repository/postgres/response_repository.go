package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/survea/api/internal/core/domain"
	"github.com/survea/api/internal/core/ports"
)

// uniqueViolation is the Postgres error code raised when the UNIQUE
// (survey_id, respondent_id) constraint rejects a duplicate submission.
const uniqueViolation = "23505"

type responseRepository struct {
	db *sql.DB
}

func NewResponseRepository(db *sql.DB) ports.ResponseRepository {
	return &responseRepository{
		db: db,
	}
}

func (r *responseRepository) Insert(ctx context.Context, response *domain.Response) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryResponse := `
		INSERT INTO responses (id, survey_id, respondent_id, submitted_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, queryResponse, response.ID, response.SurveyID, response.RespondentID, response.SubmittedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyResponded
		}
		return fmt.Errorf("failed to insert response: %w", err)
	}

	queryAnswer := `
		INSERT INTO response_answers (response_id, position, question_id, value)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, queryAnswer)
	if err != nil {
		return fmt.Errorf("failed to prepare answer statement: %w", err)
	}
	defer stmt.Close()

	for i, answer := range response.Answers {
		if _, err := stmt.ExecContext(ctx, response.ID, i, answer.QuestionID, answer.Value); err != nil {
			return fmt.Errorf("failed to insert answer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *responseRepository) Exists(ctx context.Context, surveyID, respondentID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM responses WHERE survey_id = $1 AND respondent_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, surveyID, respondentID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing response: %w", err)
	}
	return true, nil
}

func (r *responseRepository) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]*domain.Response, error) {
	query := `
		SELECT id, survey_id, respondent_id, submitted_at
		FROM responses
		WHERE survey_id = $1
		ORDER BY submitted_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	defer rows.Close()

	return r.scanResponses(ctx, rows)
}

func (r *responseRepository) ListByRespondent(ctx context.Context, respondentID uuid.UUID) ([]*domain.Response, error) {
	query := `
		SELECT id, survey_id, respondent_id, submitted_at
		FROM responses
		WHERE respondent_id = $1
		ORDER BY submitted_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, respondentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses by respondent: %w", err)
	}
	defer rows.Close()

	return r.scanResponses(ctx, rows)
}

func (r *responseRepository) CountBySurveys(ctx context.Context, surveyIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64)
	if len(surveyIDs) == 0 {
		return counts, nil
	}

	ids := make([]string, 0, len(surveyIDs))
	for _, id := range surveyIDs {
		ids = append(ids, id.String())
	}

	query := `
		SELECT survey_id, COUNT(*)
		FROM responses
		WHERE survey_id = ANY($1)
		GROUP BY survey_id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var count int64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan response count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating response counts: %w", err)
	}

	return counts, nil
}

func (r *responseRepository) AgesBySurvey(ctx context.Context, surveyID uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
		SELECT u.id, u.age
		FROM responses r
		JOIN users u ON u.id = r.respondent_id
		WHERE r.survey_id = $1 AND u.age IS NOT NULL
	`
	rows, err := r.db.QueryContext(ctx, query, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch respondent ages: %w", err)
	}
	defer rows.Close()

	ages := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var age int
		if err := rows.Scan(&id, &age); err != nil {
			return nil, fmt.Errorf("failed to scan respondent age: %w", err)
		}
		ages[id] = age
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating respondent ages: %w", err)
	}

	return ages, nil
}

func (r *responseRepository) scanResponses(ctx context.Context, rows *sql.Rows) ([]*domain.Response, error) {
	var responses []*domain.Response
	for rows.Next() {
		var response domain.Response
		if err := rows.Scan(&response.ID, &response.SurveyID, &response.RespondentID, &response.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}

		answers, err := r.fetchAnswers(ctx, response.ID)
		if err != nil {
			return nil, err
		}
		response.Answers = answers

		responses = append(responses, &response)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating responses: %w", err)
	}
	return responses, nil
}

func (r *responseRepository) fetchAnswers(ctx context.Context, responseID uuid.UUID) ([]domain.Answer, error) {
	query := `
		SELECT question_id, value
		FROM response_answers
		WHERE response_id = $1
		ORDER BY position ASC
	`
	rows, err := r.db.QueryContext(ctx, query, responseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.QuestionID, &a.Value); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}
	return answers, nil
}
