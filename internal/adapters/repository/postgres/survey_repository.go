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

type surveyRepository struct {
	db *sql.DB
}

func NewSurveyRepository(db *sql.DB) ports.SurveyRepository {
	return &surveyRepository{
		db: db,
	}
}

func (r *surveyRepository) Save(ctx context.Context, survey *domain.Survey) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	querySurvey := `
		INSERT INTO surveys (id, title, description, kind, created_by, created_at, age_min, age_max, departments, occupations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.ExecContext(ctx, querySurvey,
		survey.ID, survey.Title, survey.Description, survey.Kind,
		survey.CreatedBy, survey.CreatedAt,
		survey.Targeting.AgeMin, survey.Targeting.AgeMax,
		pq.Array(survey.Targeting.Departments), pq.Array(survey.Targeting.Occupations),
	)
	if err != nil {
		return fmt.Errorf("failed to insert survey: %w", err)
	}

	if err := insertQuestions(ctx, tx, survey); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *surveyRepository) Update(ctx context.Context, survey *domain.Survey) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	querySurvey := `
		UPDATE surveys
		SET title = $2, description = $3, kind = $4,
		    age_min = $5, age_max = $6, departments = $7, occupations = $8
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, querySurvey,
		survey.ID, survey.Title, survey.Description, survey.Kind,
		survey.Targeting.AgeMin, survey.Targeting.AgeMax,
		pq.Array(survey.Targeting.Departments), pq.Array(survey.Targeting.Occupations),
	)
	if err != nil {
		return fmt.Errorf("failed to update survey: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSurveyNotFound
	}

	// Editing replaces the question list wholesale.
	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE survey_id = $1`, survey.ID); err != nil {
		return fmt.Errorf("failed to clear questions: %w", err)
	}
	if err := insertQuestions(ctx, tx, survey); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertQuestions(ctx context.Context, tx *sql.Tx, survey *domain.Survey) error {
	queryQuestion := `
		INSERT INTO questions (id, survey_id, position, text, kind, options, scale_min, scale_max)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	stmt, err := tx.PrepareContext(ctx, queryQuestion)
	if err != nil {
		return fmt.Errorf("failed to prepare question statement: %w", err)
	}
	defer stmt.Close()

	for i, q := range survey.Questions {
		var scaleMin, scaleMax sql.NullInt64
		if q.Scale != nil {
			scaleMin = sql.NullInt64{Int64: int64(q.Scale.Min), Valid: true}
			scaleMax = sql.NullInt64{Int64: int64(q.Scale.Max), Valid: true}
		}
		_, err = stmt.ExecContext(ctx, q.ID, survey.ID, i, q.Text, q.Kind, pq.Array(q.Options), scaleMin, scaleMax)
		if err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
	}

	return nil
}

func (r *surveyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Survey, error) {
	querySurvey := `
		SELECT id, title, description, kind, created_by, created_at, age_min, age_max, departments, occupations
		FROM surveys
		WHERE id = $1
	`

	survey, err := scanSurvey(r.db.QueryRowContext(ctx, querySurvey, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}

	questions, err := r.fetchQuestions(ctx, survey.ID)
	if err != nil {
		return nil, err
	}
	survey.Questions = questions

	return survey, nil
}

func (r *surveyRepository) Search(ctx context.Context, query string) ([]*domain.Survey, error) {
	querySurveys := `
		SELECT id, title, description, kind, created_by, created_at, age_min, age_max, departments, occupations
		FROM surveys
		WHERE title ILIKE $1
		ORDER BY created_at DESC, position ASC
	`
	rows, err := r.db.QueryContext(ctx, querySurveys, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search surveys: %w", err)
	}
	defer rows.Close()

	return r.scanSurveys(ctx, rows)
}

func (r *surveyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Survey, error) {
	query := `
		SELECT id, title, description, kind, created_by, created_at, age_min, age_max, departments, occupations
		FROM surveys
		WHERE created_by = $1
		ORDER BY created_at DESC, position ASC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list surveys by owner: %w", err)
	}
	defer rows.Close()

	return r.scanSurveys(ctx, rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSurvey(row rowScanner) (*domain.Survey, error) {
	var survey domain.Survey
	var ageMin, ageMax sql.NullInt64
	err := row.Scan(
		&survey.ID, &survey.Title, &survey.Description, &survey.Kind,
		&survey.CreatedBy, &survey.CreatedAt,
		&ageMin, &ageMax,
		pq.Array(&survey.Targeting.Departments), pq.Array(&survey.Targeting.Occupations),
	)
	if err != nil {
		return nil, err
	}
	if ageMin.Valid {
		v := int(ageMin.Int64)
		survey.Targeting.AgeMin = &v
	}
	if ageMax.Valid {
		v := int(ageMax.Int64)
		survey.Targeting.AgeMax = &v
	}
	return &survey, nil
}

func (r *surveyRepository) scanSurveys(ctx context.Context, rows *sql.Rows) ([]*domain.Survey, error) {
	var surveys []*domain.Survey
	for rows.Next() {
		survey, err := scanSurvey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan survey: %w", err)
		}

		questions, err := r.fetchQuestions(ctx, survey.ID)
		if err != nil {
			return nil, err
		}
		survey.Questions = questions

		surveys = append(surveys, survey)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating surveys: %w", err)
	}
	return surveys, nil
}

func (r *surveyRepository) fetchQuestions(ctx context.Context, surveyID uuid.UUID) ([]domain.Question, error) {
	queryQuestions := `
		SELECT id, survey_id, text, kind, options, scale_min, scale_max
		FROM questions
		WHERE survey_id = $1
		ORDER BY position ASC
	`
	rows, err := r.db.QueryContext(ctx, queryQuestions, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		var scaleMin, scaleMax sql.NullInt64
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.Text, &q.Kind, pq.Array(&q.Options), &scaleMin, &scaleMax); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if scaleMin.Valid && scaleMax.Valid {
			q.Scale = &domain.ScaleRange{Min: int(scaleMin.Int64), Max: int(scaleMax.Int64)}
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}
