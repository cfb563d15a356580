package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/survea/api/internal/core/domain"
	"github.com/survea/api/internal/core/ports"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, role, age, department, occupation, created_at`

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (name, email, role, age, department, occupation)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	var department, occupation sql.NullString
	if user.Department != "" {
		department = sql.NullString{String: user.Department, Valid: true}
	}
	if user.Occupation != "" {
		occupation = sql.NullString{String: user.Occupation, Valid: true}
	}
	return r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Role, user.Age, department, occupation,
	).Scan(&user.ID, &user.CreatedAt)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var age sql.NullInt64
	var department, occupation sql.NullString
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &age, &department, &occupation, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if age.Valid {
		v := int(age.Int64)
		user.Age = &v
	}
	user.Department = department.String
	user.Occupation = occupation.String
	return user, nil
}
