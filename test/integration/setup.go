package integration

import (
	"context"
	"database/sql"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/survea/api/internal/adapters/broadcast"
	"github.com/survea/api/internal/adapters/handler/http"
	"github.com/survea/api/internal/adapters/repository/postgres"
	"github.com/survea/api/internal/core/services"
)

const testJWTSecret = "test-secret"

type TestApp struct {
	Container testcontainers.Container
	DB        *sql.DB
	Server    *httptest.Server
	Client    *stdhttp.Client
	Hub       *broadcast.Hub
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, applyMigrations(db))

	surveyRepo := postgres.NewSurveyRepository(db)
	responseRepo := postgres.NewResponseRepository(db)
	userRepo := postgres.NewUserRepository(db)

	hub := broadcast.NewHub()
	userService := services.NewUserService(userRepo)
	surveyService := services.NewSurveyService(surveyRepo, responseRepo)
	analyticsService := services.NewAnalyticsService(surveyRepo, responseRepo)
	responseService := services.NewResponseService(surveyRepo, responseRepo, analyticsService, hub)
	exportService := services.NewExportService(surveyRepo, responseRepo, userRepo)

	handler := http.NewHandler(
		http.RouterConfig{AllowedOrigins: []string{"*"}},
		http.AuthMiddleware([]byte(testJWTSecret), userService),
		http.NewSurveyHandler(surveyService, responseService),
		http.NewResponseHandler(responseService),
		http.NewResultsHandler(analyticsService, hub),
		http.NewExportHandler(exportService),
		http.NewUserHandler(),
	)

	server := httptest.NewServer(handler)

	return &TestApp{
		Container: container,
		DB:        db,
		Server:    server,
		Client:    server.Client(),
		Hub:       hub,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	require.NoError(t, app.DB.Close())
	require.NoError(t, app.Container.Terminate(context.Background()))
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

type testUser struct {
	ID    uuid.UUID
	Token string
}

type profileOpts struct {
	age        *int
	department string
	occupation string
}

func createOrganization(t *testing.T, db *sql.DB) testUser {
	t.Helper()
	return createUser(t, db, "organization", profileOpts{})
}

func createRespondent(t *testing.T, db *sql.DB, opts profileOpts) testUser {
	t.Helper()
	return createUser(t, db, "respondent", opts)
}

func createUser(t *testing.T, db *sql.DB, role string, opts profileOpts) testUser {
	t.Helper()

	userID := uuid.New()
	email := fmt.Sprintf("user-%s@example.com", userID)
	name := fmt.Sprintf("User %s", userID)

	var department, occupation *string
	if opts.department != "" {
		department = &opts.department
	}
	if opts.occupation != "" {
		occupation = &opts.occupation
	}

	_, err := db.Exec(
		"INSERT INTO users (id, email, name, role, age, department, occupation) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		userID, email, name, role, opts.age, department, occupation,
	)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	return testUser{ID: userID, Token: signedToken}
}

func intPtr(v int) *int { return &v }
