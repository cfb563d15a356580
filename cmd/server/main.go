package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/survea/api/internal/adapters/broadcast"
	"github.com/survea/api/internal/adapters/handler/http"
	"github.com/survea/api/internal/adapters/repository/postgres"
	"github.com/survea/api/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	// Repositories
	surveyRepo := postgres.NewSurveyRepository(db)
	responseRepo := postgres.NewResponseRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Services
	hub := broadcast.NewHub()
	userService := services.NewUserService(userRepo)
	surveyService := services.NewSurveyService(surveyRepo, responseRepo)
	analyticsService := services.NewAnalyticsService(surveyRepo, responseRepo)
	responseService := services.NewResponseService(surveyRepo, responseRepo, analyticsService, hub)
	exportService := services.NewExportService(surveyRepo, responseRepo, userRepo)

	// Handlers
	auth := http.AuthMiddleware([]byte(jwtSecret), userService)
	handler := http.NewHandler(
		http.RouterConfig{AllowedOrigins: allowedOrigins()},
		auth,
		http.NewSurveyHandler(surveyService, responseService),
		http.NewResponseHandler(responseService),
		http.NewResultsHandler(analyticsService, hub),
		http.NewExportHandler(exportService),
		http.NewUserHandler(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &stdhttp.Server{Addr: "0.0.0.0:" + port, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func allowedOrigins() []string {
	origins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if origins == "" {
		return []string{"*"}
	}
	return strings.Split(origins, ",")
}

func dbConnString() string {
	dbName := os.Getenv("POSTGRES_DB")
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}
