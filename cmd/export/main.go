package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/survea/api/internal/adapters/repository/postgres"
	"github.com/survea/api/internal/core/services"
)

// Batch job: dumps every response of a survey to a CSV or JSON file.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var surveyID, format, outPath string
	var dbHost, dbPort, dbUser, dbPass, dbName string

	flag.StringVar(&surveyID, "survey", "", "Survey id to export (required)")
	flag.StringVar(&format, "format", "csv", "Export format: csv or json")
	flag.StringVar(&outPath, "out", "", "Output file (defaults to responses_<id>.<format>)")
	flag.StringVar(&dbHost, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	flag.StringVar(&dbPort, "db-port", os.Getenv("POSTGRES_PORT"), "Database port")
	flag.StringVar(&dbUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	flag.StringVar(&dbPass, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	flag.StringVar(&dbName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	flag.Parse()

	if surveyID == "" {
		log.Fatal("-survey is required")
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	surveyRepo := postgres.NewSurveyRepository(db)
	responseRepo := postgres.NewResponseRepository(db)
	userRepo := postgres.NewUserRepository(db)
	exportService := services.NewExportService(surveyRepo, responseRepo, userRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var data []byte
	switch format {
	case "csv":
		data, err = exportService.ResponsesCSV(ctx, surveyID)
	case "json":
		data, err = exportService.ResponsesJSON(ctx, surveyID)
	default:
		log.Fatalf("unknown format %q", format)
	}
	if err != nil {
		log.Fatalf("Error exporting responses: %v", err)
	}

	if outPath == "" {
		outPath = fmt.Sprintf("responses_%s.%s", surveyID, format)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatal(err)
	}

	log.Printf("Exported %d bytes to %s", len(data), outPath)
}
