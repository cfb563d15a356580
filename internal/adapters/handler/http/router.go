package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	AllowedOrigins []string
}

func NewHandler(
	cfg RouterConfig,
	auth func(http.Handler) http.Handler,
	surveyHandler *SurveyHandler,
	responseHandler *ResponseHandler,
	resultsHandler *ResultsHandler,
	exportHandler *ExportHandler,
	userHandler *UserHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Get("/me", userHandler.GetMe)
			r.Get("/responses/mine", responseHandler.ListMyResponses)

			r.Route("/surveys", func(r chi.Router) {
				r.Post("/", surveyHandler.CreateSurvey)
				r.Get("/", surveyHandler.ListSurveys)
				r.Get("/mine", surveyHandler.ListMySurveys)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", surveyHandler.GetSurvey)
					r.Put("/", surveyHandler.UpdateSurvey)
					r.Post("/responses", responseHandler.SubmitResponse)
					r.Get("/results", resultsHandler.GetResults)
					r.Get("/events", resultsHandler.StreamResults)
					r.Get("/export/csv", exportHandler.ExportCSV)
					r.Get("/export/json", exportHandler.ExportJSON)
				})
			})
		})
	})

	return r
}
