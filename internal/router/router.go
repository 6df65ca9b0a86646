package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/nashtech/survey-service/internal/api/auth"
	"github.com/nashtech/survey-service/internal/api/survey"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            *auth.HandlerImpl
	SurveyHandler          *survey.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:4200", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/signup", cfg.AuthHandler.Signup)
			r.Post("/auth/verify", cfg.AuthHandler.Verify)
			r.Post("/auth/signin", cfg.AuthHandler.Signin)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Route("/surveys", func(r chi.Router) {
				r.Post("/", cfg.SurveyHandler.CreateSurveyHandler)
				r.Get("/", cfg.SurveyHandler.GetUserSurveysHandler)
				r.Get("/{surveyID}", cfg.SurveyHandler.GetSurveyHandler)
				r.Put("/{surveyID}", cfg.SurveyHandler.UpdateSurveyHandler)
				r.Delete("/{surveyID}", cfg.SurveyHandler.DeleteSurveyHandler)
			})
		})
	})

	return r
}
