package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cleverbadge/cleverbadge/internal/auth"
	"github.com/cleverbadge/cleverbadge/internal/events"
	"github.com/cleverbadge/cleverbadge/internal/quiz"
	"github.com/cleverbadge/cleverbadge/internal/rbac"
	"github.com/cleverbadge/cleverbadge/internal/session"
)

type RouterDeps struct {
	Store    quiz.Store
	Sessions session.Store
	Guard    *session.Guard
	Events   *events.Log // nil disables event logging
	Auth     *auth.AuthService
	Admin    auth.AdminCredentials

	CORSOrigins []string
}

// NewRouter assembles the full HTTP surface: public candidate flow, session
// resume endpoints, and the JWT-protected admin API.
func NewRouter(d RouterDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Access-Code"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Admin))

	// Candidate surface: no auth, tests are reachable by share link only.
	r.Route("/api", func(api chi.Router) {
		api.Get("/tests/{slug}", GetPublicTestHandler(d.Store))
		api.Get("/tests/{slug}/session", GetSessionHandler(d.Store, d.Sessions, d.Guard))
		api.Put("/tests/{slug}/session", PutSessionHandler(d.Store, d.Sessions, d.Guard))
		api.Delete("/tests/{slug}/session", ClearSessionHandler(d.Sessions))

		api.Post("/assessments/start", StartAssessmentHandler(d.Store, d.Events))
		api.Post("/assessments/{assessmentID}/answer", SaveAnswerHandler(d.Store))
		api.Get("/assessments/{assessmentID}/answers", ListAnswersHandler(d.Store))
		api.Post("/assessments/{assessmentID}/submit", SubmitAssessmentHandler(d.Store, d.Events))
		api.Get("/assessments/{assessmentID}/feedback", AssessmentFeedbackHandler(d.Store))

		// Admin API (JWT -> role in context -> RBAC).
		api.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(d.Auth))

			pr.With(rbac.Require("question:create")).Post("/questions", CreateQuestionHandler(d.Store))
			pr.With(rbac.Require("question:create")).Post("/questions/import", ImportQuestionsHandler(d.Store))
			pr.With(rbac.Require("question:view")).Get("/questions", ListQuestionsHandler(d.Store))
			pr.With(rbac.Require("question:view")).Get("/questions/{questionID}", GetQuestionHandler(d.Store))
			pr.With(rbac.Require("question:edit")).Put("/questions/{questionID}", UpdateQuestionHandler(d.Store))
			pr.With(rbac.Require("question:delete")).Delete("/questions/{questionID}", DeleteQuestionHandler(d.Store))

			pr.With(rbac.Require("test:create")).Post("/tests", CreateTestHandler(d.Store))
			pr.With(rbac.Require("test:view")).Get("/tests", ListTestsHandler(d.Store))
			pr.With(rbac.Require("test:view")).Get("/tests/id/{testID}", GetTestHandler(d.Store))
			pr.With(rbac.Require("test:edit")).Put("/tests/id/{testID}", UpdateTestHandler(d.Store))
			pr.With(rbac.Require("test:delete")).Delete("/tests/id/{testID}", DeleteTestHandler(d.Store))

			pr.With(rbac.Require("results:view")).Get("/tests/id/{testID}/assessments", ListTestAssessmentsHandler(d.Store))
			pr.With(rbac.Require("results:view")).Get("/tests/id/{testID}/stats", TestStatsHandler(d.Store))
			pr.With(rbac.Require("results:view")).Get("/assessments/{assessmentID}", GetAssessmentDetailHandler(d.Store))
			pr.With(rbac.Require("results:view")).Get("/events", AuditEventsHandler(d.Events))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	return r
}
