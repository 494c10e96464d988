package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"notesgenie-backend/internal/handlers"
	"notesgenie-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	uploadHandler *handlers.UploadHandler,
	notesHandler *handlers.NotesHandler,
	quizHandler *handlers.QuizHandler,
	dashboardHandler *handlers.DashboardHandler,
	askHandler *handlers.AskHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Auth Routes ────
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", authHandler.Me)
		})
	})

	// ──── Upload Pipeline ────
	r.Group(func(r chi.Router) {
		r.Use(jwtAuth.Middleware)
		r.Post("/upload", uploadHandler.Upload)
	})

	// ──── Notes Routes ────
	r.Route("/notes", func(r chi.Router) {
		r.Use(jwtAuth.Middleware)
		r.Get("/history", notesHandler.History)
		r.Get("/{id}", notesHandler.Get)
		r.Delete("/{id}", notesHandler.Delete)
	})

	// ──── Quiz Routes ────
	r.Route("/quiz", func(r chi.Router) {
		r.Use(jwtAuth.Middleware)
		r.Post("/submit", quizHandler.Submit)
		r.Get("/history/{noteId}", quizHandler.History)
	})

	// ──── Dashboard Routes ────
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(jwtAuth.Middleware)
		r.Get("/stats", dashboardHandler.Stats)
	})

	// ──── Ask Route ────
	r.Group(func(r chi.Router) {
		r.Use(jwtAuth.Middleware)
		r.Post("/ask", askHandler.Ask)
	})

	return r
}
