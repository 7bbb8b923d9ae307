package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/reportgen/internal/config"
	"github.com/dgallion1/reportgen/internal/phrase"
	"github.com/dgallion1/reportgen/internal/session"
	"github.com/dgallion1/reportgen/internal/stats"
)

// Server is the HTTP API server for report generation.
type Server struct {
	router   chi.Router
	sessions *session.Manager
	catalog  *phrase.Catalog
	latency  *stats.Latency
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Manager, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		catalog:  sessions.Catalog(),
		latency:  sessions.Latency(),
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/generate", s.handleGenerate)
		r.Post("/api/generate/upload", s.handleGenerateUpload)
		r.Post("/api/validate", s.handleValidate)
		r.Get("/api/phrases/{reportType}", s.handlePhrases)

		r.Route("/api/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Put("/shorthand", s.handleRegenerate)
				r.Post("/shorthand/draft", s.handleDraft)
				r.Post("/shorthand/upload", s.handleRegenerateUpload)
				r.Post("/edit", s.handleToggleEdit)
				r.Put("/text", s.handleSubmitText)
			})
		})

		r.Get("/api/stats/generation", s.handleGenerationStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
