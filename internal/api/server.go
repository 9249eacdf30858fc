// internal/api/server.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"prospector/internal/common/logger"
	"prospector/internal/common/observability"
	"prospector/internal/outreach"
	"prospector/internal/prospecting"
	"prospector/internal/repository"
	"prospector/internal/store"
)

// Server wires the repository and the two orchestrators into a JSON API the
// browser frontend talks to.
type Server struct {
	repo        *repository.Repository
	prospecting *prospecting.Handler
	outreach    *outreach.Handler
	store       store.Store
	obs         *observability.Observability // nil disables OTel recording
	logger      logger.Logger
}

func NewServer(repo *repository.Repository, search *prospecting.Handler, drafts *outreach.Handler, st store.Store, log logger.Logger) *Server {
	return &Server{
		repo:        repo,
		prospecting: search,
		outreach:    drafts,
		store:       st,
		logger:      log.With(map[string]interface{}{"component": "api"}),
	}
}

// WithObservability attaches the OTel meter used to record orchestrator
// operations.
func (s *Server) WithObservability(obs *observability.Observability) *Server {
	s.obs = obs
	return s
}

func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(Metrics)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handlePutProfile)

		r.Get("/services", s.handleListServices)
		r.Post("/services", s.handleCreateService)
		r.Delete("/services/{id}", s.handleDeleteService)

		r.Get("/prospects", s.handleListProspects)
		r.Get("/prospects/{id}", s.handleGetProspect)
		r.Delete("/prospects", s.handleDeleteProspects)

		r.Post("/search", s.handleSearch)

		r.Get("/emails", s.handleListEmails)
		r.Delete("/emails", s.handleDeleteEmails)
		r.Get("/emails/export.csv", s.handleExportEmails)

		r.Post("/outreach", s.handleDraftOne)
		r.Post("/outreach/batch", s.handleDraftBatch)

		r.Get("/calls", s.handleListCalls)
		r.Post("/calls", s.handleLogCall)
		r.Delete("/calls", s.handleDeleteCalls)
	})

	return r
}
