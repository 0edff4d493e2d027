// Package httpapi exposes session acquisition, patient import and treatment
// sheets over HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"vethub-sync/internal/application/port/input"
	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
)

type Config struct {
	Sessions input.SessionAcquirer
	Importer input.PatientImporter
	Syncer   input.PatientSyncer
	Store    output.PatientStore
	Logger   output.LoggerPort

	Treatments input.TreatmentFetcher

	// Defaults fill in credentials missing from request bodies.
	Defaults          entity.Credentials
	DefaultDepartment string

	MetricsHandler http.Handler
	// RequestLogs enables httplog access logging.
	RequestLogs bool
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	h := newHandler(cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if cfg.RequestLogs {
		r.Use(httplog.RequestLogger(httplog.NewLogger("vethub-sync", httplog.Options{
			JSON:    true,
			Concise: true,
		})))
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/integrations/vetradar", func(api chi.Router) {
		api.Post("/session", h.CreateSession)
		api.Post("/import", h.RunImport)
		api.Get("/patients", h.GetPatients)
		api.Post("/patients/{id}/import", h.ImportPatient)
		api.Post("/sync", h.SyncPatients)
		api.Post("/treatment", h.FetchTreatment)
	})
	return r
}
