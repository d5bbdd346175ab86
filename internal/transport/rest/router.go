package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ecoscan/wastecal/internal/config"
	"github.com/ecoscan/wastecal/internal/transport/middleware"
)

// Handlers groups every REST handler mounted by NewRouter.
type Handlers struct {
	Health    *HealthHandler
	Location  *LocationHandler
	Sync      *SyncHandler
	Calendar  *CalendarHandler
	Reminders *ReminderHandler
	Scan      *ScanHandler
}

// RouterConfig holds the settings the router needs.
type RouterConfig struct {
	CORS          config.CORSConfig
	Auth          config.AuthConfig
	ScanRateLimit int
}

// NewRouter mounts all routes. Reads are open; mutating routes require
// basic auth when it is configured. Scans are rate limited per client.
func NewRouter(h Handlers, cfg RouterConfig, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Chain(
		middleware.RequestID(),
		chimw.RealIP,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/live", h.Health.Live)
	r.Get("/ready", h.Health.Ready)
	r.Get("/health", h.Health.Health)
	r.Get("/version", h.Health.Version)

	r.Route("/api", func(r chi.Router) {
		r.Get("/location", h.Location.Get)
		r.Get("/location/suggestions", h.Location.Suggestions)
		r.Get("/places", h.Location.Places)

		r.Get("/sync/status", h.Sync.Status)

		r.Get("/calendar/marked", h.Calendar.Marked)
		r.Get("/calendar/agenda", h.Calendar.Agenda)
		r.Get("/calendar/export.ics", h.Calendar.Export)

		r.Get("/reminders", h.Reminders.List)
		r.Get("/events/{id}/reminder", h.Reminders.ForEvent)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BasicAuth(cfg.Auth, logger))

			r.Put("/location", h.Location.Put)
			r.Delete("/location", h.Location.Delete)

			r.Post("/sync", h.Sync.Sync)

			r.Put("/reminders", h.Reminders.Put)
			r.Delete("/reminders/{id}", h.Reminders.Delete)

			r.With(limiter.Limit(cfg.ScanRateLimit)).Post("/scan", h.Scan.Scan)
		})
	})

	return r
}
