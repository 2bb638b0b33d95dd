package httpx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amiseo/cockpit/internal/metrics"
	"github.com/amiseo/cockpit/internal/utils"
)

func NewRouter(log *slog.Logger, h *Handlers, m *metrics.Metrics) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(m.Middleware)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Method(http.MethodGet, "/metrics", m.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/session", h.Session)
		r.Get("/clients", h.ListClients)
		r.Get("/clients/{id}", h.GetClient)
		r.Put("/clients/{id}", h.UpdateClient)
	})

	return mux
}
