package calculator

import (
	"github.com/go-chi/chi/v5"

	"deskcalc/internal/session"
)

// RegisterRoutes mounts all calculator endpoints onto the given router under
// the /calculator prefix. The manager owns every session created over HTTP.
func RegisterRoutes(r chi.Router, sessions *session.Manager) {
	h := NewSessionHandlers(sessions)

	r.Route("/calculator", func(r chi.Router) {
		r.Post("/add", Add)
		r.Post("/subtract", Subtract)
		r.Post("/multiply", Multiply)
		r.Post("/divide", Divide)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.Create)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", h.Get)
				r.Delete("/", h.Delete)
				r.Post("/commands", h.Command)
				r.Post("/keys", h.Keys)
				r.Get("/history", h.History)
				r.Delete("/history", h.ClearHistory)
				r.Get("/watch", h.Watch)
			})
		})
	})
}
