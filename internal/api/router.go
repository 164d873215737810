package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"promo-engine/internal/observability"
)

func Router(h *PromoHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.Measure)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/promos/{feature}", func(r chi.Router) {
			r.Get("/", h.Status)
			r.Get("/can-show", h.CanShow)
			r.Post("/show", h.Show)
			r.Post("/demo", h.ShowDemo)
			r.Post("/queue", h.Queue)
			r.Post("/end", h.End)
		})
		r.Post("/anchors/{anchor}", h.SetAnchorVisible)
		r.Post("/tracker/init", h.InitTracker)
		r.Post("/bubble/{action}", h.BubbleAction)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.MetricsHandler())
	return r
}
