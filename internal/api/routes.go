package api

import "github.com/go-chi/chi/v5"

// Register mounts the API routes under /api. A nil admin handler leaves the
// admin routes out.
func Register(r chi.Router, metrics *MetricsHandler, centers *CallCentersHandler, admin *AdminHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/metrics", metrics.GetMetrics)
		r.Get("/metrics/daily", metrics.GetDaily)
		r.Get("/metrics/latest", metrics.GetLatest)
		r.Get("/metrics/export", metrics.ExportCSV)
		r.Get("/call-centers", centers.List)

		if admin != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Post("/seed", admin.Seed)
				r.Post("/wipe", admin.Wipe)
			})
		}
	})
}
