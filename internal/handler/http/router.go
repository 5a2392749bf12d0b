package http

import (
	"log/slog"

	"github.com/cmlabs-hris/attendance-gate/internal/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(logger *slog.Logger, allowedOrigins []string, flowHandler FlowHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: false,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.Get("/", web.IndexHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/office", flowHandler.Office)

		r.Route("/flows", func(r chi.Router) {
			r.Post("/", flowHandler.Open)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", flowHandler.Get)
				r.Delete("/", flowHandler.Close)
				r.Get("/events", flowHandler.Stream)

				r.Group(func(r chi.Router) {
					r.Use(chiMiddleware.AllowContentType("application/json"))
					r.Post("/location", flowHandler.Locate)
					r.Patch("/form", flowHandler.UpdateForm)
				})

				r.Post("/toggle", flowHandler.ToggleType)
				r.Post("/submit", flowHandler.Submit)
				r.Post("/reset", flowHandler.Reset)
			})
		})
	})
	return r
}
