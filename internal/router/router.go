package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reachout-dev/reachout/internal/handler"
	"github.com/reachout-dev/reachout/internal/jwt"
	"github.com/reachout-dev/reachout/internal/middleware"
	"github.com/reachout-dev/reachout/internal/middleware/metrics"
)

// New wires all routes. Everything under /v1 except the auth endpoints
// requires a bearer access token.
func New(h *handler.Handler, jwtService jwt.JwtService) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8081"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)
			r.Get("/status", h.AuthStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(jwtService))

			r.Route("/config", func(r chi.Router) {
				r.Post("/", h.CreateConfig)
				r.Get("/", h.GetConfig)
				r.Put("/", h.UpdateConfig)
			})

			r.Route("/recruiters", func(r chi.Router) {
				r.Get("/", h.ListRecruiters)
				r.Post("/", h.CreateRecruiter)
				r.Post("/bulk", h.CreateRecruitersBulk)
				r.Put("/{recruiterId}", h.UpdateRecruiter)
				r.Delete("/{recruiterId}", h.DeleteRecruiter)
			})

			r.Route("/emails", func(r chi.Router) {
				r.Get("/status", h.EmailStatus)
				r.Post("/send", h.SendBatch)
				r.Post("/{recruiterId}", h.SendEmail)
			})
		})
	})

	return r
}
