package routes

import (
	"net/http"
	"time"

	"hermes/hermes/controllers"
	"hermes/hermes/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Controllers struct {
	Auth      *controllers.AuthController
	Chat      *controllers.ChatController
	Analytics *controllers.AnalyticsController
	Health    *controllers.HealthController
}

// NewRouter mounts every route group.
func NewRouter(ctrls Controllers, jwtSecret string, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Mount("/health", HealthRoutes(ctrls.Health))
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/auth", AuthRoutes(ctrls.Auth))

	// chat is bounded by the agent timeout instead; /chat/ws is hijacked
	r.Mount("/chat", ChatRoutes(ctrls.Chat, jwtSecret))

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Timeout(requestTimeout))
		gr.Mount("/analytics", AnalyticsRoutes(ctrls.Analytics))
	})
	return r
}
