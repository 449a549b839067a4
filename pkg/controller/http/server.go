package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/idswatch/pkg/domain/model/errs"
)

const defaultCORSOrigin = "*"

type Server struct {
	router        *chi.Mux
	corsOrigin    string
	enableMetrics bool
	metrics       *metrics
}

type Options func(*Server)

// WithCORSOrigin sets the value of Access-Control-Allow-Origin.
func WithCORSOrigin(origin string) Options {
	return func(s *Server) {
		s.corsOrigin = origin
	}
}

func WithMetrics(enabled bool) Options {
	return func(s *Server) {
		s.enableMetrics = enabled
	}
}

func New(uc UseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:     r,
		corsOrigin: defaultCORSOrigin,
		metrics:    newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(loggingMiddleware)
	r.Use(panicRecoveryMiddleware)
	r.Use(corsMiddleware(s.corsOrigin))
	r.Use(s.metrics.middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, errs.MsgRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, errs.MsgRouteNotFound)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authLoginHandler(uc, s.metrics))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(uc))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", authLogoutHandler(uc))
				r.Get("/me", authMeHandler())
				r.Get("/sessions", authSessionsHandler(uc))
				r.Post("/change-password", authChangePasswordHandler(uc))
				r.Post("/notification-email", authNotificationEmailHandler(uc))
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/", alertListHandler(uc))
				r.Get("/summary", alertSummaryHandler(uc))
				r.Get("/dashboard", alertDashboardHandler(uc))
				r.Get("/{alertID}", alertGetHandler(uc))
				r.Post("/{alertID}/actions", alertActionHandler(uc))
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/summary", reportSummaryHandler(uc))
				r.Post("/basic", reportBasicHandler(uc))
			})

			r.Get("/help", helpHandler(uc))
		})
	})

	if s.enableMetrics {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
