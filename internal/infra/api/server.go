package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"jobportal-subscription/internal/usecase"
)

// Server exposes the subscription core over HTTP/JSON.
type Server struct {
	entUC    usecase.EntitlementUseCase
	subUC    usecase.SubscriptionUseCase
	planUC   usecase.PlanUseCase
	statsUC  usecase.StatsUseCase
	auth     *AuthManager
	adminPwd string
	validate *validator.Validate
	log      *zerolog.Logger
}

func NewServer(
	entUC usecase.EntitlementUseCase,
	subUC usecase.SubscriptionUseCase,
	planUC usecase.PlanUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	adminPassword string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		entUC:    entUC,
		subUC:    subUC,
		planUC:   planUC,
		statsUC:  statsUC,
		auth:     auth,
		adminPwd: adminPassword,
		validate: validator.New(),
		log:      logger,
	}
}

// Router builds the full route tree.
func (s *Server) Router(requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", s.handleListPlans)
		r.Get("/subscriptions/status", s.handleSubscriptionStatus)
		r.Get("/subscriptions/history", s.handleSubscriptionHistory)
		r.Post("/subscriptions", s.handleCreateSubscription)
		r.Post("/subscriptions/cancel", s.handleCancelSubscription)
		r.Post("/orders", s.handleCreateOrder)
		r.Post("/orders/verify", s.handleVerifyPayment)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.handleAdminLogin)
			r.Group(func(r chi.Router) {
				r.Use(func(next http.Handler) http.Handler { return AdminGuard(s.auth)(next) })
				r.Get("/stats", s.handleAdminStats)
				r.Post("/plans", s.handleAdminCreatePlan)
				r.Delete("/plans/{id}", s.handleAdminDeletePlan)
			})
		})
	})

	return Chain(r,
		TraceID(),
		IdentityContext(),
		RequestLog(s.log),
		Recover(s.log),
		Timeout(requestTimeout),
	)
}
