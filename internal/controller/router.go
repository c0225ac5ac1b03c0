package controller

import (
	"net/http"
	"time"

	"github.com/cassiomorais/reconciler/internal/infrastructure/config"
	"github.com/cassiomorais/reconciler/internal/infrastructure/observability"
	customMW "github.com/cassiomorais/reconciler/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type RouterDeps struct {
	Webhooks         WebhookHandler
	DB               DBPinger
	Redis            RedisPinger
	Metrics          *observability.Metrics
	Gatherer         prometheus.Gatherer
	CORSConfig       config.CORSConfig
	SignatureHeaders []string
	RateLimit        int
	MaxBodyBytes     int64
	HandlerTimeout   time.Duration
	Logger           zerolog.Logger
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(customMW.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   append([]string{"Accept", "Content-Type"}, deps.SignatureHeaders...),
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	if deps.Metrics != nil {
		r.Use(customMW.Metrics(deps.Metrics))
	}

	healthH := NewHealthController(deps.DB, deps.Redis)
	webhookH := NewWebhookController(deps.Webhooks)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	timeout := deps.HandlerTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r.Group(func(r chi.Router) {
		r.Use(customMW.Tracing("webhook"))
		r.Use(customMW.RateLimit(deps.RateLimit))
		if deps.MaxBodyBytes > 0 {
			r.Use(customMW.MaxBodySize(deps.MaxBodyBytes))
		}
		r.Use(chimw.Timeout(timeout))

		r.Options("/", webhookH.Preflight)
		r.Post("/", webhookH.Receive)
	})

	return r
}
