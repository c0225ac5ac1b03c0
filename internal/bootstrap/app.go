package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/cassiomorais/reconciler/internal/controller"
	"github.com/cassiomorais/reconciler/internal/gateway"
	"github.com/cassiomorais/reconciler/internal/infrastructure/config"
	"github.com/cassiomorais/reconciler/internal/infrastructure/kafka"
	"github.com/cassiomorais/reconciler/internal/infrastructure/observability"
	infraRedis "github.com/cassiomorais/reconciler/internal/infrastructure/redis"
	"github.com/cassiomorais/reconciler/internal/repository/postgres"
	"github.com/cassiomorais/reconciler/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Metrics  *observability.Metrics
	Handler  http.Handler
	closers  []io.Closer
	shutdown observability.ShutdownFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, cfg.InstanceID, os.Stdout)
	log.Logger = logger
	logger.Info().Msg("Starting")

	app := &App{Config: cfg, Logger: logger}

	app.shutdown, err = observability.InitTracer(cfg.Observability.EnableTracing, cfg.Observability.JaegerEndpoint, cfg.InstanceID)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		app.shutdown = func(context.Context) error { return nil }
	} else if cfg.Observability.EnableTracing {
		logger.Info().Msg("Tracing enabled")
	}

	var gatherer prometheus.Gatherer
	if cfg.Observability.EnableMetrics {
		app.Metrics = observability.NewMetrics(observability.ServiceName, prometheus.DefaultRegisterer)
		gatherer = prometheus.DefaultGatherer
		logger.Info().Msg("Metrics initialized")
	}

	app.Pool, err = postgres.NewPool(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info().Msg("Connected to PostgreSQL")

	publisher, err := app.newPublisher(ctx)
	if err != nil {
		app.Close(context.Background())
		return nil, err
	}

	registry := NewRegistry(cfg.Gateways)
	for _, gw := range registry.Gateways() {
		if _, err := registry.Secret(gw); err != nil {
			logger.Warn().Str("gateway", string(gw)).Msg("Webhook secret not configured, requests will be rejected")
		}
	}

	reconciler := service.NewReconciler(service.Stores{
		Bookings:      postgres.NewBookingRepository(app.Pool),
		Ledger:        postgres.NewLedgerRepository(app.Pool),
		Intents:       postgres.NewPaymentIntentRepository(app.Pool),
		Notifications: postgres.NewNotificationRepository(app.Pool),
	}, service.ReconcilerOptions{
		Guard: service.GuardConfig{
			Timeout:     cfg.Reconcile.StepTimeout,
			MaxFailures: cfg.Reconcile.BreakerMaxFailures,
			OpenTimeout: cfg.Reconcile.BreakerOpenTimeout,
		},
		AtomicBookingLedger: cfg.Reconcile.AtomicBookingLedger,
		TxManager:           postgres.NewTxManager(app.Pool),
		Publisher:           publisher,
		Metrics:             app.Metrics,
	}, logger)

	deps := controller.RouterDeps{
		Webhooks:     service.NewWebhookService(registry, reconciler, app.Metrics, logger),
		DB:           app.Pool,
		Metrics:      app.Metrics,
		Gatherer:     gatherer,
		CORSConfig:   cfg.Server.CORS,
		RateLimit:    cfg.Server.RateLimitPerMinute,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		SignatureHeaders: []string{
			cfg.Gateways.Stripe.SignatureHeader,
			cfg.Gateways.Paystack.SignatureHeader,
		},
		HandlerTimeout: cfg.Server.WriteTimeout,
		Logger:         logger,
	}
	if app.Redis != nil {
		deps.Redis = app.Redis
	}
	app.Handler = controller.NewRouter(deps)

	return app, nil
}

// NewRegistry builds the gateway registry from configuration. Gateways with
// an empty secret stay registered so their requests get a 500 rather than
// falling through to signature detection of another provider.
func NewRegistry(cfg config.GatewaysConfig) *gateway.Registry {
	return gateway.NewRegistry().
		Register(gateway.NewStripeAdapter(
			gateway.WithStripeHeader(cfg.Stripe.SignatureHeader),
			gateway.WithTolerance(cfg.Stripe.Tolerance),
		), cfg.Stripe.Secret).
		Register(gateway.NewPaystackAdapter(cfg.Paystack.SignatureHeader), cfg.Paystack.Secret)
}

func (a *App) newPublisher(ctx context.Context) (service.EventPublisher, error) {
	switch a.Config.Events.Sink {
	case config.SinkRedis:
		client, err := infraRedis.NewClient(ctx, &a.Config.Redis, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.Redis = client
		a.closers = append(a.closers, client)
		a.Logger.Info().Str("stream", a.Config.Events.Stream).Msg("Publishing audit records to Redis stream")
		return infraRedis.NewStreamPublisher(client, a.Config.Events.Stream), nil
	case config.SinkKafka:
		p := kafka.NewPublisher(a.Config.Events.KafkaBrokers, a.Config.Events.KafkaTopic)
		a.closers = append(a.closers, p)
		a.Logger.Info().Str("topic", a.Config.Events.KafkaTopic).Msg("Publishing audit records to Kafka")
		return p, nil
	default:
		return nil, nil
	}
}

// Close releases connections in reverse order of acquisition and flushes
// pending spans.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close resource")
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to flush traces")
		}
	}
}
