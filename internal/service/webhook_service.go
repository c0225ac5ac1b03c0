package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	"github.com/cassiomorais/reconciler/internal/gateway"
	"github.com/cassiomorais/reconciler/internal/infrastructure/observability"
	"github.com/cassiomorais/reconciler/pkg/steps"
	"github.com/rs/zerolog"
)

// EventReconciler applies a canonical event to the stores.
type EventReconciler interface {
	Reconcile(ctx context.Context, evt *webhook.PaymentEvent) *Report
}

// WebhookService runs the inbound pipeline: detect the gateway, check its
// secret, verify the signature, validate and normalize the payload, then
// reconcile. Every rejection happens before any store is touched.
type WebhookService struct {
	registry   *gateway.Registry
	reconciler EventReconciler
	metrics    *observability.Metrics
	logger     zerolog.Logger
	now        func() time.Time
}

// NewWebhookService creates the pipeline. metrics may be nil.
func NewWebhookService(registry *gateway.Registry, reconciler EventReconciler, metrics *observability.Metrics, logger zerolog.Logger) *WebhookService {
	return &WebhookService{
		registry:   registry,
		reconciler: reconciler,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle processes one notification. A nil error means the notification
// must be acknowledged, even if reconciliation steps failed.
func (s *WebhookService) Handle(ctx context.Context, req WebhookRequest) (*WebhookResult, error) {
	start := s.now()
	res := &WebhookResult{Stage: webhook.StageReceived}

	err := s.run(ctx, req, res)

	gw := string(res.Gateway)
	if gw == "" {
		gw = "none"
	}
	if s.metrics != nil {
		s.metrics.WebhooksTotal.WithLabelValues(gw, string(res.Stage)).Inc()
		s.metrics.WebhookDuration.WithLabelValues(gw).Observe(s.now().Sub(start).Seconds())
	}

	logger := s.logger.With().Str("gateway", gw).Str("stage", string(res.Stage)).Logger()
	if err != nil {
		switch {
		case res.Stage == webhook.StageConfigError:
			logger.Error().Err(err).Msg("webhook rejected")
		case isRejection(err):
			logger.Warn().Err(err).Msg("webhook rejected")
		default:
			logger.Error().Err(err).Msg("webhook failed")
		}
		return res, err
	}
	logger.Info().Str("event_type", res.Event.EventType).Str("class", string(res.Event.Class)).
		Msg("webhook acknowledged")
	return res, nil
}

func (s *WebhookService) run(ctx context.Context, req WebhookRequest, res *WebhookResult) error {
	// Encoding is checked before anything gateway-specific, including the
	// secret lookup.
	if !gateway.IsJSONObject(req.Body) {
		res.Stage = webhook.StageRejectedBadBody
		return domainErrors.ErrMalformedBody
	}

	adapter, signature, err := s.registry.Detect(http.Header(req.Headers))
	if err != nil {
		res.Stage = webhook.StageRejectedNoSig
		return err
	}
	res.Gateway = adapter.Name()
	res.Stage = webhook.StageGatewayIdentified

	secret, err := s.registry.Secret(adapter.Name())
	if err != nil {
		res.Stage = webhook.StageConfigError
		return err
	}

	if !adapter.Verify(req.Body, signature, secret) {
		res.Stage = webhook.StageRejectedBadSig
		return domainErrors.ErrInvalidSignature
	}
	res.Stage = webhook.StageSignatureVerified

	env, err := adapter.ParseEnvelope(req.Body)
	if err != nil {
		res.Stage = webhook.StageRejectedBadSchema
		return fmt.Errorf("parse %s envelope: %w", adapter.Name(), err)
	}
	res.Stage = webhook.StageSchemaValidated

	evt, err := adapter.Normalize(env)
	if err != nil {
		res.Stage = webhook.StageRejectedBadSchema
		return fmt.Errorf("normalize %s event: %w", adapter.Name(), err)
	}
	evt.ReceivedAt = s.now()
	res.Event = evt
	res.Stage = webhook.StageEventNormalized

	if s.metrics != nil {
		s.metrics.WebhookEvents.WithLabelValues(string(evt.Gateway), string(evt.Class)).Inc()
		if evt.AmountOutOfRange {
			s.metrics.AmountDiscarded.WithLabelValues(string(evt.Gateway)).Inc()
		}
	}
	if evt.AmountOutOfRange {
		s.logger.Warn().Str("gateway", string(evt.Gateway)).Str("provider_reference", evt.ProviderReference).
			Msg("amount outside accepted range, treated as absent")
	}

	report := s.reconciler.Reconcile(ctx, evt)
	res.Outcomes = report.Outcomes
	if report.Executed() && report.Err != nil {
		s.logger.Warn().Str("gateway", string(evt.Gateway)).Str("provider_reference", evt.ProviderReference).
			Interface("steps", steps.Summary(report.Outcomes)).
			Msg("acknowledging despite failed reconciliation steps")
	}
	res.Stage = webhook.StageAcknowledged
	return nil
}

// isRejection reports whether err came from the pipeline's own checks
// rather than from an unexpected failure.
func isRejection(err error) bool {
	for _, target := range []error{
		domainErrors.ErrMissingSignature,
		domainErrors.ErrAmbiguousSignature,
		domainErrors.ErrInvalidSignature,
		domainErrors.ErrMissingSecret,
		domainErrors.ErrMalformedBody,
		domainErrors.ErrSchemaViolation,
		domainErrors.ErrInvalidReference,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
