package service

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/cassiomorais/reconciler/internal/infrastructure/observability"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Store names used for breakers, timeouts and metrics labels.
const (
	StoreBookings      = "bookings"
	StoreLedger        = "ledger"
	StoreIntents       = "payment_intents"
	StoreNotifications = "notifications"
	StoreEventSink     = "event_sink"
)

// GuardConfig bounds every outbound call made during reconciliation.
type GuardConfig struct {
	Timeout     time.Duration
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Guard wraps outbound calls with a timeout. Stores named at construction
// also get a circuit breaker; calls to any other store are always attempted.
// A timed out or rejected call is returned as an ordinary error.
type Guard struct {
	timeout  time.Duration
	breakers map[string]*gobreaker.CircuitBreaker[struct{}]
	metrics  *observability.Metrics
}

// NewGuard creates one breaker per name in breakered. metrics may be nil.
func NewGuard(cfg GuardConfig, metrics *observability.Metrics, logger zerolog.Logger, breakered ...string) *Guard {
	g := &Guard{
		timeout:  cfg.Timeout,
		breakers: make(map[string]*gobreaker.CircuitBreaker[struct{}], len(breakered)),
		metrics:  metrics,
	}

	for _, name := range breakered {
		g.breakers[name] = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.MaxFailures
			},
			// A missing row means the store answered.
			IsSuccessful: func(err error) bool {
				return err == nil ||
					errors.Is(err, domainErrors.ErrBookingNotFound) ||
					errors.Is(err, domainErrors.ErrPaymentIntentNotFound)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn().Str("store", name).Str("from", from.String()).Str("to", to.String()).
					Msg("circuit breaker state changed")
				if metrics != nil {
					metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
				}
			},
		})
	}

	return g
}

// Do runs fn against store under the step timeout and, if store has one, its
// breaker.
func (g *Guard) Do(ctx context.Context, store string, fn func(ctx context.Context) error) error {
	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cb, ok := g.breakers[store]
	if !ok {
		return fn(callCtx)
	}

	_, err := cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn(callCtx)
	})
	g.record(store, err)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domainErrors.NewDomainError("circuit_open", store+" unavailable", err)
	}
	return err
}

// State returns the breaker state for store.
func (g *Guard) State(store string) gobreaker.State {
	if cb, ok := g.breakers[store]; ok {
		return cb.State()
	}
	return gobreaker.StateClosed
}

func (g *Guard) record(store string, err error) {
	if g.metrics == nil {
		return
	}
	result := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "rejected"
	case errors.Is(err, context.DeadlineExceeded):
		result = "timeout"
	case err != nil:
		result = "failure"
	}
	g.metrics.CircuitBreakerRequests.WithLabelValues(store, result).Inc()
}
