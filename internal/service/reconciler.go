package service

import (
	"context"
	"errors"

	"github.com/cassiomorais/reconciler/internal/domain/booking"
	"github.com/cassiomorais/reconciler/internal/domain/intent"
	"github.com/cassiomorais/reconciler/internal/domain/ledger"
	"github.com/cassiomorais/reconciler/internal/domain/notification"
	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	"github.com/cassiomorais/reconciler/internal/infrastructure/observability"
	"github.com/cassiomorais/reconciler/pkg/steps"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Reconciliation step names.
const (
	StepUpdateBooking         = "update_booking"
	StepReadBooking           = "read_booking"
	StepInsertLedger          = "insert_ledger"
	StepBookingLedgerTx       = "update_booking_and_ledger"
	StepInsertNotification    = "insert_notification"
	StepCompletePaymentIntent = "complete_payment_intent"
	StepFailPaymentIntent     = "fail_payment_intent"
)

// EventPublisher receives an audit record for every reconciled event.
type EventPublisher interface {
	Name() string
	Publish(ctx context.Context, rec *webhook.AuditRecord) error
}

// Stores groups the collaborator stores reconciliation writes to.
type Stores struct {
	Bookings      booking.Repository
	Ledger        ledger.Repository
	Intents       intent.Repository
	Notifications notification.Repository
}

// ReconcilerOptions tunes the engine. AtomicBookingLedger needs a
// TransactionManager and is ignored without one.
type ReconcilerOptions struct {
	Guard               GuardConfig
	AtomicBookingLedger bool
	TxManager           TransactionManager
	Publisher           EventPublisher
	Metrics             *observability.Metrics
}

// Report is the result of reconciling one event.
type Report struct {
	Outcomes []steps.Outcome
	// Err joins the errors of failed steps. It never changes the response.
	Err error
}

// Executed reports whether any step ran.
func (r *Report) Executed() bool { return len(r.Outcomes) > 0 }

// Reconciler applies canonical payment events to the collaborator stores.
// Steps are independent best-effort writes: a failed step is logged and the
// remaining steps still run. Nothing deduplicates redelivered events.
type Reconciler struct {
	stores    Stores
	guard     *Guard
	txManager TransactionManager
	atomic    bool
	publisher EventPublisher
	metrics   *observability.Metrics
	tracer    trace.Tracer
	logger    zerolog.Logger
}

func NewReconciler(stores Stores, opts ReconcilerOptions, logger zerolog.Logger) *Reconciler {
	r := &Reconciler{
		stores:    stores,
		txManager: opts.TxManager,
		atomic:    opts.AtomicBookingLedger && opts.TxManager != nil,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		tracer:    observability.Tracer(),
		logger:    logger,
	}
	if opts.AtomicBookingLedger && opts.TxManager == nil {
		logger.Warn().Msg("atomic booking/ledger mode requested without a transaction manager, using independent writes")
	}
	// Collaborator stores are attempted on every delivery; only the audit
	// sink sits behind a breaker.
	r.guard = NewGuard(opts.Guard, opts.Metrics, logger, StoreEventSink)
	return r
}

// Reconcile runs the steps that apply to evt. Writes are detached from
// request cancellation so a disconnecting caller cannot interrupt them.
func (r *Reconciler) Reconcile(ctx context.Context, evt *webhook.PaymentEvent) *Report {
	ctx = context.WithoutCancel(ctx)
	ctx, span := r.tracer.Start(ctx, "reconcile", trace.WithAttributes(
		attribute.String("gateway", string(evt.Gateway)),
		attribute.String("event.class", string(evt.Class)),
		attribute.String("event.type", evt.EventType),
	))
	defer span.End()

	logger := observability.EventLogger(r.logger, string(evt.Gateway), evt.EventType, evt.ProviderReference)

	runner := r.plan(evt)
	if runner.Len() == 0 {
		logger.Info().Str("class", string(evt.Class)).
			Bool("has_booking", evt.BookingID != nil).
			Bool("has_amount", evt.HasAmount()).
			Msg("no reconciliation needed")
		return &Report{}
	}

	runner.OnFailure(func(name string, err error) {
		logger.Error().Err(err).Str("step", name).Msg("reconciliation step failed")
	})

	outcomes, err := runner.Run(ctx)
	for _, o := range outcomes {
		if r.metrics != nil {
			r.metrics.ReconcileSteps.WithLabelValues(o.Name, string(o.Result)).Inc()
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "one or more steps failed")
	}

	summary := steps.Summary(outcomes)
	logger.Info().Interface("steps", summary).Msg("event reconciled")

	r.publish(ctx, evt, summary, logger)

	return &Report{Outcomes: outcomes, Err: err}
}

func (r *Reconciler) plan(evt *webhook.PaymentEvent) *steps.Runner {
	runner := steps.New("reconcile " + string(evt.Class))

	switch evt.Class {
	case webhook.ClassSuccess:
		if evt.BookingID == nil || !evt.HasAmount() {
			return runner
		}
		r.planSuccess(runner, evt)
	case webhook.ClassFailure:
		if evt.PaymentIntentID == nil {
			return runner
		}
		runner.AddStep(r.step(StepFailPaymentIntent, func(ctx context.Context) error {
			return r.guard.Do(ctx, StoreIntents, func(ctx context.Context) error {
				return r.stores.Intents.UpdateStatus(ctx, *evt.PaymentIntentID, intent.StatusFailed, evt.ProviderReference)
			})
		}))
	}

	return runner
}

func (r *Reconciler) planSuccess(runner *steps.Runner, evt *webhook.PaymentEvent) {
	bookingID := *evt.BookingID
	amount := evt.Amount()
	var current *booking.Booking

	updateBooking := func(ctx context.Context) error {
		return r.guard.Do(ctx, StoreBookings, func(ctx context.Context) error {
			return r.stores.Bookings.UpdatePaymentStatus(ctx, bookingID, booking.PaymentStatusPaid, amount)
		})
	}
	readBooking := func(ctx context.Context) error {
		return r.guard.Do(ctx, StoreBookings, func(ctx context.Context) error {
			b, err := r.stores.Bookings.GetByID(ctx, bookingID)
			if err != nil {
				return err
			}
			current = b
			return nil
		})
	}
	insertLedger := func(ctx context.Context) error {
		if current == nil {
			return steps.ErrSkip
		}
		entry := ledger.NewPaymentEntry(current.TenantID, bookingID, current.CustomerID, amount, evt.Gateway, evt.ProviderReference)
		return r.guard.Do(ctx, StoreLedger, func(ctx context.Context) error {
			return r.stores.Ledger.Insert(ctx, entry)
		})
	}

	if r.atomic {
		runner.AddStep(r.step(StepBookingLedgerTx, func(ctx context.Context) error {
			err := r.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
				if err := updateBooking(txCtx); err != nil {
					return err
				}
				if err := readBooking(txCtx); err != nil {
					return err
				}
				return insertLedger(txCtx)
			})
			if err != nil {
				// Rolled back: the booking read inside the transaction is void.
				current = nil
			}
			return err
		}))
	} else {
		runner.AddStep(r.step(StepUpdateBooking, updateBooking))
		runner.AddStep(r.step(StepReadBooking, readBooking))
		runner.AddStep(r.step(StepInsertLedger, insertLedger))
	}

	runner.AddStep(r.step(StepInsertNotification, func(ctx context.Context) error {
		if current == nil {
			return steps.ErrSkip
		}
		n := notification.NewPaymentReceived(current.TenantID, bookingID, amount, evt.Gateway)
		return r.guard.Do(ctx, StoreNotifications, func(ctx context.Context) error {
			return r.stores.Notifications.Insert(ctx, n)
		})
	}))

	if evt.PaymentIntentID != nil {
		intentID := *evt.PaymentIntentID
		runner.AddStep(r.step(StepCompletePaymentIntent, func(ctx context.Context) error {
			return r.guard.Do(ctx, StoreIntents, func(ctx context.Context) error {
				return r.stores.Intents.UpdateStatus(ctx, intentID, intent.StatusCompleted, evt.ProviderReference)
			})
		}))
	}
}

// step wraps fn in a child span named after the step.
func (r *Reconciler) step(name string, fn func(ctx context.Context) error) steps.Step {
	return steps.Step{
		Name: name,
		Execute: func(ctx context.Context) error {
			ctx, span := r.tracer.Start(ctx, "reconcile."+name)
			defer span.End()

			err := fn(ctx)
			if err != nil && !errors.Is(err, steps.ErrSkip) {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		},
	}
}

func (r *Reconciler) publish(ctx context.Context, evt *webhook.PaymentEvent, summary map[string]string, logger zerolog.Logger) {
	if r.publisher == nil {
		return
	}

	rec := webhook.NewAuditRecord(evt, summary)
	err := r.guard.Do(ctx, StoreEventSink, func(ctx context.Context) error {
		return r.publisher.Publish(ctx, rec)
	})

	status := "published"
	if err != nil {
		status = "failed"
		logger.Error().Err(err).Str("sink", r.publisher.Name()).Msg("failed to publish audit record")
	}
	if r.metrics != nil {
		r.metrics.AuditEvents.WithLabelValues(r.publisher.Name(), status).Inc()
	}
}
