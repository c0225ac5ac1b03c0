package service

import (
	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	"github.com/cassiomorais/reconciler/pkg/steps"
)

// WebhookRequest is the transport-independent view of an inbound
// notification. Body is the raw request body, read exactly once.
type WebhookRequest struct {
	Headers map[string][]string
	Body    []byte
}

// WebhookResult describes how far a notification got. On rejection Stage is
// one of the terminal error stages and the returned error carries the cause.
type WebhookResult struct {
	Stage    webhook.Stage
	Gateway  webhook.Gateway
	Event    *webhook.PaymentEvent
	Outcomes []steps.Outcome
}
