package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/cassiomorais/reconciler/internal/service"
)

// WebhookHandler is the pipeline the controller drives.
type WebhookHandler interface {
	Handle(ctx context.Context, req service.WebhookRequest) (*service.WebhookResult, error)
}

type WebhookController struct {
	webhooks WebhookHandler
}

func NewWebhookController(webhooks WebhookHandler) *WebhookController {
	return &WebhookController{webhooks: webhooks}
}

// Receive reads the body once and hands it to the pipeline. Any request that
// gets past authentication and validation is acknowledged with 200 so the
// provider does not redeliver it.
func (c *WebhookController) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, err)
			return
		}
		writeError(w, fmt.Errorf("read body: %w", domainErrors.ErrMalformedBody))
		return
	}

	if _, err := c.webhooks.Handle(r.Context(), service.WebhookRequest{
		Headers: r.Header,
		Body:    body,
	}); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AckResponse{Received: true})
}

// Preflight answers OPTIONS requests that the CORS middleware let through.
func (c *WebhookController) Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
