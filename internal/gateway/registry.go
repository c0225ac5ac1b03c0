package gateway

import (
	"net/http"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/cassiomorais/reconciler/internal/domain/webhook"
)

// Registry holds the configured adapters and their shared secrets and picks
// the adapter for an inbound request.
type Registry struct {
	adapters []Adapter
	secrets  map[webhook.Gateway]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{secrets: make(map[webhook.Gateway]string)}
}

// Register adds an adapter. An empty secret keeps the gateway detectable
// but every request for it fails with ErrMissingSecret.
func (r *Registry) Register(a Adapter, secret string) *Registry {
	r.adapters = append(r.adapters, a)
	r.secrets[a.Name()] = secret
	return r
}

// Detect returns the adapter whose signature header is present together with
// the header value. Exactly one header must be present.
func (r *Registry) Detect(h http.Header) (Adapter, string, error) {
	var (
		found     Adapter
		signature string
	)
	for _, a := range r.adapters {
		v := h.Get(a.SignatureHeader())
		if v == "" {
			continue
		}
		if found != nil {
			return nil, "", domainErrors.ErrAmbiguousSignature
		}
		found, signature = a, v
	}
	if found == nil {
		return nil, "", domainErrors.ErrMissingSignature
	}
	return found, signature, nil
}

// Secret returns the shared secret configured for g.
func (r *Registry) Secret(g webhook.Gateway) (string, error) {
	secret := r.secrets[g]
	if secret == "" {
		return "", domainErrors.ErrMissingSecret
	}
	return secret, nil
}

// Gateways lists the registered gateways in registration order.
func (r *Registry) Gateways() []webhook.Gateway {
	out := make([]webhook.Gateway, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a.Name())
	}
	return out
}
