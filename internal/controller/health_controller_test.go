package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type redisPingerFunc func(ctx context.Context) error

func (f redisPingerFunc) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if err := f(ctx); err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func ok(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func TestHealthController_Readiness(t *testing.T) {
	tests := []struct {
		name   string
		db     DBPinger
		redis  RedisPinger
		status int
		body   string
	}{
		{"all up", pingerFunc(ok), redisPingerFunc(ok), http.StatusOK, `{"status":"ready"}`},
		{"no redis configured", pingerFunc(ok), nil, http.StatusOK, `{"status":"ready"}`},
		{"database down", pingerFunc(down), redisPingerFunc(ok), http.StatusServiceUnavailable, `{"status":"not ready","reason":"database unavailable"}`},
		{"redis down", pingerFunc(ok), redisPingerFunc(down), http.StatusServiceUnavailable, `{"status":"not ready","reason":"redis unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthController(tt.db, tt.redis)
			w := httptest.NewRecorder()

			h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestHealthController_Liveness(t *testing.T) {
	h := NewHealthController(pingerFunc(down), nil)

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
