package providers

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})

	cfg := HTTPClientConfig{Client: srv.Client(), Backoff: fastBackoff}
	var out struct {
		OK bool `json:"ok"`
	}

	err := getJSON(context.Background(), cfg, newCircuitBreaker("test"), srv.URL, &out)

	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetJSON_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	cfg := HTTPClientConfig{Client: srv.Client(), Backoff: fastBackoff}
	err := getJSON(context.Background(), cfg, newCircuitBreaker("test"), srv.URL, &struct{}{})

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(fastBackoff.MaxRetries+1), atomic.LoadInt32(&calls))
}

func TestGetJSON_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	cfg := HTTPClientConfig{Client: srv.Client(), Backoff: fastBackoff}
	err := getJSON(context.Background(), cfg, newCircuitBreaker("test"), srv.URL, &struct{}{})

	assert.ErrorIs(t, err, ErrUnexpected)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetJSON_InvalidBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	cfg := HTTPClientConfig{Client: srv.Client(), Backoff: fastBackoff}
	err := getJSON(context.Background(), cfg, newCircuitBreaker("test"), srv.URL, &struct{}{})

	assert.ErrorContains(t, err, "failed to decode response")
}

func TestGetJSON_ContextCancelled(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := HTTPClientConfig{Client: srv.Client(), Backoff: BackoffConfig{MaxRetries: 5, InitialInterval: time.Second}}
	err := getJSON(ctx, cfg, newCircuitBreaker("test"), srv.URL, &struct{}{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoRequestWithResilience_InvalidConfig(t *testing.T) {
	_, err := doRequestWithResilience(context.Background(), HTTPClientConfig{}, newCircuitBreaker("test"), nil)
	assert.ErrorIs(t, err, errNoHTTPClient)

	_, err = doRequestWithResilience(context.Background(), HTTPClientConfig{Client: http.DefaultClient}, newCircuitBreaker("test"), nil)
	assert.ErrorIs(t, err, errInvalidConfig)
}
