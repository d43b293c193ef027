// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
)

// echoRoutes returns a route that answers with the request ID it saw and a
// route that panics.
func echoRoutes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /v1/echo": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(RequestID(r.Context())))
		},
		"GET /v1/panic": func(http.ResponseWriter, *http.Request) {
			panic("corrupt state")
		},
	}
}

func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Name = "triage-test"
	cfg.Version = "v0.0.1"
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(WithConfig(cfg), WithRoutes(echoRoutes()))
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		r.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, ":8080", DefaultConfig().Addr())
	assert.Equal(t, "127.0.0.1:9000", Config{Address: "127.0.0.1", Port: 9000}.Addr())
	assert.Equal(t, "[::1]:9000", Config{Address: "::1", Port: 9000}.Addr())
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative port", func(c *Config) { c.Port = -1 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"zero rate", func(c *Config) { c.RequestsPerSecond = 0 }},
		{"zero burst", func(c *Config) { c.Burst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(WithConfig(cfg))
			require.Error(t, err)
			assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeInvalidRequest))
		})
	}
}

func TestHealthReadyMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.Handler()

	w := get(t, h, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, healthResponse{Status: "ok", Name: "triage-test", Version: "v0.0.1"}, health)
	assert.Empty(t, w.Header().Get(RequestIDHeader), "health checks skip the middleware")

	w = get(t, h, "/ready", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, string(trerrors.ErrCodeUnavailable), errorCode(t, w))

	s.ready.Store(true)
	assert.Equal(t, http.StatusOK, get(t, h, "/ready", nil).Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = get(t, h, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "triage_api_rate_limited_total")
}

func TestChain_RequestID(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	known := uuid.NewString()

	tests := []struct {
		name string
		sent string
		keep bool
	}{
		{"kept when a uuid", known, true},
		{"replaced when not a uuid", "not-a-uuid", false},
		{"assigned when absent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.sent != "" {
				header.Set(RequestIDHeader, tt.sent)
			}
			w := get(t, h, "/v1/echo", header)
			require.Equal(t, http.StatusOK, w.Code)

			id := w.Header().Get(RequestIDHeader)
			assert.Equal(t, id, w.Body.String(), "handler sees the response ID")
			_, err := uuid.Parse(id)
			require.NoError(t, err)
			if tt.keep {
				assert.Equal(t, tt.sent, id)
			} else {
				assert.NotEqual(t, tt.sent, id)
			}
		})
	}
}

func TestChain_RateLimit(t *testing.T) {
	h := newTestServer(t, func(c *Config) {
		c.RequestsPerSecond = 0.5
		c.Burst = 1
	}).Handler()

	require.Equal(t, http.StatusOK, get(t, h, "/v1/echo", nil).Code)

	w := get(t, h, "/v1/echo", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, string(trerrors.ErrCodeRateLimitExceeded), errorCode(t, w))
	assert.Contains(t, []string{"1", "2"}, w.Header().Get("Retry-After"))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	// health and readiness are never limited
	assert.Equal(t, http.StatusOK, get(t, h, "/health", nil).Code)
}

func TestChain_RecoversPanic(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	before := testutil.ToFloat64(apiPanics)

	w := get(t, h, "/v1/panic", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, string(trerrors.ErrCodeInternal), errorCode(t, w))
	assert.InDelta(t, before+1, testutil.ToFloat64(apiPanics), 0)

	assert.Equal(t, http.StatusOK, get(t, h, "/v1/echo", nil).Code)
}

func TestChain_RecordsRouteMetrics(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	ok := apiRequests.WithLabelValues("GET /v1/echo", "200")
	failed := apiRequests.WithLabelValues("GET /v1/panic", "500")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	get(t, h, "/v1/echo?bundle=a.zip", nil)
	get(t, h, "/v1/echo?bundle=b.zip", nil)
	get(t, h, "/v1/panic", nil)

	assert.InDelta(t, okBefore+2, testutil.ToFloat64(ok), 0)
	assert.InDelta(t, failedBefore+1, testutil.ToFloat64(failed), 0)
}

func TestServe_ReadyUntilCanceled(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.ShutdownTimeout = 2 * time.Second })
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ready")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Get(base + "/v1/echo")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.False(t, s.ready.Load())

	_, err = http.Get(base + "/health")
	assert.Error(t, err, "listener is closed after draining")
}

func TestServe_ListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	s := newTestServer(t, func(c *Config) {
		c.Address = "127.0.0.1"
		c.Port = port
	})
	err = s.Serve(context.Background())
	require.Error(t, err)
	assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeUnavailable))
}
