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
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/logging"
	"github.com/NVIDIA/triage/pkg/serializer"
)

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(s *Server) {
		s.cfg = cfg
	}
}

// WithRoutes mounts handlers by ServeMux pattern behind the request
// middleware.
func WithRoutes(routes map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		for pattern, h := range routes {
			s.routes[pattern] = h
		}
	}
}

// Server hosts API routes next to the /health and /ready probes and the
// Prometheus /metrics endpoint.
type Server struct {
	cfg     Config
	routes  map[string]http.HandlerFunc
	limiter *rate.Limiter
	handler http.Handler
	srv     *http.Server
	ready   atomic.Bool
}

// New builds a Server. A configuration that cannot be served is an
// INVALID_REQUEST error.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    DefaultConfig(),
		routes: make(map[string]http.HandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	if bad := s.cfg.validate(); bad != nil {
		return nil, trerrors.NewWithContext(trerrors.ErrCodeInvalidRequest, "invalid server configuration", bad)
	}

	s.limiter = rate.NewLimiter(rate.Limit(s.cfg.RequestsPerSecond), s.cfg.Burst)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /ready", s.readiness)
	mux.Handle("GET /metrics", promhttp.Handler())
	for pattern, h := range s.routes {
		mux.Handle(pattern, s.chain(h))
	}
	s.handler = mux

	s.srv = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		ErrorLog:          logging.NewLogLogger(slog.LevelWarn, false),
	}
	return s, nil
}

// Handler returns the routed handler Serve listens with.
func (s *Server) Handler() http.Handler {
	return s.handler
}

type healthResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	serializer.RespondJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Name:    s.cfg.Name,
		Version: s.cfg.Version,
	})
}

// readiness fails while the server is starting or draining.
func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		WriteError(w, r, trerrors.New(trerrors.ErrCodeUnavailable, "server is not accepting analyses"))
		return
	}
	serializer.RespondJSON(w, http.StatusOK, healthResponse{
		Status:  "ready",
		Name:    s.cfg.Name,
		Version: s.cfg.Version,
	})
}

// Serve listens until ctx is canceled or the process receives SIGINT or
// SIGTERM, then drains in-flight requests for up to ShutdownTimeout.
func (s *Server) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return trerrors.WrapWithContext(trerrors.ErrCodeUnavailable, "failed to listen", err,
			map[string]any{"address": s.srv.Addr})
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.ready.Store(true)
		slog.Info("api listening",
			"name", s.cfg.Name,
			"version", s.cfg.Version,
			"address", ln.Addr().String(),
			"requestsPerSecond", s.cfg.RequestsPerSecond,
			"burst", s.cfg.Burst)
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.ready.Store(false)
		slog.Info("draining api requests", "timeout", s.cfg.ShutdownTimeout)

		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(drainCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("api server: %w", err)
	}
	slog.Info("api stopped")
	return nil
}
