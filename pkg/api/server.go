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

package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/NVIDIA/triage/pkg/analyzer"
	"github.com/NVIDIA/triage/pkg/server"
)

const name = "triage-api"

// Config configures Serve.
type Config struct {
	// BundleRoot is the directory requests resolve bundle paths against.
	BundleRoot string

	// Analyzer is the template for every analysis. Its Version is reported
	// by /health.
	Analyzer *analyzer.Analyzer

	// MaxConcurrent bounds bundles opened at once. Zero means one.
	MaxConcurrent int

	// AnalyzeTimeout bounds each request that opens a bundle. Zero means
	// defaults.ServerAnalyzeTimeout.
	AnalyzeTimeout time.Duration

	// Server overrides the listen, rate limit and timeout settings. If nil,
	// server.DefaultConfig is used.
	Server *server.Config
}

// newServer mounts the analysis routes for cfg on a server.
func newServer(cfg Config) (*server.Server, *Handler, error) {
	a := cfg.Analyzer
	if a == nil {
		a = &analyzer.Analyzer{}
	}

	h, err := NewHandler(cfg.BundleRoot,
		WithAnalyzer(a),
		WithMaxConcurrent(cfg.MaxConcurrent),
		WithTimeout(cfg.AnalyzeTimeout),
	)
	if err != nil {
		return nil, nil, err
	}

	sc := server.DefaultConfig()
	if cfg.Server != nil {
		sc = *cfg.Server
	}
	sc.Name = name
	if a.Version != "" {
		sc.Version = a.Version
	}

	s, err := server.New(server.WithConfig(sc), server.WithRoutes(h.Routes()))
	if err != nil {
		return nil, nil, err
	}
	return s, h, nil
}

// Serve runs the analysis API until ctx is canceled or the process is
// signaled.
func Serve(ctx context.Context, cfg Config) error {
	s, h, err := newServer(cfg)
	if err != nil {
		return err
	}

	slog.Info("serving bundles", "root", h.root, "maxConcurrent", h.maxConcurrent)
	return s.Serve(ctx)
}
