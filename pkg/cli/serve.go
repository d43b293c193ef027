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

package cli

import (
	"context"
	"runtime"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/triage/pkg/api"
	"github.com/NVIDIA/triage/pkg/defaults"
	"github.com/NVIDIA/triage/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the analysis API over HTTP",
		Description: `Run an HTTP server that analyzes bundles stored under --bundle-root.

Bundle paths in requests are relative to the root and may not leave it.

# Endpoints

  POST /v1/analyze   {"bundle": "bundle-2024.zip", "checks": ["zk-fsync"]}
  GET  /v1/detect?bundle=bundle-2024.zip
  GET  /v1/nodes?bundle=bundle-2024.zip
  GET  /v1/checks?kind=cluster-diagnostic
  GET  /health, /ready, /metrics

Requests past --max-concurrent get 503 with Retry-After. Requests past
--rate-limit get 429.

# Examples

  triage serve --bundle-root /srv/bundles --port 8080`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "bundle-root",
				Usage:    "Directory holding the bundles to serve",
				Required: true,
				Sources:  envVars("BUNDLE_ROOT"),
			},
			&cli.StringFlag{
				Name:    "address",
				Usage:   "Address to listen on",
				Sources: envVars("ADDRESS"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Port to listen on",
				Value:   8080,
				Sources: cli.EnvVars("PORT", envPrefix+"PORT"),
			},
			&cli.FloatFlag{
				Name:    "rate-limit",
				Usage:   "Requests per second accepted by the API routes",
				Value:   10,
				Sources: envVars("RATE_LIMIT"),
			},
			&cli.IntFlag{
				Name:    "burst",
				Usage:   "Requests accepted in a burst above --rate-limit",
				Value:   20,
				Sources: envVars("BURST"),
			},
			&cli.DurationFlag{
				Name:    "analyze-timeout",
				Usage:   "Time limit for each request that opens a bundle",
				Value:   defaults.ServerAnalyzeTimeout,
				Sources: envVars("ANALYZE_TIMEOUT"),
			},
			&cli.DurationFlag{
				Name:    "shutdown-timeout",
				Usage:   "Time allowed for in-flight requests to finish on shutdown",
				Value:   defaults.ServerShutdownTimeout,
				Sources: envVars("SHUTDOWN_TIMEOUT"),
			},
			&cli.IntFlag{
				Name:    "max-concurrent",
				Usage:   "Maximum number of bundles opened at once",
				Value:   1,
				Sources: envVars("MAX_CONCURRENT"),
			},
			&cli.IntFlag{
				Name:    "parallelism",
				Usage:   "Maximum number of checks running at once per analysis",
				Value:   runtime.NumCPU(),
				Sources: envVars("PARALLELISM"),
			},
			&cli.DurationFlag{
				Name:    "check-timeout",
				Usage:   "Time limit for each check",
				Value:   defaults.CheckTimeout,
				Sources: envVars("CHECK_TIMEOUT"),
			},
			workdirFlag,
			markersFlag,
			sevenZipFlag,
			extractTimeoutFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newAnalyzer(cmd)
			if err != nil {
				return err
			}
			a.Parallelism = cmd.Int("parallelism")
			a.CheckTimeout = cmd.Duration("check-timeout")

			cfg := server.DefaultConfig()
			cfg.Address = cmd.String("address")
			cfg.Port = cmd.Int("port")
			cfg.RequestsPerSecond = cmd.Float("rate-limit")
			cfg.Burst = cmd.Int("burst")
			cfg.ShutdownTimeout = cmd.Duration("shutdown-timeout")
			// the response must outlive the analysis it carries
			cfg.WriteTimeout = max(cfg.WriteTimeout, cmd.Duration("analyze-timeout")+time.Minute)

			return api.Serve(ctx, api.Config{
				BundleRoot:     cmd.String("bundle-root"),
				Analyzer:       a,
				MaxConcurrent:  cmd.Int("max-concurrent"),
				AnalyzeTimeout: cmd.Duration("analyze-timeout"),
				Server:         &cfg,
			})
		},
	}
}
