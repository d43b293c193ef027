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
	"fmt"
	"log/slog"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/checks"
	"github.com/NVIDIA/triage/pkg/defaults"
	"github.com/NVIDIA/triage/pkg/serializer"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "analyze",
		EnableShellCompletion: true,
		Usage:                 "Run health checks against a diagnostic bundle",
		ArgsUsage:             "BUNDLE",
		Description: `Detect the bundle kind, extract it if it is an archive, discover its
nodes and run every check that applies to the bundle kind.

Archives are extracted next to the archive (or into --workdir) and reused
on later runs.

# Examples

Analyze an archive and print the alert tables:
  triage analyze bundle-2024-01-01.zip

Run two checks only and write JSON:
  triage analyze --check zk-fsync --check oom-killer --format json -o report.json bundle.tar.gz

Fail the run when anything alerts:
  triage analyze --fail-on-alert ./bundle-dir`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "check",
				Usage: "Run only the named check (can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "skip",
				Usage: "Skip the named check (can be repeated)",
			},
			&cli.IntFlag{
				Name:    "parallelism",
				Usage:   "Maximum number of checks running at once",
				Value:   runtime.NumCPU(),
				Sources: envVars("PARALLELISM"),
			},
			&cli.DurationFlag{
				Name:    "check-timeout",
				Usage:   "Time limit for each check",
				Value:   defaults.CheckTimeout,
				Sources: envVars("CHECK_TIMEOUT"),
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Time limit for the whole analysis",
				Value:   defaults.AnalyzeTimeout,
				Sources: envVars("TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write check metrics in Prometheus text format to this file",
				Sources: envVars("METRICS_FILE"),
			},
			&cli.BoolFlag{
				Name:    "fail-on-alert",
				Usage:   "Exit with status 2 when any check alerts",
				Sources: envVars("FAIL_ON_ALERT"),
			},
			workdirFlag,
			markersFlag,
			sevenZipFlag,
			extractTimeoutFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := bundleArg(cmd)
			if err != nil {
				return err
			}

			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			reg, err := checks.DefaultRegistry().Select(cmd.StringSlice("check"), cmd.StringSlice("skip"))
			if err != nil {
				return err
			}

			a, err := newAnalyzer(cmd)
			if err != nil {
				return err
			}
			a.Registry = reg
			a.Parallelism = cmd.Int("parallelism")
			a.CheckTimeout = cmd.Duration("check-timeout")

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if err := w.Close(); err != nil {
					slog.Warn("failed to close output", "error", err)
				}
			}()
			a.Serializer = w

			if d := cmd.Duration("timeout"); d > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}

			rep, err := a.Run(ctx, path)
			if err != nil {
				return err
			}

			if mf := cmd.String("metrics-file"); mf != "" {
				if err := check.WriteMetrics(mf); err != nil {
					return fmt.Errorf("failed to write metrics: %w", err)
				}
			}

			if cmd.Bool("fail-on-alert") && rep.HasAlerts() {
				return fmt.Errorf("%w: %d checks alerted", errAlerts, rep.Summary.Alerted)
			}
			return nil
		},
	}
}
