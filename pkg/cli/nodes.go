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
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/triage/pkg/report"
	"github.com/NVIDIA/triage/pkg/serializer"
)

func nodesCmd() *cli.Command {
	return &cli.Command{
		Name:      "nodes",
		Usage:     "List the nodes discovered in a diagnostic bundle",
		ArgsUsage: "BUNDLE",
		Description: `Extract the bundle if needed and print every discovered node with its
address, role and directory.`,
		Flags: []cli.Flag{
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

			a, err := newAnalyzer(cmd)
			if err != nil {
				return err
			}

			b, err := a.Open(ctx, path)
			if err != nil {
				return err
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if err := w.Close(); err != nil {
					slog.Warn("failed to close output", "error", err)
				}
			}()

			return w.Serialize(ctx, report.NewNodeList(version, b.Path, b.Kind, b.Nodes))
		},
	}
}
