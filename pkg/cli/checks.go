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

	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/checks"
	"github.com/NVIDIA/triage/pkg/report"
	"github.com/NVIDIA/triage/pkg/serializer"
	"github.com/NVIDIA/triage/pkg/types"
)

func checksCmd() *cli.Command {
	return &cli.Command{
		Name:  "checks",
		Usage: "List the available checks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Only list checks that apply to this bundle kind",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			all := checks.DefaultRegistry().List()
			if s := cmd.String("kind"); s != "" {
				kind, err := types.ParseKind(s)
				if err != nil {
					return err
				}
				all = checks.DefaultRegistry().ForKind(kind)
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if err := w.Close(); err != nil {
					slog.Warn("failed to close output", "error", err)
				}
			}()

			return w.Serialize(ctx, report.NewCheckList(version, check.Infos(all)))
		},
	}
}
