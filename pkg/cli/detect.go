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

	"github.com/urfave/cli/v3"
)

func detectCmd() *cli.Command {
	return &cli.Command{
		Name:      "detect",
		Usage:     "Print the kind of a diagnostic bundle",
		ArgsUsage: "BUNDLE",
		Description: `Identify the bundle kind from marker file names without extracting
the archive.`,
		Flags: []cli.Flag{
			markersFlag,
			sevenZipFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := bundleArg(cmd)
			if err != nil {
				return err
			}
			a, err := newAnalyzer(cmd)
			if err != nil {
				return err
			}
			kind, err := a.Detect(ctx, path)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, kind)
			return err
		},
	}
}
