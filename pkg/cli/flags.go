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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/triage/pkg/analyzer"
	"github.com/NVIDIA/triage/pkg/bundle"
	"github.com/NVIDIA/triage/pkg/defaults"
	"github.com/NVIDIA/triage/pkg/markers"
	"github.com/NVIDIA/triage/pkg/serializer"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
		Sources: envVars("OUTPUT"),
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Value:   string(serializer.FormatTable),
		Sources: envVars("FORMAT"),
	}

	workdirFlag = &cli.StringFlag{
		Name:    "workdir",
		Usage:   "Directory to extract archives into (default: next to the archive)",
		Sources: envVars("WORKDIR"),
	}

	markersFlag = &cli.StringFlag{
		Name:    "markers",
		Usage:   "YAML marker table replacing the built-in one",
		Sources: envVars("MARKERS"),
	}

	sevenZipFlag = &cli.StringFlag{
		Name:    "7z",
		Usage:   "7z binary used when a zip archive is corrupt",
		Value:   bundle.DefaultSevenZip,
		Sources: envVars("7Z"),
	}

	extractTimeoutFlag = &cli.DurationFlag{
		Name:    "extract-timeout",
		Usage:   "Time limit for archive extraction",
		Value:   defaults.ExtractTimeout,
		Sources: envVars("EXTRACT_TIMEOUT"),
	}
)

// parseOutputFormat reads and validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	return serializer.ParseFormat(cmd.String("format"))
}

// bundleArg returns the single positional bundle path.
func bundleArg(cmd *cli.Command) (string, error) {
	if cmd.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one bundle path, got %d", cmd.NArg())
	}
	return cmd.Args().First(), nil
}

// newAnalyzer builds an analyzer from the flags shared by the bundle
// commands.
func newAnalyzer(cmd *cli.Command) (*analyzer.Analyzer, error) {
	opts := []bundle.Option{
		bundle.WithWorkDir(cmd.String("workdir")),
		bundle.WithSevenZip(cmd.String("7z")),
	}
	if d := cmd.Duration("extract-timeout"); d > 0 {
		opts = append(opts, bundle.WithTimeout(d))
	}
	a := &analyzer.Analyzer{
		Version:   version,
		Extractor: bundle.NewExtractor(opts...),
	}
	if path := cmd.String("markers"); path != "" {
		table, err := markers.Load(path)
		if err != nil {
			return nil, err
		}
		a.Markers = table
	}
	return a, nil
}
