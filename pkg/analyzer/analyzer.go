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

package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/triage/pkg/bundle"
	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/checks"
	"github.com/NVIDIA/triage/pkg/header"
	"github.com/NVIDIA/triage/pkg/markers"
	"github.com/NVIDIA/triage/pkg/node"
	"github.com/NVIDIA/triage/pkg/report"
	"github.com/NVIDIA/triage/pkg/serializer"
	"github.com/NVIDIA/triage/pkg/types"
)

// Analyzer turns a bundle path into a report.
type Analyzer struct {
	// Version is stamped on the report.
	Version string

	// Markers identifies bundle kinds and node roles. If nil, the embedded
	// table is used.
	Markers *markers.Table

	// Registry holds the checks to run. If nil, every built-in check runs.
	Registry *check.Registry

	// Extractor unpacks archives. If nil, a default extractor is used.
	Extractor *bundle.Extractor

	// Parallelism bounds concurrently running checks. Zero means one per CPU.
	Parallelism int

	// CheckTimeout bounds each check. Zero means the default.
	CheckTimeout time.Duration

	// Serializer receives the report in Run. If nil, Run writes a table to
	// stdout.
	Serializer serializer.Serializer
}

// Bundle is an extracted bundle with its discovered nodes.
type Bundle struct {
	Path  string
	Dir   string
	Kind  types.Kind
	Nodes []*node.Node
}

func (a *Analyzer) markerTable() (*markers.Table, error) {
	if a.Markers != nil {
		return a.Markers, nil
	}
	return markers.Default()
}

// Detect returns the kind of the bundle at path without extracting it.
func (a *Analyzer) Detect(ctx context.Context, path string) (types.Kind, error) {
	table, err := a.markerTable()
	if err != nil {
		return "", err
	}
	return bundle.Detect(ctx, path, table)
}

// Open detects, extracts and discovers the bundle at path.
func (a *Analyzer) Open(ctx context.Context, path string) (*Bundle, error) {
	table, err := a.markerTable()
	if err != nil {
		return nil, err
	}

	kind, err := bundle.Detect(ctx, path, table)
	if err != nil {
		return nil, err
	}
	slog.Info("detected bundle", "path", path, "kind", kind)

	ex := a.Extractor
	if ex == nil {
		ex = bundle.NewExtractor()
	}
	dir, err := ex.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	nodes, err := node.Discover(dir, kind, table)
	if err != nil {
		return nil, err
	}
	slog.Info("discovered nodes", "count", len(nodes))

	return &Bundle{Path: path, Dir: dir, Kind: kind, Nodes: nodes}, nil
}

// Analyze opens the bundle at path and runs every applicable check.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*report.Report, error) {
	b, err := a.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	reg := a.Registry
	if reg == nil {
		reg = checks.DefaultRegistry()
	}
	eng := &check.Engine{
		Registry:    reg,
		Parallelism: a.Parallelism,
		Timeout:     a.CheckTimeout,
	}

	res, err := eng.Run(ctx, &check.Input{BundleDir: b.Dir, Kind: b.Kind, Nodes: b.Nodes})
	if err != nil {
		return nil, fmt.Errorf("check run interrupted: %w", err)
	}
	if err := res.Err(); err != nil {
		slog.Warn("some checks did not complete", "error", err)
	}

	rep := &report.Report{
		Bundle:    b.Path,
		BundleDir: b.Dir,
		Kind:      b.Kind,
		Nodes:     b.Nodes,
		Checks:    res.Summaries(),
	}
	rep.Init(header.KindReport, a.Version)
	rep.Set(header.MetadataRunID, uuid.NewString())
	rep.Tally()

	slog.Info("analysis complete",
		"checks", rep.Summary.Checks,
		"alerted", rep.Summary.Alerted,
		"failed", rep.Summary.Failed,
		"timedOut", rep.Summary.TimedOut)
	return rep, nil
}

// Run analyzes the bundle at path and serializes the report.
func (a *Analyzer) Run(ctx context.Context, path string) (*report.Report, error) {
	rep, err := a.Analyze(ctx, path)
	if err != nil {
		return nil, err
	}

	ser := a.Serializer
	if ser == nil {
		ser = serializer.NewStdoutWriter(serializer.FormatTable)
	}
	if err := ser.Serialize(ctx, rep); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return rep, nil
}
