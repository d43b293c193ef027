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

package checks

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/NVIDIA/triage/pkg/artifact"
	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/defaults"
	"github.com/NVIDIA/triage/pkg/node"
	"github.com/NVIDIA/triage/pkg/report"
)

const (
	nameCheckTime = "check-time"
	nameKmemSlub  = "kmem-slub"
	nameOOMKiller = "oom-killer"

	checkTimeFailure = "check-time' returned non-zero exit status"
	slubFailure      = "SLUB: Unable to allocate memory on node -1"
)

var killedProcess = regexp.MustCompile(`Killed process \d+ \((\S+)\)`)

// runCheckTime counts clock check failures across every service log of
// each node.
func runCheckTime(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("Nodes with check-time failures", "IP", "Type", "Failures")
	for _, n := range in.Nodes {
		logs, err := artifact.ResolveAll(n.RootPath, serviceLogs)
		if err != nil {
			return nil, err
		}
		for _, path := range logs {
			if _, err := scanFile(ctx, nameCheckTime, n, path, func(line string) error {
				if strings.Contains(line, checkTimeFailure) {
					n.IncClockCheckFailures()
				}
				return nil
			}); err != nil {
				return nil, err
			}
		}
		if c := n.ClockCheckFailures(); c > 0 {
			t.AddRow(n.Address, n.Role.String(), strconv.Itoa(c))
		}
	}
	check.SortByCountDesc(t, 2)
	return tables(t), nil
}

// runKmemSlub counts kernel slab allocation failures on agents.
func runKmemSlub(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("Agents with kernel memory allocation errors", "IP", "Type", "Errors")
	for _, n := range agents(in) {
		if _, err := scanArtifact(ctx, nameKmemSlub, n, dmesgOutput, func(line string) error {
			if strings.Contains(line, slubFailure) {
				n.IncMemoryAllocationErrors()
			}
			return nil
		}); err != nil {
			return nil, err
		}
		if c := n.MemoryAllocationErrors(); c > 0 {
			t.AddRow(n.Address, n.Role.String(), strconv.Itoa(c))
		}
	}
	check.SortByCountDesc(t, 2)
	return tables(t), nil
}

// runOOMKiller counts processes killed by the kernel OOM killer and names
// the most frequent victims.
func runOOMKiller(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("Nodes where the OOM killer was invoked", "IP", "Type", "Kills", "Top Processes")
	for _, n := range in.Nodes {
		if _, err := scanArtifact(ctx, nameOOMKiller, n, dmesgOutput, func(line string) error {
			if !strings.Contains(line, "Killed process") {
				return nil
			}
			if m := killedProcess.FindStringSubmatch(line); m != nil {
				n.IncKillEvents()
				n.KilledProcesses.Inc(m[1])
			}
			return nil
		}); err != nil {
			return nil, err
		}
		if c := n.KillEvents(); c > 0 {
			t.AddRow(n.Address, n.Role.String(), strconv.Itoa(c), formatCounts(n.KilledProcesses.Top(defaults.TopK)))
		}
	}
	check.SortByCountDesc(t, 2)
	return tables(t), nil
}

// formatCounts renders counts as "key (n), key (n)".
func formatCounts(counts []node.Count) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s (%d)", c.Key, c.Count))
	}
	return strings.Join(parts, ", ")
}
