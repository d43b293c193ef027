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
	"cmp"
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/NVIDIA/triage/pkg/artifact"
	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/node"
	"github.com/NVIDIA/triage/pkg/report"
	"github.com/NVIDIA/triage/pkg/types"
)

// Artifact name patterns, relative to a node root.
const (
	mesosMasterLog    = "dcos-mesos-master.service*"
	mesosAgentLog     = "dcos-mesos-slave*.service*"
	exhibitorLog      = "dcos-exhibitor.service*"
	marathonLog       = "dcos-marathon.service*"
	cockroachLog      = "dcos-cockroach.service*"
	poststartLog      = "dcos-checks-poststart.service*"
	dmesgOutput       = "dmesg*"
	processList       = "ps_aux_ww_Z.output"
	timedatectlOutput = "timedatectl.output"
	osReleaseOutput   = "binsh_-c_cat etc*-release.output"
	dockerVersion     = "docker_--version.output"
	serviceLogs       = "*.service"

	clusterVersionFile = "opt/mesosphere/etc/dcos-version.json"
	agentsFile         = "5050-master_slaves.json"
	exhibitorServers   = "443-exhibitor_exhibitor_v1_cluster_list.json"
	registryFile       = "5050-registrar_1__registry.json"
	masterStateFile    = "5050-master_state.json"
	orchestratorNodes  = "cluster-data/nodes.json"
)

var (
	cdAndCO = []types.Kind{types.KindClusterDiagnostic, types.KindClusterOneliner}
	cdOnly  = []types.Kind{types.KindClusterDiagnostic}
	odOnly  = []types.Kind{types.KindOrchestratorDiagnostic}
)

// agents returns every node that is not a control plane, including single
// host nodes of unknown role.
func agents(in *check.Input) []*node.Node {
	return node.Filter(in.Nodes, func(n *node.Node) bool { return !n.Role.IsControlPlane() })
}

// scanArtifact resolves pattern on n and calls fn for each line. It reports
// whether the artifact was scanned. Only context errors are returned.
func scanArtifact(ctx context.Context, name string, n *node.Node, pattern string, fn func(line string) error) (bool, error) {
	path, ok := check.ResolveArtifact(name, n, pattern)
	if !ok {
		return false, nil
	}
	return scanFile(ctx, name, n, path, fn)
}

func scanFile(ctx context.Context, name string, n *node.Node, path string, fn func(line string) error) (bool, error) {
	stats, err := artifact.ScanLines(ctx, path, fn)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		slog.Warn("unable to scan artifact", "check", name, "node", n.Address, "path", path, "error", err)
		return false, nil
	}
	if stats.Malformed > 0 {
		slog.Debug("skipped undecodable lines", "check", name, "node", n.Address, "path", path, "count", stats.Malformed)
	}
	return true, nil
}

// countLines counts lines of the artifact containing substr.
func countLines(ctx context.Context, name string, n *node.Node, pattern, substr string) (int, bool, error) {
	count := 0
	ok, err := scanArtifact(ctx, name, n, pattern, func(line string) error {
		if strings.Contains(line, substr) {
			count++
		}
		return nil
	})
	return count, ok, err
}

// containsLine reports whether any line of the artifact contains substr.
func containsLine(ctx context.Context, name string, n *node.Node, pattern, substr string) (bool, bool, error) {
	found := false
	ok, err := scanArtifact(ctx, name, n, pattern, func(line string) error {
		if strings.Contains(line, substr) {
			found = true
			return artifact.ErrStop
		}
		return nil
	})
	return found, ok, err
}

// scanEvents collects a timestamped event for every line matching re. The
// subject is the first capture group, or the node address when re has none.
func scanEvents(ctx context.Context, name string, nodes []*node.Node, pattern, prefilter string, re *regexp.Regexp) ([]check.Event, error) {
	var events []check.Event
	for _, n := range nodes {
		_, err := scanArtifact(ctx, name, n, pattern, func(line string) error {
			if !strings.Contains(line, prefilter) {
				return nil
			}
			m := re.FindStringSubmatch(line)
			if m == nil {
				return nil
			}
			ts, ok := check.ExtractTimestamp(line)
			if !ok {
				slog.Debug("event without timestamp", "check", name, "node", n.Address, "line", line)
				return nil
			}
			subject := n.Address
			if len(m) > 1 {
				subject = m[1]
			}
			events = append(events, check.Event{Time: ts, Subject: subject})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

// tables drops nil tables.
func tables(ts ...*report.Table) []*report.Table {
	out := make([]*report.Table, 0, len(ts))
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// sortByRole stably orders rows by the role in column roleCol, then by the
// address in column addrCol.
func sortByRole(t *report.Table, roleCol, addrCol int) {
	t.SortBy(func(a, b []string) int {
		if c := cmp.Compare(types.Role(a[roleCol]).Rank(), types.Role(b[roleCol]).Rank()); c != 0 {
			return c
		}
		return node.CompareAddress(a[addrCol], b[addrCol])
	})
}
