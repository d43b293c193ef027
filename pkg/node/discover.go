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

package node

import (
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"k8s.io/utils/set"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/markers"
	"github.com/NVIDIA/triage/pkg/types"
)

// Discover builds the nodes of an extracted bundle. Multi-node kinds get one
// node per recognized subdirectory; single-host kinds get exactly one node
// rooted at bundleDir. An empty result is a fatal NO_NODES_FOUND error.
func Discover(bundleDir string, kind types.Kind, table *markers.Table) ([]*Node, error) {
	if table == nil {
		return nil, trerrors.New(trerrors.ErrCodeInvalidRequest, "marker table is required")
	}

	slog.Info("discovering nodes", "dir", bundleDir, "kind", kind)

	var (
		nodes []*Node
		err   error
	)
	switch kind {
	case types.KindClusterDiagnostic:
		nodes, err = discoverBySuffix(bundleDir, table)
	case types.KindOrchestratorDiagnostic:
		nodes, err = discoverOrchestrator(bundleDir, table)
	case types.KindClusterOneliner, types.KindServiceDiagnostic:
		nodes, err = discoverSingle(bundleDir, table)
	default:
		return nil, trerrors.New(trerrors.ErrCodeInvalidRequest, fmt.Sprintf("unsupported bundle kind %q", kind))
	}
	if err != nil {
		return nil, err
	}

	if len(nodes) == 0 {
		return nil, trerrors.NewWithContext(trerrors.ErrCodeNoNodesFound,
			"failed to find any nodes in the bundle directory",
			map[string]any{"dir": bundleDir, "kind": kind.String()})
	}

	Sort(nodes)
	slog.Info("nodes discovered", "count", len(nodes))
	return nodes, nil
}

func discoverBySuffix(bundleDir string, table *markers.Table) ([]*Node, error) {
	entries, err := os.ReadDir(bundleDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle directory %s: %w", bundleDir, err)
	}

	seen := set.New[string]()
	var nodes []*Node
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		address, role, ok := table.MatchSuffix(e.Name())
		if !ok {
			slog.Warn("skipping directory without a node role suffix", "dir", e.Name())
			continue
		}
		if seen.Has(address) {
			slog.Warn("skipping duplicate node address", "dir", e.Name(), "address", address)
			continue
		}
		n, err := New(address, role, filepath.Join(bundleDir, e.Name()))
		if err != nil {
			return nil, err
		}
		seen.Insert(address)
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func discoverOrchestrator(bundleDir string, table *markers.Table) ([]*Node, error) {
	nodesDir := filepath.Join(bundleDir, table.NodesDir())
	entries, err := os.ReadDir(nodesDir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("orchestrator bundle has no nodes directory", "dir", nodesDir)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read nodes directory %s: %w", nodesDir, err)
	}

	var nodes []*Node
	for _, e := range entries {
		if !e.IsDir() || !table.MatchAddress(e.Name()) {
			continue
		}
		n, err := New(e.Name(), table.OrchestratorRole(), filepath.Join(nodesDir, e.Name()))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func discoverSingle(bundleDir string, table *markers.Table) ([]*Node, error) {
	role := types.RoleUnknown
	for _, m := range table.RoleMarkers() {
		if _, err := os.Stat(filepath.Join(bundleDir, m.File)); err == nil {
			role = m.Role
			break
		}
	}
	if role == types.RoleUnknown {
		slog.Warn("no role marker file found in single-host bundle", "dir", bundleDir)
	}

	n, err := New(Unknown, role, bundleDir)
	if err != nil {
		return nil, err
	}
	return []*Node{n}, nil
}

// Sort orders nodes by role, then address.
func Sort(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		ri, rj := nodes[i].Role.Rank(), nodes[j].Role.Rank()
		if ri != rj {
			return ri < rj
		}
		return CompareAddress(nodes[i].Address, nodes[j].Address) < 0
	})
}

// CompareAddress orders IP addresses numerically and anything else
// lexically after them.
func CompareAddress(a, b string) int {
	ia, errA := netip.ParseAddr(a)
	ib, errB := netip.ParseAddr(b)
	switch {
	case errA == nil && errB == nil:
		return ia.Compare(ib)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// Filter returns the nodes accepted by keep, in order.
func Filter(nodes []*Node, keep func(*Node) bool) []*Node {
	var out []*Node
	for _, n := range nodes {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// Addresses returns the set of node addresses.
func Addresses(nodes []*Node) set.Set[string] {
	s := set.New[string]()
	for _, n := range nodes {
		s.Insert(n.Address)
	}
	return s
}
