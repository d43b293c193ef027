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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"k8s.io/utils/set"

	"github.com/NVIDIA/triage/pkg/artifact"
	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/defaults"
	"github.com/NVIDIA/triage/pkg/node"
	"github.com/NVIDIA/triage/pkg/report"
	"github.com/NVIDIA/triage/pkg/types"
)

const (
	nameMissingNodes        = "missing-nodes"
	nameClusterVersion      = "cluster-version"
	nameOSRelease           = "os-release"
	nameRuntimeVersion      = "container-runtime-version"
	nameUnreachableRegistry = "unreachable-agents-registry"
	nameStateSize           = "state-size"
	nameInactiveFrameworks  = "inactive-frameworks"
)

type agentsDocument struct {
	Slaves []struct {
		Hostname          string                     `json:"hostname"`
		ReservedResources map[string]json.RawMessage `json:"reserved_resources"`
	} `json:"slaves"`
}

type serversDocument struct {
	Servers []string `json:"servers"`
}

type versionDocument struct {
	Version string `json:"version"`
}

type registryDocument struct {
	Unreachable *struct {
		Slaves []struct {
			ID struct {
				Value string `json:"value"`
			} `json:"id"`
			Timestamp struct {
				Nanoseconds int64 `json:"nanoseconds"`
			} `json:"timestamp"`
		} `json:"slaves"`
	} `json:"unreachable"`
}

type stateDocument struct {
	Frameworks []struct {
		Name   string `json:"name"`
		ID     string `json:"id"`
		Active *bool  `json:"active"`
	} `json:"frameworks"`
}

var (
	keyValueParser = artifact.NewParser(artifact.WithVTrimChars(`"'`))
	runtimeVersion = regexp.MustCompile(`(?i)version\s+([^\s,]+)`)
)

// readDocument decodes the JSON file at path. A missing file reports false
// quietly; a malformed one is logged.
func readDocument(name string, n *node.Node, path string, v any) bool {
	if !artifact.Exists(path) {
		return false
	}
	if err := artifact.ReadJSON(path, v); err != nil {
		slog.Warn("unable to read document", "check", name, "node", n.Address, "path", path, "error", err)
		return false
	}
	return true
}

// runMissingNodes lists cluster members known to the first control plane
// with membership data but absent from the bundle.
func runMissingNodes(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	present := node.Addresses(in.Nodes)
	reported := set.New[string]()

	t := report.NewTable("Nodes missing from the bundle", "IP", "Type")
	add := func(addr string, role types.Role) {
		if addr == "" || present.Has(addr) || reported.Has(addr) {
			return
		}
		reported.Insert(addr)
		t.AddRow(addr, role.String())
	}

	for _, n := range in.ControlPlanes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var agentsDoc agentsDocument
		if !readDocument(nameMissingNodes, n, filepath.Join(n.RootPath, agentsFile), &agentsDoc) {
			continue
		}
		for _, a := range agentsDoc.Slaves {
			role := types.RolePrivateWorker
			if _, ok := a.ReservedResources["slave_public"]; ok {
				role = types.RolePublicWorker
			}
			add(a.Hostname, role)
		}

		var serversDoc serversDocument
		if readDocument(nameMissingNodes, n, filepath.Join(n.RootPath, exhibitorServers), &serversDoc) {
			for _, s := range serversDoc.Servers {
				add(s, types.RoleControlPlane)
			}
		}
		break
	}

	sortByRole(t, 1, 0)
	return tables(t), nil
}

// runClusterVersion records each node's cluster software version and
// alerts when they differ.
func runClusterVersion(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	var obs []check.Observation
	for _, n := range in.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(n.RootPath, filepath.FromSlash(clusterVersionFile))
		if !artifact.Exists(path) {
			slog.Warn("unable to check cluster version, no version file", "node", n.Address)
			continue
		}
		var doc versionDocument
		if !readDocument(nameClusterVersion, n, path, &doc) || doc.Version == "" {
			continue
		}
		n.ClusterSoftwareVersion = doc.Version
		obs = append(obs, check.Observation{Node: n, Value: doc.Version})
	}
	return tables(check.ConsistencyTable("Mismatched cluster software versions", "Version", obs, check.CompareVersions)), nil
}

// runOSRelease records each node's operating system ID and alerts when
// they differ.
func runOSRelease(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	var obs []check.Observation
	for _, n := range in.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, ok := check.ResolveArtifact(nameOSRelease, n, osReleaseOutput)
		if !ok {
			continue
		}
		kv, err := keyValueParser.GetMap(path)
		if err != nil {
			slog.Warn("unable to parse os-release", "node", n.Address, "path", path, "error", err)
			continue
		}
		id := kv["ID"]
		if id == "" {
			slog.Warn("os-release has no ID", "node", n.Address, "path", path)
			continue
		}
		n.OSID = id
		obs = append(obs, check.Observation{Node: n, Value: id})
	}
	return tables(check.ConsistencyTable("Mismatched operating systems", "OS", obs, strings.Compare)), nil
}

// runRuntimeVersion records each agent's container runtime version and
// alerts when they differ.
func runRuntimeVersion(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	var obs []check.Observation
	for _, n := range agents(in) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, ok := check.ResolveArtifact(nameRuntimeVersion, n, dockerVersion)
		if !ok {
			continue
		}
		lines, err := keyValueParser.GetLines(path)
		if err != nil || len(lines) == 0 {
			slog.Warn("unable to read container runtime version", "node", n.Address, "path", path, "error", err)
			continue
		}
		v := lines[0]
		if m := runtimeVersion.FindStringSubmatch(v); m != nil {
			v = m[1]
		}
		n.ContainerRuntimeVersion = v
		obs = append(obs, check.Observation{Node: n, Value: v})
	}
	return tables(check.ConsistencyTable("Mismatched container runtime versions", "Docker Version", obs, check.CompareVersions)), nil
}

// runUnreachableRegistry lists agents the registry marks unreachable. The
// registry is replicated, so the first control plane holding it is enough.
func runUnreachableRegistry(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	var events []check.Event
	for _, n := range in.ControlPlanes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var doc registryDocument
		if !readDocument(nameUnreachableRegistry, n, filepath.Join(n.RootPath, registryFile), &doc) {
			continue
		}
		if doc.Unreachable != nil {
			for _, s := range doc.Unreachable.Slaves {
				ts := time.Unix(0, s.Timestamp.Nanoseconds).UTC().Truncate(time.Microsecond)
				events = append(events, check.Event{Time: ts, Subject: s.ID.Value})
			}
		}
		break
	}
	return tables(check.EventTable("Unreachable agents in the registry", "Agent ID", events)), nil
}

// runStateSize alerts when the control plane state snapshot exceeds the
// size limit. The snapshot is the same on every control plane, so only the
// first one holding it is measured.
func runStateSize(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable(fmt.Sprintf("State snapshot larger than %d MB", defaults.StateSnapshotMaxBytes>>20), "IP", "Size (MB)")
	for _, n := range in.ControlPlanes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(filepath.Join(n.RootPath, masterStateFile))
		if err != nil {
			continue
		}
		if info.Size() > defaults.StateSnapshotMaxBytes {
			t.AddRow(n.Address, fmt.Sprintf("%.2f", float64(info.Size())/(1<<20)))
		}
		break
	}
	return tables(t), nil
}

// runInactiveFrameworks lists registered frameworks that are not active,
// from the first control plane with a readable state snapshot.
func runInactiveFrameworks(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("Inactive frameworks", "Name", "ID")
	for _, n := range in.ControlPlanes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var doc stateDocument
		if !readDocument(nameInactiveFrameworks, n, filepath.Join(n.RootPath, masterStateFile), &doc) {
			continue
		}
		for _, f := range doc.Frameworks {
			if f.Active != nil && !*f.Active {
				t.AddRow(f.Name, f.ID)
			}
		}
		break
	}
	t.SortByColumns(0, 1)
	return tables(t), nil
}
