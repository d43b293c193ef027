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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/markers"
	"github.com/NVIDIA/triage/pkg/types"
)

func table(t *testing.T) *markers.Table {
	t.Helper()
	tb, err := markers.Default()
	require.NoError(t, err)
	return tb
}

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
}

func TestDiscover_ClusterDiagnostic(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, dir,
		"10.0.0.3_agent",
		"10.0.0.1_agent_public",
		"10.0.0.10_master",
		"10.0.0.2_master",
		"summaryErrorsReport",
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summaryReport.txt"), nil, 0o600))

	nodes, err := Discover(dir, types.KindClusterDiagnostic, table(t))
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	got := make([]string, len(nodes))
	for i, n := range nodes {
		got[i] = n.String()
	}
	assert.Equal(t, []string{
		"10.0.0.2 (control-plane)",
		"10.0.0.10 (control-plane)",
		"10.0.0.3 (private-worker)",
		"10.0.0.1 (public-worker)",
	}, got)
	assert.Equal(t, filepath.Join(dir, "10.0.0.1_agent_public"), nodes[3].RootPath)
}

func TestDiscover_PublicSuffixWins(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, dir, "10.0.0.1_agent_public")

	nodes, err := Discover(dir, types.KindClusterDiagnostic, table(t))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "10.0.0.1", nodes[0].Address)
	assert.Equal(t, types.RolePublicWorker, nodes[0].Role)
}

func TestDiscover_Orchestrator(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, dir, "bundles/10.0.1.5", "bundles/10.0.1.4", "bundles/kubelet-logs", "cluster-data")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bundles", "10.0.1.4.tar.gz"), nil, 0o600))

	nodes, err := Discover(dir, types.KindOrchestratorDiagnostic, table(t))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "10.0.1.4", nodes[0].Address)
	assert.Equal(t, types.RoleOrchestratorWorker, nodes[0].Role)
	assert.Equal(t, filepath.Join(dir, "bundles", "10.0.1.4"), nodes[0].RootPath)
}

func TestDiscover_SingleHost(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  types.Role
	}{
		{"master", []string{"dcos-mesos-master.service.log"}, types.RoleControlPlane},
		{"agent", []string{"dcos-mesos-slave.service.log"}, types.RolePrivateWorker},
		{"public agent", []string{"dcos-mesos-slave-public.service.log"}, types.RolePublicWorker},
		{"first marker wins", []string{"dcos-mesos-slave.service.log", "dcos-mesos-master.service.log"}, types.RoleControlPlane},
		{"no marker", []string{"dmesg.output"}, types.RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o600))
			}

			nodes, err := Discover(dir, types.KindClusterOneliner, table(t))
			require.NoError(t, err)
			require.Len(t, nodes, 1)
			assert.Equal(t, Unknown, nodes[0].Address)
			assert.Equal(t, dir, nodes[0].RootPath)
			assert.Equal(t, tt.want, nodes[0].Role)
		})
	}
}

func TestDiscover_NoNodes(t *testing.T) {
	tests := []struct {
		name string
		kind types.Kind
		dirs []string
	}{
		{"no suffixed dirs", types.KindClusterDiagnostic, []string{"misc"}},
		{"no nodes dir", types.KindOrchestratorDiagnostic, []string{"cluster-data"}},
		{"no address dirs", types.KindOrchestratorDiagnostic, []string{"bundles/logs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			mkdirs(t, dir, tt.dirs...)

			_, err := Discover(dir, tt.kind, table(t))
			require.Error(t, err)
			assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeNoNodesFound))
			assert.True(t, trerrors.IsFatal(err))
		})
	}
}

func TestCompareAddress(t *testing.T) {
	assert.Negative(t, CompareAddress("10.0.0.2", "10.0.0.10"))
	assert.Positive(t, CompareAddress("10.0.0.10", "10.0.0.2"))
	assert.Zero(t, CompareAddress("10.0.0.1", "10.0.0.1"))
	assert.Negative(t, CompareAddress("10.0.0.1", "unknown"))
	assert.Positive(t, CompareAddress("unknown", "10.0.0.1"))
	assert.Negative(t, CompareAddress("a", "b"))
}

func TestFilterAndAddresses(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, dir, "10.0.0.1_master", "10.0.0.2_agent", "10.0.0.3_agent_public")
	nodes, err := Discover(dir, types.KindClusterDiagnostic, table(t))
	require.NoError(t, err)

	workers := Filter(nodes, func(n *Node) bool { return n.Role.IsWorker() })
	assert.Len(t, workers, 2)

	addrs := Addresses(nodes)
	assert.True(t, addrs.Has("10.0.0.2"))
	assert.Equal(t, 3, addrs.Len())
}
