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
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/triage/pkg/bundle"
	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/checks"
	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/header"
	"github.com/NVIDIA/triage/pkg/report"
	"github.com/NVIDIA/triage/pkg/serializer"
	"github.com/NVIDIA/triage/pkg/types"
)

var clusterFiles = map[string]string{
	"10.0.0.1_master/dcos-mesos-master.service":                  "2024-01-01 10:00:00.500 m mesos-master[1]: A new leading master (UPID=master@10.0.0.5:5050) is detected\n",
	"10.0.0.1_master/opt/mesosphere/etc/dcos-version.json":       `{"version": "2.1.0"}`,
	"10.0.0.2_agent/opt/mesosphere/etc/dcos-version.json":        `{"version": "2.1.0"}`,
	"10.0.0.3_agent_public/opt/mesosphere/etc/dcos-version.json": `{"version": "2.1.1"}`,
	"10.0.0.2_agent/ps_aux_ww_Z.output":                          "root 1 dockerd\n",
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestAnalyze_Directory(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, clusterFiles)

	a := &Analyzer{Version: "v1.0.0", Parallelism: 2}
	rep, err := a.Analyze(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, header.KindReport, rep.Header.Kind)
	assert.Equal(t, header.APIVersion, rep.APIVersion)
	assert.Equal(t, "v1.0.0", rep.Metadata["version"])
	assert.NotEmpty(t, rep.Metadata[header.MetadataRunID])
	assert.Equal(t, types.KindClusterDiagnostic, rep.Kind)
	assert.Equal(t, dir, rep.BundleDir)

	require.Len(t, rep.Nodes, 3)
	assert.Equal(t, "10.0.0.1", rep.Nodes[0].Address)
	assert.Equal(t, types.RolePublicWorker, rep.Nodes[2].Role)
	assert.Equal(t, "2.1.1", rep.Nodes[2].ClusterSoftwareVersion)

	assert.Equal(t, checks.DefaultRegistry().Count(), rep.Summary.Checks)
	assert.Zero(t, rep.Summary.Failed)

	statuses := map[string]report.Status{}
	for _, c := range rep.Checks {
		statuses[c.Name] = c.Status
	}
	assert.Equal(t, report.StatusAlerted, statuses["cluster-version"])
	assert.Equal(t, report.StatusAlerted, statuses["mesos-leader"])
	assert.Equal(t, report.StatusSkipped, statuses["orchestrator-node-conditions"])
	assert.True(t, rep.HasAlerts())
}

func TestAnalyze_ZipArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "bundle-2024.zip")
	files := map[string]string{}
	for name, content := range clusterFiles {
		files["bundle-2024/"+name] = content
	}
	writeZip(t, archive, files)

	reg := check.NewRegistry()
	for _, c := range checks.All() {
		if c.Name == "cluster-version" {
			reg.MustRegister(c)
		}
	}

	a := &Analyzer{
		Registry:  reg,
		Extractor: bundle.NewExtractor(bundle.WithWorkDir(filepath.Join(dir, "work"))),
	}
	rep, err := a.Analyze(context.Background(), archive)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "work", "bundle-2024"), rep.BundleDir)
	assert.Len(t, rep.Nodes, 3)
	require.Len(t, rep.Checks, 1)
	assert.Equal(t, report.StatusAlerted, rep.Checks[0].Status)
	require.Len(t, rep.Checks[0].Tables, 1)
	assert.Equal(t, 3, rep.Checks[0].Tables[0].Len())
}

func TestAnalyze_Oneliner(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"dcos-mesos-slave.service.log": "started\n",
		"ps_aux_ww_Z.output":           "root 1 /usr/sbin/firewalld\n",
	})

	rep, err := (&Analyzer{}).Analyze(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, types.KindClusterOneliner, rep.Kind)
	require.Len(t, rep.Nodes, 1)
	assert.Equal(t, "unknown", rep.Nodes[0].Address)
	assert.Equal(t, types.RolePrivateWorker, rep.Nodes[0].Role)

	for _, c := range rep.Checks {
		switch c.Name {
		case "firewall", "missing-dockerd":
			assert.Equal(t, report.StatusAlerted, c.Status, c.Name)
		case "missing-nodes", "orchestrator-node-conditions":
			assert.Equal(t, report.StatusSkipped, c.Status, c.Name)
		}
	}
}

func TestAnalyze_FatalErrors(t *testing.T) {
	t.Run("unrecognized bundle", func(t *testing.T) {
		dir := t.TempDir()
		writeTree(t, dir, map[string]string{"readme.txt": "hello"})
		_, err := (&Analyzer{}).Analyze(context.Background(), dir)
		require.Error(t, err)
		assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeUnrecognizedBundle))
		assert.True(t, trerrors.IsFatal(err))
	})

	t.Run("no nodes", func(t *testing.T) {
		dir := t.TempDir()
		writeTree(t, dir, map[string]string{"stray/dcos-mesos-master.service": ""})
		_, err := (&Analyzer{}).Analyze(context.Background(), dir)
		require.Error(t, err)
		assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeNoNodesFound))
	})

	t.Run("missing bundle", func(t *testing.T) {
		_, err := (&Analyzer{}).Analyze(context.Background(), filepath.Join(t.TempDir(), "nope.zip"))
		require.Error(t, err)
	})
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"dcos_services.json": "[]"})
	kind, err := (&Analyzer{}).Detect(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, types.KindServiceDiagnostic, kind)
}

func TestRun_SerializesReport(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, clusterFiles)

	var buf bytes.Buffer
	a := &Analyzer{Serializer: serializer.NewWriter(serializer.FormatJSON, &buf)}
	rep, err := a.Run(context.Background(), dir)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Report", decoded["kind"])
	assert.Equal(t, "cluster-diagnostic", decoded["bundleKind"])
	assert.Len(t, decoded["checks"], rep.Summary.Checks)
}
