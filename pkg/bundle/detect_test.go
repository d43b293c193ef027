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

package bundle

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

func defaultTable(t *testing.T) *markers.Table {
	t.Helper()
	table, err := markers.Default()
	require.NoError(t, err)
	return table
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name       string
		wantFormat Format
		wantStem   string
	}{
		{"bundle.zip", FormatZip, "bundle"},
		{"bundle.ZIP", FormatZip, "bundle"},
		{"bundle.tar.gz", FormatTarGz, "bundle"},
		{"bundle.tgz", FormatTarGz, "bundle"},
		{"dmesg.gz", FormatUnknown, "dmesg.gz"},
		{"notes.txt", FormatUnknown, "notes.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, stem := FormatOf(tt.name)
			assert.Equal(t, tt.wantFormat, f)
			assert.Equal(t, tt.wantStem, stem)
		})
	}
}

func TestTargetDir(t *testing.T) {
	assert.Equal(t, filepath.Join("/data", "bundle-1"), TargetDir("/data/bundle-1.zip", ""))
	assert.Equal(t, filepath.Join("/work", "bundle-1"), TargetDir("/data/bundle-1.tar.gz", "/work"))
}

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c.log"}, segments("a/b/c.log"))
	assert.Equal(t, []string{"bundles"}, segments("./bundles/"))
	assert.Empty(t, segments(""))
}

func TestDetect(t *testing.T) {
	table := defaultTable(t)
	ctx := t.Context()

	tests := []struct {
		name  string
		setup func(t *testing.T, dir string) string
		want  types.Kind
	}{
		{
			name: "cluster diagnostic directory",
			setup: func(t *testing.T, dir string) string {
				root := filepath.Join(dir, "bundle")
				writeTree(t, root, map[string]string{
					"10.0.0.1_master/dcos-mesos-master.service": "log",
					"10.0.0.2_agent/dmesg_-T.output":            "",
				})
				return root
			},
			want: types.KindClusterDiagnostic,
		},
		{
			name: "cluster diagnostic zip with compressed logs",
			setup: func(t *testing.T, dir string) string {
				p := filepath.Join(dir, "bundle.zip")
				writeZip(t, p, map[string]string{
					"bundle/10.0.0.1_master/dcos-mesos-master.service.gz": "x",
				})
				return p
			},
			want: types.KindClusterDiagnostic,
		},
		{
			name: "oneliner tar.gz",
			setup: func(t *testing.T, dir string) string {
				p := filepath.Join(dir, "oneliner.tar.gz")
				writeTarGz(t, p, map[string][]byte{
					"oneliner/dcos-mesos-slave.service.log": []byte("x"),
				})
				return p
			},
			want: types.KindClusterOneliner,
		},
		{
			name: "service zip",
			setup: func(t *testing.T, dir string) string {
				p := filepath.Join(dir, "svc.zip")
				writeZip(t, p, map[string]string{"dcos_services.json": "{}"})
				return p
			},
			want: types.KindServiceDiagnostic,
		},
		{
			name: "orchestrator tgz",
			setup: func(t *testing.T, dir string) string {
				p := filepath.Join(dir, "konvoy.tgz")
				writeTarGz(t, p, map[string][]byte{
					"bundles/":                nil,
					"bundles/10.0.0.9.tar.gz": []byte("nested"),
					"cluster-data/nodes.json": []byte("{}"),
				})
				return p
			},
			want: types.KindOrchestratorDiagnostic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t, t.TempDir())
			got, err := Detect(ctx, path, table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_Unrecognized(t *testing.T) {
	table := defaultTable(t)
	dir := t.TempDir()

	root := filepath.Join(dir, "bundle")
	writeTree(t, root, map[string]string{"random/file.txt": "x"})
	_, err := Detect(t.Context(), root, table)
	require.Error(t, err)
	assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeUnrecognizedBundle))
	assert.True(t, trerrors.IsFatal(err))

	other := filepath.Join(dir, "bundle.rar")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	_, err = Detect(t.Context(), other, table)
	assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeUnrecognizedBundle))

	_, err = Detect(t.Context(), filepath.Join(dir, "missing.zip"), table)
	assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeNotFound))
}

func TestDetect_CorruptZipWithoutSevenZip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bundle.zip")
	require.NoError(t, os.WriteFile(p, []byte("not a zip"), 0o600))

	_, err := detect(t.Context(), p, defaultTable(t), sevenZip{bin: "triage-missing-7z"})
	require.Error(t, err)
	assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeToolUnavailable))
}

func TestDetect_CorruptZipListedWithSevenZip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bundle.zip")
	require.NoError(t, os.WriteFile(p, []byte("not a zip"), 0o600))

	kind, err := detect(t.Context(), p, defaultTable(t), sevenZip{bin: fakeSevenZip(t)})
	require.NoError(t, err)
	assert.Equal(t, types.KindClusterDiagnostic, kind)
}

func TestParseSevenZipListing(t *testing.T) {
	out := []byte("2024-01-01 10:00:00 ....A  120  80  bundle/10.0.0.1_master/dcos-mesos-master.service.gz\n" +
		"\n" +
		"2024-01-01 10:00:00 D....  0  0  bundle/10.0.0.1_master\n")
	assert.Equal(t, []string{
		"bundle/10.0.0.1_master/dcos-mesos-master.service.gz",
		"bundle/10.0.0.1_master",
	}, parseSevenZipListing(out))
}
