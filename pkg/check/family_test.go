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

package check

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/triage/pkg/report"
	"github.com/NVIDIA/triage/pkg/types"
)

func TestExtractTimestamp(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
		ok   bool
	}{
		{
			name: "journal line",
			line: "2024-01-01 10:00:00.500 master-1 java[1]: LEADING",
			want: "2024-01-01 10:00:00.500000",
			ok:   true,
		},
		{
			name: "truncated to microseconds",
			line: "2024-03-02 07:05:09.123456789: I0302 ...",
			want: "2024-03-02 07:05:09.123456",
			ok:   true,
		},
		{
			name: "separator between date and time",
			line: "2024-03-02T07:05:09.1Z",
			want: "2024-03-02 07:05:09.100000",
			ok:   true,
		},
		{name: "no fraction", line: "2024-01-01 10:00:00 LEADING"},
		{name: "no timestamp", line: "LEADING"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTimestamp(tt.line)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, FormatTimestamp(got))
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	_, err := ParseTimestamp("2024-13-01", "10:00:00.1")
	assert.Error(t, err)
}

func TestEventTable(t *testing.T) {
	assert.Nil(t, EventTable("leaders", "Leader", nil))

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	tbl := EventTable("leaders", "Leader", []Event{
		{Time: base.Add(time.Second), Subject: "c"},
		{Time: base, Subject: "a"},
		{Time: base.Add(time.Second), Subject: "d"},
		{Time: base, Subject: "b"},
	})
	require.NotNil(t, tbl)
	assert.Equal(t, []string{"Time", "Leader"}, tbl.Columns)

	var subjects []string
	for _, row := range tbl.Rows {
		subjects = append(subjects, row[1])
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, subjects)
}

func TestConsistencyTable(t *testing.T) {
	n1 := testNode(t, "10.0.0.1", types.RoleControlPlane)
	n2 := testNode(t, "10.0.0.2", types.RolePrivateWorker)
	n3 := testNode(t, "10.0.0.10", types.RolePrivateWorker)

	t.Run("no observations", func(t *testing.T) {
		assert.Nil(t, ConsistencyTable("v", "Version", nil, CompareVersions))
	})

	t.Run("agreement", func(t *testing.T) {
		obs := []Observation{{n1, "1.2.0"}, {n2, "1.2.0"}}
		assert.Nil(t, ConsistencyTable("v", "Version", obs, CompareVersions))
	})

	t.Run("mismatch lists every node by version", func(t *testing.T) {
		obs := []Observation{{n3, "1.2.1"}, {n2, "1.2.0"}, {n1, "1.2.0"}}
		tbl := ConsistencyTable("v", "Version", obs, CompareVersions)
		require.NotNil(t, tbl)
		require.Equal(t, 3, tbl.Len())
		assert.Equal(t, []string{"10.0.0.1", "control-plane", "1.2.0"}, tbl.Rows[0])
		assert.Equal(t, []string{"10.0.0.2", "private-worker", "1.2.0"}, tbl.Rows[1])
		assert.Equal(t, []string{"10.0.0.10", "private-worker", "1.2.1"}, tbl.Rows[2])
	})
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.0", "1.2.0", 0},
		{"1.9.0", "1.10.0", -1},
		{"2.0", "1.13.4", 1},
		{"centos", "ubuntu", -1},
		{"1.2.0", "beta", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b))
		})
	}
}

func TestSortHelpers(t *testing.T) {
	tbl := report.NewTable("t", "IP", "Count")
	tbl.AddRow("10.0.0.10", "3")
	tbl.AddRow("10.0.0.2", "12")
	tbl.AddRow("10.0.0.1", "3")

	SortByCountDesc(tbl, 1)
	assert.Equal(t, "10.0.0.2", tbl.Rows[0][0])
	assert.Equal(t, "10.0.0.10", tbl.Rows[1][0])

	SortByAddress(tbl, 0)
	assert.Equal(t, "10.0.0.1", tbl.Rows[0][0])
	assert.Equal(t, "10.0.0.2", tbl.Rows[1][0])
	assert.Equal(t, "10.0.0.10", tbl.Rows[2][0])
}

func TestResolveArtifact(t *testing.T) {
	n := testNode(t, "10.0.0.1", types.RoleControlPlane)

	_, ok := ResolveArtifact("test", n, "dmesg*")
	assert.False(t, ok)

	writeFile(t, n.RootPath, "dmesg_-T.output", "")
	path, ok := ResolveArtifact("test", n, "dmesg*")
	assert.True(t, ok)
	assert.Contains(t, path, "dmesg_-T.output")

	writeFile(t, n.RootPath, "dmesg.0", "")
	_, ok = ResolveArtifact("test", n, "dmesg*")
	assert.False(t, ok)
}
