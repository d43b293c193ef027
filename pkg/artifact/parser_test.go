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

package artifact

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
)

func TestParser_GetMap(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		opts    []Option
		want    map[string]string
	}{
		{
			name: "os-release",
			content: `NAME="CentOS Linux"
VERSION="7 (Core)"
ID="centos"
# comment
ID_LIKE="rhel fedora"
`,
			opts: []Option{WithVTrimChars(`"`)},
			want: map[string]string{
				"NAME":    "CentOS Linux",
				"VERSION": "7 (Core)",
				"ID":      "centos",
				"ID_LIKE": "rhel fedora",
			},
		},
		{
			name: "colon separated",
			content: `      Local time: Mon 2024-01-01 10:00:00 UTC
NTP synchronized: yes
 RTC in local TZ: no`,
			opts: []Option{WithKVDelimiter(":")},
			want: map[string]string{
				"Local time":       "Mon 2024-01-01 10:00:00 UTC",
				"NTP synchronized": "yes",
				"RTC in local TZ":  "no",
			},
		},
		{
			name:    "key without value",
			content: "KEY\nOTHER=1",
			want:    map[string]string{"KEY": "", "OTHER": "1"},
		},
		{
			name:    "skip empty values",
			content: "KEY\nEMPTY=\nOTHER=1",
			opts:    []Option{WithSkipEmptyValues(true)},
			want:    map[string]string{"OTHER": "1"},
		},
		{
			name:    "comments kept",
			content: "#A=1\nB=2",
			opts:    []Option{WithSkipComments(false)},
			want:    map[string]string{"#A": "1", "B": "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := write(t, dir, "f", tt.content)
			got, err := NewParser(tt.opts...).GetMap(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewParser().GetLines("")
	assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeInvalidRequest))

	_, err = NewParser().GetLines(filepath.Join(dir, "missing"))
	assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeNotFound))

	big := write(t, dir, "big", "0123456789")
	_, err = NewParser(WithMaxSize(5)).GetLines(big)
	assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeMalformed))

	binary := write(t, dir, "bin", "ID=\xff\xfe")
	_, err = NewParser().GetMap(binary)
	assert.True(t, trerrors.IsCode(err, trerrors.ErrCodeMalformed))
}
