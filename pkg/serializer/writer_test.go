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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type detection struct {
	Bundle string `json:"bundle" yaml:"bundle"`
	Kind   string `json:"kind" yaml:"kind"`
}

type rendered struct{}

func (rendered) RenderTable(w io.Writer) error {
	_, err := io.WriteString(w, "custom table\n")
	return err
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := detection{Bundle: "bundle.zip", Kind: "cluster-diagnostic"}
	require.NoError(t, writer.Serialize(context.Background(), data))

	var result detection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, data, result)
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	data := []detection{
		{Bundle: "a.zip", Kind: "cluster-diagnostic"},
		{Bundle: "b.tgz", Kind: "orchestrator-diagnostic"},
	}
	require.NoError(t, writer.Serialize(context.Background(), data))

	var result []detection
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, data, result)
}

func TestWriter_SerializeTable(t *testing.T) {
	t.Run("renderer", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), rendered{}))
		assert.Equal(t, "custom table\n", buf.String())
	})

	t.Run("plain value falls back to yaml", func(t *testing.T) {
		var buf bytes.Buffer
		data := detection{Bundle: "a.zip", Kind: "cluster-oneliner"}
		require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), data))

		var result detection
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, data, result)
	})
}

func TestWriter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := NewWriter(FormatJSON, &buf).Serialize(ctx, detection{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(Format("xml"), &buf)
	assert.Equal(t, FormatTable, writer.Format())
}

func TestWriter_Close(t *testing.T) {
	writer := NewStdoutWriter(FormatJSON)
	assert.NoError(t, writer.Close())
	assert.NoError(t, writer.Close())
}

func TestNewFileWriterOrStdout(t *testing.T) {
	for _, path := range []string{"", "  ", "\t"} {
		writer := NewFileWriterOrStdout(FormatJSON, path)
		require.NotNil(t, writer)
		assert.NoError(t, writer.Close())
	}

	tmpFile := filepath.Join(t.TempDir(), "report.json")
	writer := NewFileWriterOrStdout(FormatJSON, tmpFile)
	require.NoError(t, writer.Serialize(context.Background(), detection{Bundle: "x", Kind: "y"}))
	require.NoError(t, writer.Close())
	require.NoError(t, writer.Close())

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	var result detection
	require.NoError(t, json.Unmarshal(content, &result))
	assert.Equal(t, "x", result.Bundle)

	fallback := NewFileWriterOrStdout(FormatJSON, "/nonexistent/path/file.json")
	require.NotNil(t, fallback)
	assert.NoError(t, fallback.Close())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{" table ", FormatTable, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), "json, yaml, table"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsUnknown(t *testing.T) {
	assert.False(t, FormatJSON.IsUnknown())
	assert.False(t, FormatYAML.IsUnknown())
	assert.False(t, FormatTable.IsUnknown())
	assert.True(t, Format("xml").IsUnknown())
	assert.True(t, Format("").IsUnknown())
}
