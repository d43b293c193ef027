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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an output format accepted by --format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats lists the formats in the order shown in help text.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// ParseFormat converts a case-insensitive string to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.IsUnknown() {
		return "", fmt.Errorf("unsupported output format %q, expected one of %s",
			s, strings.Join(SupportedFormats(), ", "))
	}
	return f, nil
}

// Writer serializes triage documents. Close releases the output file, if any.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// newWriter falls back to the table format when format is unknown.
func newWriter(format Format, output io.Writer, closer io.Closer) *Writer {
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to table", "format", format)
		format = FormatTable
	}
	return &Writer{format: format, output: output, closer: closer}
}

// NewWriter writes to output, or to stdout when output is nil.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return newWriter(format, output, nil)
}

// NewStdoutWriter writes to stdout.
func NewStdoutWriter(format Format) *Writer {
	return newWriter(format, os.Stdout, nil)
}

// NewFileWriterOrStdout writes to the file at path, truncating it. An empty
// path, or one that cannot be created, selects stdout instead.
func NewFileWriterOrStdout(format Format, path string) *Writer {
	path = strings.TrimSpace(path)
	if path == "" {
		return NewStdoutWriter(format)
	}
	f, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create output file, writing to stdout", "path", path, "error", err)
		return NewStdoutWriter(format)
	}
	return newWriter(format, f, f)
}

// Close is safe to call more than once.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	c := w.closer
	w.closer = nil
	return c.Close()
}

// Format returns the writer's output format.
func (w *Writer) Format() Format {
	return w.format
}

// Serialize writes v in the configured format. In table format, values
// that do not implement TableRenderer are written as YAML.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to JSON: %w", err)
		}
		return nil
	case FormatTable:
		if r, ok := v.(TableRenderer); ok {
			return r.RenderTable(w.output)
		}
		return w.writeYAML(v)
	case FormatYAML:
		return w.writeYAML(v)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func (w *Writer) writeYAML(v any) error {
	enc := yaml.NewEncoder(w.output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return enc.Close()
}
