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
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/NVIDIA/triage/pkg/defaults"
	trerrors "github.com/NVIDIA/triage/pkg/errors"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser reads small line oriented key/value files such as os-release or
// command outputs of the form "Key: value".
type Parser struct {
	maxSize         int
	skipComments    bool
	kvDelimiter     string
	vTrimChars      string
	skipEmptyValues bool
}

// WithMaxSize sets the largest file, in bytes, the parser reads.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments toggles skipping of lines starting with "#".
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKVDelimiter sets the key/value separator. Default is "=".
func WithKVDelimiter(d string) Option {
	return func(p *Parser) {
		p.kvDelimiter = d
	}
}

// WithVTrimChars sets characters trimmed from both ends of values, such as
// the quotes around os-release values.
func WithVTrimChars(chars string) Option {
	return func(p *Parser) {
		p.vTrimChars = chars
	}
}

// WithSkipEmptyValues drops keys whose value is empty or missing.
func WithSkipEmptyValues(skip bool) Option {
	return func(p *Parser) {
		p.skipEmptyValues = skip
	}
}

// NewParser creates a Parser. Defaults: "=" separator, comments skipped,
// defaults.MaxKeyValueFileBytes size limit.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		maxSize:      defaults.MaxKeyValueFileBytes,
		skipComments: true,
		kvDelimiter:  "=",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetLines returns the trimmed, non-empty lines of the file at path.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, trerrors.New(trerrors.ErrCodeInvalidRequest, "file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, trerrors.Wrap(trerrors.ErrCodeNotFound, fmt.Sprintf("artifact %s not found", path), err)
		}
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	if len(b) > p.maxSize {
		return nil, trerrors.New(trerrors.ErrCodeMalformed,
			fmt.Sprintf("file %q exceeds maximum size of %d bytes", path, p.maxSize))
	}
	if !utf8.Valid(b) {
		return nil, trerrors.New(trerrors.ErrCodeMalformed, fmt.Sprintf("content of file %q is not valid UTF-8", path))
	}

	parts := strings.Split(string(b), "\n")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		result = append(result, clean)
	}
	return result, nil
}

// GetMap parses the file at path into key/value pairs. A line without the
// separator maps its key to an empty value. Later keys overwrite earlier
// ones.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, found := strings.Cut(line, p.kvDelimiter)
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !found {
			slog.Debug("line without value", "path", path, "line", line)
		}
		if p.vTrimChars != "" {
			value = strings.Trim(value, p.vTrimChars)
		}
		if p.skipEmptyValues && value == "" {
			continue
		}
		result[key] = value
	}
	return result, nil
}
