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
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/NVIDIA/triage/pkg/defaults"
	trerrors "github.com/NVIDIA/triage/pkg/errors"
)

// Extractor unpacks bundle archives into a working directory.
type Extractor struct {
	workDir    string
	sevenZip   sevenZip
	maxDepth   int
	expandGzip bool
	timeout    time.Duration
}

// Option is a functional option for configuring an Extractor.
type Option func(*Extractor)

// WithWorkDir places extracted bundles in dir instead of next to the archive.
func WithWorkDir(dir string) Option {
	return func(e *Extractor) {
		e.workDir = dir
	}
}

// WithSevenZip sets the 7z binary used for corrupt zip archives.
func WithSevenZip(bin string) Option {
	return func(e *Extractor) {
		e.sevenZip = sevenZip{bin: bin}
	}
}

// WithMaxDepth bounds how deep nested archives are unpacked.
func WithMaxDepth(depth int) Option {
	return func(e *Extractor) {
		e.maxDepth = depth
	}
}

// WithGzipExpansion toggles in-place decompression of single-file .gz members.
func WithGzipExpansion(enabled bool) Option {
	return func(e *Extractor) {
		e.expandGzip = enabled
	}
}

// WithTimeout bounds the whole extraction.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.timeout = d
	}
}

// NewExtractor creates an Extractor with the provided options.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		maxDepth:   defaults.MaxNestedArchiveDepth,
		expandGzip: true,
		timeout:    defaults.ExtractTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract unpacks the bundle at path and returns the extracted directory.
// A directory path is returned unchanged. When the target directory already
// exists it is returned without being inspected.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", trerrors.Wrap(trerrors.ErrCodeNotFound, fmt.Sprintf("bundle %s not found", path), err)
	}
	if info.IsDir() {
		return path, nil
	}

	format, _ := FormatOf(info.Name())
	if format != FormatZip && format != FormatTarGz {
		return "", trerrors.NewWithContext(trerrors.ErrCodeUnrecognizedBundle,
			"unsupported bundle format", map[string]any{"path": path})
	}

	target := TargetDir(path, e.workDir)
	if _, err := os.Stat(target); err == nil {
		slog.Info("bundle already extracted, reusing directory", "target", target)
		return target, nil
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", fmt.Errorf("failed to create work directory %s: %w", parent, err)
	}

	// unpack into a staging directory so an interrupted run never leaves a
	// target that a later run would reuse
	staging, err := os.MkdirTemp(parent, ".triage-extract-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	slog.Info("extracting bundle", "path", path, "format", format, "target", target)
	start := time.Now()

	switch format {
	case FormatZip:
		if err := unzip(ctx, path, staging); err != nil {
			slog.Warn("failed to extract zip archive, falling back to 7z", "path", path, "error", err)
			if err := e.sevenZip.extract(ctx, path, staging); err != nil {
				return "", err
			}
		}
	case FormatTarGz:
		if err := untar(ctx, path, staging); err != nil {
			return "", err
		}
	}

	if err := hoist(staging); err != nil {
		return "", err
	}
	if err := e.extractNested(ctx, staging, 1); err != nil {
		return "", err
	}
	if e.expandGzip {
		if err := expandGzipFiles(ctx, staging); err != nil {
			return "", err
		}
	}

	if err := os.Rename(staging, target); err != nil {
		return "", fmt.Errorf("failed to move extracted bundle to %s: %w", target, err)
	}

	slog.Info("bundle extracted", "target", target, "duration", time.Since(start))
	return target, nil
}

// extractNested unpacks every compressed tar member below dir into a sibling
// directory named after the member without its suffix.
func (e *Extractor) extractNested(ctx context.Context, dir string, depth int) error {
	archives, err := findFiles(dir, isNestedArchive)
	if err != nil {
		return err
	}
	for _, archive := range archives {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, stem := FormatOf(archive)
		if _, err := os.Stat(stem); err == nil {
			continue
		}
		if depth > e.maxDepth {
			slog.Warn("nested archive exceeds maximum depth, leaving packed",
				"archive", archive, "maxDepth", e.maxDepth)
			continue
		}

		slog.Debug("extracting nested archive", "archive", archive)
		if err := os.MkdirAll(stem, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", stem, err)
		}
		if err := untar(ctx, archive, stem); err != nil {
			return fmt.Errorf("failed to extract nested archive %s: %w", archive, err)
		}
		if err := e.extractNested(ctx, stem, depth+1); err != nil {
			return err
		}
	}
	return nil
}
