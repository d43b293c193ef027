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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

// hoist moves the children of a lone top-level directory up into dir and
// removes the wrapper.
func hoist(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return nil
	}

	// rename the wrapper first so a child with the same name can move up
	wrapper := filepath.Join(dir, ".hoist-"+uuid.NewString())
	if err := os.Rename(filepath.Join(dir, entries[0].Name()), wrapper); err != nil {
		return fmt.Errorf("failed to rename wrapper directory: %w", err)
	}

	children, err := os.ReadDir(wrapper)
	if err != nil {
		return fmt.Errorf("failed to read wrapper directory: %w", err)
	}
	for _, c := range children {
		if err := os.Rename(filepath.Join(wrapper, c.Name()), filepath.Join(dir, c.Name())); err != nil {
			return fmt.Errorf("failed to hoist %s: %w", c.Name(), err)
		}
	}

	slog.Debug("hoisted wrapper directory", "wrapper", entries[0].Name(), "entries", len(children))
	return os.Remove(wrapper)
}

// findFiles returns the regular files below dir accepted by match.
func findFiles(dir string, match func(name string) bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && match(d.Name()) {
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

func isSingleGzip(name string) bool {
	return strings.HasSuffix(name, ".gz") && !isNestedArchive(name)
}

// expandGzipFiles decompresses every single-file .gz below dir in place. A
// file that fails to decompress is logged and left compressed.
func expandGzipFiles(ctx context.Context, dir string) error {
	files, err := findFiles(dir, isSingleGzip)
	if err != nil {
		return err
	}
	if len(files) > 0 {
		slog.Info("expanding compressed bundle files", "count", len(files))
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := gunzipFile(f); err != nil {
			slog.Warn("failed to expand compressed file", "path", f, "error", err)
		}
	}
	return nil
}

func gunzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("not a gzip file: %w", err)
	}
	defer gz.Close()

	target := strings.TrimSuffix(path, ".gz")
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, gz); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("incomplete file: %w", err)
		}
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
