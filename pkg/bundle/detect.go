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
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/markers"
	"github.com/NVIDIA/triage/pkg/types"
)

var errFound = errors.New("marker found")

// Detect returns the kind of the bundle at path. The first basename that the
// marker table knows decides the kind. An unsupported file or a bundle with
// no marker yields an UNRECOGNIZED_BUNDLE error.
func Detect(ctx context.Context, path string, table *markers.Table) (types.Kind, error) {
	return detect(ctx, path, table, sevenZip{})
}

func detect(ctx context.Context, path string, table *markers.Table, sz sevenZip) (types.Kind, error) {
	if table == nil {
		return "", trerrors.New(trerrors.ErrCodeInvalidRequest, "marker table is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", trerrors.Wrap(trerrors.ErrCodeNotFound, fmt.Sprintf("bundle %s not found", path), err)
	}

	var (
		kind  types.Kind
		found bool
	)
	visit := func(name string) bool {
		kind, found = table.KindOf(name)
		return found
	}

	format := FormatDir
	if !info.IsDir() {
		format, _ = FormatOf(info.Name())
	}

	switch format {
	case FormatDir:
		err = walkNames(ctx, path, visit)
	case FormatZip:
		err = listZip(ctx, path, sz, visit)
	case FormatTarGz:
		err = listTarGz(ctx, path, visit)
	default:
		return "", trerrors.NewWithContext(trerrors.ErrCodeUnrecognizedBundle,
			"unsupported bundle format, expected a directory, .zip, .tar.gz or .tgz",
			map[string]any{"path": path})
	}
	if err != nil && !errors.Is(err, errFound) {
		return "", err
	}
	if !found {
		return "", trerrors.NewWithContext(trerrors.ErrCodeUnrecognizedBundle,
			"unable to determine bundle kind", map[string]any{"path": path})
	}

	slog.Info("bundle detected", "path", path, "format", format, "kind", kind)
	return kind, nil
}

// walkNames visits the basename of every file and directory below root.
func walkNames(ctx context.Context, root string, visit func(string) bool) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == root {
			return nil
		}
		if visit(d.Name()) {
			return errFound
		}
		return nil
	})
}

func visitMember(name string, visit func(string) bool) bool {
	for _, seg := range segments(name) {
		if visit(seg) {
			return true
		}
	}
	return false
}

// listZip visits member names from the central directory. A corrupt archive
// is listed with 7z instead.
func listZip(ctx context.Context, path string, sz sevenZip, visit func(string) bool) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		slog.Warn("failed to list zip archive, falling back to 7z", "path", path, "error", err)
		names, lerr := sz.list(ctx, path)
		if lerr != nil {
			return lerr
		}
		for _, n := range names {
			if visitMember(n, visit) {
				return errFound
			}
		}
		return nil
	}
	defer r.Close()

	for _, f := range r.File {
		if visitMember(f.Name, visit) {
			return errFound
		}
	}
	return nil
}

// listTarGz visits member names from the tar header stream without reading
// member contents.
func listTarGz(ctx context.Context, path string, visit func(string) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return trerrors.Wrap(trerrors.ErrCodeMalformed, fmt.Sprintf("failed to read gzip stream of %s", path), err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return trerrors.Wrap(trerrors.ErrCodeMalformed, fmt.Sprintf("failed to list %s", path), err)
		}
		if visitMember(hdr.Name, visit) {
			return errFound
		}
	}
}
