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
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"github.com/NVIDIA/triage/pkg/defaults"
	trerrors "github.com/NVIDIA/triage/pkg/errors"
)

// unzip extracts a zip archive into dest. Any open or decode failure is
// returned so the caller can fall back to 7z.
func unzip(ctx context.Context, path, dest string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open zip archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			slog.Warn("skipping unsafe archive member", "member", f.Name, "error", err)
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if !f.Mode().IsRegular() {
			slog.Debug("skipping non-regular archive member", "member", f.Name)
			continue
		}
		if f.UncompressedSize64 > uint64(defaults.MaxArchiveMemberBytes) {
			return fmt.Errorf("archive member %s exceeds %d bytes", f.Name, defaults.MaxArchiveMemberBytes)
		}
		if err := writeZipMember(f, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func writeZipMember(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return writeFile(target, rc, f.Mode().Perm())
}

// untar extracts a gzip-compressed tar archive into dest. Decode failures are
// returned as MALFORMED errors.
func untar(ctx context.Context, path, dest string) error {
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
			return trerrors.Wrap(trerrors.ErrCodeMalformed, fmt.Sprintf("failed to read %s", path), err)
		}

		clean := filepath.Clean(hdr.Name)
		if clean == "." {
			continue
		}
		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			slog.Warn("skipping unsafe archive member", "member", hdr.Name, "error", err)
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if hdr.Size < 0 || hdr.Size > defaults.MaxArchiveMemberBytes {
				return fmt.Errorf("archive member %s exceeds %d bytes", hdr.Name, defaults.MaxArchiveMemberBytes)
			}
			if err := writeFile(target, io.LimitReader(tr, hdr.Size), hdr.FileInfo().Mode().Perm()); err != nil {
				return trerrors.Wrap(trerrors.ErrCodeMalformed, fmt.Sprintf("failed to extract %s", hdr.Name), err)
			}
		default:
			slog.Debug("skipping non-regular archive member", "member", hdr.Name, "type", hdr.Typeflag)
		}
	}
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// safeJoin joins an archive member name to base, rejecting absolute paths
// and names that escape base.
func safeJoin(base, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimSpace(name)))
	if clean == "." || clean == "" {
		return "", fmt.Errorf("invalid archive path: %s", name)
	}
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("absolute archive path: %s", name)
	}
	target := filepath.Join(base, clean)
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", fmt.Errorf("invalid archive path: %s", name)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid archive path: %s", name)
	}
	return target, nil
}
