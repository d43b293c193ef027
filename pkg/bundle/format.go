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
	"path/filepath"
	"strings"
)

// Format is the container format of a bundle path.
type Format string

const (
	// FormatDir is an already extracted directory.
	FormatDir Format = "dir"
	// FormatZip is a zip archive.
	FormatZip Format = "zip"
	// FormatTarGz is a gzip-compressed tar archive.
	FormatTarGz Format = "tar.gz"
	// FormatUnknown is any other file.
	FormatUnknown Format = ""
)

var archiveSuffixes = []struct {
	suffix string
	format Format
}{
	{".tar.gz", FormatTarGz},
	{".tgz", FormatTarGz},
	{".zip", FormatZip},
}

// FormatOf returns the archive format implied by a file name and the name
// with the archive suffix removed.
func FormatOf(name string) (Format, string) {
	lower := strings.ToLower(name)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.format, name[:len(name)-len(s.suffix)]
		}
	}
	return FormatUnknown, name
}

// isNestedArchive reports whether a member is a compressed tar to unpack in place.
func isNestedArchive(name string) bool {
	f, _ := FormatOf(name)
	return f == FormatTarGz
}

// TargetDir returns the directory an archive is extracted to: the archive
// basename without its suffix, inside workDir, or next to the archive when
// workDir is empty.
func TargetDir(archivePath, workDir string) string {
	_, stem := FormatOf(filepath.Base(archivePath))
	if workDir == "" {
		workDir = filepath.Dir(archivePath)
	}
	return filepath.Join(workDir, stem)
}

// segments splits an archive member name into its path segments.
func segments(member string) []string {
	parts := strings.Split(filepath.ToSlash(member), "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	return out
}
