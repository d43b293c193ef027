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
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
)

// DefaultSevenZip is the name of the 7z binary looked up in PATH.
const DefaultSevenZip = "7z"

// sevenZip wraps the external 7z binary used for corrupt zip archives.
type sevenZip struct {
	bin string
}

func (s sevenZip) lookPath() (string, error) {
	bin := s.bin
	if bin == "" {
		bin = DefaultSevenZip
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", trerrors.WrapWithContext(trerrors.ErrCodeToolUnavailable,
			"7z is required to read a corrupt zip archive", err,
			map[string]any{"tool": bin})
	}
	return path, nil
}

// extract runs "7z x" into dir. A non-zero exit is not an error: 7z exits
// non-zero on partial extraction and partial data is still usable.
func (s sevenZip) extract(ctx context.Context, archive, dir string) error {
	path, err := s.lookPath()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, path, "x", "-o"+dir, "-y", archive)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return fmt.Errorf("failed to run 7z: %w", err)
		}
		if ctx.Err() != nil {
			return trerrors.Wrap(trerrors.ErrCodeTimeout, "7z extraction interrupted", ctx.Err())
		}
		slog.Warn("7z reported errors, continuing with partial extraction",
			"archive", archive,
			"exitCode", exitErr.ExitCode(),
			"stderr", strings.TrimSpace(stderr.String()))
	}
	return nil
}

// list runs "7z -ba l" and returns the member names: the last field of each
// output line.
func (s sevenZip) list(ctx context.Context, archive string) ([]string, error) {
	path, err := s.lookPath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, path, "-ba", "l", archive)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run 7z: %w", err)
		}
		slog.Debug("7z listing exited non-zero", "archive", archive, "exitCode", exitErr.ExitCode())
	}

	return parseSevenZipListing(out), nil
}

func parseSevenZipListing(out []byte) []string {
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[len(fields)-1])
	}
	return names
}
