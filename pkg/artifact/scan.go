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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
)

// ErrStop ends a scan early without error.
var ErrStop = errors.New("stop scanning")

// malformedLog throttles the per-line debug message for undecodable lines.
var malformedLog = rate.Sometimes{First: 3, Interval: 10 * time.Second}

// ScanStats summarizes a completed scan.
type ScanStats struct {
	Lines     int
	Malformed int
}

// ScanLines calls fn for every line of the file at path with the trailing
// newline removed. Lines that are not valid UTF-8 are skipped and counted.
// Returning ErrStop from fn ends the scan cleanly; any other error aborts it.
func ScanLines(ctx context.Context, path string, fn func(line string) error) (ScanStats, error) {
	var stats ScanStats

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, trerrors.Wrap(trerrors.ErrCodeNotFound, fmt.Sprintf("artifact %s not found", path), err)
		}
		return stats, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		raw, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return stats, fmt.Errorf("failed to read %s: %w", path, readErr)
		}
		if raw != "" {
			line := strings.TrimRight(raw, "\r\n")
			if !utf8.ValidString(line) {
				stats.Malformed++
				malformedLog.Do(func() {
					slog.Debug("skipping line that is not valid UTF-8", "path", path, "line", stats.Lines+stats.Malformed)
				})
			} else {
				stats.Lines++
				if err := fn(line); err != nil {
					if errors.Is(err, ErrStop) {
						return stats, nil
					}
					return stats, err
				}
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	if stats.Malformed > 0 {
		slog.Debug("skipped malformed lines", "path", path, "count", stats.Malformed)
	}
	return stats, nil
}
