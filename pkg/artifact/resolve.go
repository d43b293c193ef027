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
	"os"
	"path/filepath"
	"sort"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
)

// ResolveAll returns the files in dir matching the glob pattern, sorted.
func ResolveAll(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, trerrors.Wrap(trerrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid artifact pattern %q", pattern), err)
	}
	sort.Strings(matches)
	return matches, nil
}

// ResolveOne returns the single file in dir matching the glob pattern. No
// match is NOT_FOUND; more than one is AMBIGUOUS.
func ResolveOne(dir, pattern string) (string, error) {
	matches, err := ResolveAll(dir, pattern)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", trerrors.NewWithContext(trerrors.ErrCodeNotFound,
			fmt.Sprintf("no file matching %s", pattern),
			map[string]any{"dir": dir, "pattern": pattern})
	case 1:
		return matches[0], nil
	default:
		return "", trerrors.NewWithContext(trerrors.ErrCodeAmbiguous,
			fmt.Sprintf("%d files match %s", len(matches), pattern),
			map[string]any{"dir": dir, "pattern": pattern, "matches": len(matches)})
	}
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
