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

// Package artifact locates and reads the files a check inspects inside a
// node directory.
//
// Resolution follows one policy for every check: a glob that matches no
// file yields NOT_FOUND, a glob that matches several yields AMBIGUOUS, and
// the caller logs and skips the node in both cases.
//
//	path, err := artifact.ResolveOne(n.RootPath, "dmesg*")
//	if err != nil {
//	    slog.Warn("skipping node", "node", n.Address, "error", err)
//	    continue
//	}
//	err = artifact.ScanLines(ctx, path, func(line string) error {
//	    if strings.Contains(line, "SLUB: Unable to allocate memory") {
//	        n.IncMemoryAllocationErrors()
//	    }
//	    return nil
//	})
//
// ScanLines streams lines of any length and skips lines that are not valid
// UTF-8, which service logs occasionally contain. ReadJSON decodes a JSON
// snapshot. Parser reads small key/value files such as os-release.
package artifact
