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

package defaults

import "time"

// Timeouts for analysis stages.
const (
	// ExtractTimeout bounds archive extraction, including the 7z fallback.
	ExtractTimeout = 30 * time.Minute

	// CheckTimeout is the default deadline for a single check.
	// A check that exceeds it contributes no alert rows.
	CheckTimeout = 2 * time.Minute

	// AnalyzeTimeout bounds a complete analyze run.
	AnalyzeTimeout = 1 * time.Hour
)

// Server timeouts for the HTTP analysis service.
const (
	// ServerReadTimeout is the maximum duration for reading a request.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerAnalyzeTimeout bounds a single analysis requested over HTTP.
	ServerAnalyzeTimeout = 10 * time.Minute

	// ServerWriteTimeout is the maximum duration for writing a response.
	// It must exceed ServerAnalyzeTimeout.
	ServerWriteTimeout = 11 * time.Minute

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Limits applied while reading bundles.
const (
	// MaxNestedArchiveDepth bounds recursive extraction of archives found
	// inside an extracted bundle.
	MaxNestedArchiveDepth = 4

	// MaxArchiveMemberBytes is the largest single archive member extracted.
	MaxArchiveMemberBytes int64 = 16 << 30

	// MaxKeyValueFileBytes is the largest key/value artifact parsed in full.
	MaxKeyValueFileBytes = 1 << 20

	// MaxRequestBodyBytes bounds the JSON body of an analysis request.
	MaxRequestBodyBytes int64 = 1 << 20
)

// Thresholds used by checks.
const (
	// TopK is the number of entries kept by the per-node top-K trackers.
	TopK = 5

	// StateSnapshotMaxBytes is the size above which the control plane state
	// snapshot is reported as oversized (5 MiB).
	StateSnapshotMaxBytes int64 = 5 << 20
)
