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

// Package bundle detects the kind of a diagnostic bundle and extracts it to
// a directory tree.
//
// # Detection
//
// Detect identifies the bundle kind before any extraction happens, so a
// multi-gigabyte archive of the wrong kind is never unpacked. Directories
// are walked; archives are only listed:
//
//	kind, err := bundle.Detect(ctx, "bundle-2024-01-01.zip", table)
//
// # Extraction
//
// An Extractor unpacks zip and gzip-compressed tar archives:
//
//	ex := bundle.NewExtractor(bundle.WithWorkDir("/tmp/triage"))
//	dir, err := ex.Extract(ctx, "bundle-2024-01-01.zip")
//
// Extraction is idempotent: an existing target directory is returned as is.
// A corrupt zip falls back to 7z, which extracts whatever it can; the exit
// status of 7z is ignored. A single top-level wrapper directory is hoisted,
// nested .tar.gz members are unpacked next to themselves, and single-file
// .gz members are decompressed in place.
package bundle
