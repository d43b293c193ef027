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


// Package header provides the kind, schema version and run metadata
// stamped on triage output documents.
//
//	var rep report.Report
//	rep.Init(header.KindReport, version)
//	rep.Set(header.MetadataRunID, uuid.NewString())
//
// Serialized form:
//
//	kind: Report
//	apiVersion: triage.nvidia.com/v1alpha1
//	metadata:
//	  timestamp: "2026-01-02T15:04:05Z"
//	  version: v0.3.0
//	  runID: 0f8c6c1e-...
package header
