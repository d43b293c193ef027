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

// Package report holds the alert tables produced by checks and the report
// document assembled from a run.
//
// A Table is a titled set of rows. Checks sort rows by their documented key
// before returning them; rendering numbers rows starting at 1:
//
//	t := report.NewTable("Mismatched cluster versions", "IP", "Type", "Version")
//	t.AddRow("10.0.0.1", "control-plane", "1.2.0")
//
// Report is the document written by the serializer. In table format it
// renders a node list, then a red heading and a tabular body per alert
// table; JSON and YAML carry the same model.
package report
