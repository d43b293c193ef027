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

// Package serializer writes triage documents to stdout or a file.
//
// Three formats are supported:
//   - JSON: machine readable, indented
//   - YAML: human readable structured output
//   - Table: human readable text; values implementing TableRenderer render
//     themselves, anything else is written as YAML
//
// Usage:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatTable, outputPath)
//	defer w.Close()
//	if err := w.Serialize(ctx, rep); err != nil {
//	    return err
//	}
package serializer
