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

// Package types defines the closed enumerations shared by bundle detection,
// node discovery and the checks: the bundle Kind and the node Role.
//
// Both follow the same pattern: a string-backed type with String, a Parse
// function that rejects unknown values, and a Supported list in a stable
// order.
//
//	kind, err := types.ParseKind("cluster-diagnostic")
//	if err != nil {
//	    return err
//	}
//	if kind.IsMultiNode() {
//	    // walk per-node subdirectories
//	}
package types
