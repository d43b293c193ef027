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

// Package markers holds the marker table that drives bundle detection and
// node discovery.
//
// The table is configuration, not code: it maps structurally distinctive
// basenames to a bundle kind, node directory suffixes to roles, and lists
// the role marker files of single-host bundles. A default table is embedded
// in the binary; an operator can replace it with a YAML file of the same
// shape to support a new bundle generation.
//
//	table, err := markers.Default()
//	if err != nil {
//	    return err
//	}
//	if kind, ok := table.KindOf("dcos_services.json"); ok {
//	    fmt.Println(kind) // service-diagnostic
//	}
//
// A loaded Table is immutable and safe for concurrent use.
package markers
