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

// Package node models the members of a cluster captured in a diagnostic
// bundle and discovers them from an extracted bundle directory.
//
// A Node is created once by Discover and then handed to every check. Each
// mutable field has exactly one owning check, so checks running in parallel
// never write the same field and Node carries no locks.
//
//	nodes, err := node.Discover(bundleDir, types.KindClusterDiagnostic, table)
//	if err != nil {
//	    return err // NO_NODES_FOUND is fatal
//	}
//	for _, n := range nodes {
//	    fmt.Println(n.Address, n.Role)
//	}
//
// DurationTracker and FrequencyCounter are the bounded aggregation helpers
// used for per-node top-K summaries.
package node
