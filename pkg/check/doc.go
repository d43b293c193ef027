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

// Package check defines the health check abstraction, the ordered check
// registry and the engine that runs checks against a discovered bundle.
//
// A Check is a named function from the bundle's nodes to zero or more alert
// tables. Checks declare the bundle kinds they apply to; the engine skips
// the rest.
//
//	reg := check.NewRegistry()
//	reg.MustRegister(&check.Check{
//	    Name:  "firewall",
//	    Title: "Nodes running firewalld",
//	    Kinds: []types.Kind{types.KindClusterDiagnostic},
//	    Run:   runFirewall,
//	})
//
//	eng := &check.Engine{Registry: reg, Parallelism: 4}
//	res, err := eng.Run(ctx, &check.Input{BundleDir: dir, Kind: kind, Nodes: nodes})
//
// The engine runs checks concurrently under a per-check deadline. A check
// that fails, panics or times out is recorded on its CheckResult and never
// affects the others. Results come back in registration order.
//
// The package also provides the shared building blocks of most checks:
// timestamp parsing, chronological, consistency and count tables, and
// version ordering.
package check
