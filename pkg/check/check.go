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

package check

import (
	"context"
	"slices"

	"github.com/NVIDIA/triage/pkg/node"
	"github.com/NVIDIA/triage/pkg/report"
	"github.com/NVIDIA/triage/pkg/types"
)

// Func inspects a bundle and returns alert tables. Tables without rows are
// dropped by the engine.
type Func func(ctx context.Context, in *Input) ([]*report.Table, error)

// Check is a single named health check.
type Check struct {
	// Name is the stable identifier used on the command line.
	Name string
	// Title is a short human readable description.
	Title string
	// Kinds lists the bundle kinds the check applies to.
	Kinds []types.Kind
	// Run performs the check.
	Run Func
}

// AppliesTo reports whether the check runs for bundles of kind.
func (c *Check) AppliesTo(kind types.Kind) bool {
	return slices.Contains(c.Kinds, kind)
}

// Input is what every check receives.
type Input struct {
	BundleDir string
	Kind      types.Kind
	Nodes     []*node.Node
}

// ControlPlanes returns the control plane nodes.
func (in *Input) ControlPlanes() []*node.Node {
	return node.Filter(in.Nodes, func(n *node.Node) bool { return n.Role.IsControlPlane() })
}

// Workers returns the private and public worker nodes.
func (in *Input) Workers() []*node.Node {
	return node.Filter(in.Nodes, func(n *node.Node) bool { return n.Role.IsWorker() })
}

// Infos describes checks for listings.
func Infos(checks []*Check) []report.CheckInfo {
	out := make([]report.CheckInfo, 0, len(checks))
	for _, c := range checks {
		out = append(out, report.CheckInfo{Name: c.Name, Title: c.Title, Kinds: c.Kinds})
	}
	return out
}
