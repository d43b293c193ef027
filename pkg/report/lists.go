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

package report

import (
	"io"
	"strings"

	"github.com/NVIDIA/triage/pkg/header"
	"github.com/NVIDIA/triage/pkg/node"
	"github.com/NVIDIA/triage/pkg/types"
)

// NodeList is the document listing the nodes of one bundle.
type NodeList struct {
	header.Header `json:",inline" yaml:",inline"`

	Bundle string       `json:"bundle" yaml:"bundle"`
	Kind   types.Kind   `json:"bundleKind" yaml:"bundleKind"`
	Nodes  []*node.Node `json:"nodes" yaml:"nodes"`
}

// NewNodeList creates a NodeList document.
func NewNodeList(version, bundle string, kind types.Kind, nodes []*node.Node) *NodeList {
	l := &NodeList{Bundle: bundle, Kind: kind, Nodes: nodes}
	l.Init(header.KindNodeList, version)
	return l
}

// RenderTable writes the node table.
func (l *NodeList) RenderTable(w io.Writer) error {
	return NodeTable(l.Nodes).Render(w)
}

// CheckInfo describes one registered check.
type CheckInfo struct {
	Name  string       `json:"name" yaml:"name"`
	Title string       `json:"title" yaml:"title"`
	Kinds []types.Kind `json:"kinds" yaml:"kinds"`
}

// CheckList is the document listing the available checks.
type CheckList struct {
	header.Header `json:",inline" yaml:",inline"`

	Checks []CheckInfo `json:"checks" yaml:"checks"`
}

// NewCheckList creates a CheckList document.
func NewCheckList(version string, checks []CheckInfo) *CheckList {
	l := &CheckList{Checks: checks}
	l.Init(header.KindCheckList, version)
	return l
}

// RenderTable writes one row per check.
func (l *CheckList) RenderTable(w io.Writer) error {
	t := NewTable("Checks", "Name", "Title", "Kinds")
	for _, c := range l.Checks {
		kinds := make([]string, 0, len(c.Kinds))
		for _, k := range c.Kinds {
			kinds = append(kinds, k.String())
		}
		t.AddRow(c.Name, c.Title, strings.Join(kinds, ","))
	}
	return t.Render(w)
}
