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
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/triage/pkg/node"
)

var headingCaser = cases.Upper(language.Und)

// RenderTable writes the report as human readable text.
func (r *Report) RenderTable(w io.Writer) error {
	renderer := lipgloss.NewRenderer(w)
	alert := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	title := renderer.NewStyle().Bold(true)

	fmt.Fprintf(w, "%s %s (%s)\n\n", title.Render("Bundle:"), r.Bundle, r.Kind)

	if err := NodeTable(r.Nodes).Render(w); err != nil {
		return err
	}

	for _, c := range r.Checks {
		for _, t := range c.Tables {
			fmt.Fprintf(w, "\n%s\n", alert.Render(t.Title))
			if err := t.Render(w); err != nil {
				return err
			}
		}
	}

	var problems []string
	for _, c := range r.Checks {
		switch c.Status {
		case StatusFailed:
			problems = append(problems, fmt.Sprintf("check %s failed: %s", c.Name, c.Error))
		case StatusTimeout:
			problems = append(problems, fmt.Sprintf("check %s timed out after %s", c.Name, c.Duration))
		case StatusPassed, StatusAlerted, StatusSkipped:
		}
	}
	if len(problems) > 0 {
		fmt.Fprintln(w)
		for _, p := range problems {
			fmt.Fprintln(w, p)
		}
	}

	fmt.Fprintf(w, "\n%d checks, %d alerted, %d failed, %d timed out\n",
		r.Summary.Checks, r.Summary.Alerted, r.Summary.Failed, r.Summary.TimedOut)
	return nil
}

// Render writes the table body with upper-cased headings and rows numbered
// from 1.
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headings := make([]string, 0, len(t.Columns)+1)
	headings = append(headings, "")
	for _, c := range t.Columns {
		headings = append(headings, headingCaser.String(c))
	}
	fmt.Fprintln(tw, strings.Join(headings, "\t"))

	for i, row := range t.Rows {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(i+1))
		cells = append(cells, row...)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// NodeTable lists nodes in discovery order.
func NodeTable(nodes []*node.Node) *Table {
	t := NewTable("Nodes", "IP", "Type")
	for _, n := range nodes {
		t.AddRow(n.Address, n.Role.String())
	}
	return t
}
