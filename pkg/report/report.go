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
	"github.com/NVIDIA/triage/pkg/header"
	"github.com/NVIDIA/triage/pkg/node"
	"github.com/NVIDIA/triage/pkg/types"
)

// Status is the outcome of a single check.
type Status string

const (
	// StatusPassed means the check ran and found nothing.
	StatusPassed Status = "passed"
	// StatusAlerted means the check produced at least one alert table.
	StatusAlerted Status = "alerted"
	// StatusFailed means the check returned an error or panicked.
	StatusFailed Status = "failed"
	// StatusTimeout means the check exceeded its deadline.
	StatusTimeout Status = "timeout"
	// StatusSkipped means the check does not apply to the bundle kind.
	StatusSkipped Status = "skipped"
)

// CheckSummary is the outcome of one check in a report.
type CheckSummary struct {
	Name     string   `json:"name" yaml:"name"`
	Title    string   `json:"title" yaml:"title"`
	Status   Status   `json:"status" yaml:"status"`
	Duration string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
	Tables   []*Table `json:"tables,omitempty" yaml:"tables,omitempty"`
}

// Summary counts check outcomes.
type Summary struct {
	Checks    int `json:"checks" yaml:"checks"`
	Alerted   int `json:"alerted" yaml:"alerted"`
	Failed    int `json:"failed" yaml:"failed"`
	TimedOut  int `json:"timedOut" yaml:"timedOut"`
	AlertRows int `json:"alertRows" yaml:"alertRows"`
}

// Report is the document produced by an analysis run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Bundle    string         `json:"bundle" yaml:"bundle"`
	BundleDir string         `json:"bundleDir" yaml:"bundleDir"`
	Kind      types.Kind     `json:"bundleKind" yaml:"bundleKind"`
	Nodes     []*node.Node   `json:"nodes" yaml:"nodes"`
	Checks    []CheckSummary `json:"checks" yaml:"checks"`
	Summary   Summary        `json:"summary" yaml:"summary"`
}

// Tally recomputes Summary from Checks.
func (r *Report) Tally() {
	s := Summary{Checks: len(r.Checks)}
	for _, c := range r.Checks {
		switch c.Status {
		case StatusAlerted:
			s.Alerted++
		case StatusFailed:
			s.Failed++
		case StatusTimeout:
			s.TimedOut++
		case StatusPassed, StatusSkipped:
		}
		for _, t := range c.Tables {
			s.AlertRows += t.Len()
		}
	}
	r.Summary = s
}

// HasAlerts reports whether any check produced alert rows.
func (r *Report) HasAlerts() bool {
	return r.Summary.AlertRows > 0
}
