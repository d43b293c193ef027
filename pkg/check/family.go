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
	"cmp"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
	"k8s.io/utils/set"

	"github.com/NVIDIA/triage/pkg/artifact"
	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/node"
	"github.com/NVIDIA/triage/pkg/report"
)

const (
	// TimestampLayout is how event times are parsed. Fractional seconds are
	// accepted after the seconds field.
	TimestampLayout = "2006-01-02 15:04:05"
	// TimestampDisplayLayout is how event times are rendered.
	TimestampDisplayLayout = "2006-01-02 15:04:05.000000"
)

var timestampPattern = regexp.MustCompile(`(\d+-\d+-\d+)\D.*?(\d{1,2}:\d{2}:\d{2}\.\d+)`)

// ParseTimestamp parses a date and a time of day with fractional seconds,
// truncated to microseconds.
func ParseTimestamp(date, clock string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, trerrors.Wrap(trerrors.ErrCodeMalformed, "invalid timestamp", err)
	}
	return t.Truncate(time.Microsecond), nil
}

// ExtractTimestamp finds the first date and time of day in line.
func ExtractTimestamp(line string) (time.Time, bool) {
	m := timestampPattern.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	t, err := ParseTimestamp(m[1], m[2])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatTimestamp renders t with microsecond precision.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampDisplayLayout)
}

// Event is one timestamped finding.
type Event struct {
	Time    time.Time
	Subject string
}

// EventTable lists events in chronological order. Events with equal times
// keep their input order. It returns nil when there are no events.
func EventTable(title, subjectColumn string, events []Event) *report.Table {
	if len(events) == 0 {
		return nil
	}
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		return a.Time.Compare(b.Time)
	})

	t := report.NewTable(title, "Time", subjectColumn)
	for _, e := range sorted {
		t.AddRow(FormatTimestamp(e.Time), e.Subject)
	}
	return t
}

// Observation is one value read from one node.
type Observation struct {
	Node  *node.Node
	Value string
}

// ConsistencyTable lists every observation when more than one distinct
// value was observed, ordered by value with compare and then by address.
// It returns nil when the values agree or nothing was observed.
func ConsistencyTable(title, valueColumn string, obs []Observation, compare func(a, b string) int) *report.Table {
	distinct := set.New[string]()
	for _, o := range obs {
		distinct.Insert(o.Value)
	}
	if distinct.Len() <= 1 {
		return nil
	}

	sorted := slices.Clone(obs)
	slices.SortStableFunc(sorted, func(a, b Observation) int {
		if c := compare(a.Value, b.Value); c != 0 {
			return c
		}
		return node.CompareAddress(a.Node.Address, b.Node.Address)
	})

	t := report.NewTable(title, "IP", "Type", valueColumn)
	for _, o := range sorted {
		t.AddRow(o.Node.Address, o.Node.Role.String(), o.Value)
	}
	return t
}

// CompareVersions orders version strings numerically when both parse and
// lexically otherwise.
func CompareVersions(a, b string) int {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	if errA == nil && errB == nil {
		if c := va.Compare(vb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

// SortByCountDesc stably orders rows by the integer in column col, largest
// first.
func SortByCountDesc(t *report.Table, col int) {
	t.SortBy(func(a, b []string) int {
		na, _ := strconv.Atoi(a[col])
		nb, _ := strconv.Atoi(b[col])
		return cmp.Compare(nb, na)
	})
}

// SortByAddress stably orders rows by the address in column col.
func SortByAddress(t *report.Table, col int) {
	t.SortBy(func(a, b []string) int {
		return node.CompareAddress(a[col], b[col])
	})
}

// ResolveArtifact finds the single file matching pattern under the node's
// root. Missing and ambiguous matches are logged and reported as false.
func ResolveArtifact(check string, n *node.Node, pattern string) (string, bool) {
	path, err := artifact.ResolveOne(n.RootPath, pattern)
	if err != nil {
		slog.Warn("unable to resolve artifact",
			"check", check,
			"node", n.Address,
			"pattern", pattern,
			"error", err)
		return "", false
	}
	return path, true
}
