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

package checks

import (
	"context"
	"strconv"

	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/report"
)

const (
	nameCRDBUnderreplicated = "crdb-underreplicated"
	nameCRDBMonotonicity    = "crdb-monotonicity"
	nameCRDBContact         = "crdb-contact"
)

// runCRDBUnderreplicated lists control planes whose post-start checks found
// under-replicated CockroachDB ranges.
func runCRDBUnderreplicated(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("Under-replicated CockroachDB ranges", "IP")
	for _, n := range in.ControlPlanes() {
		found, _, err := containsLine(ctx, nameCRDBUnderreplicated, n, poststartLog, "CockroachDB has underreplicated ranges")
		if err != nil {
			return nil, err
		}
		if found {
			t.AddRow(n.Address)
		}
	}
	check.SortByAddress(t, 0)
	return tables(t), nil
}

// runCRDBMonotonicity counts CockroachDB clock monotonicity errors.
func runCRDBMonotonicity(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	return crdbErrorCount(ctx, in, nameCRDBMonotonicity, "CockroachDB time sync errors", "to ensure monotonicity")
}

// runCRDBContact counts CockroachDB failures to reach its peers.
func runCRDBContact(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	return crdbErrorCount(ctx, in, nameCRDBContact, "CockroachDB peer communication errors", "unable to contact the other nodes")
}

func crdbErrorCount(ctx context.Context, in *check.Input, name, title, substr string) ([]*report.Table, error) {
	t := report.NewTable(title, "IP", "Errors")
	for _, n := range in.ControlPlanes() {
		count, _, err := countLines(ctx, name, n, cockroachLog, substr)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			t.AddRow(n.Address, strconv.Itoa(count))
		}
	}
	check.SortByCountDesc(t, 1)
	return tables(t), nil
}
