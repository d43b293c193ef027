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
	"path/filepath"
	"strings"

	"github.com/NVIDIA/triage/pkg/artifact"
	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/report"
)

const (
	nameFirewall      = "firewall"
	nameMissingDocker = "missing-dockerd"
	nameNTPSync       = "ntp-sync"
)

var ntpSynchronized = []string{
	"NTP synchronized: yes",
	"System clock synchronized: yes",
}

// runFirewall lists nodes with firewalld in their process list.
func runFirewall(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("Nodes running firewalld", "IP", "Type")
	for _, n := range in.Nodes {
		if !artifact.Exists(filepath.Join(n.RootPath, processList)) {
			continue
		}
		found, _, err := containsLine(ctx, nameFirewall, n, processList, "firewalld")
		if err != nil {
			return nil, err
		}
		if found {
			t.AddRow(n.Address, n.Role.String())
		}
	}
	sortByRole(t, 1, 0)
	return tables(t), nil
}

// runMissingDocker lists agents whose process list has no dockerd.
func runMissingDocker(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("Agents without a running Docker daemon", "IP", "Type")
	for _, n := range agents(in) {
		if !artifact.Exists(filepath.Join(n.RootPath, processList)) {
			continue
		}
		found, ok, err := containsLine(ctx, nameMissingDocker, n, processList, "dockerd")
		if err != nil {
			return nil, err
		}
		if ok && !found {
			t.AddRow(n.Address, n.Role.String())
		}
	}
	check.SortByAddress(t, 0)
	return tables(t), nil
}

// runNTPSync lists nodes whose timedatectl output does not report a
// synchronized clock.
func runNTPSync(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("Nodes with NTP not synchronized", "IP", "Type")
	for _, n := range in.Nodes {
		if !artifact.Exists(filepath.Join(n.RootPath, timedatectlOutput)) {
			continue
		}
		synced := false
		ok, err := scanArtifact(ctx, nameNTPSync, n, timedatectlOutput, func(line string) error {
			for _, s := range ntpSynchronized {
				if strings.Contains(line, s) {
					synced = true
					return artifact.ErrStop
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if ok && !synced {
			t.AddRow(n.Address, n.Role.String())
		}
	}
	check.SortByAddress(t, 0)
	return tables(t), nil
}
