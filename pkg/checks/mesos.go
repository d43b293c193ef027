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
	"regexp"
	"strings"

	"k8s.io/utils/set"

	"github.com/NVIDIA/triage/pkg/artifact"
	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/node"
	"github.com/NVIDIA/triage/pkg/report"
)

const (
	nameUnreachableLog    = "unreachable-agents-log"
	nameMesosLeader       = "mesos-leader"
	nameMarathonLeader    = "marathon-leader"
	nameSSLCertificate    = "ssl-certificate"
	nameOverlayRecovering = "overlay-recovering"
)

var (
	agentUnreachable  = regexp.MustCompile(`Marking agent.*\((\d{1,3}(?:\.\d{1,3}){3})\) unreachable`)
	mesosLeading      = regexp.MustCompile(`A new leading master \(UPID=master@(\d{1,3}(?:\.\d{1,3}){3}):5050\) is detected`)
	marathonLeading   = regexp.MustCompile(`Leader won: (\d{1,3}(?:\.\d{1,3}){3}):8443`)
	sslProblem        = regexp.MustCompile(`SSL certificate problem: (.*)$`)
	overlayRecovering = regexp.MustCompile("overlay-master .* `RECOVERING` state")
)

// runUnreachableLog lists agents the control planes marked unreachable and,
// separately, those of them that are not part of the bundle.
func runUnreachableLog(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	events, err := scanEvents(ctx, nameUnreachableLog, in.ControlPlanes(), mesosMasterLog, "Marking agent", agentUnreachable)
	if err != nil {
		return nil, err
	}

	mentioned := set.New[string]()
	for _, e := range events {
		mentioned.Insert(e.Subject)
	}
	absent := mentioned.Difference(node.Addresses(in.Nodes))

	missing := report.NewTable("Unreachable agents missing from the bundle", "Agent")
	for _, addr := range absent.UnsortedList() {
		missing.AddRow(addr)
	}
	check.SortByAddress(missing, 0)

	return tables(
		check.EventTable("Agents marked unreachable by the control plane", "Agent", events),
		missing,
	), nil
}

// runMesosLeader lists Mesos leader elections seen by each control plane.
func runMesosLeader(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	events, err := scanEvents(ctx, nameMesosLeader, in.ControlPlanes(), mesosMasterLog, "new leading master", mesosLeading)
	if err != nil {
		return nil, err
	}
	return tables(check.EventTable("Mesos leader changes", "New Leader", events)), nil
}

// runMarathonLeader lists Marathon leader elections seen by each control
// plane.
func runMarathonLeader(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	events, err := scanEvents(ctx, nameMarathonLeader, in.ControlPlanes(), marathonLog, "Leader won:", marathonLeading)
	if err != nil {
		return nil, err
	}
	return tables(check.EventTable("Marathon leader changes", "New Leader", events)), nil
}

// runSSLCertificate reports the first certificate problem in each agent's
// log.
func runSSLCertificate(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("SSL certificate problems in the agent log", "IP", "Problem")
	for _, n := range agents(in) {
		if _, err := scanArtifact(ctx, nameSSLCertificate, n, mesosAgentLog, func(line string) error {
			if !strings.Contains(line, "SSL certificate problem") {
				return nil
			}
			if m := sslProblem.FindStringSubmatch(line); m != nil {
				t.AddRow(n.Address, m[1])
				return artifact.ErrStop
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}
	check.SortByAddress(t, 0)
	return tables(t), nil
}

// runOverlayRecovering lists control planes whose overlay master reported
// the RECOVERING state.
func runOverlayRecovering(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("Overlay master in RECOVERING state", "IP")
	for _, n := range in.ControlPlanes() {
		found := false
		if _, err := scanArtifact(ctx, nameOverlayRecovering, n, mesosMasterLog, func(line string) error {
			if strings.Contains(line, "RECOVERING") && overlayRecovering.MatchString(line) {
				found = true
				return artifact.ErrStop
			}
			return nil
		}); err != nil {
			return nil, err
		}
		if found {
			t.AddRow(n.Address)
		}
	}
	check.SortByAddress(t, 0)
	return tables(t), nil
}
