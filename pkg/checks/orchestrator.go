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
	"log/slog"
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/NVIDIA/triage/pkg/artifact"
	"github.com/NVIDIA/triage/pkg/check"
	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/node"
	"github.com/NVIDIA/triage/pkg/report"
)

const nameNodeConditions = "orchestrator-node-conditions"

// pressureConditions alert when True; Ready alerts when not True.
var pressureConditions = []corev1.NodeConditionType{
	corev1.NodeMemoryPressure,
	corev1.NodeDiskPressure,
	corev1.NodePIDPressure,
	corev1.NodeNetworkUnavailable,
}

// runNodeConditions lists orchestrator nodes that are not ready or report
// resource pressure, with how long the condition had held when the bundle
// was captured.
func runNodeConditions(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	path, err := artifact.ResolveOne(in.BundleDir, orchestratorNodes)
	if err != nil {
		slog.Warn("unable to resolve node list", "check", nameNodeConditions, "error", err)
		return nil, nil
	}

	var list corev1.NodeList
	if err := artifact.ReadJSON(path, &list); err != nil {
		if trerrors.IsCode(err, trerrors.ErrCodeMalformed) {
			slog.Warn("unable to read node list", "check", nameNodeConditions, "path", path, "error", err)
			return nil, nil
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	captured := captureTime(list.Items)

	t := report.NewTable("Orchestrator nodes with unhealthy conditions", "Node", "Roles", "Condition", "Status", "Since")
	for i := range list.Items {
		n := &list.Items[i]
		for _, c := range n.Status.Conditions {
			if !unhealthy(c) {
				continue
			}
			since := ""
			if !c.LastTransitionTime.IsZero() {
				since = node.FormatAge(captured.Sub(c.LastTransitionTime.Time))
			}
			t.AddRow(n.Name, node.ParseKubeRole(n), string(c.Type), string(c.Status), since)
		}
	}
	t.SortByColumns(0, 2)
	return tables(t), nil
}

func unhealthy(c corev1.NodeCondition) bool {
	if c.Type == corev1.NodeReady {
		return c.Status != corev1.ConditionTrue
	}
	for _, p := range pressureConditions {
		if c.Type == p {
			return c.Status == corev1.ConditionTrue
		}
	}
	return false
}

// captureTime approximates when the node list was taken by the latest
// heartbeat or transition it records.
func captureTime(nodes []corev1.Node) time.Time {
	var latest time.Time
	for _, n := range nodes {
		for _, c := range n.Status.Conditions {
			for _, ts := range []time.Time{c.LastHeartbeatTime.Time, c.LastTransitionTime.Time} {
				if ts.After(latest) {
					latest = ts
				}
			}
		}
	}
	return latest
}
