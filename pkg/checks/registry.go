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
	"github.com/NVIDIA/triage/pkg/check"
)

// All returns the built-in checks in display order.
func All() []*check.Check {
	return []*check.Check{
		{Name: nameMissingNodes, Title: "Nodes missing from the bundle", Kinds: cdOnly, Run: runMissingNodes},
		{Name: nameClusterVersion, Title: "Cluster software version mismatch", Kinds: cdAndCO, Run: runClusterVersion},
		{Name: nameOSRelease, Title: "Operating system mismatch", Kinds: cdAndCO, Run: runOSRelease},
		{Name: nameRuntimeVersion, Title: "Container runtime version mismatch", Kinds: cdAndCO, Run: runRuntimeVersion},
		{Name: nameFirewall, Title: "Running firewall", Kinds: cdAndCO, Run: runFirewall},
		{Name: nameMissingDocker, Title: "Docker daemon not running", Kinds: cdAndCO, Run: runMissingDocker},
		{Name: nameUnreachableLog, Title: "Unreachable agents in the control plane log", Kinds: cdAndCO, Run: runUnreachableLog},
		{Name: nameUnreachableRegistry, Title: "Unreachable agents in the registry", Kinds: cdAndCO, Run: runUnreachableRegistry},
		{Name: nameCheckTime, Title: "check-time failures", Kinds: cdAndCO, Run: runCheckTime},
		{Name: nameKmemSlub, Title: "Kernel memory allocation errors", Kinds: cdAndCO, Run: runKmemSlub},
		{Name: nameOOMKiller, Title: "OOM killer invocations", Kinds: cdAndCO, Run: runOOMKiller},
		{Name: nameZKFsync, Title: "Slow ZooKeeper fsync", Kinds: cdAndCO, Run: runZKFsync},
		{Name: nameZKDiskSpace, Title: "ZooKeeper disk space", Kinds: cdAndCO, Run: runZKDiskSpace},
		{Name: nameZKConnection, Title: "ZooKeeper connection exceptions", Kinds: cdAndCO, Run: runZKConnection},
		{Name: nameZKLeader, Title: "ZooKeeper leader changes", Kinds: cdAndCO, Run: runZKLeader},
		{Name: nameMesosLeader, Title: "Mesos leader changes", Kinds: cdAndCO, Run: runMesosLeader},
		{Name: nameMarathonLeader, Title: "Marathon leader changes", Kinds: cdAndCO, Run: runMarathonLeader},
		{Name: nameCRDBUnderreplicated, Title: "CockroachDB under-replicated ranges", Kinds: cdAndCO, Run: runCRDBUnderreplicated},
		{Name: nameCRDBMonotonicity, Title: "CockroachDB time sync errors", Kinds: cdAndCO, Run: runCRDBMonotonicity},
		{Name: nameCRDBContact, Title: "CockroachDB peer communication errors", Kinds: cdAndCO, Run: runCRDBContact},
		{Name: nameStateSize, Title: "Oversized state snapshot", Kinds: cdAndCO, Run: runStateSize},
		{Name: nameInactiveFrameworks, Title: "Inactive frameworks", Kinds: cdAndCO, Run: runInactiveFrameworks},
		{Name: nameSSLCertificate, Title: "SSL certificate problems", Kinds: cdAndCO, Run: runSSLCertificate},
		{Name: nameOverlayRecovering, Title: "Overlay master recovering", Kinds: cdAndCO, Run: runOverlayRecovering},
		{Name: nameNTPSync, Title: "NTP synchronization", Kinds: cdAndCO, Run: runNTPSync},
		{Name: nameNodeConditions, Title: "Orchestrator node conditions", Kinds: odOnly, Run: runNodeConditions},
	}
}

// DefaultRegistry returns a registry holding every built-in check.
func DefaultRegistry() *check.Registry {
	reg := check.NewRegistry()
	for _, c := range All() {
		reg.MustRegister(c)
	}
	return reg
}
