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

package node

import (
	"fmt"
	"os"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/types"
)

// Unknown is the sentinel for values not yet observed, and the address of
// the node in a single-host bundle.
const Unknown = "unknown"

// Node is one cluster member found in a bundle.
type Node struct {
	// Address identifies the node and joins findings across checks.
	Address string `json:"address" yaml:"address"`
	// Role is the function the node served.
	Role types.Role `json:"role" yaml:"role"`
	// RootPath is the directory holding the node's artifacts.
	RootPath string `json:"rootPath" yaml:"rootPath"`

	// OSID is the operating system ID from the os-release file.
	OSID string `json:"osID" yaml:"osID"`
	// ContainerRuntimeVersion is the container runtime version string.
	ContainerRuntimeVersion string `json:"containerRuntimeVersion" yaml:"containerRuntimeVersion"`
	// ClusterSoftwareVersion is the cluster software release.
	ClusterSoftwareVersion string `json:"clusterSoftwareVersion" yaml:"clusterSoftwareVersion"`

	// SlowSyncs keeps the longest transaction log sync durations.
	SlowSyncs DurationTracker `json:"-" yaml:"-"`
	// KilledProcesses counts processes killed by the OOM killer by name.
	KilledProcesses FrequencyCounter `json:"-" yaml:"-"`

	syncWarnings          int
	killEvents            int
	clockCheckFailures    int
	memoryAllocationFails int
}

// New creates a Node. rootPath must be an existing directory.
func New(address string, role types.Role, rootPath string) (*Node, error) {
	if rootPath == "" {
		return nil, trerrors.New(trerrors.ErrCodeInvalidRequest, "node root path is required")
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, trerrors.Wrap(trerrors.ErrCodeNotFound, fmt.Sprintf("node root path %s not found", rootPath), err)
	}
	if !info.IsDir() {
		return nil, trerrors.New(trerrors.ErrCodeInvalidRequest, fmt.Sprintf("node root path %s is not a directory", rootPath))
	}
	if address == "" {
		address = Unknown
	}

	return &Node{
		Address:                 address,
		Role:                    role,
		RootPath:                rootPath,
		OSID:                    Unknown,
		ContainerRuntimeVersion: Unknown,
		ClusterSoftwareVersion:  Unknown,
		SlowSyncs:               DurationTracker{k: defaultK},
		KilledProcesses:         FrequencyCounter{},
	}, nil
}

// String returns "address (role)".
func (n *Node) String() string {
	return fmt.Sprintf("%s (%s)", n.Address, n.Role)
}

// IncSyncWarnings records one slow transaction log sync warning.
func (n *Node) IncSyncWarnings() { n.syncWarnings++ }

// SyncWarnings returns the number of slow sync warnings seen.
func (n *Node) SyncWarnings() int { return n.syncWarnings }

// IncKillEvents records one OOM kill.
func (n *Node) IncKillEvents() { n.killEvents++ }

// KillEvents returns the number of OOM kills seen.
func (n *Node) KillEvents() int { return n.killEvents }

// IncClockCheckFailures records one failed clock sync check.
func (n *Node) IncClockCheckFailures() { n.clockCheckFailures++ }

// ClockCheckFailures returns the number of failed clock sync checks.
func (n *Node) ClockCheckFailures() int { return n.clockCheckFailures }

// IncMemoryAllocationErrors records one kernel slab allocation failure.
func (n *Node) IncMemoryAllocationErrors() { n.memoryAllocationFails++ }

// MemoryAllocationErrors returns the number of slab allocation failures.
func (n *Node) MemoryAllocationErrors() int { return n.memoryAllocationFails }
