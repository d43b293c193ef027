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

package types

import (
	"fmt"
	"strings"
)

// Role is the function a node served in the cluster.
type Role string

// Supported node roles.
const (
	// RoleUnknown is assigned only to single-host bundles that carry none of
	// the role marker files.
	RoleUnknown Role = "unknown"
	// RoleControlPlane runs the cluster's coordination services.
	RoleControlPlane Role = "control-plane"
	// RolePrivateWorker runs workloads without public ingress.
	RolePrivateWorker Role = "private-worker"
	// RolePublicWorker runs workloads with public ingress.
	RolePublicWorker Role = "public-worker"
	// RoleOrchestratorWorker is a node of a container orchestrator bundle.
	RoleOrchestratorWorker Role = "orchestrator-worker"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the supported roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUnknown, RoleControlPlane, RolePrivateWorker, RolePublicWorker, RoleOrchestratorWorker:
		return true
	default:
		return false
	}
}

// IsControlPlane reports whether the node ran the coordination services.
func (r Role) IsControlPlane() bool {
	return r == RoleControlPlane
}

// IsWorker reports whether the node is a private or public worker.
func (r Role) IsWorker() bool {
	return r == RolePrivateWorker || r == RolePublicWorker
}

// Rank orders roles for display: control planes first, unknown last.
func (r Role) Rank() int {
	switch r {
	case RoleControlPlane:
		return 0
	case RolePrivateWorker:
		return 1
	case RolePublicWorker:
		return 2
	case RoleOrchestratorWorker:
		return 3
	default:
		return 4
	}
}

// ParseRole converts a string to a Role.
// Returns an error if the string is not a supported role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unsupported node role: %q", s)
	}
	return r, nil
}

// SupportedRoles returns all supported roles in display order.
func SupportedRoles() []Role {
	return []Role{
		RoleControlPlane,
		RolePrivateWorker,
		RolePublicWorker,
		RoleOrchestratorWorker,
		RoleUnknown,
	}
}
