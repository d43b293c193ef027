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
	"sort"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
)

const (
	// KubeRoleUndefined is reported for orchestrator nodes without role labels.
	KubeRoleUndefined = "<none>"

	kubeRoleLabelPrefix = "node-role.kubernetes.io/"
)

// ParseKubeRole returns the comma separated roles carried in the
// node-role.kubernetes.io/ labels of an orchestrator node.
func ParseKubeRole(n *corev1.Node) string {
	if n == nil {
		return KubeRoleUndefined
	}
	var roles []string
	for label := range n.Labels {
		role, ok := strings.CutPrefix(label, kubeRoleLabelPrefix)
		if ok && role != "" {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		return KubeRoleUndefined
	}
	sort.Strings(roles)
	return strings.Join(roles, ",")
}

// FormatAge renders a duration as days, hours and minutes, dropping zero
// parts. Anything under a minute is "0m".
func FormatAge(d time.Duration) string {
	if d < time.Minute {
		return "0m"
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", minutes))
	}
	return strings.Join(parts, " ")
}
