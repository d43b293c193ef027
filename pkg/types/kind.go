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

// Kind identifies the layout of a diagnostic bundle. It is determined once
// per run by the detector and never changes afterwards.
type Kind string

// Supported bundle kinds.
const (
	// KindClusterDiagnostic is a multi-node bundle with one directory per node.
	KindClusterDiagnostic Kind = "cluster-diagnostic"
	// KindClusterOneliner is a single-host bundle collected by a shell one-liner.
	KindClusterOneliner Kind = "cluster-oneliner"
	// KindServiceDiagnostic is a bundle describing a single hosted service.
	KindServiceDiagnostic Kind = "service-diagnostic"
	// KindOrchestratorDiagnostic is a container orchestrator bundle with nested
	// per-node archives.
	KindOrchestratorDiagnostic Kind = "orchestrator-diagnostic"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the supported kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindClusterDiagnostic, KindClusterOneliner, KindServiceDiagnostic, KindOrchestratorDiagnostic:
		return true
	default:
		return false
	}
}

// IsMultiNode reports whether bundles of this kind hold one subdirectory per node.
func (k Kind) IsMultiNode() bool {
	return k == KindClusterDiagnostic || k == KindOrchestratorDiagnostic
}

// ParseKind converts a string to a Kind.
// Returns an error if the string is not a supported kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("unsupported bundle kind: %q", s)
	}
	return k, nil
}

// SupportedKinds returns all supported bundle kinds.
func SupportedKinds() []Kind {
	return []Kind{
		KindClusterDiagnostic,
		KindClusterOneliner,
		KindServiceDiagnostic,
		KindOrchestratorDiagnostic,
	}
}

// SupportedKindsAsStrings returns all supported bundle kinds as strings.
func SupportedKindsAsStrings() []string {
	kinds := SupportedKinds()
	result := make([]string, len(kinds))
	for i, k := range kinds {
		result[i] = string(k)
	}
	return result
}
