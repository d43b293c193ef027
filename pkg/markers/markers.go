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

package markers

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
	"k8s.io/utils/set"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/types"
)

var (
	//go:embed markers.yaml
	defaultData []byte

	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// RoleSuffix maps a node directory name suffix to a role.
type RoleSuffix struct {
	Suffix string     `json:"suffix" yaml:"suffix"`
	Role   types.Role `json:"role" yaml:"role"`
}

// RoleMarker maps a file present in a single-host bundle to a role.
type RoleMarker struct {
	File string     `json:"file" yaml:"file"`
	Role types.Role `json:"role" yaml:"role"`
}

// Orchestrator describes where orchestrator bundles keep their nodes.
type Orchestrator struct {
	NodesDir       string     `json:"nodesDir" yaml:"nodesDir"`
	AddressPattern string     `json:"addressPattern" yaml:"addressPattern"`
	Role           types.Role `json:"role" yaml:"role"`
}

// config is the on-disk shape of the table.
type config struct {
	Kinds        map[types.Kind][]string `yaml:"kinds"`
	RoleSuffixes []RoleSuffix            `yaml:"roleSuffixes"`
	RoleMarkers  []RoleMarker            `yaml:"roleMarkers"`
	Orchestrator Orchestrator            `yaml:"orchestrator"`
}

// Table is a validated, immutable marker table.
type Table struct {
	kinds        map[string]types.Kind
	suffixes     []RoleSuffix
	roleMarkers  []RoleMarker
	orchestrator Orchestrator
	addressRe    *regexp.Regexp
}

// Default returns the embedded marker table. It is parsed once per process.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultData)
	})
	return defaultTable, defaultErr
}

// Load reads and validates a marker table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, trerrors.Wrap(trerrors.ErrCodeNotFound, fmt.Sprintf("marker file %s not found", path), err)
		}
		return nil, fmt.Errorf("failed to read marker file %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("marker file %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates a marker table.
func Parse(data []byte) (*Table, error) {
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, trerrors.Wrap(trerrors.ErrCodeMalformed, "failed to parse marker table", err)
	}
	return newTable(&cfg)
}

func newTable(cfg *config) (*Table, error) {
	t := &Table{
		kinds:        make(map[string]types.Kind),
		orchestrator: cfg.Orchestrator,
	}

	if len(cfg.Kinds) == 0 {
		return nil, invalid("marker table defines no kinds")
	}

	// iterate kinds in a fixed order so the duplicate error is deterministic
	for _, kind := range types.SupportedKinds() {
		for _, m := range cfg.Kinds[kind] {
			m = strings.TrimSpace(m)
			if m == "" {
				return nil, invalid(fmt.Sprintf("empty marker for kind %s", kind))
			}
			if prev, ok := t.kinds[m]; ok {
				return nil, invalid(fmt.Sprintf("marker %q is mapped to both %s and %s", m, prev, kind))
			}
			t.kinds[m] = kind
		}
	}
	for kind := range cfg.Kinds {
		if !kind.IsValid() {
			return nil, invalid(fmt.Sprintf("unknown kind %q", kind))
		}
	}

	seen := set.New[string]()
	for _, s := range cfg.RoleSuffixes {
		if s.Suffix == "" {
			return nil, invalid("empty role suffix")
		}
		if seen.Has(s.Suffix) {
			return nil, invalid(fmt.Sprintf("duplicate role suffix %q", s.Suffix))
		}
		if !s.Role.IsValid() || s.Role == types.RoleUnknown {
			return nil, invalid(fmt.Sprintf("invalid role %q for suffix %q", s.Role, s.Suffix))
		}
		seen.Insert(s.Suffix)
		t.suffixes = append(t.suffixes, s)
	}
	// most specific first
	sort.SliceStable(t.suffixes, func(i, j int) bool {
		return len(t.suffixes[i].Suffix) > len(t.suffixes[j].Suffix)
	})

	for _, m := range cfg.RoleMarkers {
		if m.File == "" {
			return nil, invalid("empty role marker file")
		}
		if !m.Role.IsValid() || m.Role == types.RoleUnknown {
			return nil, invalid(fmt.Sprintf("invalid role %q for marker %q", m.Role, m.File))
		}
		t.roleMarkers = append(t.roleMarkers, m)
	}

	if t.orchestrator.NodesDir == "" {
		return nil, invalid("orchestrator nodesDir is required")
	}
	if t.orchestrator.Role == "" {
		t.orchestrator.Role = types.RoleOrchestratorWorker
	}
	if !t.orchestrator.Role.IsValid() {
		return nil, invalid(fmt.Sprintf("invalid orchestrator role %q", t.orchestrator.Role))
	}
	if t.orchestrator.AddressPattern != "" {
		re, err := regexp.Compile(t.orchestrator.AddressPattern)
		if err != nil {
			return nil, trerrors.Wrap(trerrors.ErrCodeInvalidRequest, "invalid orchestrator address pattern", err)
		}
		t.addressRe = re
	}

	return t, nil
}

func invalid(msg string) error {
	return trerrors.New(trerrors.ErrCodeInvalidRequest, msg)
}

// KindOf returns the bundle kind a basename identifies, if any.
func (t *Table) KindOf(name string) (types.Kind, bool) {
	k, ok := t.kinds[name]
	return k, ok
}

// Markers returns every marker basename in sorted order.
func (t *Table) Markers() []string {
	out := make([]string, 0, len(t.kinds))
	for m := range t.kinds {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// RoleSuffixes returns the role suffixes, longest first.
func (t *Table) RoleSuffixes() []RoleSuffix {
	return slices.Clone(t.suffixes)
}

// MatchSuffix resolves a node directory name to its address and role.
// The most specific matching suffix wins.
func (t *Table) MatchSuffix(dirName string) (address string, role types.Role, ok bool) {
	for _, s := range t.suffixes {
		if strings.HasSuffix(dirName, s.Suffix) {
			return strings.TrimSuffix(dirName, s.Suffix), s.Role, true
		}
	}
	return "", types.RoleUnknown, false
}

// RoleMarkers returns the single-host role marker files in precedence order.
func (t *Table) RoleMarkers() []RoleMarker {
	return slices.Clone(t.roleMarkers)
}

// NodesDir is the subdirectory of an orchestrator bundle holding one
// directory per node.
func (t *Table) NodesDir() string {
	return t.orchestrator.NodesDir
}

// OrchestratorRole is the fixed role of orchestrator bundle nodes.
func (t *Table) OrchestratorRole() types.Role {
	return t.orchestrator.Role
}

// MatchAddress reports whether an orchestrator node directory name looks like
// a node address. Without a pattern every name matches.
func (t *Table) MatchAddress(name string) bool {
	if t.addressRe == nil {
		return true
	}
	return t.addressRe.MatchString(name)
}
