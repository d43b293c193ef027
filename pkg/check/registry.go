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

package check

import (
	"fmt"
	"sync"

	"k8s.io/utils/set"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/types"
)

// Registry holds checks in registration order, which is also the order
// results are reported in.
type Registry struct {
	mu     sync.RWMutex
	checks []*Check
	byName map[string]*Check
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Check),
	}
}

// Register appends a check. Names must be unique and a check needs a Run
// function.
func (r *Registry) Register(c *Check) error {
	if c == nil || c.Name == "" {
		return trerrors.New(trerrors.ErrCodeInvalidRequest, "check name is required")
	}
	if c.Run == nil {
		return trerrors.New(trerrors.ErrCodeInvalidRequest, fmt.Sprintf("check %s has no run function", c.Name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[c.Name]; exists {
		return trerrors.New(trerrors.ErrCodeInvalidRequest, fmt.Sprintf("check %s already registered", c.Name))
	}
	r.checks = append(r.checks, c)
	r.byName[c.Name] = c
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(c *Check) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Get returns the check with the given name.
func (r *Registry) Get(name string) (*Check, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// List returns all checks in registration order.
func (r *Registry) List() []*Check {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Check, len(r.checks))
	copy(out, r.checks)
	return out
}

// Names returns all check names in registration order.
func (r *Registry) Names() []string {
	checks := r.List()
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.Name
	}
	return names
}

// Count returns the number of registered checks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.checks)
}

// ForKind returns the checks that apply to kind, in registration order.
func (r *Registry) ForKind(kind types.Kind) []*Check {
	var out []*Check
	for _, c := range r.List() {
		if c.AppliesTo(kind) {
			out = append(out, c)
		}
	}
	return out
}

// Select returns a new registry keeping registration order. A non-empty
// include list keeps only the named checks; exclude drops checks. Unknown
// names are an INVALID_REQUEST error.
func (r *Registry) Select(include, exclude []string) (*Registry, error) {
	known := set.New(r.Names()...)
	for _, name := range append(append([]string{}, include...), exclude...) {
		if !known.Has(name) {
			return nil, trerrors.NewWithContext(trerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("unknown check %q", name),
				map[string]any{"known": known.SortedList()})
		}
	}

	keep := set.New(include...)
	drop := set.New(exclude...)
	out := NewRegistry()
	for _, c := range r.List() {
		if keep.Len() > 0 && !keep.Has(c.Name) {
			continue
		}
		if drop.Has(c.Name) {
			continue
		}
		out.MustRegister(c)
	}
	return out, nil
}
