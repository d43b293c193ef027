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
	"slices"
	"sort"
	"time"

	"github.com/NVIDIA/triage/pkg/defaults"
)

const defaultK = defaults.TopK

// DurationTracker keeps the K longest durations seen, longest first. Equal
// durations keep their arrival order.
type DurationTracker struct {
	k      int
	values []time.Duration
}

// NewDurationTracker creates a tracker keeping the k longest durations.
func NewDurationTracker(k int) *DurationTracker {
	return &DurationTracker{k: k}
}

// Add records a duration, keeping at most K values.
func (t *DurationTracker) Add(d time.Duration) {
	if t.k <= 0 {
		t.k = defaultK
	}
	t.values = append(t.values, d)
	sort.SliceStable(t.values, func(i, j int) bool {
		return t.values[i] > t.values[j]
	})
	if len(t.values) > t.k {
		t.values = t.values[:t.k]
	}
}

// Values returns the tracked durations, longest first.
func (t *DurationTracker) Values() []time.Duration {
	return slices.Clone(t.values)
}

// Len returns the number of tracked durations.
func (t *DurationTracker) Len() int {
	return len(t.values)
}

// Count is a key and the number of times it was seen.
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// FrequencyCounter counts occurrences by key.
type FrequencyCounter struct {
	counts map[string]int
	// first orders keys by first occurrence
	first map[string]uint64
	seq   uint64
}

// NewFrequencyCounter creates an empty counter.
func NewFrequencyCounter() *FrequencyCounter {
	return &FrequencyCounter{}
}

// Inc increments the count for key, starting at 1.
func (c *FrequencyCounter) Inc(key string) {
	if c.counts == nil {
		c.counts = make(map[string]int)
		c.first = make(map[string]uint64)
	}
	if _, ok := c.counts[key]; !ok {
		c.first[key] = c.seq
		c.seq++
	}
	c.counts[key]++
}

// Get returns the count for key.
func (c *FrequencyCounter) Get(key string) int {
	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *FrequencyCounter) Len() int {
	return len(c.counts)
}

// Top returns the k most frequent keys, highest count first. Ties go to the
// key that was seen first.
func (c *FrequencyCounter) Top(k int) []Count {
	out := make([]Count, 0, len(c.counts))
	for key, n := range c.counts {
		out = append(out, Count{Key: key, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return c.first[out[i].Key] < c.first[out[j].Key]
	})
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
