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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestFormatAge(t *testing.T) {
	tests := []struct {
		name     string
		age      time.Duration
		expected string
	}{
		{name: "Less than a minute", age: 30 * time.Second, expected: "0m"},
		{name: "Exactly one minute", age: time.Minute, expected: "1 minutes"},
		{name: "59 minutes", age: 59 * time.Minute, expected: "59 minutes"},
		{name: "1 hour", age: time.Hour, expected: "1 hours"},
		{name: "1 hour 30 minutes", age: time.Hour + 30*time.Minute, expected: "1 hours 30 minutes"},
		{name: "1 day", age: 24 * time.Hour, expected: "1 days"},
		{name: "1 day 2 hours", age: 26 * time.Hour, expected: "1 days 2 hours"},
		{name: "1 day 0 hours 5 minutes", age: 24*time.Hour + 5*time.Minute, expected: "1 days 5 minutes"},
		{name: "2 days 3 hours", age: 51 * time.Hour, expected: "2 days 3 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAge(tt.age)
			if got != tt.expected {
				t.Errorf("FormatAge() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseKubeRole(t *testing.T) {
	tests := []struct {
		name     string
		node     *corev1.Node
		expected string
	}{
		{
			name: "node with worker role",
			node: &corev1.Node{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{
						"node-role.kubernetes.io/worker": "",
					},
				},
			},
			expected: "worker",
		},
		{
			name: "node with several roles",
			node: &corev1.Node{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{
						"node-role.kubernetes.io/master":        "",
						"node-role.kubernetes.io/control-plane": "",
					},
				},
			},
			expected: "control-plane,master",
		},
		{
			name: "node with empty role label",
			node: &corev1.Node{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{
						"node-role.kubernetes.io/": "",
					},
				},
			},
			expected: KubeRoleUndefined,
		},
		{
			name: "node with no role labels",
			node: &corev1.Node{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{
						"kubernetes.io/hostname": "node1",
					},
				},
			},
			expected: KubeRoleUndefined,
		},
		{
			name:     "nil node",
			expected: KubeRoleUndefined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseKubeRole(tt.node))
		})
	}
}
