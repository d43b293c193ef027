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


package header

import "time"

// Kind names a triage document type.
type Kind string

// Document kinds.
const (
	KindReport    Kind = "Report"
	KindNodeList  Kind = "NodeList"
	KindCheckList Kind = "CheckList"
)

// APIVersion is the schema version stamped on every triage document.
const APIVersion = "triage.nvidia.com/v1alpha1"

// Metadata keys.
const (
	MetadataTimestamp = "timestamp"
	MetadataVersion   = "version"
	MetadataRunID     = "runID"
	MetadataRequestID = "requestID"
)

// now is replaced in tests.
var now = time.Now

// Header is embedded inline at the top of every triage document.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init stamps h as a kind document produced by the given tool version.
// Metadata from a previous Init is discarded.
func (h *Header) Init(kind Kind, version string) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = map[string]string{
		MetadataTimestamp: now().UTC().Format(time.RFC3339),
	}
	h.Set(MetadataVersion, version)
}

// Set records a metadata entry. Empty values are not recorded.
func (h *Header) Set(key, value string) {
	if value == "" {
		return
	}
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata[key] = value
}
