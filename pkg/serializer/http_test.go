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


package serializer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
		wantType   string
	}{
		{
			name:       "detection",
			status:     http.StatusOK,
			data:       detection{Bundle: "bundle.zip", Kind: "cluster-diagnostic"},
			wantStatus: http.StatusOK,
			wantType:   "application/json",
		},
		{
			name:       "error status kept",
			status:     http.StatusUnprocessableEntity,
			data:       detection{Bundle: "junk"},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   "application/json",
		},
		{
			name:       "unencodable value",
			status:     http.StatusOK,
			data:       map[string]any{"nodes": make(chan int)},
			wantStatus: http.StatusInternalServerError,
			wantType:   "text/plain; charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondJSON(w, tt.status, tt.data)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantType, w.Header().Get("Content-Type"))
			if tt.wantStatus != http.StatusInternalServerError {
				var got detection
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, tt.data, got)
			}
		})
	}
}
