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

package artifact

import (
	"encoding/json"
	"fmt"
	"os"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
)

// ReadJSON decodes the JSON file at path into v. A missing file is NOT_FOUND
// and undecodable content is MALFORMED.
func ReadJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return trerrors.Wrap(trerrors.ErrCodeNotFound, fmt.Sprintf("artifact %s not found", path), err)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return trerrors.Wrap(trerrors.ErrCodeMalformed, fmt.Sprintf("failed to parse %s", path), err)
	}
	return nil
}
