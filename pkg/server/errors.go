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

package server

import (
	"errors"
	"maps"
	"net/http"
	"time"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/serializer"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// StatusFor maps an error code to the HTTP status it is served with.
// Bundles that cannot be analyzed are 422; unknown codes are 500.
func StatusFor(code trerrors.ErrorCode) int {
	switch code {
	case trerrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case trerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case trerrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case trerrors.ErrCodeAmbiguous:
		return http.StatusConflict
	case trerrors.ErrCodeUnrecognizedBundle, trerrors.ErrCodeNoNodesFound, trerrors.ErrCodeMalformed:
		return http.StatusUnprocessableEntity
	case trerrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case trerrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case trerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// retryable reports whether the same request may succeed later.
func retryable(code trerrors.ErrorCode) bool {
	switch code {
	case trerrors.ErrCodeTimeout, trerrors.ErrCodeUnavailable, trerrors.ErrCodeRateLimitExceeded:
		return true
	default:
		return false
	}
}

// WriteError writes err as an ErrorResponse. The outermost StructuredError
// in the chain supplies the code, message and details, with its cause under
// "cause". Any other error is INTERNAL.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{
		Code:      string(trerrors.ErrCodeInternal),
		Message:   "internal error",
		RequestID: RequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	}

	var se *trerrors.StructuredError
	switch {
	case errors.As(err, &se):
		resp.Code = string(se.Code)
		resp.Message = se.Message
		resp.Details = maps.Clone(se.Context)
		if se.Cause != nil {
			if resp.Details == nil {
				resp.Details = make(map[string]any, 1)
			}
			resp.Details["cause"] = se.Cause.Error()
		}
	case err != nil:
		resp.Details = map[string]any{"cause": err.Error()}
	}

	code := trerrors.ErrorCode(resp.Code)
	resp.Retryable = retryable(code)
	serializer.RespondJSON(w, StatusFor(code), resp)
}
