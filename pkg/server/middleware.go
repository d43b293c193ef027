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
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID returns the ID assigned to the request ctx belongs to, or an
// empty string outside of an API route.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// chain wraps an API route. From the outside in: metrics and access log,
// request ID, panic recovery, rate limit.
func (s *Server) chain(h http.HandlerFunc) http.Handler {
	var next http.Handler = h
	next = s.limit(next)
	next = recoverPanic(next)
	next = withRequestID(next)
	return observe(next)
}

// withRequestID keeps a caller supplied UUID and assigns a new one
// otherwise.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				apiPanics.Inc()
				slog.Error("api handler panicked",
					"requestID", RequestID(r.Context()),
					"route", r.Pattern,
					"panic", fmt.Sprint(v))
				WriteError(w, r, trerrors.New(trerrors.ErrCodeInternal, "internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// limit answers 429 with a Retry-After of whole seconds until the next token.
func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := s.limiter.Reserve()
		if wait := res.Delay(); wait > 0 {
			res.Cancel()
			apiRateLimited.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			WriteError(w, r, trerrors.NewWithContext(trerrors.ErrCodeRateLimitExceeded,
				"request rate limit exceeded", map[string]any{
					"requestsPerSecond": s.cfg.RequestsPerSecond,
					"burst":             s.cfg.Burst,
				}))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// observe records route metrics and writes one access log line per request.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		apiRequests.WithLabelValues(r.Pattern, rec.code()).Inc()
		apiRequestDuration.WithLabelValues(r.Pattern).Observe(elapsed.Seconds())

		slog.Info("api request",
			"requestID", rec.Header().Get(RequestIDHeader),
			"route", r.Pattern,
			"query", r.URL.RawQuery,
			"status", rec.status,
			"duration", elapsed)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) code() string {
	if r.status == 0 {
		return strconv.Itoa(http.StatusOK)
	}
	return strconv.Itoa(r.status)
}
