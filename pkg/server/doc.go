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

// Package server runs the HTTP side of `triage serve`.
//
// A Server mounts caller supplied routes behind a fixed middleware chain
// and always exposes:
//
//	GET /health    liveness, name and version
//	GET /ready     503 until listening and again while draining
//	GET /metrics   Prometheus exposition
//
// API routes get a request ID (X-Request-Id, a UUID), panic recovery, a
// shared token bucket rate limit with Retry-After, per-route metrics and an
// access log line. Probes and /metrics skip the chain.
//
// Errors are written with WriteError, which turns pkg/errors codes into a
// status (see StatusFor) and a body such as:
//
//	{
//	  "code": "UNRECOGNIZED_BUNDLE",
//	  "message": "unable to determine bundle kind",
//	  "details": {"path": "/srv/bundles/junk"},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-12-22T12:00:00Z",
//	  "retryable": false
//	}
//
// Serve drains in-flight analyses for Config.ShutdownTimeout after SIGINT or
// SIGTERM.
package server
