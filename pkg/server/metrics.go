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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_api_requests_total",
			Help: "API requests by route pattern and status code.",
		},
		[]string{"route", "code"},
	)

	// analyses run for minutes, so the buckets reach the analyze timeout
	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triage_api_request_duration_seconds",
			Help:    "API request latency by route pattern.",
			Buckets: []float64{0.01, 0.1, 1, 10, 60, 300, 600},
		},
		[]string{"route"},
	)

	apiRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "triage_api_rate_limited_total",
			Help: "API requests rejected by the rate limiter.",
		},
	)

	apiPanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "triage_api_panics_total",
			Help: "API handler panics recovered.",
		},
	)
)
