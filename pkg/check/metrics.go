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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triage_check_duration_seconds",
			Help:    "Time taken by individual checks",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"check"},
	)

	checkOutcomeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_check_outcome_total",
			Help: "Number of check runs by outcome",
		},
		[]string{"check", "status"}, // passed, alerted, failed, timeout
	)

	checkAlertRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "triage_check_alert_rows",
			Help: "Number of alert rows produced by the last run of a check",
		},
		[]string{"check"},
	)

	analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "triage_engine_run_duration_seconds",
			Help:    "Time taken to run all applicable checks",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 900},
		},
	)
)

// WriteMetrics writes all registered metrics to path in the node exporter
// textfile format.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
