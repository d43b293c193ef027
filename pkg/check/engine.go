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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/triage/pkg/defaults"
	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/report"
)

// Engine runs the checks of a registry against one bundle.
type Engine struct {
	// Registry holds the checks to run.
	Registry *Registry
	// Parallelism bounds concurrently running checks. Zero means one per CPU.
	Parallelism int
	// Timeout bounds each check. Zero means defaults.CheckTimeout.
	Timeout time.Duration
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Check    *Check
	Status   report.Status
	Tables   []*report.Table
	Err      error
	Duration time.Duration
}

// Result holds per-check outcomes in registration order.
type Result struct {
	Results []*CheckResult
}

// Err combines the errors of failed and timed out checks, or returns nil.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, cr := range r.Results {
		if cr.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("check %s: %w", cr.Check.Name, cr.Err))
		}
	}
	return merr.ErrorOrNil()
}

// Summaries converts the results to report entries.
func (r *Result) Summaries() []report.CheckSummary {
	out := make([]report.CheckSummary, 0, len(r.Results))
	for _, cr := range r.Results {
		s := report.CheckSummary{
			Name:   cr.Check.Name,
			Title:  cr.Check.Title,
			Status: cr.Status,
			Tables: cr.Tables,
		}
		if cr.Status != report.StatusSkipped {
			s.Duration = cr.Duration.Round(time.Millisecond).String()
		}
		if cr.Err != nil {
			s.Error = cr.Err.Error()
		}
		out = append(out, s)
	}
	return out
}

// Run executes every check that applies to in.Kind. Check failures are
// recorded on their results; the returned error is only set when the input
// is invalid or ctx ends before all checks finish.
func (e *Engine) Run(ctx context.Context, in *Input) (*Result, error) {
	if e.Registry == nil {
		return nil, trerrors.New(trerrors.ErrCodeInvalidRequest, "check registry is required")
	}
	if in == nil {
		return nil, trerrors.New(trerrors.ErrCodeInvalidRequest, "check input is required")
	}

	limit := e.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaults.CheckTimeout
	}

	start := time.Now()
	defer func() {
		analysisDuration.Observe(time.Since(start).Seconds())
	}()

	checks := e.Registry.List()
	res := &Result{Results: make([]*CheckResult, len(checks))}

	// no errgroup context: one failing check must not cancel the others
	var g errgroup.Group
	g.SetLimit(limit)

	for i, c := range checks {
		if !c.AppliesTo(in.Kind) {
			res.Results[i] = &CheckResult{Check: c, Status: report.StatusSkipped}
			continue
		}
		g.Go(func() error {
			res.Results[i] = runOne(ctx, c, in, timeout)
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("checks complete", "count", len(checks), "duration", time.Since(start))
	return res, ctx.Err()
}

// runOne returns only after c.Run has returned, so no check outlives the
// engine run. Checks must honor ctx.
func runOne(ctx context.Context, c *Check, in *Input, timeout time.Duration) *CheckResult {
	slog.Info("running check", "check", c.Name)

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	tables, err := invoke(cctx, c, in)

	cr := &CheckResult{Check: c}
	if cctx.Err() != nil {
		cr.Err = trerrors.Wrap(trerrors.ErrCodeTimeout, fmt.Sprintf("check exceeded %s", timeout), cctx.Err())
	} else {
		cr.Err = err
		for _, t := range tables {
			if t != nil && !t.Empty() {
				cr.Tables = append(cr.Tables, t)
			}
		}
	}
	cr.Duration = time.Since(start)

	switch {
	case cr.Err != nil && (trerrors.IsCode(cr.Err, trerrors.ErrCodeTimeout) || errors.Is(cr.Err, context.DeadlineExceeded)):
		cr.Status = report.StatusTimeout
		cr.Tables = nil
	case cr.Err != nil:
		cr.Status = report.StatusFailed
		cr.Tables = nil
	case len(cr.Tables) > 0:
		cr.Status = report.StatusAlerted
	default:
		cr.Status = report.StatusPassed
	}

	rows := 0
	for _, t := range cr.Tables {
		rows += t.Len()
	}
	checkDuration.WithLabelValues(c.Name).Observe(cr.Duration.Seconds())
	checkOutcomeTotal.WithLabelValues(c.Name, string(cr.Status)).Inc()
	checkAlertRows.WithLabelValues(c.Name).Set(float64(rows))

	if cr.Err != nil {
		slog.Warn("check did not complete", "check", c.Name, "status", cr.Status, "error", cr.Err)
	} else {
		slog.Debug("check finished", "check", c.Name, "status", cr.Status, "rows", rows, "duration", cr.Duration)
	}
	return cr
}

func invoke(ctx context.Context, c *Check, in *Input) (tables []*report.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			tables = nil
			err = trerrors.New(trerrors.ErrCodeInternal, fmt.Sprintf("check panicked: %v", r))
		}
	}()
	return c.Run(ctx, in)
}
