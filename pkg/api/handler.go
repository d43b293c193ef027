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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/NVIDIA/triage/pkg/analyzer"
	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/checks"
	"github.com/NVIDIA/triage/pkg/defaults"
	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/header"
	"github.com/NVIDIA/triage/pkg/report"
	"github.com/NVIDIA/triage/pkg/serializer"
	"github.com/NVIDIA/triage/pkg/server"
	"github.com/NVIDIA/triage/pkg/types"
)

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	// Bundle is a path relative to the bundle root.
	Bundle string `json:"bundle"`
	// Checks limits the run to the named checks.
	Checks []string `json:"checks,omitempty"`
	// Skip drops the named checks.
	Skip []string `json:"skip,omitempty"`
}

// DetectResponse is the body returned by GET /v1/detect.
type DetectResponse struct {
	Bundle string     `json:"bundle"`
	Kind   types.Kind `json:"bundleKind"`
}

// Option configures a Handler.
type Option func(*Handler)

// WithAnalyzer sets the analyzer used as a template for every request.
func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(h *Handler) {
		if a != nil {
			h.analyzer = *a
		}
	}
}

// WithMaxConcurrent bounds the number of bundles opened at once.
func WithMaxConcurrent(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxConcurrent = int64(n)
		}
	}
}

// WithTimeout bounds each analysis.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// Handler serves analysis requests for bundles stored under a root
// directory. Request paths never escape the root.
type Handler struct {
	root          string
	analyzer      analyzer.Analyzer
	maxConcurrent int64
	timeout       time.Duration
	sem           *semaphore.Weighted
}

// NewHandler creates a Handler for bundles under root.
func NewHandler(root string, opts ...Option) (*Handler, error) {
	if root == "" {
		return nil, trerrors.New(trerrors.ErrCodeInvalidRequest, "bundle root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, trerrors.Wrap(trerrors.ErrCodeInvalidRequest, "invalid bundle root", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, trerrors.WrapWithContext(trerrors.ErrCodeNotFound, "bundle root not found", err,
			map[string]any{"root": abs})
	}
	if !info.IsDir() {
		return nil, trerrors.NewWithContext(trerrors.ErrCodeInvalidRequest, "bundle root is not a directory",
			map[string]any{"root": abs})
	}

	h := &Handler{
		root:          abs,
		maxConcurrent: 1,
		timeout:       defaults.ServerAnalyzeTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.sem = semaphore.NewWeighted(h.maxConcurrent)
	return h, nil
}

// Routes returns the API routes served by h.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/analyze": h.HandleAnalyze,
		"/v1/detect":  h.HandleDetect,
		"/v1/nodes":   h.HandleNodes,
		"/v1/checks":  h.HandleChecks,
	}
}

// resolve maps a request path to a bundle under the root.
func (h *Handler) resolve(rel string) (string, error) {
	if rel == "" {
		return "", trerrors.New(trerrors.ErrCodeInvalidRequest, "bundle is required")
	}
	rel = filepath.FromSlash(rel)
	if !filepath.IsLocal(rel) {
		return "", trerrors.NewWithContext(trerrors.ErrCodeInvalidRequest,
			"bundle must be a relative path inside the bundle root",
			map[string]any{"bundle": rel})
	}
	path := filepath.Join(h.root, rel)
	if _, err := os.Stat(path); err != nil {
		return "", trerrors.WrapWithContext(trerrors.ErrCodeNotFound, "bundle not found", err,
			map[string]any{"bundle": rel})
	}
	return path, nil
}

// acquire reserves a slot for opening a bundle. Extraction writes next to
// the archive, so callers past the limit are turned away instead of queued.
func (h *Handler) acquire() (func(), error) {
	if !h.sem.TryAcquire(1) {
		return nil, trerrors.NewWithContext(trerrors.ErrCodeUnavailable,
			"analysis capacity exhausted, retry later",
			map[string]any{"maxConcurrent": h.maxConcurrent})
	}
	return func() { h.sem.Release(1) }, nil
}

// withDeadline bounds ctx by the handler timeout and converts an expired
// deadline into a TIMEOUT error.
func (h *Handler) withDeadline(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !trerrors.IsCode(err, trerrors.ErrCodeTimeout) {
		return trerrors.WrapWithContext(trerrors.ErrCodeTimeout, "analysis timed out", err,
			map[string]any{"timeout": h.timeout.String()})
	}
	return err
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) bool {
	if r.Method == allowed {
		return false
	}
	w.Header().Set("Allow", allowed)
	server.WriteError(w, r, trerrors.NewWithContext(trerrors.ErrCodeMethodNotAllowed,
		"method not allowed", map[string]any{"method": r.Method, "allow": allowed}))
	return true
}

// HandleAnalyze handles POST /v1/analyze.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodPost) {
		return
	}

	var req AnalyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, defaults.MaxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		server.WriteError(w, r, trerrors.Wrap(trerrors.ErrCodeInvalidRequest, "invalid request body", err))
		return
	}

	path, err := h.resolve(req.Bundle)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	reg, err := checks.DefaultRegistry().Select(req.Checks, req.Skip)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	release, err := h.acquire()
	if err != nil {
		w.Header().Set("Retry-After", "10")
		server.WriteError(w, r, err)
		return
	}
	defer release()

	a := h.analyzer
	a.Registry = reg

	var rep *report.Report
	err = h.withDeadline(r.Context(), func(ctx context.Context) error {
		var aerr error
		rep, aerr = a.Analyze(ctx, path)
		return aerr
	})
	if err != nil {
		slog.Warn("analysis failed",
			"requestID", server.RequestID(r.Context()),
			"bundle", req.Bundle,
			"error", err)
		server.WriteError(w, r, err)
		return
	}

	rep.Set(header.MetadataRequestID, server.RequestID(r.Context()))

	serializer.RespondJSON(w, http.StatusOK, rep)
}

// HandleDetect handles GET /v1/detect?bundle=PATH.
func (h *Handler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodGet) {
		return
	}

	rel := r.URL.Query().Get("bundle")
	path, err := h.resolve(rel)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	kind, err := h.analyzer.Detect(r.Context(), path)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, DetectResponse{Bundle: rel, Kind: kind})
}

// HandleNodes handles GET /v1/nodes?bundle=PATH.
func (h *Handler) HandleNodes(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodGet) {
		return
	}

	rel := r.URL.Query().Get("bundle")
	path, err := h.resolve(rel)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	release, err := h.acquire()
	if err != nil {
		w.Header().Set("Retry-After", "10")
		server.WriteError(w, r, err)
		return
	}
	defer release()

	var b *analyzer.Bundle
	err = h.withDeadline(r.Context(), func(ctx context.Context) error {
		var oerr error
		b, oerr = h.analyzer.Open(ctx, path)
		return oerr
	})
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, report.NewNodeList(h.analyzer.Version, rel, b.Kind, b.Nodes))
}

// HandleChecks handles GET /v1/checks with an optional kind filter.
func (h *Handler) HandleChecks(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodGet) {
		return
	}

	reg := checks.DefaultRegistry()
	list := reg.List()
	if s := r.URL.Query().Get("kind"); s != "" {
		kind, err := types.ParseKind(s)
		if err != nil {
			server.WriteError(w, r, trerrors.Wrap(trerrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid kind %q", s), err))
			return
		}
		list = reg.ForKind(kind)
	}

	serializer.RespondJSON(w, http.StatusOK, report.NewCheckList(h.analyzer.Version, check.Infos(list)))
}
