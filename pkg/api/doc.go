// Package api exposes bundle analysis over HTTP.
//
// It configures the reusable pkg/server with handlers that resolve bundle
// paths against a fixed root directory and run the same pipeline as the
// CLI: detect, extract, discover and check.
//
// # Endpoints
//
//	POST /v1/analyze           {"bundle": "2024-01-01/bundle.zip", "checks": [], "skip": []}
//	GET  /v1/detect?bundle=P   bundle kind
//	GET  /v1/nodes?bundle=P    discovered nodes
//	GET  /v1/checks?kind=K     available checks
//
// Bundle paths must be relative and stay inside the root. The number of
// bundles opened at once is bounded; requests past the limit get 503 with
// Retry-After. Each analysis runs under defaults.ServerAnalyzeTimeout and
// an expired deadline is reported as 504.
//
// # Usage
//
//	err := api.Serve(ctx, api.Config{
//	    BundleRoot: "/srv/bundles",
//	    Analyzer:   &analyzer.Analyzer{Version: version},
//	})
package api
