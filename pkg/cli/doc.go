// Package cli implements the command-line interface for the triage tool.
//
// # Overview
//
// triage analyzes cluster diagnostic bundles offline. A bundle is a zip or
// tar.gz archive (or an already extracted directory) holding per-node logs,
// command outputs and state snapshots. The CLI detects the bundle kind,
// extracts it, discovers its nodes and runs the health checks that apply.
//
// # Commands
//
// analyze - Run the checks and print alert tables:
//
//	triage analyze [--check NAME]... [--skip NAME]... [--format table|json|yaml] BUNDLE
//
// detect - Print the bundle kind without extracting:
//
//	triage detect BUNDLE
//
// nodes - List the discovered nodes:
//
//	triage nodes [--format table|json|yaml] BUNDLE
//
// checks - List the available checks:
//
//	triage checks [--kind cluster-diagnostic]
//
// # Global Flags
//
//	--log-level    Logging verbosity: debug, info, warn, error (default: info)
//	--debug        Same as --log-level debug
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Environment Variables
//
// Every flag can also be set with a TRIAGE_ prefixed variable, for example
// TRIAGE_FORMAT=json or TRIAGE_WORKDIR=/scratch. LOG_LEVEL is honored for
// the log level.
//
// # Exit Codes
//
//	0  Success
//	1  Fatal error (unrecognized bundle, no nodes found, extraction tool missing, bad arguments)
//	2  Alerts found and --fail-on-alert was set
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/triage/pkg/cli.version=1.0.0'"
package cli
