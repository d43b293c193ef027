/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	trerrors "github.com/NVIDIA/triage/pkg/errors"
	"github.com/NVIDIA/triage/pkg/logging"
)

const (
	name           = "triage"
	versionDefault = "dev"
	envPrefix      = "TRIAGE_"
)

// Exit codes.
const (
	exitOK     = 0
	exitError  = 1
	exitAlerts = 2
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// errAlerts is returned by analyze when --fail-on-alert is set and the
// report has alert rows.
var errAlerts = errors.New("alerts found")

func envVars(key string) cli.ValueSourceChain {
	return cli.EnvVars(envPrefix + key)
}

// newRootCmd builds the command tree.
func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Analyze cluster diagnostic bundles",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Description: `triage inspects a diagnostic bundle (a zip or tar.gz archive, or an
already extracted directory) captured from a cluster, and runs a set of
health checks against the logs, command outputs and state snapshots of
every node in it.

Alerts are printed as numbered tables, one per finding.`,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars(logging.EnvVarLogLevel, envPrefix+"LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging (same as --log-level debug)",
				Sources: envVars("DEBUG"),
			},
		},
		Before: initLogger,
		Commands: []*cli.Command{
			analyzeCmd(),
			detectCmd(),
			nodesCmd(),
			checksCmd(),
			serveCmd(),
		},
	}
}

// initLogger configures slog once flags are parsed so --log-level takes
// effect before any command executes.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := cmd.String("log-level")
	if cmd.Bool("debug") {
		level = "debug"
	}
	logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
	return ctx, nil
}

// Execute runs the CLI with the process arguments and exits with the
// resulting code. This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	code := run(ctx, os.Args)
	cancel()
	os.Exit(code)
}

// run executes the command tree and maps the outcome to an exit code.
func run(ctx context.Context, args []string) int {
	err := newRootCmd().Run(ctx, args)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errAlerts):
		fmt.Fprintln(os.Stderr, err)
		return exitAlerts
	default:
		if trerrors.IsFatal(err) {
			slog.Error("analysis aborted", "code", trerrors.CodeOf(err), "error", err)
		}
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
}
