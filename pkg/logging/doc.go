// Package logging provides structured logging utilities for triage.
//
// # Overview
//
// This package wraps the standard library slog package with triage defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//   - Integration with standard library log package
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("triage", "v1.0.0")
//	    defer slog.Info("application started")
//
//	    // Use slog as normal
//	    slog.Info("processing request", "id", "req-123")
//	    slog.Debug("detailed state", "data", complexObject)
//	    slog.Error("operation failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("triage", "v2.0.0", "debug")
//	logger.Info("extracting bundle", "path", bundlePath)
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("cli", "v1.0.0", "warn")
//
// Converting standard library logger:
//
//	stdLogger := logging.NewLogLogger(slog.LevelInfo, false)
//	stdLogger.Println("legacy log message")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug triage analyze bundle.zip
//	LOG_LEVEL=error triage detect bundle.tar.gz
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "bundle detected",
//	    "module": "triage",
//	    "version": "v1.0.0",
//	    "kind": "cluster-diagnostic"
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "bundle.Detect",
//	        "file": "detect.go",
//	        "line": 45
//	    },
//	    "msg": "collecting marker entries",
//	    "module": "triage",
//	    "version": "v1.0.0"
//	}
//
// # Best Practices
//
// 1. Set default logger early in main():
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("triage", version)
//	    defer slog.Info("application started")
//	    // ...
//	}
//
// 2. Include context in log messages:
//
//	slog.Info("check completed",
//	    "check", "zk-fsync",
//	    "alerts", 2,
//	    "duration", elapsed,
//	)
//
// 3. Use appropriate log levels:
//
//	slog.Debug("skipping malformed line", "path", p)  // Development/troubleshooting
//	slog.Info("running check", "check", name)          // Normal progress
//	slog.Warn("no dmesg file found", "node", ip)       // Per-artifact problems
//	slog.Error("no nodes found in bundle")             // Fatal conditions
//
// 4. Log errors with context:
//
//	slog.Warn("failed to parse state snapshot",
//	    "error", err,
//	    "node", n.Address,
//	    "path", path,
//	)
//
// # Integration
//
// This package is used by:
//   - pkg/cli - CLI command logging
//   - pkg/bundle - Detection and extraction progress
//   - pkg/node - Discovery warnings
//   - pkg/check - Engine progress and per-check outcomes
//   - pkg/checks - Per-artifact warnings
//
// All components share consistent logging format and configuration.
package logging
