// Package errors provides structured error types for better observability
// and programmatic error handling across the analyzer.
//
// Fatal conditions (unrecognized bundle, no nodes, missing extraction tool)
// are distinguished from per-artifact problems by their code:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeToolUnavailable,
//	    "7z is required to extract a corrupt zip",
//	    execErr,
//	    map[string]any{
//	        "bundle": bundlePath,
//	    },
//	)
//
//	if errors.IsFatal(err) {
//	    os.Exit(1)
//	}
package errors
