// Package errors provides error handling conventions for the sitereport CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions. It also re-exports the
// cockroachdb/errors construction and inspection helpers so the rest of
// the codebase imports a single errors package.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, siteerrors.ErrConnectionFailed) {
//	    // nothing to report; emit the fatal document and exit non-zero
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Report rendered, even when rows are Warning or Critical
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (connection failure, I/O, permissions)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports unwrapping via [Unwrap] and [As]:
//
//	err := siteerrors.NewSystemError(cause, "Check the site database DSN")
//	var exitErr *siteerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
