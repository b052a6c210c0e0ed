// Package logging provides structured logging for the sitereport CLI.
//
// It builds on log/slog with a TTY-optimized text handler (colorized when
// the terminal supports it), a JSON handler for machine consumption, and a
// MultiHandler for mirroring records to a log file. Attribute values that
// look like credentials (passwords embedded in DSNs, keys named *password*,
// *dsn*, *token*, ...) are masked before they are written.
//
// Verbosity flags map to levels via [LevelFromVerbosity], and loggers travel
// on the context via [NewContext] and [FromContext].
package logging
