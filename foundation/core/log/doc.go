// Package log provides structured logging for the udyr tools.
//
// Package: log
// Title: udyr Structured Logging
// Description: Implements a small structured logger with levels, key/value
//              fields and four output formats (JSON, text, console, logfmt).
//              Loggers are immutable values: every With* call returns a clone,
//              so a logger can be shared freely between goroutines such as
//              concurrent gRPC handlers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-19 v0.2.0: Deterministic field order, async worker and timers removed
//
// Usage:
//
//	import mdwlog "github.com/msto63/udyr/foundation/core/log"
//
//	logger := mdwlog.New().
//		WithLevel(mdwlog.LevelDebug).
//		WithFormat(mdwlog.FormatConsole).
//		WithField("component", "udyr-parser")
//
//	logger.Debug("parse completed", mdwlog.Fields{
//		"tokens":      len(tokens),
//		"diagnostics": len(diags),
//	})
package log
