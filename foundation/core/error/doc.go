// Package error provides structured error handling for the udyr front end.
//
// Package: error
// Title: udyr Structured Errors
// Description: Implements an error type carrying a code, a severity, an operation
//              name and free-form details. The code set doubles as the diagnostic
//              taxonomy of the scanner and parser, so outer layers (CLI, gRPC,
//              history store) can categorize both Go errors and diagnostics with
//              one vocabulary.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Code set reduced to the front-end taxonomy, stack traces dropped
//
// Usage:
//
//	import mdwerror "github.com/msto63/udyr/foundation/core/error"
//
//	err := mdwerror.New("source exceeds maximum length").
//		WithCode(mdwerror.CodeInvalidInput).
//		WithOperation("udyr.Engine.Parse").
//		WithDetail("length", len(src))
//
//	if mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
//		// reject the request
//	}
package error
