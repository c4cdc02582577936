// Package diag collects the diagnostics reported by the udyr scanner and
// parser. Diagnostics are plain data: the core never returns them as Go
// errors, callers decide how to report them. List.Err bridges to the
// structured error type for outer surfaces.
package diag
