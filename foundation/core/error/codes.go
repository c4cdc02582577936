// File: codes.go
// Title: Error Codes
// Description: Structured error codes. The lexical and syntactic codes are
//              attached to every diagnostic emitted by the scanner and parser.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with platform error codes
// - 2026-10-19 v0.2.0: Lexical and syntactic diagnostic codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Lexical diagnostics
	CodeUnexpectedCharacter Code = "UNEXPECTED_CHARACTER"
	CodeUnterminatedString  Code = "UNTERMINATED_STRING"

	// Syntactic diagnostics
	CodeExpectedExpression   Code = "EXPECTED_EXPRESSION"
	CodeUnclosedGrouping     Code = "UNCLOSED_GROUPING"
	CodeExceededNestingDepth Code = "EXCEEDED_NESTING_DEPTH"
	CodeTrailingTokens       Code = "TRAILING_TOKENS"

	// Aggregates used when a diagnostic list is turned into one error
	CodeLexical Code = "LEXICAL"
	CodeSyntax  Code = "SYNTAX"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Storage and service
	CodeDatabaseError      Code = "DATABASE_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeUnexpectedCharacter, CodeUnterminatedString,
		CodeExpectedExpression, CodeUnclosedGrouping, CodeExceededNestingDepth, CodeTrailingTokens,
		CodeLexical, CodeSyntax,
		CodeConfigError, CodeInvalidConfig,
		CodeDatabaseError, CodeServiceUnavailable:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeUnexpectedCharacter, CodeUnterminatedString, CodeLexical:
		return "lexical"
	case CodeExpectedExpression, CodeUnclosedGrouping, CodeExceededNestingDepth,
		CodeTrailingTokens, CodeSyntax:
		return "syntax"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeDatabaseError:
		return "storage"
	case CodeServiceUnavailable:
		return "service"
	default:
		return "generic"
	}
}

// IsDiagnostic reports whether the code is used for scanner or parser diagnostics
func (c Code) IsDiagnostic() bool {
	cat := c.Category()
	return cat == "lexical" || cat == "syntax"
}
