// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes, severity and JSON output.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive test coverage
// - 2026-10-19 v0.2.0: Adjusted to the front-end code set

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "test error message"
	err := New(msg)

	if err == nil {
		t.Fatal("New() returned nil")
	}

	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}

	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}

	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}

	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "wrapper message",
			wantNil: true,
		},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			message:  "wrapper message",
			wantMsg:  "wrapper message: original error",
			wantCode: CodeUnknown,
		},
		{
			name:     "wrap structured error keeps code",
			err:      New("disk full").WithCode(CodeDatabaseError),
			message:  "failed to record history",
			wantMsg:  "failed to record history: disk full",
			wantCode: CodeDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Expected nil, got %v", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if got.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", got.Code(), tt.wantCode)
			}
			if !errors.Is(got, tt.err) {
				t.Error("errors.Is should find the wrapped cause")
			}
		})
	}
}

func TestWrap_TruncatesLongChains(t *testing.T) {
	var err error = errors.New("root")
	for i := 0; i < MaxErrorChainDepth+5; i++ {
		err = Wrap(err, fmt.Sprintf("layer %d", i))
	}

	mdwErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if chainDepth(mdwErr) > MaxErrorChainDepth+1 {
		t.Errorf("Expected chain depth <= %d, got %d", MaxErrorChainDepth+1, chainDepth(mdwErr))
	}
	if !strings.Contains(err.Error(), "root") {
		t.Errorf("Expected root cause in message, got %q", err.Error())
	}
}

func TestWithCode_DerivesSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeUnexpectedCharacter, SeverityLow},
		{CodeExceededNestingDepth, SeverityLow},
		{CodeInvalidInput, SeverityLow},
		{CodeDatabaseError, SeverityHigh},
		{CodeInternal, SeverityCritical},
		{CodeUnknown, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.want {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.want)
			}
		})
	}

	explicit := New("x").WithSeverity(SeverityCritical).WithCode(CodeInvalidInput)
	if explicit.Severity() != SeverityCritical {
		t.Errorf("Explicit severity should win, got %v", explicit.Severity())
	}
}

func TestDetailsAreCopied(t *testing.T) {
	err := New("x").WithDetail("line", 3).WithDetails(map[string]interface{}{"lexeme": ")"})
	details := err.Details()
	details["line"] = 99

	if err.Details()["line"] != 3 {
		t.Errorf("Details() must return a copy, got %v", err.Details()["line"])
	}
	if err.Details()["lexeme"] != ")" {
		t.Errorf("Expected lexeme detail, got %v", err.Details()["lexeme"])
	}
}

func TestHasCodeAndGetCode(t *testing.T) {
	base := New("bad source").WithCode(CodeSyntax)
	wrapped := fmt.Errorf("cli: %w", base)

	if !HasCode(wrapped, CodeSyntax) {
		t.Error("HasCode should see through fmt.Errorf wrapping")
	}
	if HasCode(errors.New("plain"), CodeSyntax) {
		t.Error("HasCode should be false for plain errors")
	}
	if GetCode(wrapped) != CodeSyntax {
		t.Errorf("GetCode() = %v, want %v", GetCode(wrapped), CodeSyntax)
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Errorf("GetCode() for plain error should be %v", CodeUnknown)
	}
	if GetSeverity(errors.New("plain")) != SeverityMedium {
		t.Errorf("GetSeverity() for plain error should be %v", SeverityMedium)
	}
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(errors.New("eof"), "read failed").
		WithCode(CodeConfigError).
		WithOperation("config.Load").
		WithDetail("path", "udyr.toml")

	data, jsonErr := json.Marshal(err)
	if jsonErr != nil {
		t.Fatalf("MarshalJSON failed: %v", jsonErr)
	}

	var decoded map[string]interface{}
	if jsonErr := json.Unmarshal(data, &decoded); jsonErr != nil {
		t.Fatalf("Unmarshal failed: %v", jsonErr)
	}

	if decoded["code"] != string(CodeConfigError) {
		t.Errorf("Expected code %s, got %v", CodeConfigError, decoded["code"])
	}
	if decoded["operation"] != "config.Load" {
		t.Errorf("Expected operation config.Load, got %v", decoded["operation"])
	}
	if decoded["cause"] != "eof" {
		t.Errorf("Expected cause eof, got %v", decoded["cause"])
	}
	if decoded["severity"] != "high" {
		t.Errorf("Expected severity high, got %v", decoded["severity"])
	}
}

func TestString(t *testing.T) {
	err := New("boom").WithCode(CodeInternal).WithOperation("op").WithDetail("b", 2).WithDetail("a", 1)
	s := err.String()

	for _, want := range []string{"Error: boom", "Code: INTERNAL", "Operation: op", "Details: {a=1, b=2}"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q in %q", want, s)
		}
	}
}
