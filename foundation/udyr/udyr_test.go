// File: udyr_test.go
// Title: udyr Engine Tests
// Description: End-to-end tests of the front end engine.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial test suite

package udyr

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	mdwerror "github.com/msto63/udyr/foundation/core/error"
	mdwlog "github.com/msto63/udyr/foundation/core/log"
	mdwast "github.com/msto63/udyr/foundation/udyr/ast"
	"github.com/msto63/udyr/foundation/udyr/token"
)

func TestNew_Defaults(t *testing.T) {
	opts := New(Options{}).Options()
	if opts.MaxDepth != 256 {
		t.Errorf("Expected max depth 256, got %d", opts.MaxDepth)
	}
	if opts.MaxSourceLength != DefaultMaxSourceLength {
		t.Errorf("Expected max source length %d, got %d", DefaultMaxSourceLength, opts.MaxSourceLength)
	}
	if opts.Logger == nil {
		t.Error("Expected default logger")
	}
}

func TestEngine_Parse(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard()})

	result, err := engine.Parse("(1 + 2) * 3")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !result.OK() {
		t.Fatalf("Expected OK, got %v", result.Diagnostics)
	}
	if got := mdwast.Print(result.Expr()); got != "(* (group (+ 1 2)) 3)" {
		t.Errorf("Expected (* (group (+ 1 2)) 3), got %s", got)
	}
	if len(result.Tokens) != 8 {
		t.Errorf("Expected 8 tokens, got %d", len(result.Tokens))
	}
	if result.Err() != nil {
		t.Errorf("Expected nil error, got %v", result.Err())
	}
}

func TestEngine_DiagnosticOrder(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard()})

	// '@' is lexical, the missing operand on line 2 an unrelated syntax error
	result, _ := engine.Parse("@\n1 +")
	if result.Diagnostics.Len() != 2 {
		t.Fatalf("Expected 2 diagnostics, got %v", result.Diagnostics)
	}
	if !result.Diagnostics[0].IsLexical() || result.Diagnostics[1].IsLexical() {
		t.Errorf("Expected lexical before syntactic, got %v", result.Diagnostics)
	}
	if result.OK() {
		t.Error("Expected result not OK")
	}
	if !mdwerror.HasCode(result.Err(), mdwerror.CodeSyntax) {
		t.Errorf("Expected SYNTAX error, got %v", result.Err())
	}
}

func TestEngine_LexicalOnly(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard()})
	result, _ := engine.ParseProgram("1; # ; 2")
	if result.Diagnostics.Len() != 1 {
		t.Fatalf("Expected 1 diagnostic, got %v", result.Diagnostics)
	}
	if !mdwerror.HasCode(result.Err(), mdwerror.CodeLexical) {
		t.Errorf("Expected LEXICAL error, got %v", result.Err())
	}
	if len(result.Exprs) != 2 {
		t.Errorf("Expected 2 expressions, got %d", len(result.Exprs))
	}
}

func TestEngine_ParseProgram(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard()})

	result, err := engine.ParseProgram("1 +; 2 * ; 3")
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	if result.Diagnostics.Len() != 2 {
		t.Errorf("Expected 2 diagnostics, got %v", result.Diagnostics)
	}
	if len(result.Exprs) != 1 || mdwast.Print(result.Exprs[0]) != "3" {
		t.Errorf("Expected [3], got %v", result.Exprs)
	}
}

func TestEngine_MaxSourceLength(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard(), MaxSourceLength: 8})

	operations := map[string]func(string) error{
		"Scan":         func(s string) error { _, err := engine.Scan(s); return err },
		"Parse":        func(s string) error { _, err := engine.Parse(s); return err },
		"ParseProgram": func(s string) error { _, err := engine.ParseProgram(s); return err },
	}

	for name, op := range operations {
		t.Run(name, func(t *testing.T) {
			if err := op("1+2"); err != nil {
				t.Errorf("Expected short input to pass, got %v", err)
			}
			err := op("1 + 2 + 3 + 4")
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
				t.Errorf("Expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestEngine_MaxDepth(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard(), MaxDepth: 3})
	result, _ := engine.Parse("((((1))))")
	if result.Diagnostics.Count(mdwerror.CodeExceededNestingDepth) != 1 {
		t.Errorf("Expected one nesting diagnostic, got %v", result.Diagnostics)
	}
}

func TestEngine_Boundary(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard(), Boundary: []token.Kind{}})
	result, _ := engine.ParseProgram("+ print 1; 2")
	if result.Diagnostics.Len() != 1 {
		t.Errorf("Expected 1 diagnostic without keyword boundary, got %v", result.Diagnostics)
	}
}

func TestEngine_Scan(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard()})
	result, err := engine.Scan("1 <= 2")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !result.OK() || len(result.Tokens) != 4 {
		t.Errorf("Expected 4 tokens without diagnostics, got %v / %v", result.Tokens, result.Diagnostics)
	}
	if result.Tokens[1].Kind != token.LessEqual {
		t.Errorf("Expected LESS_EQUAL, got %v", result.Tokens[1].Kind)
	}
}

func TestEngine_Concurrent(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard()})

	var wg sync.WaitGroup
	errs := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, _ := engine.Parse("1 + 2 * 3")
			if got := mdwast.Print(result.Expr()); got != "(+ 1 (* 2 3))" {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("Unexpected tree from concurrent parse: %s", got)
	}
}

func TestEngine_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Format: mdwlog.FormatLogfmt, Output: &buf})

	New(Options{Logger: logger}).Parse("1")

	out := buf.String()
	for _, component := range []string{"udyr-scanner", "udyr-parser", "udyr-engine"} {
		if !strings.Contains(out, component) {
			t.Errorf("Expected log line from %s, got %q", component, out)
		}
	}
}

func TestResult_ToMap(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard()})
	result, _ := engine.ParseProgram(`-"a"; (1`)

	m := result.ToMap(true)
	if m["ok"] != false {
		t.Errorf("Expected ok=false, got %v", m["ok"])
	}
	if len(m["expressions"].([]interface{})) != 2 {
		t.Errorf("Expected 2 expressions, got %v", m["expressions"])
	}
	diags := m["diagnostics"].([]interface{})
	if len(diags) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %v", diags)
	}
	first := diags[0].(map[string]interface{})
	if first["code"] != "UNCLOSED_GROUPING" || first["where"] != " at end" {
		t.Errorf("Unexpected diagnostic map: %v", first)
	}
	if _, ok := m["tokens"]; !ok {
		t.Error("Expected tokens when requested")
	}
	if _, ok := result.ToMap(false)["tokens"]; ok {
		t.Error("Expected no tokens when not requested")
	}

	if _, err := json.Marshal(m); err != nil {
		t.Errorf("Expected JSON encodable map, got %v", err)
	}
}

func TestScanResult_ToMap(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard()})
	result, _ := engine.Scan(`"x"`)

	tokens := result.ToMap()["tokens"].([]interface{})
	first := tokens[0].(map[string]interface{})
	if first["kind"] != "STRING" || first["literal"] != "x" || first["lexeme"] != `"x"` {
		t.Errorf("Unexpected token map: %v", first)
	}
}

func TestEngine_LexicalErrorDoesNotCascade(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard()})

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"dropped operand", "1 + @", "[line 1] Error: Unexpected character."},
		{"dropped operator", "1 @ 2", "[line 1] Error: Unexpected character."},
		{"unterminated string", "\"abc", "[line 1] Error: Unterminated string."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Parse(tt.source)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if result.Diagnostics.Len() != 1 {
				t.Fatalf("Expected 1 diagnostic, got %v", result.Diagnostics)
			}
			if got := result.Diagnostics[0].String(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
			if !mdwerror.HasCode(result.Err(), mdwerror.CodeLexical) {
				t.Errorf("Expected LEXICAL error, got %v", result.Err())
			}
		})
	}
}

func TestEngine_NumberBeyondFloatRange(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard()})
	lexeme := strings.Repeat("9", 400)

	result, err := engine.Parse("-" + lexeme)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !result.OK() {
		t.Fatalf("Expected OK, got %v", result.Diagnostics)
	}

	// The printed tree must scan back to the same literal
	printed := mdwast.Print(result.Expr())
	if printed != "(- "+lexeme+")" {
		t.Errorf("Expected lexeme in printed tree, got %.40s...", printed)
	}

	m := result.ToMap(true)
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Expected JSON encodable map, got %v", err)
	}
	if !bytes.Contains(data, []byte(`"value":"`+lexeme+`"`)) {
		t.Error("Expected literal value encoded as its lexeme")
	}
	if !bytes.Contains(data, []byte(`"literal":"`+lexeme+`"`)) {
		t.Error("Expected token literal encoded as its lexeme")
	}

	scan, _ := engine.Scan(lexeme)
	if _, err := json.Marshal(scan.ToMap()); err != nil {
		t.Errorf("Expected JSON encodable scan result, got %v", err)
	}
}
