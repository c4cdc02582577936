// File: diag.go
// Title: udyr Diagnostics
// Description: Line-tagged diagnostics collected by the scanner and parser
//              without interrupting forward progress.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial diagnostic model

package diag

import (
	"fmt"
	"strings"

	mdwerror "github.com/msto63/udyr/foundation/core/error"
	"github.com/msto63/udyr/foundation/udyr/token"
)

// Diagnostic messages
const (
	MsgUnexpectedCharacter = "Unexpected character."
	MsgUnterminatedString  = "Unterminated string."
	MsgExpectExpression    = "Expect expression."
	MsgExpectRightParen    = "Expect ')' after expression."
	MsgExceededNesting     = "Exceeded maximum expression nesting."
	MsgExpectEnd           = "Expect end of expression."
	MsgExpectSemicolon     = "Expect ';' after expression."
)

// Diagnostic is a single line-tagged error message. Where is the location
// suffix: empty for lexical errors, " at 'lexeme'" or " at end" for
// syntax errors.
type Diagnostic struct {
	Line    int
	Message string
	Where   string
	Code    mdwerror.Code
}

// Lexical creates a diagnostic without location suffix
func Lexical(line int, code mdwerror.Code, message string) Diagnostic {
	return Diagnostic{Line: line, Message: message, Code: code}
}

// AtToken creates a diagnostic located at tok
func AtToken(tok token.Token, code mdwerror.Code, message string) Diagnostic {
	return AtLine(tok.Line, tok, code, message)
}

// AtLine creates a diagnostic that names tok but reports line
func AtLine(line int, tok token.Token, code mdwerror.Code, message string) Diagnostic {
	where := " at end"
	if tok.Kind != token.EOF {
		where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	return Diagnostic{Line: line, Message: message, Where: where, Code: code}
}

// String renders the diagnostic as "[line N] Error<where>: <message>"
func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// IsLexical reports whether the diagnostic came from the scanner
func (d Diagnostic) IsLexical() bool {
	return d.Code.Category() == "lexical"
}

// List is an ordered collection of diagnostics
type List []Diagnostic

// Add appends a diagnostic
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Append appends all diagnostics of other
func (l *List) Append(other List) {
	*l = append(*l, other...)
}

// Len returns the number of diagnostics
func (l List) Len() int {
	return len(l)
}

// HasErrors reports whether any diagnostic was collected
func (l List) HasErrors() bool {
	return len(l) > 0
}

// Count returns how many diagnostics carry code
func (l List) Count(code mdwerror.Code) int {
	n := 0
	for _, d := range l {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Strings renders every diagnostic
func (l List) Strings() []string {
	out := make([]string, len(l))
	for i, d := range l {
		out[i] = d.String()
	}
	return out
}

// String renders one diagnostic per line
func (l List) String() string {
	return strings.Join(l.Strings(), "\n")
}

// Err converts the list into a structured error, nil when empty. The code
// is CodeSyntax when any syntax diagnostic is present, CodeLexical otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}

	code := mdwerror.CodeLexical
	for _, d := range l {
		if !d.IsLexical() {
			code = mdwerror.CodeSyntax
			break
		}
	}

	msg := l[0].String()
	if len(l) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(l)-1)
	}

	return mdwerror.New(msg).
		WithCode(code).
		WithDetail("count", len(l)).
		WithDetail("diagnostics", l.Strings())
}
