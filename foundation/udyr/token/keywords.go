package token

import "strconv"

// keywords is built once and never written afterwards
var keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"fun":    Fun,
	"for":    For,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// LookupIdent returns the keyword kind for ident, or Identifier.
// Matching is exact and case-sensitive.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return Identifier
}

// Keywords returns a copy of the reserved word table
func Keywords() map[string]Kind {
	out := make(map[string]Kind, len(keywords))
	for k, v := range keywords {
		out[k] = v
	}
	return out
}

// FormatNumber renders a number literal in its shortest form: 1, 2.5, 0.1
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
