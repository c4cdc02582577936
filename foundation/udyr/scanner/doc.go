// File: doc.go
// Title: udyr Scanner Package Documentation
// Description: Lexical analysis for udyr expressions.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial scanner implementation

/*
Package scanner converts udyr source text into tokens.

Rules:

  - Maximal munch: "!=", "==", "<=", ">=" win over their one-character prefixes.
  - "//" starts a comment running to the end of the line.
  - Space, tab and CR are skipped; a newline advances the line counter.
  - Strings are delimited by '"' and may span lines. The lexeme keeps the
    quotes, the literal drops them. A string open at end of input is reported
    at its opening line and produces no token.
  - Numbers are digits with an optional fractional part; "1." is NUMBER
    followed by DOT.
  - Identifiers start with a letter or '_' and are reclassified by the
    keyword table.
  - Anything else is an "Unexpected character." diagnostic; scanning goes on.

The token slice always ends with exactly one EOF token.

	tokens, diags := scanner.Scan("1 + 2 * 3")
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d)
	}
*/
package scanner
