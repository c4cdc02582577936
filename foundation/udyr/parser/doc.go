// File: doc.go
// Title: udyr Parser Package Documentation
// Description: Expression parser for the udyr front end.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parser implementation

/*
Package parser builds expression trees from udyr tokens.

Grammar, lowest precedence first; binary levels are left-associative:

	expression -> equality
	equality   -> comparison ( ( "!=" | "==" ) comparison )*
	comparison -> term ( ( ">" | ">=" | "<" | "<=" ) term )*
	term       -> factor ( ( "-" | "+" ) factor )*
	factor     -> unary ( ( "/" | "*" ) unary )*
	unary      -> ( "!" | "-" ) unary | primary
	primary    -> NUMBER | STRING | "true" | "false" | "nil"
	            | "(" expression ")"

Each binary level folds in a loop; there is no backtracking. Groupings and
prefix operators count towards Options.MaxDepth, so pathological input
such as thousands of nested parentheses yields one diagnostic instead of
exhausting the stack.

Every failure records exactly one diagnostic. An unclosed grouping still
produces its Grouping node, and the partially built tree is returned next
to the diagnostic. ParseExpressions handles ';'-separated sequences and
uses Synchronize to continue after an error.

	tokens, _ := scanner.Scan("(1 + 2) * 3")
	expr, diags := parser.Parse(tokens)
*/
package parser
