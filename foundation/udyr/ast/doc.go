// File: doc.go
// Title: udyr AST Package Documentation
// Description: Expression tree for the udyr front end.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial AST package

/*
Package ast defines the expression tree built by the udyr parser.

There are four node kinds: Literal, Unary, Binary and Grouping. Every node
keeps its originating token for positioning. Consumers traverse the tree
with a Visitor; the package ships visitors for the prefix printer (Print),
the generic map form (ToMap) and simple metrics (Depth, Count).

	expr, _ := parser.Parse(tokens)
	fmt.Println(ast.Print(expr)) // (+ 1 (* 2 3))
*/
package ast
