// File: doc.go
// Title: udyr Front End Package Documentation
// Description: Entry point to the udyr scanner and parser.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial engine implementation

/*
Package udyr is the front end of the udyr expression language.

Source text flows through the scanner (package scanner) into tokens
(package token), then through the parser (package parser) into expression
trees (package ast). Both phases collect diagnostics (package diag) instead
of stopping at the first error.

The Engine bundles both phases:

	engine := udyr.New(udyr.Options{MaxDepth: 128})

	result, err := engine.ParseProgram("1 + 2; (3 * 4")
	if err != nil {
		return err // input rejected, e.g. too long
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d)
	}
	for _, expr := range result.Exprs {
		fmt.Println(ast.Print(expr))
	}

Diagnostics are data. Result.Err converts them into a structured error for
callers that prefer the error path.
*/
package udyr
