// File: nodes.go
// Title: udyr AST Node Definitions
// Description: Expression nodes produced by the parser. The tree is strict:
//              children are exclusively owned pointers and nodes are not
//              mutated after construction.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial expression nodes

package ast

import "github.com/msto63/udyr/foundation/udyr/token"

// Expr is implemented by every expression node
type Expr interface {
	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}

	// Line returns the source line of the originating token
	Line() int

	// String returns the prefix form of the expression
	String() string
}

// Literal is a constant: float64, string, bool or nil
type Literal struct {
	Value interface{}
	Token token.Token
}

// Unary is a prefix operator applied to one operand
type Unary struct {
	Operator token.Token
	Right    Expr
}

// Binary is an infix operator applied to two operands
type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Grouping is a parenthesized expression. Paren is the opening '(' token.
type Grouping struct {
	Paren      token.Token
	Expression Expr
}

// NewLiteral creates a literal node from its token
func NewLiteral(tok token.Token, value interface{}) *Literal {
	return &Literal{Value: value, Token: tok}
}

// NewUnary creates a unary node
func NewUnary(operator token.Token, right Expr) *Unary {
	return &Unary{Operator: operator, Right: right}
}

// NewBinary creates a binary node
func NewBinary(left Expr, operator token.Token, right Expr) *Binary {
	return &Binary{Left: left, Operator: operator, Right: right}
}

// NewGrouping creates a grouping node
func NewGrouping(paren token.Token, expression Expr) *Grouping {
	return &Grouping{Paren: paren, Expression: expression}
}

func (e *Literal) Accept(visitor Visitor) interface{}  { return visitor.VisitLiteral(e) }
func (e *Unary) Accept(visitor Visitor) interface{}    { return visitor.VisitUnary(e) }
func (e *Binary) Accept(visitor Visitor) interface{}   { return visitor.VisitBinary(e) }
func (e *Grouping) Accept(visitor Visitor) interface{} { return visitor.VisitGrouping(e) }

func (e *Literal) Line() int  { return e.Token.Line }
func (e *Unary) Line() int    { return e.Operator.Line }
func (e *Binary) Line() int   { return e.Operator.Line }
func (e *Grouping) Line() int { return e.Paren.Line }

func (e *Literal) String() string  { return Print(e) }
func (e *Unary) String() string    { return Print(e) }
func (e *Binary) String() string   { return Print(e) }
func (e *Grouping) String() string { return Print(e) }
