// File: visitor.go
// Title: udyr AST Visitors
// Description: Visitor interface plus the printer, map conversion and
//              metrics visitors used by the CLI, REPL and gRPC service.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial visitor implementations

package ast

import (
	"strconv"
	"strings"

	"github.com/msto63/udyr/foundation/udyr/token"
)

// Visitor interface for traversing AST nodes using the visitor pattern
type Visitor interface {
	VisitLiteral(expr *Literal) interface{}
	VisitUnary(expr *Unary) interface{}
	VisitBinary(expr *Binary) interface{}
	VisitGrouping(expr *Grouping) interface{}
}

// Print renders expr in parenthesized prefix form, e.g. "(+ 1 (* 2 3))".
// A nil expression renders as "<none>".
func Print(expr Expr) string {
	if expr == nil {
		return "<none>"
	}
	p := &printer{}
	expr.Accept(p)
	return p.buffer.String()
}

type printer struct {
	buffer strings.Builder
}

func (p *printer) VisitLiteral(expr *Literal) interface{} {
	if v, ok := expr.Value.(float64); ok && !token.IsFinite(v) {
		p.buffer.WriteString(expr.Token.Lexeme)
		return nil
	}
	p.buffer.WriteString(FormatValue(expr.Value))
	return nil
}

func (p *printer) VisitUnary(expr *Unary) interface{} {
	p.parenthesize(expr.Operator.Lexeme, expr.Right)
	return nil
}

func (p *printer) VisitBinary(expr *Binary) interface{} {
	p.parenthesize(expr.Operator.Lexeme, expr.Left, expr.Right)
	return nil
}

func (p *printer) VisitGrouping(expr *Grouping) interface{} {
	p.parenthesize("group", expr.Expression)
	return nil
}

func (p *printer) parenthesize(name string, exprs ...Expr) {
	p.buffer.WriteByte('(')
	p.buffer.WriteString(name)
	for _, e := range exprs {
		p.buffer.WriteByte(' ')
		if e == nil {
			p.buffer.WriteString("<none>")
			continue
		}
		e.Accept(p)
	}
	p.buffer.WriteByte(')')
}

// FormatValue renders a literal value: shortest number form, quoted
// strings, nil, true and false.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return token.FormatNumber(v)
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return "<invalid>"
	}
}

// ToMap converts expr into nested maps of plain values, suitable for
// JSON, YAML and protobuf Struct encoding. Nil yields nil.
func ToMap(expr Expr) map[string]interface{} {
	if expr == nil {
		return nil
	}
	m, _ := expr.Accept(mapper{}).(map[string]interface{})
	return m
}

type mapper struct{}

func (m mapper) child(expr Expr) interface{} {
	if expr == nil {
		return nil
	}
	return expr.Accept(m)
}

func (m mapper) VisitLiteral(expr *Literal) interface{} {
	return map[string]interface{}{
		"type":  "literal",
		"line":  expr.Line(),
		"value": plainValue(expr),
	}
}

// plainValue keeps out-of-range numbers as their lexeme
func plainValue(expr *Literal) interface{} {
	if v, ok := expr.Value.(float64); ok && !token.IsFinite(v) {
		return expr.Token.Lexeme
	}
	return expr.Value
}

func (m mapper) VisitUnary(expr *Unary) interface{} {
	return map[string]interface{}{
		"type":     "unary",
		"line":     expr.Line(),
		"operator": expr.Operator.Lexeme,
		"right":    m.child(expr.Right),
	}
}

func (m mapper) VisitBinary(expr *Binary) interface{} {
	return map[string]interface{}{
		"type":     "binary",
		"line":     expr.Line(),
		"operator": expr.Operator.Lexeme,
		"left":     m.child(expr.Left),
		"right":    m.child(expr.Right),
	}
}

func (m mapper) VisitGrouping(expr *Grouping) interface{} {
	return map[string]interface{}{
		"type":       "grouping",
		"line":       expr.Line(),
		"expression": m.child(expr.Expression),
	}
}

// Depth returns the height of the tree, 0 for nil
func Depth(expr Expr) int {
	if expr == nil {
		return 0
	}
	return expr.Accept(depthVisitor{}).(int)
}

type depthVisitor struct{}

func (v depthVisitor) VisitLiteral(expr *Literal) interface{} { return 1 }

func (v depthVisitor) VisitUnary(expr *Unary) interface{} {
	return 1 + Depth(expr.Right)
}

func (v depthVisitor) VisitBinary(expr *Binary) interface{} {
	left, right := Depth(expr.Left), Depth(expr.Right)
	if left > right {
		return 1 + left
	}
	return 1 + right
}

func (v depthVisitor) VisitGrouping(expr *Grouping) interface{} {
	return 1 + Depth(expr.Expression)
}

// Count returns the number of nodes in the tree
func Count(expr Expr) int {
	if expr == nil {
		return 0
	}
	return expr.Accept(countVisitor{}).(int)
}

type countVisitor struct{}

func (v countVisitor) VisitLiteral(expr *Literal) interface{} { return 1 }

func (v countVisitor) VisitUnary(expr *Unary) interface{} {
	return 1 + Count(expr.Right)
}

func (v countVisitor) VisitBinary(expr *Binary) interface{} {
	return 1 + Count(expr.Left) + Count(expr.Right)
}

func (v countVisitor) VisitGrouping(expr *Grouping) interface{} {
	return 1 + Count(expr.Expression)
}
