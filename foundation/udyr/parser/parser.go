// File: parser.go
// Title: udyr Expression Parser
// Description: Precedence-climbing parser turning a token stream into an
//              expression tree. Every failure records exactly one
//              diagnostic; synchronization skips to the next boundary so
//              independent errors are reported independently.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parser implementation

package parser

import (
	"errors"

	mdwerror "github.com/msto63/udyr/foundation/core/error"
	mdwlog "github.com/msto63/udyr/foundation/core/log"
	mdwast "github.com/msto63/udyr/foundation/udyr/ast"
	"github.com/msto63/udyr/foundation/udyr/diag"
	"github.com/msto63/udyr/foundation/udyr/token"
)

// DefaultMaxDepth bounds grouping and prefix-unary nesting
const DefaultMaxDepth = 256

// DefaultBoundary lists the kinds that begin a statement
var DefaultBoundary = []token.Kind{
	token.Class, token.Fun, token.Var, token.For,
	token.If, token.While, token.Print, token.Return,
}

// errFailed marks a failed parse attempt whose diagnostic is already recorded
var errFailed = errors.New("parse failed")

// Options configures parser behavior
type Options struct {
	Logger *mdwlog.Logger

	// MaxDepth bounds nesting; values below 1 select DefaultMaxDepth
	MaxDepth int

	// Boundary replaces DefaultBoundary when non-nil
	Boundary []token.Kind

	// Gaps holds token indices that follow input the scanner dropped
	// (see scanner.Gaps). A missing operand or separator found at one of
	// them is not reported again.
	Gaps []int
}

// Parser walks a token slice left to right, never backwards
type Parser struct {
	tokens   []token.Token
	current  int
	depth    int
	maxDepth int
	boundary map[token.Kind]bool
	gaps     map[int]bool

	diags  diag.List
	logger *mdwlog.Logger
}

// New creates a parser over tokens. A missing trailing EOF is supplied.
func New(tokens []token.Token, opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxDepth < 1 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Boundary == nil {
		opts.Boundary = DefaultBoundary
	}

	boundary := make(map[token.Kind]bool, len(opts.Boundary))
	for _, k := range opts.Boundary {
		boundary[k] = true
	}

	gaps := make(map[int]bool, len(opts.Gaps))
	for _, i := range opts.Gaps {
		gaps[i] = true
	}

	return &Parser{
		tokens:   terminate(tokens),
		gaps:     gaps,
		maxDepth: opts.MaxDepth,
		boundary: boundary,
		logger:   opts.Logger.WithField("component", "udyr-parser"),
	}
}

func terminate(tokens []token.Token) []token.Token {
	if n := len(tokens); n > 0 && tokens[n-1].Kind == token.EOF {
		return tokens
	}
	line := 1
	if n := len(tokens); n > 0 {
		line = tokens[n-1].Line
	}
	out := make([]token.Token, len(tokens), len(tokens)+1)
	copy(out, tokens)
	return append(out, token.New(token.EOF, "", nil, line))
}

// Parse parses a single expression with default options
func Parse(tokens []token.Token) (mdwast.Expr, diag.List) {
	return New(tokens, Options{}).Parse()
}

// ParseExpressions parses a ';'-separated sequence with default options
func ParseExpressions(tokens []token.Token) ([]mdwast.Expr, diag.List) {
	return New(tokens, Options{}).ParseExpressions()
}

// Parse parses exactly one expression followed by EOF. On failure the
// best-effort partial tree (possibly nil) is returned with the diagnostics.
func (p *Parser) Parse() (mdwast.Expr, diag.List) {
	expr, err := p.expression()
	if err == nil && !p.isAtEnd() {
		p.reportUnlessGap(diag.AtToken(p.peek(), mdwerror.CodeTrailingTokens, diag.MsgExpectEnd))
	}

	if p.logger.IsLevelEnabled(mdwlog.LevelDebug) {
		p.logger.Debug("parse completed", mdwlog.Fields{
			"tokens":      len(p.tokens),
			"nodes":       mdwast.Count(expr),
			"diagnostics": len(p.diags),
		})
	}

	return expr, p.diags
}

// ParseExpressions parses expressions separated by ';' (the last one
// optional). A failed expression is synchronized past and parsing goes on;
// successful and partial trees are returned in source order.
func (p *Parser) ParseExpressions() ([]mdwast.Expr, diag.List) {
	var exprs []mdwast.Expr

	for !p.isAtEnd() {
		if p.match(token.Semicolon) {
			continue
		}

		expr, err := p.expression()
		if expr != nil {
			exprs = append(exprs, expr)
		}
		if err != nil {
			p.Synchronize()
			continue
		}

		if !p.match(token.Semicolon) && !p.isAtEnd() {
			p.reportUnlessGap(diag.AtToken(p.peek(), mdwerror.CodeTrailingTokens, diag.MsgExpectSemicolon))
			p.Synchronize()
		}
	}

	p.logger.Debug("parse completed", mdwlog.Fields{
		"tokens":      len(p.tokens),
		"expressions": len(exprs),
		"diagnostics": len(p.diags),
	})

	return exprs, p.diags
}

// Synchronize discards tokens until the previous token was ';', the
// current token begins a statement, or the input is exhausted.
func (p *Parser) Synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		if p.boundary[p.peek().Kind] {
			return
		}
		p.advance()
	}
}

// Diagnostics returns the diagnostics recorded so far
func (p *Parser) Diagnostics() diag.List {
	return p.diags
}

// expression -> equality
func (p *Parser) expression() (mdwast.Expr, error) {
	return p.equality()
}

// equality -> comparison ( ( "!=" | "==" ) comparison )*
func (p *Parser) equality() (mdwast.Expr, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

// comparison -> term ( ( ">" | ">=" | "<" | "<=" ) term )*
func (p *Parser) comparison() (mdwast.Expr, error) {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

// term -> factor ( ( "-" | "+" ) factor )*
func (p *Parser) term() (mdwast.Expr, error) {
	return p.binary(p.factor, token.Minus, token.Plus)
}

// factor -> unary ( ( "/" | "*" ) unary )*
func (p *Parser) factor() (mdwast.Expr, error) {
	return p.binary(p.unary, token.Slash, token.Star)
}

// binary folds a left-associative level. A failed operand that produced
// no node fails the whole level; a partial operand is folded and the
// failure propagated.
func (p *Parser) binary(operand func() (mdwast.Expr, error), operators ...token.Kind) (mdwast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return expr, err
	}

	for p.match(operators...) {
		operator := p.previous()
		right, err := operand()
		if right == nil && err != nil {
			return nil, err
		}
		expr = mdwast.NewBinary(expr, operator, right)
		if err != nil {
			return expr, err
		}
	}

	return expr, nil
}

// unary -> ( "!" | "-" ) unary | primary
func (p *Parser) unary() (mdwast.Expr, error) {
	if !p.match(token.Bang, token.Minus) {
		return p.primary()
	}

	operator := p.previous()
	if err := p.enter(operator); err != nil {
		return nil, err
	}
	defer p.leave()

	right, err := p.unary()
	if right == nil {
		return nil, err
	}
	return mdwast.NewUnary(operator, right), err
}

// primary -> NUMBER | STRING | "true" | "false" | "nil" | "(" expression ")"
func (p *Parser) primary() (mdwast.Expr, error) {
	switch {
	case p.match(token.False):
		return mdwast.NewLiteral(p.previous(), false), nil
	case p.match(token.True):
		return mdwast.NewLiteral(p.previous(), true), nil
	case p.match(token.Nil):
		return mdwast.NewLiteral(p.previous(), nil), nil
	case p.match(token.Number, token.String):
		return mdwast.NewLiteral(p.previous(), p.previous().Literal), nil
	case p.match(token.LeftParen):
		return p.grouping()
	}

	p.reportUnlessGap(diag.AtToken(p.peek(), mdwerror.CodeExpectedExpression, diag.MsgExpectExpression))
	return nil, errFailed
}

func (p *Parser) grouping() (mdwast.Expr, error) {
	paren := p.previous()
	if err := p.enter(paren); err != nil {
		return nil, err
	}
	defer p.leave()

	inner, err := p.expression()
	if err != nil {
		if inner == nil {
			return nil, err
		}
		return mdwast.NewGrouping(paren, inner), err
	}

	if !p.match(token.RightParen) {
		p.report(diag.AtLine(paren.Line, p.peek(), mdwerror.CodeUnclosedGrouping, diag.MsgExpectRightParen))
		return mdwast.NewGrouping(paren, inner), errFailed
	}

	return mdwast.NewGrouping(paren, inner), nil
}

// enter increments the nesting depth, failing once the bound is reached
func (p *Parser) enter(at token.Token) error {
	if p.depth >= p.maxDepth {
		p.report(diag.AtToken(at, mdwerror.CodeExceededNestingDepth, diag.MsgExceededNesting))
		return errFailed
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) report(d diag.Diagnostic) {
	p.diags.Add(d)
}

// reportUnlessGap records d unless the current token follows dropped
// input, whose lexical diagnostic already covers the same mistake
func (p *Parser) reportUnlessGap(d diag.Diagnostic) {
	if p.gaps[p.current] {
		return
	}
	p.report(d)
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}
