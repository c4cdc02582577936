// File: udyr.go
// Title: udyr Front End Engine
// Description: Bundles scanner and parser behind a single entry point with
//              options, input limits, logging and timing. Used by the CLI,
//              the REPL and the gRPC service.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial engine implementation

package udyr

import (
	"time"

	mdwerror "github.com/msto63/udyr/foundation/core/error"
	mdwlog "github.com/msto63/udyr/foundation/core/log"
	mdwast "github.com/msto63/udyr/foundation/udyr/ast"
	"github.com/msto63/udyr/foundation/udyr/diag"
	mdwparser "github.com/msto63/udyr/foundation/udyr/parser"
	mdwscanner "github.com/msto63/udyr/foundation/udyr/scanner"
	"github.com/msto63/udyr/foundation/udyr/token"
)

// DefaultMaxSourceLength limits the source size accepted by an Engine
const DefaultMaxSourceLength = 1 << 20

// Engine runs the front end. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	logger  *mdwlog.Logger
	options Options
}

// Options configures the engine
type Options struct {
	// Logger for front end operations (optional, defaults to default logger)
	Logger *mdwlog.Logger

	// MaxDepth bounds expression nesting (default: 256)
	MaxDepth int

	// MaxSourceLength limits input size in bytes (default: 1 MiB)
	MaxSourceLength int

	// Boundary overrides the statement keywords used for recovery
	Boundary []token.Kind
}

// ScanResult is the outcome of a lexical pass
type ScanResult struct {
	Tokens      []token.Token
	Diagnostics diag.List
	Duration    time.Duration
}

// Result is the outcome of scanning and parsing a source
type Result struct {
	Tokens []token.Token

	// Exprs holds the parsed trees; partial trees are kept on failure
	Exprs []mdwast.Expr

	// Diagnostics lists lexical diagnostics first, then syntactic ones
	Diagnostics diag.List

	Duration time.Duration
}

// New creates an engine
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxDepth < 1 {
		opts.MaxDepth = mdwparser.DefaultMaxDepth
	}
	if opts.MaxSourceLength < 1 {
		opts.MaxSourceLength = DefaultMaxSourceLength
	}

	return &Engine{
		logger:  opts.Logger.WithField("component", "udyr-engine"),
		options: opts,
	}
}

// Options returns the effective options
func (e *Engine) Options() Options {
	return e.options
}

// Scan tokenizes source
func (e *Engine) Scan(source string) (ScanResult, error) {
	if err := e.checkLength(source, "udyr.Scan"); err != nil {
		return ScanResult{}, err
	}

	start := time.Now()
	tokens, diags, _ := e.scan(source)
	return ScanResult{
		Tokens:      tokens,
		Diagnostics: diags,
		Duration:    time.Since(start),
	}, nil
}

// Parse scans source and parses it as a single expression
func (e *Engine) Parse(source string) (Result, error) {
	if err := e.checkLength(source, "udyr.Parse"); err != nil {
		return Result{}, err
	}

	start := time.Now()
	tokens, diags, gaps := e.scan(source)
	expr, syntax := e.parser(tokens, gaps).Parse()
	diags.Append(syntax)

	result := Result{Tokens: tokens, Diagnostics: diags}
	if expr != nil {
		result.Exprs = []mdwast.Expr{expr}
	}
	result.Duration = time.Since(start)

	e.logResult("udyr.Parse", source, result)
	return result, nil
}

// ParseProgram scans source and parses a ';'-separated expression sequence
func (e *Engine) ParseProgram(source string) (Result, error) {
	if err := e.checkLength(source, "udyr.ParseProgram"); err != nil {
		return Result{}, err
	}

	start := time.Now()
	tokens, diags, gaps := e.scan(source)
	exprs, syntax := e.parser(tokens, gaps).ParseExpressions()
	diags.Append(syntax)

	result := Result{
		Tokens:      tokens,
		Exprs:       exprs,
		Diagnostics: diags,
		Duration:    time.Since(start),
	}

	e.logResult("udyr.ParseProgram", source, result)
	return result, nil
}

func (e *Engine) scan(source string) ([]token.Token, diag.List, []int) {
	s := mdwscanner.New(source, mdwscanner.Options{Logger: e.options.Logger})
	tokens, diags := s.ScanTokens()
	return tokens, diags, s.Gaps()
}

func (e *Engine) parser(tokens []token.Token, gaps []int) *mdwparser.Parser {
	return mdwparser.New(tokens, mdwparser.Options{
		Logger:   e.options.Logger,
		MaxDepth: e.options.MaxDepth,
		Boundary: e.options.Boundary,
		Gaps:     gaps,
	})
}

func (e *Engine) checkLength(source, operation string) error {
	if len(source) <= e.options.MaxSourceLength {
		return nil
	}
	return mdwerror.Newf("source exceeds maximum length: %d > %d", len(source), e.options.MaxSourceLength).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation(operation).
		WithDetail("length", len(source)).
		WithDetail("max_length", e.options.MaxSourceLength)
}

func (e *Engine) logResult(operation, source string, r Result) {
	if !e.logger.IsLevelEnabled(mdwlog.LevelDebug) {
		return
	}
	e.logger.Debug("front end pass completed", mdwlog.Fields{
		"operation":   operation,
		"length":      len(source),
		"tokens":      len(r.Tokens),
		"expressions": len(r.Exprs),
		"diagnostics": len(r.Diagnostics),
		"duration_us": r.Duration.Microseconds(),
	})
}

// OK reports whether the pass produced no diagnostics
func (r Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Err converts the diagnostics into a structured error, nil when OK
func (r Result) Err() error {
	return r.Diagnostics.Err()
}

// Expr returns the first expression or nil
func (r Result) Expr() mdwast.Expr {
	if len(r.Exprs) == 0 {
		return nil
	}
	return r.Exprs[0]
}

// OK reports whether the scan produced no diagnostics
func (r ScanResult) OK() bool {
	return len(r.Diagnostics) == 0
}
