// File: scanner.go
// Title: udyr Lexical Analyzer
// Description: Converts source text into a token stream terminated by a
//              single EOF token. Lexical errors are collected as
//              diagnostics and never abort the pass.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial scanner implementation

package scanner

import (
	"strconv"
	"unicode/utf8"

	mdwerror "github.com/msto63/udyr/foundation/core/error"
	mdwlog "github.com/msto63/udyr/foundation/core/log"
	"github.com/msto63/udyr/foundation/udyr/diag"
	"github.com/msto63/udyr/foundation/udyr/token"
)

// Options configures a Scanner
type Options struct {
	// Logger receives a debug summary per pass. Defaults to the package
	// default logger tagged component=udyr-scanner.
	Logger *mdwlog.Logger
}

// Scanner performs one lexical pass over a source string
type Scanner struct {
	source  string
	start   int // First byte of the lexeme being scanned
	current int // Byte under examination
	line    int

	tokens []token.Token
	diags  diag.List
	gaps   []int // Token indices that follow dropped input
	logger *mdwlog.Logger
}

// New creates a scanner for source
func New(source string, opts Options) *Scanner {
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	return &Scanner{
		source: source,
		line:   1,
		logger: logger.WithField("component", "udyr-scanner"),
	}
}

// Scan tokenizes source with default options
func Scan(source string) ([]token.Token, diag.List) {
	return New(source, Options{}).ScanTokens()
}

// ScanTokens runs the pass. The returned slice always ends with exactly
// one EOF token carrying the final line number.
func (s *Scanner) ScanTokens() ([]token.Token, diag.List) {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", nil, s.line))

	if s.logger.IsLevelEnabled(mdwlog.LevelDebug) {
		s.logger.Debug("scan completed", mdwlog.Fields{
			"bytes":       len(s.source),
			"tokens":      len(s.tokens),
			"lines":       s.line,
			"diagnostics": len(s.diags),
		})
	}

	return s.tokens, s.diags
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)
	case '!':
		s.addToken(s.choose('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.choose('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.choose('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.choose('=', token.GreaterEqual, token.Greater))
	case '/':
		if s.match('/') {
			// Line comment runs up to the newline, which is scanned normally
			for s.peek() != '\n' && !s.isAtEnd() {
				s.current++
			}
		} else {
			s.addToken(token.Slash)
		}
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.readString()
	default:
		switch {
		case isDigit(c):
			s.readNumber()
		case isAlpha(c):
			s.readIdentifier()
		default:
			s.unexpected(c)
		}
	}
}

// unexpected reports one diagnostic for the whole character, so a
// multi-byte UTF-8 sequence yields a single diagnostic.
func (s *Scanner) unexpected(c byte) {
	if c >= utf8.RuneSelf {
		_, size := utf8.DecodeRuneInString(s.source[s.start:])
		s.current = s.start + size
	}
	s.diags.Add(diag.Lexical(s.line, mdwerror.CodeUnexpectedCharacter, diag.MsgUnexpectedCharacter))
	s.markGap()
}

// markGap records that the next token follows input dropped with a
// lexical diagnostic
func (s *Scanner) markGap() {
	next := len(s.tokens)
	if n := len(s.gaps); n > 0 && s.gaps[n-1] == next {
		return
	}
	s.gaps = append(s.gaps, next)
}

// Gaps returns, in ascending order, the indices of tokens that directly
// follow an unexpected character or an unterminated string. Call it after
// ScanTokens; the index may be that of the EOF token.
func (s *Scanner) Gaps() []int {
	return s.gaps
}

func (s *Scanner) readString() {
	openLine := s.line
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.current++
	}

	if s.isAtEnd() {
		s.diags.Add(diag.Lexical(openLine, mdwerror.CodeUnterminatedString, diag.MsgUnterminatedString))
		s.markGap()
		return
	}

	// Closing quote
	s.current++

	value := s.source[s.start+1 : s.current-1]
	s.tokens = append(s.tokens, token.New(token.String, s.source[s.start:s.current], value, openLine))
}

func (s *Scanner) readNumber() {
	for isDigit(s.peek()) {
		s.current++
	}

	// A fractional part needs a digit after the dot: "1." is NUMBER then DOT
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.current++
		for isDigit(s.peek()) {
			s.current++
		}
	}

	lexeme := s.source[s.start:s.current]
	// Digits and one dot always parse; the only failure is ErrRange, which
	// leaves +Inf. The lexeme stays the authoritative form for those.
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil && s.logger.IsLevelEnabled(mdwlog.LevelDebug) {
		s.logger.Debug("number literal exceeds float64 range", mdwlog.Fields{
			"line":   s.line,
			"digits": len(lexeme),
		})
	}
	s.tokens = append(s.tokens, token.New(token.Number, lexeme, value, s.line))
}

func (s *Scanner) readIdentifier() {
	for isAlphaNumeric(s.peek()) {
		s.current++
	}
	s.addToken(token.LookupIdent(s.source[s.start:s.current]))
}

func (s *Scanner) addToken(kind token.Kind) {
	s.tokens = append(s.tokens, token.New(kind, s.source[s.start:s.current], nil, s.line))
}

func (s *Scanner) choose(expected byte, matched, otherwise token.Kind) token.Kind {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
