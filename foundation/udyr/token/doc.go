// Package token defines the token kinds and records shared by the udyr
// scanner and parser.
//
// Kind names render in upper snake case (LEFT_PAREN, BANG_EQUAL, EOF) and
// form the stable contract of the front end. The keyword table is a
// package-level map populated at init and read-only afterwards, so
// LookupIdent is safe for concurrent use.
package token
