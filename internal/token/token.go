// Package token defines the lexical token set lumen's scanner
// produces. Scanning internals are an external-collaborator concern
// per spec.md §1/§6 — this package stays small and unsurprising.
package token

import "lumen/internal/bytecode"

type Kind int

const (
	EOF Kind = iota
	Error

	Number
	String
	Identifier

	// literals / keywords
	True
	False
	Nil
	And
	Or
	Not
	Var
	Fun
	Return
	If
	Else
	While
	Print

	// punctuation
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Semicolon
	Equal

	// operators
	Plus
	Minus
	Star
	Slash
	Bang
	EqualEqual
	BangEqual
	Less
	LessEqual
	Greater
	GreaterEqual
)

var keywords = map[string]Kind{
	"true":   True,
	"false":  False,
	"nil":    Nil,
	"and":    And,
	"or":     Or,
	"not":    Not,
	"var":    Var,
	"fun":    Fun,
	"return": Return,
	"if":     If,
	"else":   Else,
	"while":  While,
	"print":  Print,
}

// Lookup returns the keyword Kind for ident, if it is one.
func Lookup(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Token is one lexeme with its source span.
type Token struct {
	Kind   Kind
	Lexeme string
	Span   bytecode.Span
}
