package lexer

import (
	"testing"

	"lumen/internal/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := New(src).ScanTokens()
	if err != nil {
		t.Fatalf("ScanTokens(%q): %v", src, err)
	}
	var ks []token.Kind
	for _, tok := range toks {
		ks = append(ks, tok.Kind)
	}
	return ks
}

func TestScanArithmeticExpression(t *testing.T) {
	got := kinds(t, "1 + 2 * 3;")
	want := []token.Kind{token.Number, token.Plus, token.Number, token.Star, token.Number, token.Semicolon, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	got := kinds(t, "var x = foo and not bar")
	want := []token.Kind{token.Var, token.Identifier, token.Equal, token.Identifier, token.And, token.Not, token.Identifier, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks, err := New(`"foo bar"`).ScanTokens()
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != token.String || toks[0].Lexeme != "foo bar" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestScanUnterminatedStringErrors(t *testing.T) {
	if _, err := New(`"unterminated`).ScanTokens(); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestScanComparisonOperators(t *testing.T) {
	got := kinds(t, "a <= b >= c != d == e")
	want := []token.Kind{
		token.Identifier, token.LessEqual, token.Identifier, token.GreaterEqual,
		token.Identifier, token.BangEqual, token.Identifier, token.EqualEqual,
		token.Identifier, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestSkipsLineComments(t *testing.T) {
	got := kinds(t, "1 // a comment\n+ 2")
	want := []token.Kind{token.Number, token.Plus, token.Number, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
