package parser

import (
	"testing"

	"lumen/internal/lexer"
)

func parse(t *testing.T, src string) []Stmt {
	t.Helper()
	toks, err := lexer.New(src).ScanTokens()
	if err != nil {
		t.Fatalf("scan %q: %v", src, err)
	}
	stmts, err := ParseProgram(toks)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return stmts
}

func TestParsePrintArithmetic(t *testing.T) {
	stmts := parse(t, "print 1 + 2 * 3;")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	ps, ok := stmts[0].(*PrintStmt)
	if !ok {
		t.Fatalf("expected *PrintStmt, got %T", stmts[0])
	}
	bin, ok := ps.Expr.(*Binary)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected top-level '+' binary, got %#v", ps.Expr)
	}
}

func TestParseVarDeclAndAssignment(t *testing.T) {
	stmts := parse(t, "var x = 0; x = x + 1;")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if _, ok := stmts[0].(*VarStmt); !ok {
		t.Fatalf("expected *VarStmt, got %T", stmts[0])
	}
	exprStmt, ok := stmts[1].(*ExpressionStmt)
	if !ok {
		t.Fatalf("expected *ExpressionStmt, got %T", stmts[1])
	}
	if _, ok := exprStmt.Expr.(*Assign); !ok {
		t.Fatalf("expected *Assign, got %T", exprStmt.Expr)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	stmts := parse(t, "fun add(a, b) { return a + b; }")
	fn, ok := stmts[0].(*FunctionStmt)
	if !ok {
		t.Fatalf("expected *FunctionStmt, got %T", stmts[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
}

func TestParseIfElse(t *testing.T) {
	stmts := parse(t, `if (false) { print "a"; } else { print "b"; }`)
	ifStmt, ok := stmts[0].(*IfStmt)
	if !ok {
		t.Fatalf("expected *IfStmt, got %T", stmts[0])
	}
	if ifStmt.Else == nil {
		t.Fatal("expected else branch")
	}
}

func TestParseWhileLoop(t *testing.T) {
	stmts := parse(t, "while (x < 3) { print x; x = x + 1; }")
	if _, ok := stmts[0].(*WhileStmt); !ok {
		t.Fatalf("expected *WhileStmt, got %T", stmts[0])
	}
}

func TestParseLogicalShortCircuitOperators(t *testing.T) {
	stmts := parse(t, "print a and b or c;")
	ps := stmts[0].(*PrintStmt)
	top, ok := ps.Expr.(*Binary)
	if !ok || top.Operator != "or" {
		t.Fatalf("expected top-level 'or', got %#v", ps.Expr)
	}
	if _, ok := top.Left.(*Binary); !ok {
		t.Fatalf("expected 'and' to bind tighter than 'or', got %#v", top.Left)
	}
}

func TestParseUnaryNot(t *testing.T) {
	stmts := parse(t, "print !nil;")
	ps := stmts[0].(*PrintStmt)
	u, ok := ps.Expr.(*Unary)
	if !ok || u.Operator != "!" {
		t.Fatalf("expected unary '!', got %#v", ps.Expr)
	}
}

func TestParseCallWithArgs(t *testing.T) {
	stmts := parse(t, "print make(1, 2);")
	ps := stmts[0].(*PrintStmt)
	call, ok := ps.Expr.(*Call)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("expected call with 2 args, got %#v", ps.Expr)
	}
}

func TestParseRejectsInvalidAssignmentTarget(t *testing.T) {
	toks, err := lexer.New("1 = 2;").ScanTokens()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseProgram(toks); err == nil {
		t.Fatal("expected parse error for assignment to non-identifier")
	}
}
