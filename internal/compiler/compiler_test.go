package compiler

import (
	"testing"

	"lumen/internal/bytecode"
	"lumen/internal/lexer"
	"lumen/internal/parser"
	"lumen/internal/value"
)

func compile(t *testing.T, src string) (*bytecode.Chunk, *Compiler) {
	t.Helper()
	toks, err := lexer.New(src).ScanTokens()
	if err != nil {
		t.Fatalf("scan %q: %v", src, err)
	}
	stmts, err := parser.ParseProgram(toks)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	fn, diags := CompileProgram(stmts, nil)
	if diags.HasErrors() {
		t.Fatalf("compile %q: %v", src, diags.Diagnostics())
	}
	return fn.Chunk, nil
}

// ops decodes a chunk's instruction stream into its opcode sequence,
// skipping operand bytes, so tests can assert shape without hardcoding
// byte offsets.
func ops(chunk *bytecode.Chunk) []bytecode.OpCode {
	var out []bytecode.OpCode
	ip := 0
	for ip < len(chunk.Instructions) {
		op := bytecode.DecodeOp(chunk.Instructions[ip])
		out = append(out, op)
		ip++
		switch op {
		case bytecode.OpConstant, bytecode.OpDefineGlobal,
			bytecode.OpGetGlobal, bytecode.OpSetGlobal, bytecode.OpGetLocal,
			bytecode.OpSetLocal, bytecode.OpGetUpvalue, bytecode.OpSetUpvalue,
			bytecode.OpCall:
			ip++
		case bytecode.OpJumpRel, bytecode.OpJumpRelIfFalse, bytecode.OpJumpRelIfTrue, bytecode.OpLoop:
			ip += 2
		case bytecode.OpClosure:
			fnIdx := chunk.Instructions[ip]
			ip++
			if fn, ok := chunk.Constants[fnIdx].(*value.FunctionObject); ok {
				ip += 2 * fn.UpvalueCount
			}
		}
	}
	return out
}

func TestCompileLiteralsAndPrint(t *testing.T) {
	chunk, _ := compile(t, `print 1 + 2;`)
	got := ops(chunk)
	want := []bytecode.OpCode{
		bytecode.OpConstant, bytecode.OpConstant, bytecode.OpAdd, bytecode.OpPrint,
		bytecode.OpNil, bytecode.OpReturn,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestCompileGlobalVarRoundTrip(t *testing.T) {
	chunk, _ := compile(t, `var x = 10; x = x + 1; print x;`)
	got := ops(chunk)
	wantPrefix := []bytecode.OpCode{
		bytecode.OpConstant, bytecode.OpDefineGlobal,
		bytecode.OpGetGlobal, bytecode.OpConstant, bytecode.OpAdd, bytecode.OpSetGlobal, bytecode.OpPop,
		bytecode.OpGetGlobal, bytecode.OpPrint,
	}
	if len(got) < len(wantPrefix) {
		t.Fatalf("got %v, want prefix %v", got, wantPrefix)
	}
	for i, w := range wantPrefix {
		if got[i] != w {
			t.Fatalf("op %d: got %v want %v", i, got[i], w)
		}
	}
}

func TestCompileLocalsUseStackSlotsNotGlobals(t *testing.T) {
	chunk, _ := compile(t, `{ var x = 1; print x; }`)
	got := ops(chunk)
	for _, op := range got {
		if op == bytecode.OpGetGlobal || op == bytecode.OpDefineGlobal {
			t.Fatalf("local in block scope should never touch globals: %v", got)
		}
	}
	found := false
	for _, op := range got {
		if op == bytecode.OpGetLocal {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a GetLocal opcode, got %v", got)
	}
}

func TestCompileIfElseEmitsTwoJumps(t *testing.T) {
	chunk, _ := compile(t, `if (true) { print 1; } else { print 2; }`)
	got := ops(chunk)
	jumpIfFalse, jumpRel := 0, 0
	for _, op := range got {
		switch op {
		case bytecode.OpJumpRelIfFalse:
			jumpIfFalse++
		case bytecode.OpJumpRel:
			jumpRel++
		}
	}
	if jumpIfFalse != 1 || jumpRel != 1 {
		t.Fatalf("expected exactly one JumpRelIfFalse and one JumpRel, got %v", got)
	}
}

func TestCompileWhileLoopEmitsBackwardLoop(t *testing.T) {
	chunk, _ := compile(t, `var i = 0; while (i < 3) { i = i + 1; }`)
	got := ops(chunk)
	sawLoop := false
	for _, op := range got {
		if op == bytecode.OpLoop {
			sawLoop = true
		}
	}
	if !sawLoop {
		t.Fatalf("expected a Loop opcode, got %v", got)
	}
}

func TestCompileLogicalAndDoesNotEmitPlainOps(t *testing.T) {
	chunk, _ := compile(t, `print true and false;`)
	got := ops(chunk)
	for _, op := range got {
		if op == bytecode.OpEqual {
			t.Fatalf("'and' must lower to jumps, not a single op: %v", got)
		}
	}
	sawJump := false
	for _, op := range got {
		if op == bytecode.OpJumpRelIfFalse {
			sawJump = true
		}
	}
	if !sawJump {
		t.Fatalf("expected 'and' to emit JumpRelIfFalse, got %v", got)
	}
}

func TestCompileFunctionDeclEmitsClosureAndCall(t *testing.T) {
	chunk, _ := compile(t, `fun add(a, b) { return a + b; } print add(1, 2);`)
	got := ops(chunk)
	sawClosure, sawCall := false, false
	for _, op := range got {
		if op == bytecode.OpClosure {
			sawClosure = true
		}
		if op == bytecode.OpCall {
			sawCall = true
		}
	}
	if !sawClosure || !sawCall {
		t.Fatalf("expected Closure and Call opcodes, got %v", got)
	}
}

func TestCompileNestedFunctionCapturesUpvalue(t *testing.T) {
	chunk, _ := compile(t, `
		fun outer() {
			var x = 1;
			fun inner() {
				return x;
			}
			return inner;
		}
	`)
	var outerFn *value.FunctionObject
	for _, c := range chunk.Constants {
		if fn, ok := c.(*value.FunctionObject); ok && fn.Name == "outer" {
			outerFn = fn
		}
	}
	if outerFn == nil {
		t.Fatalf("expected a compiled constant for function 'outer', got %v", chunk.Constants)
	}

	var innerFn *value.FunctionObject
	for _, c := range outerFn.Chunk.Constants {
		if fn, ok := c.(*value.FunctionObject); ok && fn.Name == "inner" {
			innerFn = fn
		}
	}
	if innerFn == nil {
		t.Fatalf("expected a compiled constant for function 'inner', got %v", outerFn.Chunk.Constants)
	}
	if innerFn.UpvalueCount != 1 {
		t.Fatalf("expected inner to capture exactly one upvalue, got %d", innerFn.UpvalueCount)
	}
}
