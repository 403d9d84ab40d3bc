// Package compiler lowers a lumen AST (internal/parser) to bytecode
// (internal/bytecode), implementing spec.md §4.4 (component C4). It
// generalizes the teacher's VisitFunctionStmt sub-compiler pattern
// (internal/compiler/stmt_compiler.go in sentra-language-sentra) into
// a full per-function CompilerState chain with proper local, upvalue,
// and jump-fixup tracking.
package compiler

import (
	"lumen/internal/bytecode"
	"lumen/internal/diagnostics"
	"lumen/internal/parser"
	"lumen/internal/value"
)

const (
	maxLocals   = 256
	maxUpvalues = 256
	maxArgc     = 255
)

type local struct {
	name       string
	depth      int
	isCaptured bool
}

type upvalueDesc struct {
	index   uint8
	isLocal bool
}

// funcState is spec.md §3's CompilerState: per-function-being-compiled
// bookkeeping, chained to its enclosing function via a back reference.
type funcState struct {
	enclosing  *funcState
	fn         *value.FunctionObject
	chunk      *bytecode.Chunk
	locals     []local
	scopeDepth int
	upvalues   []upvalueDesc
	isScript   bool
}

// Compiler drives AST→bytecode lowering for one compiled program. All
// funcStates in the chain share the same global Interner, since global
// variables are visible across function boundaries (spec.md §3, §4.2).
type Compiler struct {
	current *funcState
	globals *bytecode.Interner
	diags   diagnostics.Accumulator
}

// CompileProgram compiles a parsed source file into a zero-argument
// script function (spec.md §4.4: "The top-level script is compiled as
// an anonymous function of zero arguments"). The returned Accumulator
// reports every compile-time error found; compilation is considered
// failed if it has any (spec.md §7.1), even though the function value
// is still returned so callers can disassemble partial output.
//
// natives is seeded into the root chunk's native_globals table before
// any statement compiles, each one interned first, so well-known
// native names get stable low indices (spec.md §4.2) and ordinary
// GetGlobal/SetGlobal resolve them exactly like a script-defined
// global (spec.md §6).
func CompileProgram(stmts []parser.Stmt, natives []value.NativeDef) (*value.FunctionObject, *diagnostics.Accumulator) {
	c := &Compiler{globals: bytecode.NewInterner()}
	c.beginFunction("", 0, true)
	for _, n := range natives {
		idx := c.internGlobal(n.Name, bytecode.Span{})
		native := &value.NativeObject{Name: n.Name, Arity: n.Arity, Fn: n.Fn}
		c.chunk().AddNativeSeed(idx, value.Obj(native))
	}
	for _, s := range stmts {
		c.compileStmt(s)
	}
	c.emitReturnTrailer(bytecode.Span{})
	fn := c.endFunction()
	return fn, &c.diags
}

func (c *Compiler) beginFunction(name string, arity int, isScript bool) {
	chunk := bytecode.NewChunk(c.globals)
	fn := &value.FunctionObject{Name: name, Arity: arity, Chunk: chunk}
	fs := &funcState{enclosing: c.current, fn: fn, chunk: chunk, isScript: isScript}
	// Slot 0 of every function holds the callee itself (spec.md §3).
	fs.locals = append(fs.locals, local{name: ""})
	c.current = fs
}

func (c *Compiler) endFunction() *value.FunctionObject {
	fs := c.current
	fs.fn.UpvalueCount = len(fs.upvalues)
	c.current = fs.enclosing
	return fs.fn
}

func (c *Compiler) chunk() *bytecode.Chunk { return c.current.chunk }

func (c *Compiler) emit(op bytecode.OpCode, span bytecode.Span) {
	c.chunk().WriteOp(op, span)
}

func (c *Compiler) emitByte(b byte, span bytecode.Span) {
	c.chunk().WriteByte(b, span)
}

func (c *Compiler) emitReturnTrailer(span bytecode.Span) {
	c.emit(bytecode.OpNil, span)
	c.emit(bytecode.OpReturn, span)
}

func (c *Compiler) addConstant(v interface{}, span bytecode.Span) uint8 {
	idx, err := c.chunk().AddConstant(v)
	if err != nil {
		c.diags.Add(span, "%v", err)
		return 0
	}
	return idx
}

func (c *Compiler) internGlobal(name string, span bytecode.Span) uint8 {
	idx, err := c.globals.Intern(name)
	if err != nil {
		c.diags.Add(span, "%v", err)
		return 0
	}
	return idx
}

// --- scopes & locals ---

func (c *Compiler) beginScope() { c.current.scopeDepth++ }

func (c *Compiler) endScope(span bytecode.Span) {
	fs := c.current
	fs.scopeDepth--
	for len(fs.locals) > 0 && fs.locals[len(fs.locals)-1].depth > fs.scopeDepth {
		last := fs.locals[len(fs.locals)-1]
		if last.isCaptured {
			c.emit(bytecode.OpCloseUpvalue, span)
		} else {
			c.emit(bytecode.OpPop, span)
		}
		fs.locals = fs.locals[:len(fs.locals)-1]
	}
}

// declareLocal records a new local at the current scope depth and
// returns its stack slot (its index within fs.locals, since locals
// occupy sequential stack slots starting at the frame base). Reports
// a compile error on redeclaration within the exact same scope or on
// exceeding the per-function local bound (spec.md §4.4, §5).
func (c *Compiler) declareLocal(name string, span bytecode.Span) int {
	fs := c.current
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].depth < fs.scopeDepth {
			break
		}
		if fs.locals[i].depth == fs.scopeDepth && fs.locals[i].name == name {
			c.diags.Add(span, "variable %q already declared in this scope", name)
			return i
		}
	}
	if len(fs.locals) >= maxLocals {
		c.diags.Add(span, "too many local variables in one function (max %d)", maxLocals)
		return 0
	}
	fs.locals = append(fs.locals, local{name: name, depth: fs.scopeDepth})
	return len(fs.locals) - 1
}

// resolveLocal searches fs's own locals for name, most recent first.
func resolveLocal(fs *funcState, name string) (int, bool) {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].name == name {
			return i, true
		}
	}
	return -1, false
}

// resolveUpvalue implements spec.md §4.4's recursive upvalue
// resolution: if name is a local of some enclosing function, every
// function between here and the definer records an upvalue
// descriptor, materializing the chain on the way back out.
func resolveUpvalue(fs *funcState, name string) (int, bool) {
	if fs.enclosing == nil {
		return -1, false
	}
	if slot, ok := resolveLocal(fs.enclosing, name); ok {
		fs.enclosing.locals[slot].isCaptured = true
		return addUpvalue(fs, uint8(slot), true), true
	}
	if idx, ok := resolveUpvalue(fs.enclosing, name); ok {
		return addUpvalue(fs, uint8(idx), false), true
	}
	return -1, false
}

// addUpvalue deduplicates descriptors per function (spec.md §4.4).
func addUpvalue(fs *funcState, index uint8, isLocal bool) int {
	for i, uv := range fs.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	fs.upvalues = append(fs.upvalues, upvalueDesc{index: index, isLocal: isLocal})
	return len(fs.upvalues) - 1
}

// --- jump fixups (spec.md §4.4) ---

// emitJump writes a jump opcode with a placeholder u16 offset and
// returns the position to patch once the target is known.
func (c *Compiler) emitJump(op bytecode.OpCode, span bytecode.Span) int {
	c.emit(op, span)
	return c.chunk().WriteU16(0, span)
}

// patchJump backfills the jump at pos to land at the current end of
// the instruction stream. Reports a compile error on overflow
// (spec.md §4.4, §5: jump offset ≤ 65535).
func (c *Compiler) patchJump(pos int, span bytecode.Span) {
	offset := len(c.chunk().Instructions) - (pos + 2)
	if offset < 0 || offset > 0xffff {
		c.diags.Add(span, "jump offset out of range (max 65535)")
		return
	}
	c.chunk().PatchU16(pos, uint16(offset))
}

// emitLoop emits a backward Loop jump to loopStart.
func (c *Compiler) emitLoop(loopStart int, span bytecode.Span) {
	c.emit(bytecode.OpLoop, span)
	offset := len(c.chunk().Instructions) + 2 - loopStart
	if offset < 0 || offset > 0xffff {
		c.diags.Add(span, "loop body too large (jump offset max 65535)")
		offset = 0
	}
	c.chunk().WriteU16(uint16(offset), span)
}
