package compiler

import (
	"lumen/internal/bytecode"
	"lumen/internal/parser"
)

func (c *Compiler) compileStmt(s parser.Stmt) { s.Accept(c) }

func (c *Compiler) VisitExpressionStmt(s *parser.ExpressionStmt) interface{} {
	c.compileExpr(s.Expr)
	c.emit(bytecode.OpPop, s.Sp)
	return nil
}

func (c *Compiler) VisitPrintStmt(s *parser.PrintStmt) interface{} {
	c.compileExpr(s.Expr)
	c.emit(bytecode.OpPrint, s.Sp)
	return nil
}

func (c *Compiler) VisitVarStmt(s *parser.VarStmt) interface{} {
	if s.Init != nil {
		c.compileExpr(s.Init)
	} else {
		c.emit(bytecode.OpNil, s.Sp)
	}
	if c.current.scopeDepth == 0 {
		nameIdx := c.internGlobal(s.Name, s.Sp)
		c.emit(bytecode.OpDefineGlobal, s.Sp)
		c.emitByte(nameIdx, s.Sp)
		return nil
	}
	c.declareLocal(s.Name, s.Sp)
	return nil
}

func (c *Compiler) VisitBlockStmt(s *parser.BlockStmt) interface{} {
	c.beginScope()
	for _, stmt := range s.Stmts {
		c.compileStmt(stmt)
	}
	c.endScope(s.Sp)
	return nil
}

func (c *Compiler) VisitIfStmt(s *parser.IfStmt) interface{} {
	c.compileExpr(s.Cond)
	thenJump := c.emitJump(bytecode.OpJumpRelIfFalse, s.Sp)
	c.emit(bytecode.OpPop, s.Sp)
	c.compileStmt(s.Then)
	elseJump := c.emitJump(bytecode.OpJumpRel, s.Sp)
	c.patchJump(thenJump, s.Sp)
	c.emit(bytecode.OpPop, s.Sp)
	if s.Else != nil {
		c.compileStmt(s.Else)
	}
	c.patchJump(elseJump, s.Sp)
	return nil
}

func (c *Compiler) VisitWhileStmt(s *parser.WhileStmt) interface{} {
	loopStart := len(c.chunk().Instructions)
	c.compileExpr(s.Cond)
	exitJump := c.emitJump(bytecode.OpJumpRelIfFalse, s.Sp)
	c.emit(bytecode.OpPop, s.Sp)
	c.compileStmt(s.Body)
	c.emitLoop(loopStart, s.Sp)
	c.patchJump(exitJump, s.Sp)
	c.emit(bytecode.OpPop, s.Sp)
	return nil
}

func (c *Compiler) VisitReturnStmt(s *parser.ReturnStmt) interface{} {
	if c.current.isScript {
		c.diags.Add(s.Sp, "cannot return from top-level script")
		return nil
	}
	if s.Value != nil {
		c.compileExpr(s.Value)
	} else {
		c.emit(bytecode.OpNil, s.Sp)
	}
	c.emit(bytecode.OpReturn, s.Sp)
	return nil
}

// VisitFunctionStmt compiles a nested function in its own funcState,
// then emits Closure in the enclosing function to build the runtime
// closure object over the resolved upvalue descriptors (spec.md §4.4,
// §4.5). The function's own name is bound in the enclosing scope the
// same way a var would be, letting it be called recursively or
// reassigned like any other value.
func (c *Compiler) VisitFunctionStmt(s *parser.FunctionStmt) interface{} {
	if len(s.Params) > maxArgc {
		c.diags.Add(s.Sp, "too many parameters in function %q (max %d)", s.Name, maxArgc)
	}
	c.beginFunction(s.Name, len(s.Params), false)
	// The body is a local scope: its vars and nested functions live in
	// stack slots, never in globals. No matching endScope is emitted,
	// since Return discards the whole frame.
	c.beginScope()
	for _, p := range s.Params {
		c.declareLocal(p, s.Sp)
	}
	for _, stmt := range s.Body {
		c.compileStmt(stmt)
	}
	c.emitReturnTrailer(s.Sp)
	inner := c.current
	fn := c.endFunction()

	fnIdx := c.addConstant(fn, s.Sp)
	c.emit(bytecode.OpClosure, s.Sp)
	c.emitByte(fnIdx, s.Sp)
	for _, uv := range inner.upvalues {
		if uv.isLocal {
			c.emitByte(1, s.Sp)
		} else {
			c.emitByte(0, s.Sp)
		}
		c.emitByte(uv.index, s.Sp)
	}

	if c.current.scopeDepth == 0 {
		nameIdx := c.internGlobal(s.Name, s.Sp)
		c.emit(bytecode.OpDefineGlobal, s.Sp)
		c.emitByte(nameIdx, s.Sp)
	} else {
		c.declareLocal(s.Name, s.Sp)
	}
	return nil
}
