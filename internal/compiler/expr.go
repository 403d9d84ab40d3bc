package compiler

import (
	"lumen/internal/bytecode"
	"lumen/internal/parser"
	"lumen/internal/value"
)

func (c *Compiler) compileExpr(e parser.Expr) { e.Accept(c) }

func (c *Compiler) VisitLiteral(e *parser.Literal) interface{} {
	span := e.Sp
	switch v := e.Value.(type) {
	case nil:
		c.emit(bytecode.OpNil, span)
	case bool:
		if v {
			c.emit(bytecode.OpTrue, span)
		} else {
			c.emit(bytecode.OpFalse, span)
		}
	case float64:
		idx := c.addConstant(value.Num(v), span)
		c.emit(bytecode.OpConstant, span)
		c.emitByte(idx, span)
	case string:
		idx := c.addConstant(value.Obj(value.NewString(v)), span)
		c.emit(bytecode.OpConstant, span)
		c.emitByte(idx, span)
	}
	return nil
}

func (c *Compiler) VisitIdentifier(e *parser.Identifier) interface{} {
	span := e.Sp
	if slot, ok := resolveLocal(c.current, e.Name); ok {
		c.emit(bytecode.OpGetLocal, span)
		c.emitByte(byte(slot), span)
		return nil
	}
	if idx, ok := resolveUpvalue(c.current, e.Name); ok {
		c.emit(bytecode.OpGetUpvalue, span)
		c.emitByte(byte(idx), span)
		return nil
	}
	nameIdx := c.internGlobal(e.Name, span)
	c.emit(bytecode.OpGetGlobal, span)
	c.emitByte(nameIdx, span)
	return nil
}

func (c *Compiler) VisitAssign(e *parser.Assign) interface{} {
	span := e.Sp
	c.compileExpr(e.Value)
	if slot, ok := resolveLocal(c.current, e.Name); ok {
		c.emit(bytecode.OpSetLocal, span)
		c.emitByte(byte(slot), span)
		return nil
	}
	if idx, ok := resolveUpvalue(c.current, e.Name); ok {
		c.emit(bytecode.OpSetUpvalue, span)
		c.emitByte(byte(idx), span)
		return nil
	}
	nameIdx := c.internGlobal(e.Name, span)
	c.emit(bytecode.OpSetGlobal, span)
	c.emitByte(nameIdx, span)
	return nil
}

func (c *Compiler) VisitUnary(e *parser.Unary) interface{} {
	c.compileExpr(e.Operand)
	switch e.Operator {
	case "-":
		c.emit(bytecode.OpNegate, e.Sp)
	case "!":
		c.emit(bytecode.OpNot, e.Sp)
	}
	return nil
}

func (c *Compiler) VisitBinary(e *parser.Binary) interface{} {
	switch e.Operator {
	case "and":
		c.compileLogicalAnd(e)
		return nil
	case "or":
		c.compileLogicalOr(e)
		return nil
	}

	c.compileExpr(e.Left)
	c.compileExpr(e.Right)
	span := e.Sp
	switch e.Operator {
	case "+":
		c.emit(bytecode.OpAdd, span)
	case "-":
		c.emit(bytecode.OpSub, span)
	case "*":
		c.emit(bytecode.OpMul, span)
	case "/":
		c.emit(bytecode.OpDiv, span)
	case "==":
		c.emit(bytecode.OpEqual, span)
	case "!=":
		c.emit(bytecode.OpEqual, span)
		c.emit(bytecode.OpNot, span)
	case ">":
		c.emit(bytecode.OpGreater, span)
	case "<":
		c.emit(bytecode.OpLess, span)
	case ">=":
		c.emit(bytecode.OpLess, span)
		c.emit(bytecode.OpNot, span)
	case "<=":
		c.emit(bytecode.OpGreater, span)
		c.emit(bytecode.OpNot, span)
	}
	return nil
}

// compileLogicalAnd: lhs; JumpRelIfFalse over; Pop; rhs; patch over.
func (c *Compiler) compileLogicalAnd(e *parser.Binary) {
	c.compileExpr(e.Left)
	overJump := c.emitJump(bytecode.OpJumpRelIfFalse, e.Sp)
	c.emit(bytecode.OpPop, e.Sp)
	c.compileExpr(e.Right)
	c.patchJump(overJump, e.Sp)
}

// compileLogicalOr: lhs; JumpRelIfFalse toRhs; JumpRel over; patch
// toRhs; Pop; rhs; patch over.
func (c *Compiler) compileLogicalOr(e *parser.Binary) {
	c.compileExpr(e.Left)
	toRhs := c.emitJump(bytecode.OpJumpRelIfFalse, e.Sp)
	overJump := c.emitJump(bytecode.OpJumpRel, e.Sp)
	c.patchJump(toRhs, e.Sp)
	c.emit(bytecode.OpPop, e.Sp)
	c.compileExpr(e.Right)
	c.patchJump(overJump, e.Sp)
}

func (c *Compiler) VisitCall(e *parser.Call) interface{} {
	if len(e.Args) > maxArgc {
		c.diags.Add(e.Sp, "too many arguments in call (max %d)", maxArgc)
	}
	c.compileExpr(e.Callee)
	for _, arg := range e.Args {
		c.compileExpr(arg)
	}
	c.emit(bytecode.OpCall, e.Sp)
	c.emitByte(byte(len(e.Args)), e.Sp)
	return nil
}
