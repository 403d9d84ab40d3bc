// Package parser turns a lumen token stream into the AST that the
// compiler consumes, per the contract in spec.md §6. Internal grammar
// and error-recovery strategy are out of scope for rigor; the node
// shapes below are deliberately the minimal set spec.md §6 names.
package parser

import "lumen/internal/bytecode"

// Expr is any expression node. Every node carries its source Span so
// the compiler can attach a span to every instruction it emits
// (spec.md §3's per-instruction span invariant).
type Expr interface {
	Accept(v ExprVisitor) interface{}
	Span() bytecode.Span
}

type Literal struct {
	// Value is one of: float64, string, bool, or nil (the Nil literal).
	Value interface{}
	Sp    bytecode.Span
}

func (l *Literal) Accept(v ExprVisitor) interface{} { return v.VisitLiteral(l) }
func (l *Literal) Span() bytecode.Span               { return l.Sp }

// Identifier reads a variable: local, upvalue, or global (spec.md §4.4
// resolves these in that order at compile time).
type Identifier struct {
	Name string
	Sp   bytecode.Span
}

func (i *Identifier) Accept(v ExprVisitor) interface{} { return v.VisitIdentifier(i) }
func (i *Identifier) Span() bytecode.Span               { return i.Sp }

// Binary covers every non-unary operator in spec.md §6's grammar,
// including the short-circuiting `and`/`or`, which the compiler lowers
// specially (spec.md §4.4).
type Binary struct {
	Left     Expr
	Operator string
	Right    Expr
	Sp       bytecode.Span
}

func (b *Binary) Accept(v ExprVisitor) interface{} { return v.VisitBinary(b) }
func (b *Binary) Span() bytecode.Span               { return b.Sp }

// Unary covers `not` and unary `-`.
type Unary struct {
	Operator string
	Operand  Expr
	Sp       bytecode.Span
}

func (u *Unary) Accept(v ExprVisitor) interface{} { return v.VisitUnary(u) }
func (u *Unary) Span() bytecode.Span               { return u.Sp }

// Call is `callee(args...)`.
type Call struct {
	Callee Expr
	Args   []Expr
	Sp     bytecode.Span
}

func (c *Call) Accept(v ExprVisitor) interface{} { return v.VisitCall(c) }
func (c *Call) Span() bytecode.Span               { return c.Sp }

// Assign is assignment to an identifier: `name = value`. Assignment is
// an expression — its value is the assigned value (spec.md §4.4).
type Assign struct {
	Name  string
	Value Expr
	Sp    bytecode.Span
}

func (a *Assign) Accept(v ExprVisitor) interface{} { return v.VisitAssign(a) }
func (a *Assign) Span() bytecode.Span               { return a.Sp }

type ExprVisitor interface {
	VisitLiteral(e *Literal) interface{}
	VisitIdentifier(e *Identifier) interface{}
	VisitBinary(e *Binary) interface{}
	VisitUnary(e *Unary) interface{}
	VisitCall(e *Call) interface{}
	VisitAssign(e *Assign) interface{}
}
