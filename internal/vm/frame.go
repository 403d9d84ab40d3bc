// Package vm implements spec.md component C5: the call-frame stack,
// value stack, open-upvalue list, and dispatch loop that execute a
// compiled Chunk. It generalizes the teacher's EnhancedVM dispatch
// loop (internal/vm/vm.go in sentra-language-sentra) from a flat
// global-only interpreter into one with proper lexical closures,
// grounded on the upvalue opcodes of the teacher's register VM
// (internal/vmregister/vm.go's OP_CLOSURE/OP_GETUPVAL/OP_SETUPVAL),
// corrected to share the live stack slot rather than copy it eagerly.
package vm

import "lumen/internal/value"

// CallFrame is one activation record (spec.md §4.5, §3).
type CallFrame struct {
	closure *value.ClosureObject
	ip      int
	base    int // index into vm.stack where this frame's locals begin
}
