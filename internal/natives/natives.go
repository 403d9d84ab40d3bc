// Package natives implements spec.md component C8's host function
// library: the fixed table of natives seeded into every compiled
// program's globals (spec.md §6, §4.2). It generalizes the teacher's
// RegisterStdlib (internal/vmregister/stdlib.go), which builds a flat
// list of (name, arity, fn) triples via vm.registerGlobal, into a pure
// value.NativeDef slice the compiler seeds independently of any VM
// instance.
package natives

import (
	"fmt"

	"lumen/internal/value"
)

// All returns every native this build wires in, grouped by the
// third-party library each group exercises.
func All() []value.NativeDef {
	var defs []value.NativeDef
	defs = append(defs, uuidNatives()...)
	defs = append(defs, humanizeNatives()...)
	defs = append(defs, hashNatives()...)
	defs = append(defs, timeNatives()...)
	defs = append(defs, dbNatives()...)
	defs = append(defs, wsNatives()...)
	return defs
}

func wantString(native string, args []value.Value, i int) (string, error) {
	if !args[i].IsString() {
		return "", fmt.Errorf("native %q expects a string argument, got %s", native, args[i].TypeName())
	}
	return args[i].AsString(), nil
}

func wantNum(native string, args []value.Value, i int) (float64, error) {
	if !args[i].IsNum() {
		return 0, fmt.Errorf("native %q expects a number argument, got %s", native, args[i].TypeName())
	}
	return args[i].AsNum(), nil
}
