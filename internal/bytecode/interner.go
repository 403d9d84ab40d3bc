package bytecode

import "fmt"

// MaxGlobals is the resource bound from spec.md §5: a chunk's global
// name space is a dense u8 index space, so at most 256 distinct names.
const MaxGlobals = 256

// Interner maps global-variable names to small dense indices, unique
// per compiled program. It is shared by every function chunk compiled
// from the same source (the root chunk and all of its nested function
// chunks reference the same *Interner), because global variables are
// resolved by name across function boundaries.
type Interner struct {
	indices map[string]uint8
	names   []string
}

// NewInterner returns an empty name table.
func NewInterner() *Interner {
	return &Interner{indices: make(map[string]uint8)}
}

// Intern returns the existing index for name, or assigns and returns
// the next dense index. Returns an error once 256 distinct names have
// been interned (spec.md §4.2, §5).
func (in *Interner) Intern(name string) (uint8, error) {
	if idx, ok := in.indices[name]; ok {
		return idx, nil
	}
	if len(in.names) >= MaxGlobals {
		return 0, fmt.Errorf("too many globals (max %d)", MaxGlobals)
	}
	idx := uint8(len(in.names))
	in.indices[name] = idx
	in.names = append(in.names, name)
	return idx, nil
}

// Lookup returns the index already assigned to name, if any.
func (in *Interner) Lookup(name string) (uint8, bool) {
	idx, ok := in.indices[name]
	return idx, ok
}

// Name reverses an index back to its source name, for disassembly.
func (in *Interner) Name(idx uint8) string {
	if int(idx) < len(in.names) {
		return in.names[idx]
	}
	return "<unknown global>"
}

// Len reports how many distinct names have been interned so far.
func (in *Interner) Len() int {
	return len(in.names)
}
