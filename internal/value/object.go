package value

import (
	"fmt"
	"strings"

	"lumen/internal/bytecode"
)

// ObjectKind discriminates the heap object variants of spec.md §3.
type ObjectKind uint8

const (
	ObjString ObjectKind = iota
	ObjFunction
	ObjClosure
	ObjNative
	ObjArray
	ObjMap
	ObjHandle
)

// Object is a heap-allocated cell. Every concrete variant is a pointer
// type, so object identity (used for equality of non-string objects)
// is ordinary Go pointer/interface equality. Ownership: compiled
// constants (including Function objects) are held by their Chunk's
// constant pool; objects allocated at run time (concatenated strings,
// closures) are held only by the VM's stack, globals and closures —
// the VM keeps no separate list of them. Nothing performs an explicit
// free(): lumen follows design note (b) in spec.md §9 and lets Go
// reclaim an object once it becomes unreachable,
// which is observationally identical to an explicit free for a
// single-threaded, non-reentrant interpreter with no GC of its own.
type Object interface {
	Kind() ObjectKind
	Display() string
	TypeName() string
}

// StringObject is an immutable string, interpreted as UTF-8 text for
// display and concatenation (spec.md §3).
type StringObject struct {
	Chars string
}

func NewString(s string) *StringObject { return &StringObject{Chars: s} }

func (s *StringObject) Kind() ObjectKind { return ObjString }
func (s *StringObject) Display() string  { return s.Chars }
func (s *StringObject) TypeName() string { return "string" }

// FunctionObject is an immutable compiled function: its own chunk
// plus arity and a name for display/diagnostics (spec.md §3, §4.4).
type FunctionObject struct {
	Name         string
	Arity        int
	Chunk        *bytecode.Chunk
	UpvalueCount int
}

func (f *FunctionObject) Kind() ObjectKind { return ObjFunction }
func (f *FunctionObject) TypeName() string { return "function" }
func (f *FunctionObject) Display() string {
	name := f.Name
	if name == "" {
		name = "script"
	}
	return fmt.Sprintf("<function %s>", name)
}

// ClosureObject pairs a Function with the upvalues it captured at the
// point the Closure opcode ran (spec.md §3, §4.1, §4.5).
type ClosureObject struct {
	Function *FunctionObject
	Upvalues []*Upvalue
}

func NewClosure(fn *FunctionObject) *ClosureObject {
	return &ClosureObject{Function: fn, Upvalues: make([]*Upvalue, fn.UpvalueCount)}
}

func (c *ClosureObject) Kind() ObjectKind { return ObjClosure }
func (c *ClosureObject) TypeName() string { return "function" }
func (c *ClosureObject) Display() string  { return c.Function.Display() }

// NativeObject is a host-provided callable with a fixed arity
// (spec.md §3, §6). Natives run synchronously on the dispatch thread
// and must not call back into the VM (spec.md §5).
type NativeObject struct {
	Name  string
	Arity int
	Fn    func(args []Value) (Value, error)
}

// NativeDef is the registration triple spec.md §6 describes: "(name,
// arity, fn(&[Value]) -> Value)". internal/natives produces a slice of
// these; internal/compiler seeds each into a Chunk's native_globals
// table before compiling the script body (spec.md §4.2).
type NativeDef struct {
	Name  string
	Arity int
	Fn    func(args []Value) (Value, error)
}

func (n *NativeObject) Kind() ObjectKind { return ObjNative }
func (n *NativeObject) TypeName() string { return "native" }
func (n *NativeObject) Display() string  { return fmt.Sprintf("<native %s>", n.Name) }

// ArrayObject is an ordered, host-constructed sequence of Values. It
// exists only to give natives like db_query a result shape to return
// (spec.md's own grammar has no array literal syntax); the language
// itself has no way to construct one, only to receive and print one.
type ArrayObject struct {
	Elements []Value
}

func NewArray(elems []Value) *ArrayObject { return &ArrayObject{Elements: elems} }

func (a *ArrayObject) Kind() ObjectKind { return ObjArray }
func (a *ArrayObject) TypeName() string { return "array" }
func (a *ArrayObject) Display() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range a.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Display())
	}
	b.WriteByte(']')
	return b.String()
}

// MapObject is an ordered host-constructed string-keyed record, used
// to shape one row of a db_query result (column name -> Value).
type MapObject struct {
	Keys   []string
	Values []Value
}

func NewMap(keys []string, values []Value) *MapObject { return &MapObject{Keys: keys, Values: values} }

func (m *MapObject) Kind() ObjectKind { return ObjMap }
func (m *MapObject) TypeName() string { return "map" }
func (m *MapObject) Display() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.Keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", k, m.Values[i].Display())
	}
	b.WriteByte('}')
	return b.String()
}

// HandleObject wraps an opaque host resource — a *sql.DB or a
// *websocket.Conn — so natives like db_open/ws_dial can hand the
// script a value it can only pass back into other natives, never
// inspect. Resource is whatever the owning native package stashed.
type HandleObject struct {
	HandleKind string
	Resource   interface{}
}

func NewHandle(kind string, resource interface{}) *HandleObject {
	return &HandleObject{HandleKind: kind, Resource: resource}
}

func (h *HandleObject) Kind() ObjectKind { return ObjHandle }
func (h *HandleObject) TypeName() string { return h.HandleKind + "_handle" }
func (h *HandleObject) Display() string  { return "<" + h.HandleKind + "_handle>" }

// Upvalue is a handle to a captured variable, per spec.md §3, §4.5:
// Open points into the live value stack at StackIndex; Closed holds a
// relocated copy once the capturing scope has exited.
type Upvalue struct {
	Location   *Value // non-nil while open; points into the VM's stack
	Closed     Value
	StackIndex int // original stack position, used by the VM's open list
}

// NewOpenUpvalue captures slot (a pointer into the live stack).
func NewOpenUpvalue(slot *Value, stackIndex int) *Upvalue {
	return &Upvalue{Location: slot, StackIndex: stackIndex}
}

// Get reads the current value, whether open or closed.
func (u *Upvalue) Get() Value {
	if u.Location != nil {
		return *u.Location
	}
	return u.Closed
}

// Set writes through to the stack slot while open, or to the closed
// copy once closed.
func (u *Upvalue) Set(v Value) {
	if u.Location != nil {
		*u.Location = v
		return
	}
	u.Closed = v
}

// IsOpen reports whether this upvalue still points into the stack.
func (u *Upvalue) IsOpen() bool { return u.Location != nil }

// Close snapshots the current value and severs the stack pointer,
// transitioning Open → Closed (spec.md §3, §4.5).
func (u *Upvalue) Close() {
	if u.Location == nil {
		return
	}
	u.Closed = *u.Location
	u.Location = nil
}
