package vm

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slices"

	"lumen/internal/bytecode"
	"lumen/internal/diagnostics"
	"lumen/internal/value"
)

const (
	maxFrames = 256
	stackMax  = maxFrames * 256
)

// globalSlot is one entry of spec.md §4.5's `global_name_idx →
// Option<Value>` slot map: a defined bit plus the value.
type globalSlot struct {
	defined bool
	value   value.Value
}

// VM executes one compiled program (spec.md §4.5). It is not safe for
// concurrent use; natives must not re-enter it (spec.md §5).
type VM struct {
	stack   []value.Value
	frames  []CallFrame
	globals []globalSlot
	open    []*value.Upvalue // descending by StackIndex (spec.md §3, §9)
	root    *bytecode.Chunk
	Stdout  io.Writer
}

// New constructs a VM ready to run script (the anonymous zero-arity
// top-level function the compiler produces). It seeds native globals
// from the script's own chunk and wraps the script in a zero-upvalue
// closure, per spec.md §4.5's startup procedure.
func New(script *value.FunctionObject) *VM {
	m := &VM{
		// Preallocated at full capacity and never regrown: captureUpvalue
		// hands out raw pointers into this backing array (&m.stack[i]),
		// which append would silently invalidate on reallocation.
		stack:   make([]value.Value, 0, stackMax),
		globals: make([]globalSlot, script.Chunk.Globals.Len()),
		root:    script.Chunk,
		Stdout:  os.Stdout,
	}
	for _, seed := range script.Chunk.NativeGlobals {
		m.setGlobalSlot(seed.GlobalIndex, seed.Value.(value.Value))
	}
	closure := value.NewClosure(script)
	m.push(value.Obj(closure))
	m.frames = append(m.frames, CallFrame{closure: closure, ip: 0, base: 0})
	return m
}

func (m *VM) setGlobalSlot(idx uint8, v value.Value) {
	if int(idx) >= len(m.globals) {
		grown := make([]globalSlot, int(idx)+1)
		copy(grown, m.globals)
		m.globals = grown
	}
	m.globals[idx] = globalSlot{defined: true, value: v}
}

// RuntimeError wraps a diagnostics.Diagnostic raised at run time
// (spec.md §7.2), satisfying the error interface.
type RuntimeError struct {
	Diag *diagnostics.Diagnostic
}

func (e *RuntimeError) Error() string { return e.Diag.Message }

func (m *VM) push(v value.Value) {
	m.stack = append(m.stack, v)
}

func (m *VM) pop() value.Value {
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

func (m *VM) peek(distFromTop int) value.Value {
	return m.stack[len(m.stack)-1-distFromTop]
}

func (m *VM) frame() *CallFrame { return &m.frames[len(m.frames)-1] }

func (m *VM) chunk() *bytecode.Chunk { return m.frame().closure.Function.Chunk }

func (m *VM) span() bytecode.Span {
	f := m.frame()
	c := f.closure.Function.Chunk
	ip := f.ip
	if ip > 0 {
		ip--
	}
	if ip < len(c.Spans) {
		return c.Spans[ip]
	}
	return bytecode.Span{}
}

func (m *VM) runtimeErrorf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return &RuntimeError{Diag: &diagnostics.Diagnostic{
		Type:    diagnostics.RuntimeError,
		Message: msg,
		Span:    m.span(),
	}}
}

func (m *VM) fatalf(format string, args ...interface{}) error {
	return diagnostics.Fatal(format, args...)
}

func (m *VM) readByte() byte {
	f := m.frame()
	b := f.closure.Function.Chunk.Instructions[f.ip]
	f.ip++
	return b
}

func (m *VM) readU16() uint16 {
	f := m.frame()
	v := f.closure.Function.Chunk.ReadU16(f.ip)
	f.ip += 2
	return v
}

func (m *VM) readConstant(idx uint8) interface{} {
	return m.chunk().Constants[idx]
}

// Run executes dispatch to halt or error (spec.md §4.5). On success it
// returns the script's return value (ordinarily Nil, since the
// top-level return trailer pushes Nil).
func (m *VM) Run() (value.Value, error) {
	for {
		if len(m.frames) > maxFrames {
			return value.Nil(), m.runtimeErrorf("stack overflow")
		}
		if len(m.stack) >= stackMax {
			return value.Nil(), m.runtimeErrorf("stack overflow")
		}
		op := bytecode.DecodeOp(m.readByte())
		switch op {
		case bytecode.OpReturn:
			result := m.pop()
			f := m.frame()
			m.closeUpvaluesAbove(f.base)
			m.stack = m.stack[:f.base]
			m.frames = m.frames[:len(m.frames)-1]
			if len(m.frames) == 0 {
				return result, nil
			}
			m.push(result)

		case bytecode.OpNil:
			m.push(value.Nil())
		case bytecode.OpTrue:
			m.push(value.Bool(true))
		case bytecode.OpFalse:
			m.push(value.Bool(false))

		case bytecode.OpConstant:
			idx := m.readByte()
			m.push(m.readConstant(idx).(value.Value))

		case bytecode.OpPop:
			m.pop()

		case bytecode.OpNegate:
			v := m.pop()
			if !v.IsNum() {
				return value.Nil(), m.runtimeErrorf("operand of '-' must be a number, got %s", v.TypeName())
			}
			m.push(value.Num(-v.AsNum()))

		case bytecode.OpNot:
			v := m.pop()
			m.push(value.Bool(v.Falsey()))

		case bytecode.OpAdd:
			b, a := m.pop(), m.pop()
			switch {
			case a.IsNum() && b.IsNum():
				m.push(value.Num(a.AsNum() + b.AsNum()))
			case a.IsString() && b.IsString():
				m.push(value.Obj(value.NewString(a.AsString() + b.AsString())))
			default:
				return value.Nil(), m.runtimeErrorf("operands of '+' must both be numbers or both be strings, got %s and %s", a.TypeName(), b.TypeName())
			}

		case bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv:
			b, a := m.pop(), m.pop()
			if !a.IsNum() || !b.IsNum() {
				return value.Nil(), m.runtimeErrorf("operands must be numbers, got %s and %s", a.TypeName(), b.TypeName())
			}
			switch op {
			case bytecode.OpSub:
				m.push(value.Num(a.AsNum() - b.AsNum()))
			case bytecode.OpMul:
				m.push(value.Num(a.AsNum() * b.AsNum()))
			case bytecode.OpDiv:
				m.push(value.Num(a.AsNum() / b.AsNum()))
			}

		case bytecode.OpEqual:
			b, a := m.pop(), m.pop()
			m.push(value.Bool(a.Equal(b)))

		case bytecode.OpGreater, bytecode.OpLess:
			b, a := m.pop(), m.pop()
			if !a.IsNum() || !b.IsNum() {
				return value.Nil(), m.runtimeErrorf("operands of comparison must be numbers, got %s and %s", a.TypeName(), b.TypeName())
			}
			if op == bytecode.OpGreater {
				m.push(value.Bool(a.AsNum() > b.AsNum()))
			} else {
				m.push(value.Bool(a.AsNum() < b.AsNum()))
			}

		case bytecode.OpPrint:
			fmt.Fprintln(m.Stdout, m.pop().Display())

		case bytecode.OpDefineGlobal:
			idx := m.readByte()
			m.setGlobalSlot(idx, m.pop())

		case bytecode.OpGetGlobal:
			idx := m.readByte()
			if int(idx) >= len(m.globals) || !m.globals[idx].defined {
				return value.Nil(), m.runtimeErrorf("undefined variable '%s'", m.root.Globals.Name(idx))
			}
			m.push(m.globals[idx].value)

		case bytecode.OpSetGlobal:
			idx := m.readByte()
			if int(idx) >= len(m.globals) || !m.globals[idx].defined {
				return value.Nil(), m.runtimeErrorf("undefined variable '%s'", m.root.Globals.Name(idx))
			}
			m.globals[idx] = globalSlot{defined: true, value: m.peek(0)}

		case bytecode.OpGetLocal:
			slot := m.readByte()
			m.push(m.stack[m.frame().base+int(slot)])

		case bytecode.OpSetLocal:
			slot := m.readByte()
			m.stack[m.frame().base+int(slot)] = m.peek(0)

		case bytecode.OpGetUpvalue:
			idx := m.readByte()
			m.push(m.frame().closure.Upvalues[idx].Get())

		case bytecode.OpSetUpvalue:
			idx := m.readByte()
			m.frame().closure.Upvalues[idx].Set(m.peek(0))

		case bytecode.OpCloseUpvalue:
			m.closeUpvaluesAbove(len(m.stack) - 1)
			m.pop()

		case bytecode.OpJumpRel:
			offset := m.readU16()
			m.frame().ip += int(offset)

		case bytecode.OpJumpRelIfFalse:
			offset := m.readU16()
			if m.peek(0).Falsey() {
				m.frame().ip += int(offset)
			}

		case bytecode.OpJumpRelIfTrue:
			offset := m.readU16()
			if m.peek(0).Truthy() {
				m.frame().ip += int(offset)
			}

		case bytecode.OpLoop:
			offset := m.readU16()
			m.frame().ip -= int(offset)

		case bytecode.OpCall:
			argc := int(m.readByte())
			if err := m.call(argc); err != nil {
				return value.Nil(), err
			}

		case bytecode.OpClosure:
			fnIdx := m.readByte()
			fn, ok := m.readConstant(fnIdx).(*value.FunctionObject)
			if !ok {
				return value.Nil(), m.fatalf("closure constant %d is not a function", fnIdx)
			}
			closure := value.NewClosure(fn)
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := m.readByte()
				index := m.readByte()
				if isLocal != 0 {
					closure.Upvalues[i] = m.captureUpvalue(m.frame().base + int(index))
				} else {
					closure.Upvalues[i] = m.frame().closure.Upvalues[index]
				}
			}
			m.push(value.Obj(closure))

		case bytecode.OpInvalid:
			return value.Nil(), m.fatalf("reached invalid opcode at ip %d", m.frame().ip-1)

		default:
			return value.Nil(), m.fatalf("unhandled opcode %v", op)
		}
	}
}

// call implements spec.md §4.5's Call protocol.
func (m *VM) call(argc int) error {
	callee := m.peek(argc)
	if !callee.IsObject() {
		return m.runtimeErrorf("can only call functions")
	}
	switch obj := callee.AsObject().(type) {
	case *value.ClosureObject:
		if argc != obj.Function.Arity {
			return m.runtimeErrorf("expected %d arguments but got %d", obj.Function.Arity, argc)
		}
		m.frames = append(m.frames, CallFrame{
			closure: obj,
			ip:      0,
			base:    len(m.stack) - argc - 1,
		})
		return nil
	case *value.NativeObject:
		if argc != obj.Arity {
			return m.runtimeErrorf("expected %d arguments but got %d", obj.Arity, argc)
		}
		args := make([]value.Value, argc)
		copy(args, m.stack[len(m.stack)-argc:])
		result, err := obj.Fn(args)
		if err != nil {
			return m.runtimeErrorf("%v", err)
		}
		m.stack = m.stack[:len(m.stack)-argc-1]
		m.push(result)
		return nil
	default:
		return m.runtimeErrorf("can only call functions")
	}
}

// captureUpvalue implements spec.md §4.5/§9: return an existing open
// upvalue for stackIndex if one is already tracked, else insert a new
// one keeping the list sorted descending by StackIndex.
func (m *VM) captureUpvalue(stackIndex int) *value.Upvalue {
	for _, uv := range m.open {
		if uv.StackIndex == stackIndex {
			return uv
		}
	}
	uv := value.NewOpenUpvalue(&m.stack[stackIndex], stackIndex)
	m.open = append(m.open, uv)
	slices.SortFunc(m.open, func(a, b *value.Upvalue) int {
		return b.StackIndex - a.StackIndex
	})
	return uv
}

// closeUpvaluesAbove implements spec.md §4.5: close every open upvalue
// with stack index >= base, removing it from the open list.
func (m *VM) closeUpvaluesAbove(base int) {
	i := 0
	for i < len(m.open) && m.open[i].StackIndex >= base {
		m.open[i].Close()
		i++
	}
	m.open = m.open[i:]
}
