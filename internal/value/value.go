// Package value implements the tagged Value union and heap Object
// variants of spec.md §3 (component C1).
package value

import "strconv"

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNum
	KindObject
)

// Value is a tagged union: Num(f64), Bool, Nil, Object(heap-ref).
// It is small and copied by value, the way the spec describes values
// as stack-resident and cheap to copy.
type Value struct {
	kind Kind
	num  float64
	b    bool
	obj  Object
}

func Nil() Value           { return Value{kind: KindNil} }
func Bool(b bool) Value    { return Value{kind: KindBool, b: b} }
func Num(n float64) Value  { return Value{kind: KindNum, num: n} }
func Obj(o Object) Value   { return Value{kind: KindObject, obj: o} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNum() bool    { return v.kind == KindNum }
func (v Value) IsObject() bool { return v.kind == KindObject }

func (v Value) AsBool() bool     { return v.b }
func (v Value) AsNum() float64   { return v.num }
func (v Value) AsObject() Object { return v.obj }

// IsString reports whether v holds a string object.
func (v Value) IsString() bool {
	_, ok := v.obj.(*StringObject)
	return v.kind == KindObject && ok
}

// AsString returns the Go string content; only valid when IsString.
func (v Value) AsString() string {
	return v.obj.(*StringObject).Chars
}

// Truthy implements spec.md §3: false and Nil are falsey, everything
// else (including 0 and "") is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.b
	default:
		return true
	}
}

func (v Value) Falsey() bool { return !v.Truthy() }

// Equal implements spec.md §3: same-variant structural compare;
// cross-variant is always false. String objects compare by content;
// other objects compare by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == other.b
	case KindNum:
		return v.num == other.num
	case KindObject:
		if vs, ok := v.obj.(*StringObject); ok {
			if os, ok := other.obj.(*StringObject); ok {
				return vs.Chars == os.Chars
			}
			return false
		}
		return v.obj == other.obj
	default:
		return false
	}
}

// Display renders v the way spec.md §6 requires for `Print`.
func (v Value) Display() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNum:
		return formatNum(v.num)
	case KindObject:
		return v.obj.Display()
	default:
		return "<invalid value>"
	}
}

// TypeName names v's runtime type for diagnostics.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNum:
		return "number"
	case KindObject:
		return v.obj.TypeName()
	default:
		return "invalid"
	}
}

// formatNum renders a float64 using the natural decimal form spec.md
// §6 describes: "1" for whole numbers, "1.5" for fractionals.
func formatNum(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
