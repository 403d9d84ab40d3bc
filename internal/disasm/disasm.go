// Package disasm implements spec.md component C6's disassembler
// (§4.6): given a Chunk, produce one human-readable line per
// instruction, used by tests to verify bytecode well-formedness and
// by the CLI's optional --dump surface.
package disasm

import (
	"fmt"
	"strings"

	"lumen/internal/bytecode"
	"lumen/internal/value"
)

// Line is one decoded instruction (spec.md §4.6).
type Line struct {
	Offset   int
	Mnemonic string
	Operand  string
	Span     bytecode.Span
}

// Disassemble decodes every instruction in chunk in order. Unknown
// opcodes decode to Invalid and instructions are walked by their
// declared operand width, so callers can use the returned lines to
// check well-formedness (spec.md §8: disassembly must consume exactly
// len(Instructions) bytes). Operand reads are not bounds-checked: a
// truncated operand at the end of the stream, or a Closure whose
// constant index is out of range, panics.
func Disassemble(chunk *bytecode.Chunk, name string) []Line {
	var lines []Line
	ip := 0
	for ip < len(chunk.Instructions) {
		offset := ip
		op := bytecode.DecodeOp(chunk.Instructions[ip])
		span := bytecode.Span{}
		if ip < len(chunk.Spans) {
			span = chunk.Spans[ip]
		}
		ip++

		operand := ""
		switch op {
		case bytecode.OpConstant:
			idx := chunk.Instructions[ip]
			ip++
			operand = fmt.Sprintf("%d %s", idx, previewConstant(chunk, idx))

		case bytecode.OpDefineGlobal, bytecode.OpGetGlobal, bytecode.OpSetGlobal:
			idx := chunk.Instructions[ip]
			ip++
			operand = fmt.Sprintf("%d '%s'", idx, chunk.Globals.Name(idx))

		case bytecode.OpGetLocal, bytecode.OpSetLocal, bytecode.OpGetUpvalue, bytecode.OpSetUpvalue, bytecode.OpCall:
			idx := chunk.Instructions[ip]
			ip++
			operand = fmt.Sprintf("%d", idx)

		case bytecode.OpJumpRel, bytecode.OpJumpRelIfFalse, bytecode.OpJumpRelIfTrue:
			off := chunk.ReadU16(ip)
			operand = fmt.Sprintf("+%d -> %d", off, offset+3+int(off))
			ip += 2

		case bytecode.OpLoop:
			off := chunk.ReadU16(ip)
			operand = fmt.Sprintf("-%d -> %d", off, offset+3-int(off))
			ip += 2

		case bytecode.OpClosure:
			fnIdx := chunk.Instructions[ip]
			ip++
			var trailer []string
			if fn, ok := chunk.Constants[fnIdx].(*value.FunctionObject); ok {
				for i := 0; i < fn.UpvalueCount && ip+1 < len(chunk.Instructions); i++ {
					isLocal := chunk.Instructions[ip]
					index := chunk.Instructions[ip+1]
					ip += 2
					kind := "upvalue"
					if isLocal != 0 {
						kind = "local"
					}
					trailer = append(trailer, fmt.Sprintf("%s(%s %d)", kind, kind, index))
				}
			}
			operand = fmt.Sprintf("%d %s [%s]", fnIdx, previewConstant(chunk, fnIdx), strings.Join(trailer, ", "))
		}

		lines = append(lines, Line{Offset: offset, Mnemonic: op.String(), Operand: operand, Span: span})
	}
	return lines
}

func previewConstant(chunk *bytecode.Chunk, idx uint8) string {
	if int(idx) >= len(chunk.Constants) {
		return "<out of range>"
	}
	switch v := chunk.Constants[idx].(type) {
	case value.Value:
		return v.Display()
	case *value.FunctionObject:
		return v.Display()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Format renders lines the way spec.md §4.6 describes: byte offset, a
// span excerpt from source, the mnemonic, and its operand suffix.
func Format(source string, lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		snippet := excerptAt(source, l.Span)
		fmt.Fprintf(&b, "%04d  %-16s %-20s ; %s\n", l.Offset, l.Mnemonic, l.Operand, snippet)
	}
	return b.String()
}

func excerptAt(source string, span bytecode.Span) string {
	start, end := span.Start, span.End
	if start < 0 || start > len(source) {
		return ""
	}
	if end > len(source) {
		end = len(source)
	}
	if start >= end {
		return ""
	}
	return source[start:end]
}
