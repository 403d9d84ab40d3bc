package natives

import (
	"github.com/dustin/go-humanize"

	"lumen/internal/value"
)

// humanizeNatives wires github.com/dustin/go-humanize in as two
// formatting natives, in the spirit of the teacher's
// format_timestamp/datetime natives: a host formatting helper exposed
// as a language builtin (SPEC_FULL.md domain stack).
func humanizeNatives() []value.NativeDef {
	return []value.NativeDef{
		{
			Name:  "humanize_bytes",
			Arity: 1,
			Fn: func(args []value.Value) (value.Value, error) {
				n, err := wantNum("humanize_bytes", args, 0)
				if err != nil {
					return value.Nil(), err
				}
				return value.Obj(value.NewString(humanize.Bytes(uint64(n)))), nil
			},
		},
		{
			Name:  "humanize_comma",
			Arity: 1,
			Fn: func(args []value.Value) (value.Value, error) {
				n, err := wantNum("humanize_comma", args, 0)
				if err != nil {
					return value.Nil(), err
				}
				return value.Obj(value.NewString(humanize.Comma(int64(n)))), nil
			},
		},
	}
}
