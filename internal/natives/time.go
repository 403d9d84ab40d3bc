package natives

import (
	"time"

	"github.com/ncruces/go-strftime"

	"lumen/internal/value"
)

// timeNatives exposes github.com/ncruces/go-strftime as `strftime`,
// analogous to the teacher's date/now/format_timestamp natives but
// driven by a real strftime implementation instead of a hand-rolled
// layout string (SPEC_FULL.md domain stack).
func timeNatives() []value.NativeDef {
	return []value.NativeDef{
		{
			Name:  "strftime",
			Arity: 2,
			Fn: func(args []value.Value) (value.Value, error) {
				layout, err := wantString("strftime", args, 0)
				if err != nil {
					return value.Nil(), err
				}
				epoch, err := wantNum("strftime", args, 1)
				if err != nil {
					return value.Nil(), err
				}
				t := time.Unix(int64(epoch), 0).UTC()
				out := strftime.Format(layout, t)
				return value.Obj(value.NewString(out)), nil
			},
		},
	}
}
