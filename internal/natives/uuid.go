package natives

import (
	"github.com/google/uuid"

	"lumen/internal/value"
)

// uuidNatives exposes github.com/google/uuid as the single `uuid()`
// native, the way the teacher's stdlib exposes one host library call
// per builtin (spec.md §6, SPEC_FULL.md domain stack).
func uuidNatives() []value.NativeDef {
	return []value.NativeDef{
		{
			Name:  "uuid",
			Arity: 0,
			Fn: func(args []value.Value) (value.Value, error) {
				return value.Obj(value.NewString(uuid.NewString())), nil
			},
		},
	}
}
