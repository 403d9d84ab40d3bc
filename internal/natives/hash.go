package natives

import (
	"golang.org/x/crypto/bcrypt"

	"lumen/internal/value"
)

// hashNatives wires golang.org/x/crypto/bcrypt in as a one-way
// password hashing pair (SPEC_FULL.md domain stack).
func hashNatives() []value.NativeDef {
	return []value.NativeDef{
		{
			Name:  "hash",
			Arity: 1,
			Fn: func(args []value.Value) (value.Value, error) {
				s, err := wantString("hash", args, 0)
				if err != nil {
					return value.Nil(), err
				}
				digest, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
				if err != nil {
					return value.Nil(), err
				}
				return value.Obj(value.NewString(string(digest))), nil
			},
		},
		{
			Name:  "check_hash",
			Arity: 2,
			Fn: func(args []value.Value) (value.Value, error) {
				s, err := wantString("check_hash", args, 0)
				if err != nil {
					return value.Nil(), err
				}
				digest, err := wantString("check_hash", args, 1)
				if err != nil {
					return value.Nil(), err
				}
				ok := bcrypt.CompareHashAndPassword([]byte(digest), []byte(s)) == nil
				return value.Bool(ok), nil
			},
		},
	}
}
