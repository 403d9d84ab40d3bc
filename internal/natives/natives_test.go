package natives

import (
	"testing"

	"lumen/internal/value"
)

func findNative(t *testing.T, name string) value.NativeDef {
	t.Helper()
	for _, d := range All() {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no native registered as %q", name)
	return value.NativeDef{}
}

func argsOf(t *testing.T, strs ...string) []value.Value {
	t.Helper()
	out := make([]value.Value, len(strs))
	for i, s := range strs {
		out[i] = value.Obj(value.NewString(s))
	}
	return out
}

func argsOfNum(t *testing.T, nums ...float64) []value.Value {
	t.Helper()
	out := make([]value.Value, len(nums))
	for i, n := range nums {
		out[i] = value.Num(n)
	}
	return out
}

func TestAllNativesHaveUniqueNonEmptyNames(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range All() {
		if d.Name == "" {
			t.Fatal("native with empty name")
		}
		if seen[d.Name] {
			t.Fatalf("duplicate native name %q", d.Name)
		}
		seen[d.Name] = true
		if d.Fn == nil {
			t.Fatalf("native %q has nil implementation", d.Name)
		}
		if d.Arity < 0 {
			t.Fatalf("native %q has negative arity", d.Name)
		}
	}
}

func TestUUIDNativeReturnsNonEmptyString(t *testing.T) {
	got, err := findNative(t, "uuid").Fn(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsString() || got.AsString() == "" {
		t.Fatalf("expected non-empty string, got %#v", got)
	}
}

func TestUUIDNativeProducesDistinctValues(t *testing.T) {
	fn := findNative(t, "uuid").Fn
	a, err := fn(nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := fn(nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.AsString() == b.AsString() {
		t.Fatal("expected two calls to uuid() to produce different values")
	}
}

func TestHashAndCheckHashRoundTrip(t *testing.T) {
	hash := findNative(t, "hash")
	check := findNative(t, "check_hash")

	digest, err := hash.Fn(argsOf(t, "s3cret"))
	if err != nil {
		t.Fatal(err)
	}
	ok, err := check.Fn(argsOf(t, "s3cret", digest.AsString()))
	if err != nil {
		t.Fatal(err)
	}
	if !ok.Truthy() {
		t.Fatal("expected check_hash to accept the correct password")
	}

	bad, err := check.Fn(argsOf(t, "wrong", digest.AsString()))
	if err != nil {
		t.Fatal(err)
	}
	if bad.Truthy() {
		t.Fatal("expected check_hash to reject the wrong password")
	}
}

func TestHumanizeBytesFormatsSize(t *testing.T) {
	got, err := findNative(t, "humanize_bytes").Fn(argsOfNum(t, 1024))
	if err != nil {
		t.Fatal(err)
	}
	if got.AsString() == "" {
		t.Fatal("expected non-empty humanized size")
	}
}

func TestStrftimeFormatsEpoch(t *testing.T) {
	args := []value.Value{value.Obj(value.NewString("%Y")), value.Num(0)}
	got, err := findNative(t, "strftime").Fn(args)
	if err != nil {
		t.Fatal(err)
	}
	if got.AsString() != "1970" {
		t.Fatalf("expected epoch 0 formatted with %%Y to be 1970, got %q", got.AsString())
	}
}
