package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets the lumen binary run in-process under testscript, the
// way github.com/rogpeppe/go-internal/testscript expects: a `lumen`
// command registered via testscript.Main, driven by `exec lumen ...`
// lines in the .txtar scripts under testdata/script.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"lumen": func() int { return run(os.Args[1:]) },
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
