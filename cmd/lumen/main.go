// Command lumen runs a lumen script: scan, parse, compile, execute.
// Exit codes follow spec.md §6: 0 success, 1 compile error, 2 runtime
// error. It mirrors the teacher's cmd/sentra `run` subcommand — read
// file, scan, parse with source attached for error reporting, compile,
// execute — trimmed to the single pipeline this VM supports.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"lumen/internal/compiler"
	"lumen/internal/diagnostics"
	"lumen/internal/disasm"
	"lumen/internal/lexer"
	"lumen/internal/natives"
	"lumen/internal/parser"
	"lumen/internal/vm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("lumen", flag.ContinueOnError)
	dump := fs.Bool("dump", false, "print disassembled bytecode instead of executing")
	verbose := fs.Bool("v", false, "log process-level events (file read, compile, run) to stderr")
	dbDriver := fs.String("db-driver", "", "database/sql driver name; only logged under -v (db_open's first argument selects the driver)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: lumen [-dump] [-v] [-db-driver name] <script.lox>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}
	path := fs.Arg(0)

	logger := log.New(os.Stderr, "lumen: ", 0)
	logf := func(format string, a ...interface{}) {
		if *verbose {
			logger.Printf(format, a...)
		}
	}
	if *dbDriver != "" {
		logf("db-driver %q requested; drivers are registered by blank import, not by flag", *dbDriver)
	}

	useColor := isatty.IsTerminal(os.Stderr.Fd())

	logf("reading %s", path)
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumen: could not read %s: %v\n", path, err)
		return 1
	}

	logf("scanning %s", path)
	tokens, err := lexer.New(string(source)).ScanTokens()
	if err != nil {
		reportCompileError(os.Stderr, string(source), err, useColor)
		return 1
	}

	logf("parsing %s", path)
	stmts, err := parser.ParseProgram(tokens)
	if err != nil {
		reportCompileError(os.Stderr, string(source), err, useColor)
		return 1
	}

	logf("compiling %s", path)
	script, diags := compiler.CompileProgram(stmts, natives.All())
	if diags.HasErrors() {
		for _, d := range diags.Diagnostics() {
			reportDiagnostic(os.Stderr, string(source), d, useColor)
		}
		return 1
	}

	if *dump {
		lines := disasm.Disassemble(script.Chunk, "script")
		fmt.Fprint(os.Stdout, disasm.Format(string(source), lines))
		return 0
	}

	logf("running %s", path)
	m := vm.New(script)
	if _, err := m.Run(); err != nil {
		if rerr, ok := err.(*vm.RuntimeError); ok {
			reportDiagnostic(os.Stderr, string(source), rerr.Diag, useColor)
			return 2
		}
		fmt.Fprintf(os.Stderr, "lumen: internal error: %v\n", err)
		return 2
	}
	return 0
}

func reportDiagnostic(w *os.File, source string, d *diagnostics.Diagnostic, useColor bool) {
	if useColor {
		fmt.Fprint(w, "\x1b[31m")
	}
	fmt.Fprint(w, d.Report(source))
	if useColor {
		fmt.Fprint(w, "\x1b[0m")
	}
}

// reportCompileError handles the plain (non-Diagnostic) errors the
// lexer and parser collaborator returns (spec.md §1, §6): they carry a
// message but not a structured span, so they are reported as a bare
// CompileError line.
func reportCompileError(w *os.File, source string, err error, useColor bool) {
	if useColor {
		fmt.Fprint(w, "\x1b[31m")
	}
	fmt.Fprintf(w, "%s: %v\n", diagnostics.CompileError, err)
	if useColor {
		fmt.Fprint(w, "\x1b[0m")
	}
}
