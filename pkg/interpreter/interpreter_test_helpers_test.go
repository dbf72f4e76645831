package interpreter

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

// harness wires an interpreter with a setTestOutput native that records its
// argument, plus captured stdout and diagnostics.
type harness struct {
	interp    *Interpreter
	stdout    *bytes.Buffer
	collector *diag.Collector
	output    runtime.Value
}

func newHarness() *harness {
	h := &harness{stdout: &bytes.Buffer{}, collector: diag.NewCollector(nil), output: runtime.Nil}
	sink := runtime.NewNative("setTestOutput", 1, func(_ runtime.Evaluator, args []runtime.Value) (runtime.Value, error) {
		h.output = args[0]
		return runtime.Nil, nil
	})
	h.interp = New(
		WithStdout(h.stdout),
		WithReporter(h.collector.Reporter()),
		WithNative("setTestOutput", sink),
	)
	return h
}

func parseProgram(t *testing.T, source string) []ast.Statement {
	t.Helper()
	tokens, scanErrs := scanner.Scan(source, nil)
	require.Zero(t, scanErrs)
	collector := diag.NewCollector(nil)
	program, parseErrs := parser.Parse(tokens, collector.Reporter())
	require.Zero(t, parseErrs, "parse errors: %v", collector.Messages())
	return program
}

// run parses, requires a clean resolve, and interprets source.
func (h *harness) run(t *testing.T, source string) error {
	t.Helper()
	program := parseProgram(t, source)
	require.Empty(t, resolver.Resolve(program, nil), "resolver diagnostics for %q", source)
	return h.interp.Interpret(context.Background(), program)
}

func (h *harness) mustRun(t *testing.T, source string) runtime.Value {
	t.Helper()
	require.NoError(t, h.run(t, source))
	return h.output
}

// eval evaluates a single expression through the setTestOutput native.
func (h *harness) eval(t *testing.T, expr string) runtime.Value {
	t.Helper()
	return h.mustRun(t, "setTestOutput("+expr+");")
}

func (h *harness) runtimeError(t *testing.T, source string) *RuntimeError {
	t.Helper()
	err := h.interp.Interpret(context.Background(), parseProgram(t, source))
	require.Error(t, err)
	rtErr, ok := err.(*RuntimeError)
	require.True(t, ok, "expected *RuntimeError, got %T (%v)", err, err)
	return rtErr
}
