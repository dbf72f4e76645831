package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/token"
)

func TestParseStatements(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"print", `print 1 + 2;`, `(print (+ 1 2))`},
		{"expression", `a;`, `(; a)`},
		{"var without initializer", `var a;`, `(var a)`},
		{"var with initializer", `var a = "x";`, `(var a "x")`},
		{"block", `{ var a = 1; print a; }`, `{(var a 1) (print a)}`},
		{"empty block", `{}`, `{}`},
		{"if without else", `if (a) print 1;`, `(if a (print 1) {})`},
		{"if with else", `if (a) print 1; else print 2;`, `(if a (print 1) (print 2))`},
		{"dangling else binds inner", `if (a) if (b) print 1; else print 2;`, `(if a (if b (print 1) (print 2)) {})`},
		{"while", `while (a < 3) a = a + 1;`, `(while (< a 3) (; (= a (+ a 1))))`},
		{"function", `fun add(a, b) { return a + b; }`, `(fun add (a b) {(return (+ a b))})`},
		{"function without params", `fun f() {}`, `(fun f () {})`},
		{"return without value", `fun f() { return; }`, `(fun f () {(return nil)})`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, renderAll(mustParse(t, tc.source)))
		})
	}
}

func TestParseForDesugaring(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{
			`for (var i = 0; i < 3; i = i + 1) print i;`,
			`{(var i 0) (while (< i 3) {(print i) (; (= i (+ i 1)))})}`,
		},
		{
			`for (; i < 3;) print i;`,
			`{(while (< i 3) (print i))}`,
		},
		{
			`for (i = 0;;) {}`,
			`{(; (= i 0)) (while true {})}`,
		},
		{
			`for (var i = 0; i < 2; ++i) {}`,
			`{(var i 0) (while (< i 2) {{} (; (= i (++ i)))})}`,
		},
	}
	for _, tc := range cases {
		program := mustParse(t, tc.source)
		require.Len(t, program, 1, "parse %q", tc.source)
		require.IsType(t, &ast.BlockStatement{}, program[0])
		require.Equal(t, tc.want, render(program[0]), "parse %q", tc.source)
	}
}

func TestParseReturnKeepsKeywordPosition(t *testing.T) {
	program := mustParse(t, "fun f() {\n\n  return 1;\n}")
	fn := program[0].(*ast.FunctionStatement)
	ret := fn.Body.Body[0].(*ast.ReturnStatement)
	require.Equal(t, token.Return, ret.Keyword.Kind)
	require.Equal(t, 3, ret.Keyword.Line)
}

func TestParseErrorAbortsWholeProgram(t *testing.T) {
	program, collector := parseSource(t, "print 1;\nprint 2\nprint 3;")
	require.Empty(t, program, "got %s", renderAll(program))
	require.Equal(t, []string{"[line 3] Error at 'print': Expect ';' after value."}, collector.Messages())
}

func TestParseErrorAtEnd(t *testing.T) {
	program, collector := parseSource(t, "var a = 1")
	require.Empty(t, program)
	require.Equal(t, []string{"[line 1] Error at end: Expect ';' after variable declaration."}, collector.Messages())
}

func TestParseMissingBraces(t *testing.T) {
	for _, source := range []string{"{ print 1;", "fun f() print 1;", "if (a print 1;", "while a) {}"} {
		program, collector := parseSource(t, source)
		require.Empty(t, program, source)
		require.Equal(t, 1, collector.Count(diag.PhaseParse), "%q: %v", source, collector.Messages())
	}
}
