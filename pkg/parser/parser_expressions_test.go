package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/scanner"
)

func TestParseExpressionPrecedence(t *testing.T) {
	cases := map[string]string{
		`1 + 2 * 3`:              `(+ 1 (* 2 3))`,
		`1 * 2 + 3`:              `(+ (* 1 2) 3)`,
		`1 - 2 / 4`:              `(- 1 (/ 2 4))`,
		`(1 + 2) * 3`:            `(* (group (+ 1 2)) 3)`,
		`-1 + -3 - -27`:          `(- (+ (- 1) (- 3)) (- 27))`,
		`!!true`:                 `(! (! true))`,
		`1 < 2 == 3 >= 4`:        `(== (< 1 2) (>= 3 4))`,
		`5 == 5 == 5`:            `(== (== 5 5) 5)`,
		`"a" + "b" + "c"`:        `(+ (+ "a" "b") "c")`,
		`a = b = 3`:              `(= a (= b 3))`,
		`f(1)(2, x)`:             `(call (call f 1) 2 x)`,
		`f()`:                    `(call f)`,
		`nil != false`:           `(!= nil false)`,
		`a or b`:                 `(or a b)`,
		`a and b or c`:           `(and a (or b c))`,
		`a or b and c`:           `(or a (and b c))`,
		`a == b and c == d`:      `(and (== a b) (== c d))`,
		`false and a = true`:     `(and false (= a true))`,
		`x = a or b`:             `(= x (or a b))`,
		`a and b and c`:          `(and a (and b c))`,
		`++a`:                    `(= a (++ a))`,
		`--a`:                    `(= a (-- a))`,
		`a++`:                    `(= a (post++ a))`,
		`a--`:                    `(= a (post-- a))`,
		`-a++`:                   `(- (= a (post++ a)))`,
		`b = a++`:                `(= b (= a (post++ a)))`,
		`1.5`:                    `1.5`,
		`"str"`:                  `"str"`,
		`clock() - start < 10.0`: `(< (- (call clock) start) 10)`,
	}
	for source, want := range cases {
		require.Equal(t, want, render(mustParseExpr(t, source)), "parse %q", source)
	}
}

func TestParseInvalidAssignmentTargetPassesThrough(t *testing.T) {
	program, collector := parseSource(t, "1 + 2 = 3;\nprint 4;")
	require.Equal(t, `(; 3) (print 4)`, renderAll(program))
	require.Equal(t, []string{"[line 1] Error at '=': Invalid assignment target."}, collector.Messages())
}

func TestParseInvalidIncrementTarget(t *testing.T) {
	program, collector := parseSource(t, "++1;\n(a)++;")
	require.Equal(t, `(; 1) (; (group a))`, renderAll(program))
	require.Equal(t, 2, collector.Count(diag.PhaseParse), "diagnostics %v", collector.Messages())
}

func TestParseArgumentOverflowTruncates(t *testing.T) {
	args := make([]string, 0, 260)
	for i := 0; i < 260; i++ {
		args = append(args, fmt.Sprint(i))
	}
	program, collector := parseSource(t, "f("+strings.Join(args, ", ")+");\nprint 1;")
	require.Len(t, program, 2, "argument overflow must not abort the parse")
	call := program[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	require.Len(t, call.Arguments, maxArguments)
	require.Equal(t, []string{"[line 1] Error at '255': Can't have more than 255 arguments."}, collector.Messages())
}

func TestParseParameterOverflow(t *testing.T) {
	params := make([]string, 0, 256)
	for i := 0; i < 256; i++ {
		params = append(params, fmt.Sprintf("p%d", i))
	}
	program, collector := parseSource(t, "fun f("+strings.Join(params, ", ")+") {}")
	require.Len(t, program, 1)
	require.Equal(t, 1, collector.Count(diag.PhaseParse), "diagnostics %v", collector.Messages())
}

func TestParseExpressionMissingOperand(t *testing.T) {
	tokens, _ := scanner.Scan("1 +", nil)
	collector := diag.NewCollector(nil)
	_, err := ParseExpression(tokens, collector.Reporter())
	require.ErrorIs(t, err, ErrSyntax)
	require.Equal(t, []string{"[line 1] Error at end: Expect expression."}, collector.Messages())
}

func TestParseExpressionRejectsTrailingTokens(t *testing.T) {
	tokens, _ := scanner.Scan("1 2", nil)
	_, err := ParseExpression(tokens, nil)
	require.ErrorIs(t, err, ErrSyntax)
}

func TestParseToleratesMissingEOF(t *testing.T) {
	tokens, _ := scanner.Scan("print 1;", nil)
	program, errs := Parse(tokens[:len(tokens)-1], nil)
	require.Zero(t, errs)
	require.Len(t, program, 1)
}
