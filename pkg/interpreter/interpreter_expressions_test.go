package interpreter

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

func TestArithmetic(t *testing.T) {
	cases := map[string]float64{
		"1 + 2 + 3":      6,
		"-1 - 2 - 3":     -6,
		"-1 + -3 - -27":  23,
		"10 / 2":         5,
		"1 + 2 * 3":      7,
		"1 * 2 + 3":      5,
		"1 - 2 / 4":      0.5,
		"1 / 2 + 4":      4.5,
		"(1 + 2) * 3":    9,
		"4 * (2 + 3)":    20,
		"- (5 + 5)":      -10,
		"-(-10)":         10,
		"-(-(-10))":      -10,
		"1.5 * 2 - 0.25": 2.75,
	}
	for source, want := range cases {
		h := newHarness()
		require.Equal(t, runtime.Number(want), h.eval(t, source), source)
	}
}

func TestComparisons(t *testing.T) {
	cases := map[string]bool{
		"0.0 > 0.0":  false,
		"0.1 > 0.0":  true,
		"0.0 > 0.1":  false,
		"0.0 >= 0.0": true,
		"0.1 >= 0.0": true,
		"0.0 >= 0.1": false,
		"0.0 < 0.0":  false,
		"0.1 < 0.0":  false,
		"0.0 < 0.1":  true,
		"0.0 <= 0.0": true,
		"0.1 <= 0.0": false,
		"0.0 <= 0.1": true,
	}
	for source, want := range cases {
		h := newHarness()
		require.Equal(t, runtime.Bool(want), h.eval(t, source), source)
	}
}

func TestNumberComparisonFuzz(t *testing.T) {
	h := newHarness()
	format := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	for a := -10; a < 10; a++ {
		for b := -10; b < 10; b++ {
			left, right := float64(a)/10.0, float64(b)/10.0
			l, r := format(left), format(right)
			require.Equal(t, runtime.Bool(left == right), h.eval(t, l+" == "+r))
			require.Equal(t, runtime.Bool(left != right), h.eval(t, l+" != "+r))
			require.Equal(t, runtime.Bool(left > right), h.eval(t, l+" > "+r))
			require.Equal(t, runtime.Bool(left >= right), h.eval(t, l+" >= "+r))
			require.Equal(t, runtime.Bool(left < right), h.eval(t, l+" < "+r))
			require.Equal(t, runtime.Bool(left <= right), h.eval(t, l+" <= "+r))
		}
	}
}

func TestStringConcatenation(t *testing.T) {
	h := newHarness()
	require.Equal(t, runtime.String("Hello World"), h.eval(t, `"Hello" + " " + "World"`))
	require.Equal(t, runtime.String("n = 3"), h.eval(t, `"n = " + 3`))
	require.Equal(t, runtime.String("ok: true nil"), h.eval(t, `"ok: " + true + " " + nil`))
}

func TestPlusRejectsMixedOperands(t *testing.T) {
	h := newHarness()
	rtErr := h.runtimeError(t, `print 1 + "a";`)
	require.Equal(t, "Expected two numbers or two strings.", rtErr.Message)
	require.Equal(t, "+", rtErr.Lexeme)
}

func TestArithmeticRequiresNumbers(t *testing.T) {
	h := newHarness()
	rtErr := h.runtimeError(t, "print true * 2;")
	require.Equal(t, "Expected two numbers.", rtErr.Message)
	rtErr = h.runtimeError(t, `print "a" < "b";`)
	require.Equal(t, "Expected two numbers.", rtErr.Message)
}

func TestNegationAndNot(t *testing.T) {
	h := newHarness()
	require.Equal(t, runtime.Bool(false), h.eval(t, "!true"))
	require.Equal(t, runtime.Bool(true), h.eval(t, "!false"))

	for _, source := range []string{"print -false;", "print -nil;"} {
		require.Equal(t, "Expected number.", h.runtimeError(t, source).Message)
	}
	for _, source := range []string{"print !10;", "print !nil;"} {
		require.Equal(t, "Expected boolean.", h.runtimeError(t, source).Message)
	}
}

func TestChainedEquality(t *testing.T) {
	h := newHarness()
	require.Equal(t, runtime.Bool(false), h.eval(t, "5 == 5 == 5"))
	require.Equal(t, runtime.Bool(true), h.eval(t, "5 == 5 == 5 == false"))
}

func TestEquality(t *testing.T) {
	cases := map[string]bool{
		"true == true":   true,
		"true == false":  false,
		"false == false": true,
		"true != true":   false,
		"true != false":  true,
		"nil == nil":     true,
		"nil == 5.0":     false,
		"nil == false":   false,
		"0.0 == 0.0":     true,
		"-5.0 == 0.0":    false,
		"5.0 == 4.9":     false,
		"5.0 != 4.9":     true,
		`"a" == "a"`:     true,
		`"5" == 5`:       false,
		"clock == clock": true,
	}
	for source, want := range cases {
		h := newHarness()
		require.Equal(t, runtime.Bool(want), h.eval(t, source), source)
	}
}

func TestDivisionByZeroFollowsFloatSemantics(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run(t, "print 1 / 0;\nprint -1 / 0;"))
	require.Equal(t, "Infinity\n-Infinity\n", h.stdout.String())
}

func TestEvaluateExpression(t *testing.T) {
	h := newHarness()
	h.mustRun(t, "var a = 20;")
	tokens, _ := scanner.Scan("a / 8", nil)
	expr, err := parser.ParseExpression(tokens, nil)
	require.NoError(t, err)
	val, err := h.interp.Evaluate(context.Background(), expr)
	require.NoError(t, err)
	require.Equal(t, runtime.Number(2.5), val)
}

func TestEvaluateReportsRuntimeError(t *testing.T) {
	h := newHarness()
	_, err := h.interp.Evaluate(context.Background(), ast.Var("missing"))
	require.Error(t, err)
	require.Equal(t, []string{"Error at 'missing': Undefined variable 'missing'."}, h.collector.Messages())
}

func TestRuntimeErrorFormatting(t *testing.T) {
	err := &RuntimeError{Line: 4, Lexeme: "+", Message: "Expected two numbers."}
	require.Equal(t, "[line 4] Error at '+': Expected two numbers.", err.Error())
	require.Equal(t, fmt.Sprintf("[line %d] Error: boom", 2), (&RuntimeError{Line: 2, Message: "boom"}).Error())
}
