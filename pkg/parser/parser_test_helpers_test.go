package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

func parseSource(t testing.TB, source string) ([]ast.Statement, *diag.Collector) {
	t.Helper()
	collector := diag.NewCollector(nil)
	tokens, scanErrs := scanner.Scan(source, collector.Reporter())
	require.Zero(t, scanErrs, "scan errors: %v", collector.Messages())
	program, errs := Parse(tokens, collector.Reporter())
	require.Equal(t, collector.Count(diag.PhaseParse), errs, "error count vs reported %v", collector.Messages())
	return program, collector
}

func mustParse(t testing.TB, source string) []ast.Statement {
	t.Helper()
	program, collector := parseSource(t, source)
	require.Empty(t, collector.Messages())
	return program
}

func mustParseExpr(t testing.TB, source string) ast.Expression {
	t.Helper()
	tokens, _ := scanner.Scan(source, nil)
	collector := diag.NewCollector(nil)
	expr, err := ParseExpression(tokens, collector.Reporter())
	require.NoError(t, err, "ParseExpression(%q): %v", source, collector.Messages())
	return expr
}

// render prints nodes as s-expressions so tests can compare tree shapes
// without caring about token positions.
func render(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Literal:
		if s, ok := n.Value.(runtime.StringValue); ok {
			return fmt.Sprintf("%q", s.Val)
		}
		return runtime.Stringify(n.Value)
	case *ast.Variable:
		return n.Name
	case *ast.Grouping:
		return "(group " + render(n.Expression) + ")"
	case *ast.UnaryExpression:
		op := n.Operator.String()
		if n.Operator.IsPostfix() {
			op = "post" + op
		}
		return "(" + op + " " + render(n.Operand) + ")"
	case *ast.BinaryExpression:
		return "(" + n.Operator.Lexeme + " " + render(n.Left) + " " + render(n.Right) + ")"
	case *ast.LogicalExpression:
		return "(" + n.Operator.Lexeme + " " + render(n.Left) + " " + render(n.Right) + ")"
	case *ast.AssignmentExpression:
		return "(= " + n.Target.Name + " " + render(n.Value) + ")"
	case *ast.CallExpression:
		parts := []string{"call", render(n.Callee)}
		for _, arg := range n.Arguments {
			parts = append(parts, render(arg))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ast.PrintStatement:
		return "(print " + render(n.Expression) + ")"
	case *ast.ExpressionStatement:
		return "(; " + render(n.Expression) + ")"
	case *ast.VarStatement:
		if n.Initializer == nil {
			return "(var " + n.Target.Name + ")"
		}
		return "(var " + n.Target.Name + " " + render(n.Initializer) + ")"
	case *ast.BlockStatement:
		return "{" + renderAll(n.Body) + "}"
	case *ast.IfStatement:
		return "(if " + render(n.Condition) + " " + render(n.ThenBranch) + " " + render(n.ElseBranch) + ")"
	case *ast.WhileStatement:
		return "(while " + render(n.Condition) + " " + render(n.Body) + ")"
	case *ast.ReturnStatement:
		return "(return " + render(n.Value) + ")"
	case *ast.FunctionStatement:
		params := make([]string, 0, len(n.Params))
		for _, param := range n.Params {
			params = append(params, param.Name)
		}
		return "(fun " + n.Name.Name + " (" + strings.Join(params, " ") + ") " + render(n.Body) + ")"
	default:
		return fmt.Sprintf("<%T>", node)
	}
}

func renderAll(stmts []ast.Statement) string {
	parts := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		parts = append(parts, render(stmt))
	}
	return strings.Join(parts, " ")
}
