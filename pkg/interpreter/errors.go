package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/token"
)

// RuntimeError is an evaluation failure positioned at the offending token.
type RuntimeError struct {
	Line    int
	Lexeme  string
	Message string
}

func (e *RuntimeError) Error() string {
	return diag.Describe(e.Diagnostic())
}

// Diagnostic converts the error for the diagnostic sink.
func (e *RuntimeError) Diagnostic() diag.Diagnostic {
	where := ""
	if e.Lexeme != "" {
		where = diag.AtLexeme(e.Lexeme)
	}
	return diag.Diagnostic{
		Phase:   diag.PhaseRuntime,
		Line:    e.Line,
		Where:   where,
		Message: e.Message,
	}
}

func errorAt(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Line: tok.Line, Lexeme: tok.Lexeme, Message: fmt.Sprintf(format, args...)}
}

// errorNear positions an error on a node that has no single token, such as a
// loop condition.
func errorNear(node ast.Node, format string, args ...any) *RuntimeError {
	return &RuntimeError{Line: ast.Line(node), Message: fmt.Sprintf(format, args...)}
}
