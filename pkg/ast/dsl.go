package ast

import (
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

// Literal helpers.

func Num(value float64) *Literal {
	return NewLiteral(runtime.Number(value))
}

func Str(value string) *Literal {
	return NewLiteral(runtime.String(value))
}

func Bool(value bool) *Literal {
	return NewLiteral(runtime.Bool(value))
}

func Nil() *Literal {
	return NewLiteral(runtime.Nil)
}

// Tok builds a synthetic token on line 0.
func Tok(kind token.Kind, lexeme string) token.Token {
	return token.New(kind, lexeme, 0)
}

func Var(name string) *Variable {
	return NewVariable(Tok(token.Identifier, name))
}

// Expression helpers.

var binaryKinds = map[string]token.Kind{
	"+":  token.Plus,
	"-":  token.Minus,
	"*":  token.Star,
	"/":  token.Slash,
	"==": token.EqualEqual,
	"!=": token.BangEqual,
	"<":  token.Less,
	"<=": token.LessEqual,
	">":  token.Greater,
	">=": token.GreaterEqual,
}

// Bin builds a binary expression from an operator spelling such as "+" or "<=".
func Bin(op string, left, right Expression) *BinaryExpression {
	kind, ok := binaryKinds[op]
	if !ok {
		panic("ast.Bin: unknown operator " + op)
	}
	return NewBinaryExpression(Tok(kind, op), left, right)
}

func And(left, right Expression) *LogicalExpression {
	return NewLogicalExpression(Tok(token.And, "and"), left, right)
}

func Or(left, right Expression) *LogicalExpression {
	return NewLogicalExpression(Tok(token.Or, "or"), left, right)
}

func Neg(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryNegate, operand, Tok(token.Minus, "-"))
}

func Not(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryNot, operand, Tok(token.Bang, "!"))
}

func Group(expr Expression) *Grouping {
	return NewGrouping(expr)
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(Var(name), value)
}

// PreInc is the desugared form of `++name`.
func PreInc(name string) *AssignmentExpression {
	return NewAssignmentExpression(Var(name), NewUnaryExpression(UnaryIncrement, Var(name), Tok(token.PlusPlus, "++")))
}

// PostInc is the desugared form of `name++`.
func PostInc(name string) *AssignmentExpression {
	return NewAssignmentExpression(Var(name), NewUnaryExpression(UnaryPostfixIncrement, Var(name), Tok(token.PlusPlus, "++")))
}

func PreDec(name string) *AssignmentExpression {
	return NewAssignmentExpression(Var(name), NewUnaryExpression(UnaryDecrement, Var(name), Tok(token.MinusMinus, "--")))
}

func PostDec(name string) *AssignmentExpression {
	return NewAssignmentExpression(Var(name), NewUnaryExpression(UnaryPostfixDecrement, Var(name), Tok(token.MinusMinus, "--")))
}

func CallExpr(callee Expression, args ...Expression) *CallExpression {
	return NewCallExpression(callee, args, Tok(token.RightParen, ")"))
}

// Statement helpers.

func Print(expr Expression) *PrintStatement {
	return NewPrintStatement(expr)
}

func ExprStmt(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

// Declare builds `var name = init;`; init may be nil.
func Declare(name string, init Expression) *VarStatement {
	return NewVarStatement(Var(name), init)
}

func Block(body ...Statement) *BlockStatement {
	return NewBlockStatement(body)
}

func If(cond Expression, thenBranch, elseBranch Statement) *IfStatement {
	return NewIfStatement(cond, thenBranch, elseBranch)
}

func While(cond Expression, body Statement) *WhileStatement {
	return NewWhileStatement(cond, body)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(Tok(token.Return, "return"), value)
}

func Fn(name string, params []string, body ...Statement) *FunctionStatement {
	vars := make([]*Variable, 0, len(params))
	for _, p := range params {
		vars = append(vars, Var(p))
	}
	return NewFunctionStatement(Var(name), vars, NewBlockStatement(body))
}
