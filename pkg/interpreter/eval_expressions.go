package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func (i *Interpreter) evaluate(node ast.Expression) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return n.Value, nil
	case *ast.Grouping:
		return i.evaluate(n.Expression)
	case *ast.Variable:
		val, err := i.env.Get(n.Name)
		if err != nil {
			return nil, errorAt(n.Token, "%s", err.Error())
		}
		return val, nil
	case *ast.UnaryExpression:
		operand, err := i.evaluate(n.Operand)
		if err != nil {
			return nil, err
		}
		return applyUnary(n, operand)
	case *ast.BinaryExpression:
		return i.evaluateBinary(n)
	case *ast.LogicalExpression:
		return i.evaluateLogical(n)
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(n)
	case *ast.CallExpression:
		return i.evaluateCall(n)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", node)
	}
}

func applyUnary(n *ast.UnaryExpression, operand runtime.Value) (runtime.Value, error) {
	switch n.Operator {
	case ast.UnaryNot:
		b, ok := operand.(runtime.BoolValue)
		if !ok {
			return nil, errorAt(n.Token, "Expected boolean.")
		}
		return runtime.Bool(!b.Val), nil
	case ast.UnaryNegate, ast.UnaryIncrement, ast.UnaryDecrement, ast.UnaryPostfixIncrement, ast.UnaryPostfixDecrement:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, errorAt(n.Token, "Expected number.")
		}
		switch n.Operator {
		case ast.UnaryNegate:
			return runtime.Number(-num.Val), nil
		case ast.UnaryIncrement, ast.UnaryPostfixIncrement:
			return runtime.Number(num.Val + 1), nil
		default:
			return runtime.Number(num.Val - 1), nil
		}
	default:
		return nil, errorAt(n.Token, "Unexpected unary operator.")
	}
}

func (i *Interpreter) evaluateBinary(n *ast.BinaryExpression) (runtime.Value, error) {
	left, err := i.evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Operator.Kind {
	case token.EqualEqual:
		return runtime.Bool(runtime.ValuesEqual(left, right)), nil
	case token.BangEqual:
		return runtime.Bool(!runtime.ValuesEqual(left, right)), nil
	case token.Plus:
		if l, ok := left.(runtime.StringValue); ok {
			return runtime.String(l.Val + runtime.Stringify(right)), nil
		}
		l, lok := left.(runtime.NumberValue)
		r, rok := right.(runtime.NumberValue)
		if !lok || !rok {
			return nil, errorAt(n.Operator, "Expected two numbers or two strings.")
		}
		return runtime.Number(l.Val + r.Val), nil
	}

	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, errorAt(n.Operator, "Expected two numbers.")
	}
	switch n.Operator.Kind {
	case token.Minus:
		return runtime.Number(l.Val - r.Val), nil
	case token.Star:
		return runtime.Number(l.Val * r.Val), nil
	case token.Slash:
		return runtime.Number(l.Val / r.Val), nil
	case token.Greater:
		return runtime.Bool(l.Val > r.Val), nil
	case token.GreaterEqual:
		return runtime.Bool(l.Val >= r.Val), nil
	case token.Less:
		return runtime.Bool(l.Val < r.Val), nil
	case token.LessEqual:
		return runtime.Bool(l.Val <= r.Val), nil
	default:
		return nil, errorAt(n.Operator, "Unexpected binary operator.")
	}
}

// evaluateLogical type-checks the left operand even when it short-circuits.
func (i *Interpreter) evaluateLogical(n *ast.LogicalExpression) (runtime.Value, error) {
	left, err := i.evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	b, ok := left.(runtime.BoolValue)
	if !ok {
		return nil, errorAt(n.Operator, "Expected boolean.")
	}
	if n.Operator.Kind == token.Or && b.Val {
		return left, nil
	}
	if n.Operator.Kind == token.And && !b.Val {
		return left, nil
	}
	return i.evaluate(n.Right)
}

// evaluateAssignment stores the new value; postfix forms yield the value the
// variable held before the update.
func (i *Interpreter) evaluateAssignment(n *ast.AssignmentExpression) (runtime.Value, error) {
	if unary, ok := n.Value.(*ast.UnaryExpression); ok && unary.Operator.IsPostfix() {
		old, err := i.evaluate(unary.Operand)
		if err != nil {
			return nil, err
		}
		updated, err := applyUnary(unary, old)
		if err != nil {
			return nil, err
		}
		if err := i.assign(n.Target, updated); err != nil {
			return nil, err
		}
		return old, nil
	}
	val, err := i.evaluate(n.Value)
	if err != nil {
		return nil, err
	}
	if err := i.assign(n.Target, val); err != nil {
		return nil, err
	}
	return val, nil
}

func (i *Interpreter) assign(target *ast.Variable, val runtime.Value) error {
	if err := i.env.Assign(target.Name, val); err != nil {
		return errorAt(target.Token, "%s", err.Error())
	}
	return nil
}

func (i *Interpreter) evaluateCall(n *ast.CallExpression) (runtime.Value, error) {
	callee, err := i.evaluate(n.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(n.Arguments))
	for _, argExpr := range n.Arguments {
		arg, err := i.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, errorAt(n.Paren, "Can only call functions.")
	}
	if len(args) != fn.Arity() {
		return nil, errorAt(n.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	if i.depth >= maxCallDepth {
		return nil, errorAt(n.Paren, "Stack overflow.")
	}
	i.depth++
	defer func() { i.depth-- }()

	val, err := fn.Call(i, args)
	if err != nil {
		if _, ok := err.(*RuntimeError); ok {
			return nil, err
		}
		if ctxErr := i.ctx.Err(); ctxErr != nil && err == ctxErr {
			return nil, err
		}
		return nil, errorAt(n.Paren, "%s", err.Error())
	}
	if val == nil {
		val = runtime.Nil
	}
	return val, nil
}
