package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

// execResult threads non-local return through statement execution.
type execResult struct {
	returning bool
	value     runtime.Value
}

var normal = execResult{}

func (i *Interpreter) execute(node ast.Statement) (execResult, error) {
	switch n := node.(type) {
	case *ast.PrintStatement:
		val, err := i.evaluate(n.Expression)
		if err != nil {
			return normal, err
		}
		if _, err := fmt.Fprintln(i.stdout, runtime.Stringify(val)); err != nil {
			return normal, err
		}
		return normal, nil
	case *ast.ExpressionStatement:
		_, err := i.evaluate(n.Expression)
		return normal, err
	case *ast.VarStatement:
		return i.executeVar(n)
	case *ast.BlockStatement:
		return i.executeBlock(n.Body, runtime.NewEnvironment(i.env))
	case *ast.IfStatement:
		return i.executeIf(n)
	case *ast.WhileStatement:
		return i.executeWhile(n)
	case *ast.ReturnStatement:
		val, err := i.evaluate(n.Value)
		if err != nil {
			return normal, err
		}
		return execResult{returning: true, value: val}, nil
	case *ast.FunctionStatement:
		// Functions bind into the current frame so they can see themselves.
		i.env.Define(n.Name.Name, &Function{decl: n, closure: i.env})
		return normal, nil
	default:
		return normal, fmt.Errorf("unsupported statement type: %T", node)
	}
}

func (i *Interpreter) executeVar(n *ast.VarStatement) (execResult, error) {
	if n.Initializer == nil {
		i.declare(n.Target.Name, nil, false)
		return normal, nil
	}
	val, err := i.evaluate(n.Initializer)
	if err != nil {
		return normal, err
	}
	i.declare(n.Target.Name, val, true)
	return normal, nil
}

// executeBlock runs stmts with env as the current frame. The previous frame
// is restored on every exit path, including return unwinding and errors.
func (i *Interpreter) executeBlock(stmts []ast.Statement, env *runtime.Environment) (execResult, error) {
	return i.withEnv(env, func() (execResult, error) {
		for _, stmt := range stmts {
			res, err := i.execute(stmt)
			if err != nil || res.returning {
				return res, err
			}
		}
		return normal, nil
	})
}

func (i *Interpreter) executeIf(n *ast.IfStatement) (execResult, error) {
	cond, err := i.condition(n.Condition)
	if err != nil {
		return normal, err
	}
	if cond {
		return i.execute(n.ThenBranch)
	}
	return i.execute(n.ElseBranch)
}

func (i *Interpreter) executeWhile(n *ast.WhileStatement) (execResult, error) {
	for {
		if err := i.ctx.Err(); err != nil {
			return normal, err
		}
		cond, err := i.condition(n.Condition)
		if err != nil {
			return normal, err
		}
		if !cond {
			return normal, nil
		}
		res, err := i.execute(n.Body)
		if err != nil || res.returning {
			return res, err
		}
	}
}

func (i *Interpreter) condition(expr ast.Expression) (bool, error) {
	val, err := i.evaluate(expr)
	if err != nil {
		return false, err
	}
	b, ok := val.(runtime.BoolValue)
	if !ok {
		return false, errorNear(expr, "Condition must be a boolean.")
	}
	return b.Val, nil
}
