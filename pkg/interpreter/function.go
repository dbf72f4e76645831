package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

// Function is a user-defined function closed over its declaring frame.
type Function struct {
	decl    *ast.FunctionStatement
	closure *runtime.Environment
}

func (f *Function) Kind() runtime.Kind { return runtime.KindFunction }

func (f *Function) Arity() int { return len(f.decl.Params) }

// Name returns the declared function name.
func (f *Function) Name() string { return f.decl.Name.Name }

func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.decl.Name.Name) }

// Call binds parameters in a fresh frame under the closure and runs the
// body. A body that finishes without return yields nil.
func (f *Function) Call(ev runtime.Evaluator, args []runtime.Value) (runtime.Value, error) {
	interp, ok := ev.(*Interpreter)
	if !ok {
		return nil, fmt.Errorf("function %s called outside the interpreter", f.Name())
	}
	env := runtime.NewEnvironment(f.closure)
	for idx, param := range f.decl.Params {
		env.Define(param.Name, args[idx])
	}
	res, err := interp.executeBlock(f.decl.Body.Body, env)
	if err != nil {
		return nil, err
	}
	if res.returning {
		return res.value, nil
	}
	return runtime.Nil, nil
}
