package interpreter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/runtime"
)

// maxCallDepth bounds recursion so runaway programs fail with a runtime
// error instead of exhausting the Go stack.
const maxCallDepth = 2048

// Interpreter executes resolved Lox programs. It is not safe for concurrent
// use; a single Interpreter may run many programs in sequence and keeps its
// top-level bindings between them.
type Interpreter struct {
	globals *runtime.Environment
	env     *runtime.Environment

	stdout io.Writer
	report diag.Reporter
	logger *slog.Logger

	ctx   context.Context
	depth int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout redirects print output.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.stdout = w
		}
	}
}

// WithReporter sends runtime errors to report in addition to returning them.
func WithReporter(report diag.Reporter) Option {
	return func(i *Interpreter) {
		i.report = report
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithNative registers an additional host callable under its own name.
func WithNative(name string, fn runtime.Callable) Option {
	return func(i *Interpreter) {
		i.Define(name, fn)
	}
}

// New returns an interpreter with the built-in natives registered.
func New(opts ...Option) *Interpreter {
	globals := runtime.NewEnvironment(nil)
	i := &Interpreter{
		globals: globals,
		env:     globals,
		stdout:  os.Stdout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:     context.Background(),
	}
	for name, fn := range Builtins() {
		i.Define(name, fn)
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Globals returns the current top-level frame.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// Stdout is where print statements write.
func (i *Interpreter) Stdout() io.Writer {
	return i.stdout
}

// Define binds name in the top-level frame, typically to a host callable.
func (i *Interpreter) Define(name string, value runtime.Value) {
	i.globals.Define(name, value)
	i.logger.Debug("defined global", "name", name, "kind", value.Kind().String())
}

// Interpret executes stmts in order. Execution stops at the first runtime
// error, which is reported and returned as a *RuntimeError.
func (i *Interpreter) Interpret(ctx context.Context, stmts []ast.Statement) error {
	restore := i.bind(ctx)
	defer restore()

	for _, stmt := range stmts {
		if err := i.ctx.Err(); err != nil {
			return err
		}
		res, err := i.execute(stmt)
		if err != nil {
			return i.fail(err)
		}
		if res.returning {
			// Only reachable when the resolver was bypassed.
			i.logger.Warn("return at top level stopped execution")
			return nil
		}
	}
	return nil
}

// Evaluate computes a single expression against the top-level frame.
func (i *Interpreter) Evaluate(ctx context.Context, expr ast.Expression) (runtime.Value, error) {
	restore := i.bind(ctx)
	defer restore()

	val, err := i.evaluate(expr)
	if err != nil {
		return nil, i.fail(err)
	}
	return val, nil
}

func (i *Interpreter) bind(ctx context.Context) func() {
	if ctx == nil {
		ctx = context.Background()
	}
	prevCtx := i.ctx
	i.ctx = ctx
	return func() {
		i.ctx = prevCtx
		i.env = i.globals
		i.depth = 0
	}
}

func (i *Interpreter) fail(err error) error {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		i.report.Report(rtErr.Diagnostic())
		i.logger.Debug("runtime error", "line", rtErr.Line, "message", rtErr.Message)
		return rtErr
	}
	return err
}

// declare applies split-on-declare: the current frame is replaced by a copy
// before name is added, so closures captured earlier never see it.
func (i *Interpreter) declare(name string, value runtime.Value, hasValue bool) {
	next := i.env.Split()
	if i.env == i.globals {
		i.globals = next
	}
	i.env = next
	if hasValue {
		i.env.Define(name, value)
	} else {
		i.env.Declare(name)
	}
}

// withEnv runs fn with env as the current frame and always restores the
// previous one.
func (i *Interpreter) withEnv(env *runtime.Environment, fn func() (execResult, error)) (execResult, error) {
	prev := i.env
	i.env = env
	defer func() { i.env = prev }()
	return fn()
}
