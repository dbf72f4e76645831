package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
	"lox/interpreter-go/pkg/token"
)

// Process exit codes, following sysexits.
const (
	ExitOK          = 0
	ExitUsage       = 64
	ExitStaticError = 65
	ExitRuntime     = 70
)

// Pipeline runs sources through scan, parse, resolve, and interpret. The
// interpreter and resolver persist across calls, so later sources see the
// globals earlier ones declared.
//
// Diagnostics go to Stderr; in non-strict mode resolver findings are
// printed as warnings and do not stop execution.
type Pipeline struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Strict bool

	interp    *interpreter.Interpreter
	resolver  *resolver.Resolver
	collector *diag.Collector
}

// Result summarises one source's trip through the pipeline.
type Result struct {
	RunID         string
	Source        string
	ScanErrors    int
	ParseErrors   int
	ResolveErrors int
	Strict        bool
	Executed      bool
	Value         runtime.Value
	Err           error
}

// Blocked reports whether static errors kept the source from running.
func (r Result) Blocked() bool {
	return r.ScanErrors+r.ParseErrors > 0 || (r.Strict && r.ResolveErrors > 0)
}

// ExitCode maps the result to a process exit status.
func (r Result) ExitCode() int {
	switch {
	case r.Blocked():
		return ExitStaticError
	case r.Err != nil:
		return ExitRuntime
	default:
		return ExitOK
	}
}

func (p *Pipeline) init() {
	if p.interp != nil {
		return
	}
	if p.Stdout == nil {
		p.Stdout = os.Stdout
	}
	if p.Stderr == nil {
		p.Stderr = os.Stderr
	}
	if p.Logger == nil {
		p.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p.collector = diag.NewCollector(p.print)
	p.resolver = resolver.New(p.collector.Reporter())
	p.interp = interpreter.New(
		interpreter.WithStdout(p.Stdout),
		interpreter.WithReporter(p.collector.Reporter()),
		interpreter.WithLogger(p.Logger),
	)
}

func (p *Pipeline) print(d diag.Diagnostic) {
	if d.Phase == diag.PhaseResolve && !p.Strict {
		d.Severity = diag.SeverityWarning
	}
	fmt.Fprintln(p.Stderr, diag.Describe(d))
}

// Interpreter exposes the shared interpreter, e.g. to register natives.
func (p *Pipeline) Interpreter() *interpreter.Interpreter {
	p.init()
	return p.interp
}

// Tokens scans source and reports lexical errors.
func (p *Pipeline) Tokens(source string) ([]token.Token, int) {
	p.init()
	return scanner.Scan(source, p.collector.Reporter())
}

// Check runs every static phase without executing.
func (p *Pipeline) Check(name, source string) Result {
	res, _, _ := p.analyze(name, source)
	return res
}

// Run executes source unless a static phase blocked it.
func (p *Pipeline) Run(ctx context.Context, name, source string) Result {
	res, program, log := p.analyze(name, source)
	if res.Blocked() {
		log.Info("execution skipped", "scan_errors", res.ScanErrors, "parse_errors", res.ParseErrors, "resolve_errors", res.ResolveErrors)
		return res
	}
	res.Executed = true
	if err := p.interp.Interpret(ctx, program); err != nil {
		res.Err = err
		log.Info("execution failed", "error", err)
		return res
	}
	log.Debug("execution finished")
	return res
}

// RunProgram runs the preludes and then the main script, stopping at the
// first source that does not finish cleanly.
func (p *Pipeline) RunProgram(ctx context.Context, program *Program) Result {
	p.Strict = program.Strict
	for _, prelude := range program.Preludes {
		if res := p.Run(ctx, prelude.Path, prelude.Text); res.ExitCode() != ExitOK {
			return res
		}
	}
	return p.Run(ctx, program.Main.Path, program.Main.Text)
}

// Eval is the REPL entry point: a line holding a single expression is
// evaluated and its value returned in Result.Value; anything else runs as
// statements.
func (p *Pipeline) Eval(ctx context.Context, line string) Result {
	p.init()
	tokens, scanErrs := scanner.Scan(line, nil)
	if scanErrs > 0 {
		return p.Run(ctx, "repl", line)
	}
	probe := diag.NewCollector(nil)
	expr, err := parser.ParseExpression(tokens, probe.Reporter())
	if err != nil || probe.Count("") > 0 {
		return p.Run(ctx, "repl", line)
	}

	res, log := p.begin("repl")
	cp := p.resolver.Checkpoint()
	p.resolver.ResolveStatements([]ast.Statement{ast.NewExpressionStatement(expr)})
	res.ResolveErrors = p.collector.Count(diag.PhaseResolve)
	if res.Blocked() {
		p.resolver.Rollback(cp)
		return res
	}
	res.Executed = true
	val, err := p.interp.Evaluate(ctx, expr)
	if err != nil {
		res.Err = err
		log.Info("evaluation failed", "error", err)
		return res
	}
	res.Value = val
	return res
}

func (p *Pipeline) begin(name string) (Result, *slog.Logger) {
	p.init()
	p.collector.Reset()
	p.resolver.Reset()
	res := Result{RunID: uuid.NewString(), Source: name, Strict: p.Strict}
	return res, p.Logger.With("run_id", res.RunID, "source", name)
}

func (p *Pipeline) analyze(name, source string) (Result, []ast.Statement, *slog.Logger) {
	res, log := p.begin(name)
	report := p.collector.Reporter()

	tokens, scanErrs := scanner.Scan(source, report)
	res.ScanErrors = scanErrs
	log.Debug("scanned", "tokens", len(tokens), "errors", scanErrs)

	program, parseErrs := parser.Parse(tokens, report)
	res.ParseErrors = parseErrs
	log.Debug("parsed", "statements", len(program), "errors", parseErrs)
	if res.ScanErrors+res.ParseErrors > 0 {
		return res, nil, log
	}

	// A blocked source never runs, so its declarations must not reach the
	// resolver state later sources are checked against.
	cp := p.resolver.Checkpoint()
	p.resolver.ResolveStatements(program)
	res.ResolveErrors = len(p.resolver.Diagnostics())
	log.Debug("resolved", "diagnostics", res.ResolveErrors)
	if res.Blocked() {
		p.resolver.Rollback(cp)
	}
	return res, program, log
}
