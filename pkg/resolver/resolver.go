package resolver

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
)

// ErrorKind enumerates the static problems the resolver detects.
type ErrorKind int

const (
	VariableDefinedTwice ErrorKind = iota
	VariableReadInInitializer
	VariableNeverSet
	VariableNeverRead
	VariableUndefined
	ReturnOutsideOfFunction
)

func (k ErrorKind) String() string {
	switch k {
	case VariableDefinedTwice:
		return "VariableDefinedTwice"
	case VariableReadInInitializer:
		return "VariableReadInInitializer"
	case VariableNeverSet:
		return "VariableNeverSet"
	case VariableNeverRead:
		return "VariableNeverRead"
	case VariableUndefined:
		return "VariableUndefined"
	case ReturnOutsideOfFunction:
		return "ReturnOutsideOfFunction"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Diagnostic records a single resolver finding.
type Diagnostic struct {
	Kind    ErrorKind
	Message string
	Line    int
	Name    string
}

type state int

const (
	stateDeclared state = iota
	stateDefined
	stateRead
)

// scope tracks per-name state. order keeps first-declaration order so
// end-of-scope findings are reported deterministically.
type scope struct {
	states map[string]state
	order  []string
	names  map[string]*ast.Variable
}

func newScope() *scope {
	return &scope{states: make(map[string]state), names: make(map[string]*ast.Variable)}
}

func (s *scope) clone() *scope {
	c := newScope()
	for k, v := range s.states {
		c.states[k] = v
	}
	for k, v := range s.names {
		c.names[k] = v
	}
	c.order = append([]string(nil), s.order...)
	return c
}

type functionType int

const (
	functionNone functionType = iota
	functionBody
)

// Resolver walks a program once and collects lifecycle diagnostics.
type Resolver struct {
	scopes      []*scope
	current     functionType
	report      diag.Reporter
	diagnostics []Diagnostic
}

// New creates a resolver with its top-level scope in place. The top-level
// scope is never closed, so globals are not checked for never-set/never-read.
func New(report diag.Reporter) *Resolver {
	return &Resolver{scopes: []*scope{newScope()}, report: report}
}

// Resolve analyses stmts and returns every diagnostic found.
func Resolve(stmts []ast.Statement, report diag.Reporter) []Diagnostic {
	r := New(report)
	r.ResolveStatements(stmts)
	return r.Diagnostics()
}

// ResolveStatements may be called repeatedly; state carries over between
// calls, which lets a REPL resolve line by line.
func (r *Resolver) ResolveStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		r.statement(stmt)
	}
}

// Diagnostics returns the findings accumulated so far.
func (r *Resolver) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// Checkpoint records the top-level scope as it stands between calls.
type Checkpoint struct {
	top *scope
}

// Checkpoint captures the top-level scope so the declarations of a source
// that is later rejected can be discarded with Rollback.
func (r *Resolver) Checkpoint() Checkpoint {
	return Checkpoint{top: r.scopes[0].clone()}
}

// Rollback restores the top-level scope captured by cp.
func (r *Resolver) Rollback(cp Checkpoint) {
	if cp.top == nil {
		return
	}
	r.scopes = []*scope{cp.top.clone()}
	r.current = functionNone
}

// Reset drops accumulated diagnostics but keeps scope state.
func (r *Resolver) Reset() {
	r.diagnostics = nil
}

func (r *Resolver) statement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.PrintStatement:
		r.expression(s.Expression)
	case *ast.ExpressionStatement:
		r.expression(s.Expression)
	case *ast.VarStatement:
		r.declare(s.Target)
		if s.Initializer == nil {
			return
		}
		r.expression(s.Initializer)
		r.define(s.Target)
	case *ast.BlockStatement:
		r.block(s)
	case *ast.IfStatement:
		r.expression(s.Condition)
		r.statement(s.ThenBranch)
		r.statement(s.ElseBranch)
	case *ast.WhileStatement:
		r.expression(s.Condition)
		r.statement(s.Body)
	case *ast.ReturnStatement:
		if r.current == functionNone {
			r.log(ReturnOutsideOfFunction, s.Keyword.Line, s.Keyword.Lexeme, "Can't return from top-level code.")
		}
		r.expression(s.Value)
	case *ast.FunctionStatement:
		r.declare(s.Name)
		r.define(s.Name)
		r.function(s, functionBody)
	case nil:
	default:
		panic(fmt.Sprintf("resolver: unsupported statement %T", stmt))
	}
}

func (r *Resolver) block(b *ast.BlockStatement) {
	r.beginScope()
	for _, stmt := range b.Body {
		r.statement(stmt)
	}
	r.endScope()
}

func (r *Resolver) function(fn *ast.FunctionStatement, kind functionType) {
	enclosing := r.current
	r.current = kind
	defer func() { r.current = enclosing }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.block(fn.Body)
	r.endScope()
}

func (r *Resolver) expression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Literal:
	case *ast.UnaryExpression:
		r.expression(e.Operand)
	case *ast.BinaryExpression:
		r.expression(e.Left)
		r.expression(e.Right)
	case *ast.Grouping:
		r.expression(e.Expression)
	case *ast.Variable:
		r.read(e)
	case *ast.AssignmentExpression:
		r.expression(e.Value)
		r.define(e.Target)
	case *ast.LogicalExpression:
		r.expression(e.Left)
		r.expression(e.Right)
	case *ast.CallExpression:
		r.expression(e.Callee)
		for _, arg := range e.Arguments {
			r.expression(arg)
		}
	case nil:
	default:
		panic(fmt.Sprintf("resolver: unsupported expression %T", expr))
	}
}

func (r *Resolver) read(v *ast.Variable) {
	sc := r.owner(v.Key())
	if sc == nil {
		// Unresolved names are presumed global.
		return
	}
	switch sc.states[v.Key()] {
	case stateDeclared:
		r.log(VariableReadInInitializer, v.Token.Line, v.Name, fmt.Sprintf("Tried to access %s before definition.", v.Name))
	case stateDefined:
		sc.states[v.Key()] = stateRead
	}
}

func (r *Resolver) declare(v *ast.Variable) {
	sc := r.scopes[len(r.scopes)-1]
	if _, exists := sc.states[v.Key()]; exists {
		r.log(VariableDefinedTwice, v.Token.Line, v.Name, "Already a variable with this name in this scope.")
	} else {
		sc.order = append(sc.order, v.Key())
	}
	sc.states[v.Key()] = stateDeclared
	sc.names[v.Key()] = v
}

// define only promotes Declared to Defined; a name already Read stays Read.
func (r *Resolver) define(v *ast.Variable) {
	sc := r.owner(v.Key())
	if sc == nil {
		r.log(VariableUndefined, v.Token.Line, v.Name, "Assigning to undefined variable.")
		return
	}
	if sc.states[v.Key()] == stateDeclared {
		sc.states[v.Key()] = stateDefined
	}
}

func (r *Resolver) owner(key string) *scope {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i].states[key]; ok {
			return r.scopes[i]
		}
	}
	return nil
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, newScope())
}

func (r *Resolver) endScope() {
	sc := r.scopes[len(r.scopes)-1]
	r.scopes = r.scopes[:len(r.scopes)-1]
	for _, key := range sc.order {
		v := sc.names[key]
		switch sc.states[key] {
		case stateDeclared:
			r.log(VariableNeverSet, v.Token.Line, v.Name, fmt.Sprintf("%s never set.", v.Name))
		case stateDefined:
			r.log(VariableNeverRead, v.Token.Line, v.Name, fmt.Sprintf("%s never read.", v.Name))
		}
	}
}

func (r *Resolver) log(kind ErrorKind, line int, name, message string) {
	r.diagnostics = append(r.diagnostics, Diagnostic{Kind: kind, Message: message, Line: line, Name: name})
	where := ""
	if name != "" {
		where = diag.AtLexeme(name)
	}
	r.report.Report(diag.Diagnostic{
		Phase:   diag.PhaseResolve,
		Line:    line,
		Where:   where,
		Message: message,
	})
}
