package parser

import (
	"errors"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/token"
)

// maxArguments caps both call arguments and function parameters.
const maxArguments = 255

// ErrSyntax is returned once a syntax error has aborted parsing. The error
// itself has already been reported to the diagnostic sink.
var ErrSyntax = errors.New("parser: syntax error")

// Parser is a recursive-descent parser over a scanned token stream.
type Parser struct {
	tokens  []token.Token
	current int
	report  diag.Reporter
	errors  int
}

// New constructs a parser. A trailing EOF token is appended when missing.
func New(tokens []token.Token, report diag.Reporter) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(append([]token.Token(nil), tokens...), token.New(token.EOF, "", line))
	}
	return &Parser{tokens: tokens, report: report}
}

// Parse parses a whole program and returns it with the number of reported
// errors. The first syntax error aborts the parse and yields an empty program;
// recoverable errors (invalid assignment targets, argument overflow) are
// counted but the statements are kept.
func Parse(tokens []token.Token, report diag.Reporter) ([]ast.Statement, int) {
	p := New(tokens, report)
	program, err := p.Program()
	if err != nil {
		return []ast.Statement{}, p.errors
	}
	return program, p.errors
}

// ParseExpression parses exactly one expression spanning the whole input.
func ParseExpression(tokens []token.Token, report diag.Reporter) (ast.Expression, error) {
	p := New(tokens, report)
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.fail(p.peek(), "Expect end of expression.")
	}
	return expr, nil
}

// ErrorCount reports how many syntax errors were found so far.
func (p *Parser) ErrorCount() int {
	return p.errors
}

// Program parses declarations until EOF.
func (p *Parser) Program() ([]ast.Statement, error) {
	statements := make([]ast.Statement, 0)
	for !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.fail(p.peek(), message)
}

// errorAt reports a diagnostic without aborting.
func (p *Parser) errorAt(tok token.Token, message string) {
	p.errors++
	where := diag.AtLexeme(tok.Lexeme)
	if tok.Kind == token.EOF {
		where = diag.AtEnd
	}
	p.report.Report(diag.Diagnostic{
		Phase:   diag.PhaseParse,
		Line:    tok.Line,
		Where:   where,
		Message: message,
	})
}

// fail reports a diagnostic and returns the abort sentinel.
func (p *Parser) fail(tok token.Token, message string) error {
	p.errorAt(tok, message)
	return ErrSyntax
}
