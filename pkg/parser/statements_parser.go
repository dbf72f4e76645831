package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func (p *Parser) declaration() (ast.Statement, error) {
	switch {
	case p.match(token.Var):
		return p.varDeclaration()
	case p.match(token.Fun):
		return p.function()
	default:
		return p.statement()
	}
}

func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.LeftBrace):
		return p.blockStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Return):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) varDeclaration() (*ast.VarStatement, error) {
	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expression
	if p.match(token.Equal) {
		if initializer, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return ast.NewVarStatement(ast.NewVariable(name), initializer), nil
}

func (p *Parser) function() (*ast.FunctionStatement, error) {
	name, err := p.consume(token.Identifier, "Expect function name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftParen, "Expect '(' after function name."); err != nil {
		return nil, err
	}
	params := make([]*ast.Variable, 0)
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArguments {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.consume(token.Identifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, ast.NewVariable(param))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftBrace, "Expect '{' before function body."); err != nil {
		return nil, err
	}
	body, err := p.blockStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionStatement(ast.NewVariable(name), params, body), nil
}

// blockStatement parses the remainder of a block; the '{' is already consumed.
func (p *Parser) blockStatement() (*ast.BlockStatement, error) {
	body := make([]ast.Statement, 0)
	for !p.check(token.RightBrace) && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if _, err := p.consume(token.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return ast.NewBlockStatement(body), nil
}

func (p *Parser) printStatement() (*ast.PrintStatement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return ast.NewPrintStatement(expr), nil
}

func (p *Parser) expressionStatement() (*ast.ExpressionStatement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return ast.NewExpressionStatement(expr), nil
}

func (p *Parser) ifStatement() (*ast.IfStatement, error) {
	cond, err := p.parenthesized("'if'", "if condition")
	if err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Statement
	if p.match(token.Else) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(cond, thenBranch, elseBranch), nil
}

func (p *Parser) whileStatement() (*ast.WhileStatement, error) {
	cond, err := p.parenthesized("'while'", "condition")
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStatement(cond, body), nil
}

func (p *Parser) parenthesized(after, what string) (ast.Expression, error) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after "+after+"."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after "+what+"."); err != nil {
		return nil, err
	}
	return cond, nil
}

// forStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
func (p *Parser) forStatement() (ast.Statement, error) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var (
		initializer ast.Statement
		err         error
	)
	switch {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond ast.Expression
	if !p.check(token.Semicolon) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Expression
	if !p.check(token.RightParen) {
		if increment, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if increment != nil {
		body = ast.NewBlockStatement([]ast.Statement{body, ast.NewExpressionStatement(increment)})
	}
	if cond == nil {
		cond = ast.NewLiteral(runtime.Bool(true))
	}
	loop := ast.NewWhileStatement(cond, body)

	outer := make([]ast.Statement, 0, 2)
	if initializer != nil {
		outer = append(outer, initializer)
	}
	outer = append(outer, loop)
	return ast.NewBlockStatement(outer), nil
}

func (p *Parser) returnStatement() (*ast.ReturnStatement, error) {
	keyword := p.previous()
	var (
		value ast.Expression
		err   error
	)
	if !p.check(token.Semicolon) {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return ast.NewReturnStatement(keyword, value), nil
}
