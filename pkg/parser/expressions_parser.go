package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expression, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Equal) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if target, ok := expr.(*ast.Variable); ok {
		return ast.NewAssignmentExpression(target, value), nil
	}
	p.errorAt(equals, "Invalid assignment target.")
	return value, nil
}

// or and and bind the whole remaining expression as their right operand,
// so `a and b or c` parses as `a and (b or c)`.
func (p *Parser) or() (ast.Expression, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Or) {
		return left, nil
	}
	op := p.previous()
	right, err := p.expression()
	if err != nil {
		return nil, err
	}
	return ast.NewLogicalExpression(op, left, right), nil
}

func (p *Parser) and() (ast.Expression, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	if !p.match(token.And) {
		return left, nil
	}
	op := p.previous()
	right, err := p.expression()
	if err != nil {
		return nil, err
	}
	return ast.NewLogicalExpression(op, left, right), nil
}

// binaryLeft parses a left-associative chain of operand (op operand)*.
func (p *Parser) binaryLeft(operand func() (ast.Expression, error), ops ...token.Kind) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(op, expr, right)
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	return p.binaryLeft(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.Expression, error) {
	return p.binaryLeft(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.Expression, error) {
	return p.binaryLeft(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() (ast.Expression, error) {
	return p.binaryLeft(p.unary, token.Slash, token.Star)
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		kind := ast.UnaryNegate
		if op.Kind == token.Bang {
			kind = ast.UnaryNot
		}
		return ast.NewUnaryExpression(kind, operand, op), nil
	}
	if p.match(token.PlusPlus, token.MinusMinus) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		kind := ast.UnaryIncrement
		if op.Kind == token.MinusMinus {
			kind = ast.UnaryDecrement
		}
		return p.increment(kind, operand, op), nil
	}
	return p.postfix()
}

func (p *Parser) postfix() (ast.Expression, error) {
	expr, err := p.call()
	if err != nil {
		return nil, err
	}
	if p.match(token.PlusPlus, token.MinusMinus) {
		op := p.previous()
		kind := ast.UnaryPostfixIncrement
		if op.Kind == token.MinusMinus {
			kind = ast.UnaryPostfixDecrement
		}
		return p.increment(kind, expr, op), nil
	}
	return expr, nil
}

// increment desugars ++/-- into an assignment of the unary result back to
// the operand, which must be a plain variable.
func (p *Parser) increment(kind ast.UnaryOperator, operand ast.Expression, op token.Token) ast.Expression {
	target, ok := operand.(*ast.Variable)
	if !ok {
		p.errorAt(op, "Invalid increment target.")
		return operand
	}
	return ast.NewAssignmentExpression(target, ast.NewUnaryExpression(kind, target, op))
}

func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(token.LeftParen) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	args := make([]ast.Expression, 0)
	if !p.check(token.RightParen) {
		overflow := false
		for {
			if len(args) >= maxArguments && !overflow {
				overflow = true
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			if len(args) < maxArguments {
				args = append(args, arg)
			}
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return ast.NewCallExpression(callee, args, paren), nil
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(runtime.Bool(false)), nil
	case p.match(token.True):
		return ast.NewLiteral(runtime.Bool(true)), nil
	case p.match(token.Nil):
		return ast.NewLiteral(runtime.Nil), nil
	case p.match(token.Number, token.String):
		return ast.NewLiteral(p.previous().Literal), nil
	case p.match(token.Identifier):
		return ast.NewVariable(p.previous()), nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.NewGrouping(expr), nil
	}
	return nil, p.fail(p.peek(), "Expect expression.")
}
