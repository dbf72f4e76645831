package ast

import (
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

type NodeType string

const (
	NodeLiteral             NodeType = "Literal"
	NodeUnaryExpression     NodeType = "UnaryExpression"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeGrouping            NodeType = "Grouping"
	NodeVariable            NodeType = "Variable"
	NodeAssignment          NodeType = "AssignmentExpression"
	NodeLogicalExpression   NodeType = "LogicalExpression"
	NodeCallExpression      NodeType = "CallExpression"
	NodePrintStatement      NodeType = "PrintStatement"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeVarStatement        NodeType = "VarStatement"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeIfStatement         NodeType = "IfStatement"
	NodeWhileStatement      NodeType = "WhileStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeFunctionStatement   NodeType = "FunctionStatement"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

// Literal wraps a runtime value; literals evaluate to themselves.
type Literal struct {
	nodeImpl
	expressionMarker

	Value runtime.Value `json:"value"`
}

func NewLiteral(value runtime.Value) *Literal {
	if value == nil {
		value = runtime.Nil
	}
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value}
}

type UnaryOperator int

const (
	UnaryNegate UnaryOperator = iota
	UnaryNot
	UnaryIncrement
	UnaryDecrement
	UnaryPostfixIncrement
	UnaryPostfixDecrement
)

func (op UnaryOperator) String() string {
	switch op {
	case UnaryNegate:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryIncrement, UnaryPostfixIncrement:
		return "++"
	case UnaryDecrement, UnaryPostfixDecrement:
		return "--"
	default:
		return "?"
	}
}

// IsPostfix reports whether op yields the operand's value before mutation.
func (op UnaryOperator) IsPostfix() bool {
	return op == UnaryPostfixIncrement || op == UnaryPostfixDecrement
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
	Token    token.Token   `json:"-"`
}

func NewUnaryExpression(op UnaryOperator, operand Expression, tok token.Token) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: op, Operand: operand, Token: tok}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator token.Token `json:"operator"`
	Left     Expression  `json:"left"`
	Right    Expression  `json:"right"`
}

func NewBinaryExpression(op token.Token, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: op, Left: left, Right: right}
}

type Grouping struct {
	nodeImpl
	expressionMarker

	Expression Expression `json:"expression"`
}

func NewGrouping(expr Expression) *Grouping {
	return &Grouping{nodeImpl: newNodeImpl(NodeGrouping), Expression: expr}
}

// Variable references a name. Two variables are the same binding key when
// their names match, regardless of where they appear in the source.
type Variable struct {
	nodeImpl
	expressionMarker

	Name  string      `json:"name"`
	Token token.Token `json:"-"`
}

func NewVariable(tok token.Token) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: tok.Lexeme, Token: tok}
}

// Key is the identity used for scope bookkeeping.
func (v *Variable) Key() string { return v.Name }

func (v *Variable) String() string { return v.Name }

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Target *Variable  `json:"target"`
	Value  Expression `json:"value"`
}

func NewAssignmentExpression(target *Variable, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Value: value}
}

type LogicalExpression struct {
	nodeImpl
	expressionMarker

	Operator token.Token `json:"operator"`
	Left     Expression  `json:"left"`
	Right    Expression  `json:"right"`
}

func NewLogicalExpression(op token.Token, left, right Expression) *LogicalExpression {
	return &LogicalExpression{nodeImpl: newNodeImpl(NodeLogicalExpression), Operator: op, Left: left, Right: right}
}

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
	Paren     token.Token  `json:"-"`
}

func NewCallExpression(callee Expression, args []Expression, paren token.Token) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Arguments: args, Paren: paren}
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

type PrintStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewPrintStatement(expr Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Expression: expr}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

// VarStatement declares Target; Initializer is nil for `var a;`.
type VarStatement struct {
	nodeImpl
	statementMarker

	Target      *Variable  `json:"target"`
	Initializer Expression `json:"initializer,omitempty"`
}

func NewVarStatement(target *Variable, initializer Expression) *VarStatement {
	return &VarStatement{nodeImpl: newNodeImpl(NodeVarStatement), Target: target, Initializer: initializer}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockStatement(body []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Body: body}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition  Expression `json:"condition"`
	ThenBranch Statement  `json:"then"`
	ElseBranch Statement  `json:"else"`
}

// NewIfStatement builds an if; a nil else branch becomes an empty block.
func NewIfStatement(cond Expression, thenBranch, elseBranch Statement) *IfStatement {
	if elseBranch == nil {
		elseBranch = NewBlockStatement(nil)
	}
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: cond, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileStatement(cond Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: cond, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Keyword token.Token `json:"-"`
	Value   Expression  `json:"value"`
}

// NewReturnStatement builds a return; a nil value returns nil.
func NewReturnStatement(keyword token.Token, value Expression) *ReturnStatement {
	if value == nil {
		value = NewLiteral(runtime.Nil)
	}
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Keyword: keyword, Value: value}
}

type FunctionStatement struct {
	nodeImpl
	statementMarker

	Name   *Variable       `json:"name"`
	Params []*Variable     `json:"params"`
	Body   *BlockStatement `json:"body"`
}

func NewFunctionStatement(name *Variable, params []*Variable, body *BlockStatement) *FunctionStatement {
	if body == nil {
		body = NewBlockStatement(nil)
	}
	return &FunctionStatement{nodeImpl: newNodeImpl(NodeFunctionStatement), Name: name, Params: params, Body: body}
}
