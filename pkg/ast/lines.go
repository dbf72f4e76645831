package ast

// Line returns the best-known source line for a node, or 0 when the node
// carries no token (synthesized literals, empty blocks).
func Line(node Node) int {
	switch n := node.(type) {
	case nil:
		return 0
	case *Literal:
		return 0
	case *UnaryExpression:
		if n.Token.Line > 0 {
			return n.Token.Line
		}
		return Line(n.Operand)
	case *BinaryExpression:
		if n.Operator.Line > 0 {
			return n.Operator.Line
		}
		return Line(n.Left)
	case *Grouping:
		return Line(n.Expression)
	case *Variable:
		return n.Token.Line
	case *AssignmentExpression:
		return Line(n.Target)
	case *LogicalExpression:
		if n.Operator.Line > 0 {
			return n.Operator.Line
		}
		return Line(n.Left)
	case *CallExpression:
		if n.Paren.Line > 0 {
			return n.Paren.Line
		}
		return Line(n.Callee)
	case *PrintStatement:
		return Line(n.Expression)
	case *ExpressionStatement:
		return Line(n.Expression)
	case *VarStatement:
		return Line(n.Target)
	case *BlockStatement:
		for _, stmt := range n.Body {
			if line := Line(stmt); line > 0 {
				return line
			}
		}
		return 0
	case *IfStatement:
		return Line(n.Condition)
	case *WhileStatement:
		return Line(n.Condition)
	case *ReturnStatement:
		return n.Keyword.Line
	case *FunctionStatement:
		return Line(n.Name)
	default:
		return 0
	}
}
