package sheetcalc

import (
	"fmt"
	"strconv"
	"strings"
)

// BinaryOp represents binary operators in AST nodes
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
)

var opSymbols = map[BinaryOp]string{
	OpAdd:          "+",
	OpSubtract:     "-",
	OpMultiply:     "*",
	OpDivide:       "/",
	OpEqual:        "=",
	OpNotEqual:     "!=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpLess:         "<",
	OpLessEqual:    "<=",
}

// Node is the expression tree built from one formula body. The tree is
// built once per formula string per evaluation session and never persisted
// across sessions. Each variant evaluates itself against the session so
// cross-cell recursion and cycle detection compose through Get.
type Node interface {
	Eval(ev *Evaluation) (Primitive, error)
	String() string
}

// NumberNode represents a numeric literal
type NumberNode struct {
	Value float64
}

func (n *NumberNode) Eval(ev *Evaluation) (Primitive, error) {
	return n.Value, nil
}

func (n *NumberNode) String() string {
	if n.Value == float64(int64(n.Value)) {
		return fmt.Sprintf("%d", int64(n.Value))
	}
	return fmt.Sprintf("%g", n.Value)
}

// CellNode represents a single-cell reference
type CellNode struct {
	Label string
}

func (n *CellNode) Eval(ev *Evaluation) (Primitive, error) {
	return ev.Get(n.Label), nil
}

func (n *CellNode) String() string {
	return n.Label
}

// RangeNode represents a rectangular range reference. It evaluates to the
// row-major array of each covered cell's numeric value; it is only
// meaningful as a function argument, never as a standalone scalar.
type RangeNode struct {
	Start string
	End   string
}

func (n *RangeNode) Eval(ev *Evaluation) (Primitive, error) {
	labels, err := ExpandA1Range(n.Start + ":" + n.End)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(labels))
	for _, label := range labels {
		values = append(values, toNumber(ev.Get(label)))
	}
	return values, nil
}

func (n *RangeNode) String() string {
	return n.Start + ":" + n.End
}

// NameNode represents a bare identifier used without a call. Unknown names
// are inert and evaluate to 0.
type NameNode struct {
	Name string
}

func (n *NameNode) Eval(ev *Evaluation) (Primitive, error) {
	return float64(0), nil
}

func (n *NameNode) String() string {
	return n.Name
}

// NegateNode represents unary minus
type NegateNode struct {
	Operand Node
}

func (n *NegateNode) Eval(ev *Evaluation) (Primitive, error) {
	val, err := n.Operand.Eval(ev)
	if err != nil {
		return nil, err
	}
	return -toNumber(val), nil
}

func (n *NegateNode) String() string {
	return "-" + n.Operand.String()
}

// BinaryNode represents a binary operation over numerically coerced operands
type BinaryNode struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

func (n *BinaryNode) Eval(ev *Evaluation) (Primitive, error) {
	leftVal, err := n.Left.Eval(ev)
	if err != nil {
		return nil, err
	}
	rightVal, err := n.Right.Eval(ev)
	if err != nil {
		return nil, err
	}

	ln := toNumber(leftVal)
	rn := toNumber(rightVal)

	switch n.Op {
	case OpAdd:
		return ln + rn, nil
	case OpSubtract:
		return ln - rn, nil
	case OpMultiply:
		return ln * rn, nil
	case OpDivide:
		// division by a coerced-zero denominator yields 0, not an error
		if rn == 0 {
			return float64(0), nil
		}
		return ln / rn, nil
	case OpEqual:
		return ln == rn, nil
	case OpNotEqual:
		return ln != rn, nil
	case OpGreater:
		return ln > rn, nil
	case OpGreaterEqual:
		return ln >= rn, nil
	case OpLess:
		return ln < rn, nil
	case OpLessEqual:
		return ln <= rn, nil
	default:
		return nil, NewSheetError(ErrorCodeSyntax, "unknown operator")
	}
}

func (n *BinaryNode) String() string {
	return fmt.Sprintf("(%s%s%s)", n.Left.String(), opSymbols[n.Op], n.Right.String())
}

// CallNode represents a function call with an ordered argument list
type CallNode struct {
	Name string
	Args []Node
}

func (n *CallNode) Eval(ev *Evaluation) (Primitive, error) {
	// IF short-circuits: the condition picks exactly one branch to
	// evaluate, the other is never touched
	if n.Name == "IF" {
		return n.evalIf(ev)
	}

	args := make([]Primitive, len(n.Args))
	for i, argNode := range n.Args {
		val, err := argNode.Eval(ev)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	return callFunction(n.Name, args), nil
}

func (n *CallNode) evalIf(ev *Evaluation) (Primitive, error) {
	cond := false
	if len(n.Args) > 0 {
		condVal, err := n.Args[0].Eval(ev)
		if err != nil {
			return nil, err
		}
		cond = toBool(condVal)
	}

	branch := 2
	if cond {
		branch = 1
	}
	if branch >= len(n.Args) {
		// missing branches default to 0
		return float64(0), nil
	}
	return n.Args[branch].Eval(ev)
}

func (n *CallNode) String() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ","))
}

// Parser parses a token sequence into an expression tree
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser over the given tokens
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseFormula tokenizes and parses a formula body into an expression tree
func ParseFormula(body string) (Node, error) {
	tokens, err := NewLexer(body).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parse parses the tokens into an expression tree, requiring every token
// to be consumed
func (p *Parser) Parse() (Node, error) {
	node, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, NewSheetError(ErrorCodeSyntax,
			fmt.Sprintf("unexpected token after expression at position %d: %q", tok.Pos, tok.Value))
	}
	return node, nil
}

// parseComparison handles comparison operators, the loosest binding level.
// The loop makes comparisons chainable: a = b = c folds left-to-right as
// (a=b)=c, with the boolean result of the first comparison numerically
// coerced by the second.
func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseAddition()
	if err != nil {
		return nil, err
	}

	for {
		var op BinaryOp
		switch tok := p.current(); {
		case tok.Type != TokenOp:
			return left, nil
		case tok.Value == "=":
			op = OpEqual
		case tok.Value == "!=":
			op = OpNotEqual
		case tok.Value == ">":
			op = OpGreater
		case tok.Value == ">=":
			op = OpGreaterEqual
		case tok.Value == "<":
			op = OpLess
		case tok.Value == "<=":
			op = OpLessEqual
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseAddition()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
}

// parseAddition handles addition and subtraction
func (p *Parser) parseAddition() (Node, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}

	for {
		var op BinaryOp
		switch tok := p.current(); {
		case tok.Type != TokenOp:
			return left, nil
		case tok.Value == "+":
			op = OpAdd
		case tok.Value == "-":
			op = OpSubtract
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
}

// parseMultiplication handles multiplication and division
func (p *Parser) parseMultiplication() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		var op BinaryOp
		switch tok := p.current(); {
		case tok.Type != TokenOp:
			return left, nil
		case tok.Value == "*":
			op = OpMultiply
		case tok.Value == "/":
			op = OpDivide
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
}

// parseUnary handles unary minus, recursing for chained negation
func (p *Parser) parseUnary() (Node, error) {
	if tok := p.current(); tok.Type == TokenOp && tok.Value == "-" {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NegateNode{Operand: operand}, nil
	}
	return p.parsePrimary()
}

// parsePrimary handles literals, references, function calls and parentheses
func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenEOF:
		return nil, NewSheetError(ErrorCodeSyntax, "unexpected end of expression")

	case TokenNumber:
		p.pos++
		val, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, NewSheetError(ErrorCodeSyntax, fmt.Sprintf("invalid number: %s", tok.Value))
		}
		return &NumberNode{Value: val}, nil

	case TokenCell:
		p.pos++
		// a colon after a cell makes it the first corner of a range
		if p.current().Type == TokenColon {
			p.pos++
			end := p.current()
			if end.Type != TokenCell {
				return nil, NewSheetError(ErrorCodeSyntax,
					fmt.Sprintf("expected cell reference after ':', got: %s", end.Value))
			}
			p.pos++
			return &RangeNode{Start: tok.Value, End: end.Value}, nil
		}
		return &CellNode{Label: tok.Value}, nil

	case TokenIdentifier:
		p.pos++
		if p.current().Type == TokenLeftParen {
			return p.parseCallArgs(tok.Value)
		}
		// bare identifier with no call syntax is inert
		return &NameNode{Name: tok.Value}, nil

	case TokenLeftParen:
		p.pos++
		node, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		if p.current().Type != TokenRightParen {
			return nil, NewSheetError(ErrorCodeSyntax, "expected closing parenthesis")
		}
		p.pos++
		return node, nil

	default:
		return nil, NewSheetError(ErrorCodeSyntax, fmt.Sprintf("unexpected token: %s", tok.Value))
	}
}

// parseCallArgs parses the parenthesized argument list of a function call,
// with the opening parenthesis as the current token
func (p *Parser) parseCallArgs(name string) (Node, error) {
	p.pos++ // consume '('

	args := []Node{}
	if p.current().Type == TokenRightParen {
		p.pos++
		return &CallNode{Name: name, Args: args}, nil
	}

	for {
		arg, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch tok := p.current(); tok.Type {
		case TokenRightParen:
			p.pos++
			return &CallNode{Name: name, Args: args}, nil
		case TokenComma:
			p.pos++
		case TokenEOF:
			return nil, NewSheetError(ErrorCodeSyntax, "unexpected end in function arguments")
		default:
			return nil, NewSheetError(ErrorCodeSyntax,
				fmt.Sprintf("expected ',' or ')' in function arguments, got: %s", tok.Value))
		}
	}
}

// current returns the token at the cursor, EOF-safe
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Pos: p.pos}
	}
	return p.tokens[p.pos]
}
