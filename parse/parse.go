// Package parse adapts tree-sitter concrete syntax trees of Go-like source
// into the language-neutral tree representation the analysis core consumes.
// It sits outside the core: the passes never import it, they only see the
// tree.Node values it produces.
package parse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/viant/flowage/tree"
)

// UnsupportedSyntaxError reports source syntax the adapter cannot map onto the
// analysis tree model.
type UnsupportedSyntaxError struct {
	Construct string
	Offset    int
}

func (e *UnsupportedSyntaxError) Error() string {
	return fmt.Sprintf("cannot map %s at byte %d onto the analysis tree", e.Construct, e.Offset)
}

// Parser parses Go-like source into analysis trees, one per function
// declaration.
type Parser struct {
	parser *sitter.Parser
}

// New creates a parser for the Go grammar.
func New() *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	return &Parser{parser: parser}
}

// Scopes parses src and returns one analysis tree per top-level function
// declaration, in source order.
func (p *Parser) Scopes(ctx context.Context, src []byte) ([]*tree.Node, error) {
	parsed, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	root := parsed.RootNode()
	var scopes []*tree.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		if decl.Type() != "function_declaration" {
			continue
		}
		scope, err := p.function(decl, src)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, scope)
	}
	return scopes, nil
}

// Scope parses src and returns the analysis tree of the named function, or
// the first function when name is empty.
func (p *Parser) Scope(ctx context.Context, src []byte, name string) (*tree.Node, error) {
	scopes, err := p.Scopes(ctx, src)
	if err != nil {
		return nil, err
	}
	for _, scope := range scopes {
		if name == "" || scope.Text == name {
			return scope, nil
		}
	}
	return nil, fmt.Errorf("function %q not found", name)
}

func (p *Parser) function(n *sitter.Node, src []byte) (*tree.Node, error) {
	fn := &tree.Node{Kind: tree.KindFunction, Start: int(n.StartByte()), End: int(n.EndByte())}
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		fn.Text = text(nameNode, src)
	} else {
		fn.Kind = tree.KindLambda
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			decl := params.NamedChild(i)
			if decl.Type() != "parameter_declaration" {
				continue
			}
			for j := 0; j < int(decl.NamedChildCount()); j++ {
				ch := decl.NamedChild(j)
				if ch.Type() == "identifier" {
					fn.Children = append(fn.Children, leaf(tree.KindName, ch, src))
				}
			}
		}
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return fn, nil
	}
	stmts, err := p.block(body, src)
	if err != nil {
		return nil, err
	}
	fn.Children = append(fn.Children, stmts...)
	return fn, nil
}

func (p *Parser) block(n *sitter.Node, src []byte) ([]*tree.Node, error) {
	var stmts []*tree.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		mapped, err := p.statement(n.NamedChild(i), src)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, mapped...)
	}
	return stmts, nil
}

// statement maps one source statement onto zero or more analysis statements.
// A for-clause loop expands into its hoisted init statement plus the loop.
func (p *Parser) statement(n *sitter.Node, src []byte) ([]*tree.Node, error) {
	switch n.Type() {
	case "short_var_declaration", "assignment_statement":
		return p.assignment(n, src)

	case "inc_statement", "dec_statement":
		target, err := p.expression(n.NamedChild(0), src)
		if err != nil {
			return nil, err
		}
		op := "+"
		if n.Type() == "dec_statement" {
			op = "-"
		}
		one := &tree.Node{Kind: tree.KindLiteral, Text: "1", Start: int(n.EndByte()), End: int(n.EndByte())}
		return []*tree.Node{span(&tree.Node{Kind: tree.KindAugAssign, Text: op, Children: []*tree.Node{target, one}}, n)}, nil

	case "if_statement":
		return p.ifStatement(n, src)

	case "for_statement":
		return p.forStatement(n, src)

	case "return_statement":
		ret := &tree.Node{Kind: tree.KindReturn}
		if list := n.NamedChild(0); list != nil && list.Type() == "expression_list" {
			value, err := p.expressionList(list, src)
			if err != nil {
				return nil, err
			}
			ret.Children = append(ret.Children, value)
		}
		return []*tree.Node{span(ret, n)}, nil

	case "break_statement":
		return []*tree.Node{span(&tree.Node{Kind: tree.KindBreak}, n)}, nil

	case "continue_statement":
		return []*tree.Node{span(&tree.Node{Kind: tree.KindContinue}, n)}, nil

	case "expression_statement":
		expr, err := p.expression(n.NamedChild(0), src)
		if err != nil {
			return nil, err
		}
		return []*tree.Node{span(&tree.Node{Kind: tree.KindExprStmt, Children: []*tree.Node{expr}}, n)}, nil

	case "block":
		// a bare nested block contributes its statements directly
		return p.block(n, src)

	default:
		return nil, &UnsupportedSyntaxError{Construct: n.Type(), Offset: int(n.StartByte())}
	}
}

func (p *Parser) assignment(n *sitter.Node, src []byte) ([]*tree.Node, error) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil {
		return nil, &UnsupportedSyntaxError{Construct: n.Type(), Offset: int(n.StartByte())}
	}
	targets, err := p.expressions(left, src)
	if err != nil {
		return nil, err
	}
	value, err := p.expressionList(right, src)
	if err != nil {
		return nil, err
	}

	op := "="
	if operator := n.ChildByFieldName("operator"); operator != nil {
		op = text(operator, src)
	}
	if op != "=" && op != ":=" {
		// compound assignment: single target, operator without the '='
		if len(targets) != 1 {
			return nil, &UnsupportedSyntaxError{Construct: n.Type(), Offset: int(n.StartByte())}
		}
		aug := &tree.Node{Kind: tree.KindAugAssign, Text: op[:len(op)-1], Children: []*tree.Node{targets[0], value}}
		return []*tree.Node{span(aug, n)}, nil
	}
	assign := &tree.Node{Kind: tree.KindAssign, Children: append(targets, value)}
	return []*tree.Node{span(assign, n)}, nil
}

func (p *Parser) ifStatement(n *sitter.Node, src []byte) ([]*tree.Node, error) {
	cond, err := p.expression(n.ChildByFieldName("condition"), src)
	if err != nil {
		return nil, err
	}
	node := &tree.Node{Kind: tree.KindIf, Children: []*tree.Node{cond}}
	if consequence := n.ChildByFieldName("consequence"); consequence != nil {
		stmts, err := p.block(consequence, src)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, stmts...)
	}
	if alternative := n.ChildByFieldName("alternative"); alternative != nil {
		arm := &tree.Node{Kind: tree.KindElse, Start: int(alternative.StartByte()), End: int(alternative.EndByte())}
		var stmts []*tree.Node
		if alternative.Type() == "if_statement" {
			stmts, err = p.statement(alternative, src)
		} else {
			stmts, err = p.block(alternative, src)
		}
		if err != nil {
			return nil, err
		}
		arm.Children = stmts
		node.Children = append(node.Children, arm)
	}
	return []*tree.Node{span(node, n)}, nil
}

// forStatement maps condition-only and bare loops directly; a three-clause
// loop hoists its init statement before the loop and carries the post
// statement in the loop's post arm, so continue paths still run it. Range
// loops have no condition to model.
func (p *Parser) forStatement(n *sitter.Node, src []byte) ([]*tree.Node, error) {
	var hoisted []*tree.Node
	var cond *tree.Node
	var post []*tree.Node
	var err error

	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		switch clause.Type() {
		case "for_clause":
			if init := clause.ChildByFieldName("initializer"); init != nil {
				hoisted, err = p.statement(init, src)
				if err != nil {
					return nil, err
				}
			}
			if condition := clause.ChildByFieldName("condition"); condition != nil {
				if cond, err = p.expression(condition, src); err != nil {
					return nil, err
				}
			}
			if update := clause.ChildByFieldName("update"); update != nil {
				post, err = p.statement(update, src)
				if err != nil {
					return nil, err
				}
			}
		case "range_clause":
			return nil, &UnsupportedSyntaxError{Construct: "range_clause", Offset: int(clause.StartByte())}
		case "block":
			// body, handled below
		default:
			if cond, err = p.expression(clause, src); err != nil {
				return nil, err
			}
		}
	}
	if cond == nil {
		cond = &tree.Node{Kind: tree.KindLiteral, Text: "true", Start: int(n.StartByte()), End: int(n.StartByte())}
	}
	loop := &tree.Node{Kind: tree.KindLoop, Children: []*tree.Node{cond}}
	if body := n.ChildByFieldName("body"); body != nil {
		stmts, err := p.block(body, src)
		if err != nil {
			return nil, err
		}
		loop.Children = append(loop.Children, stmts...)
	}
	if len(post) > 0 {
		arm := &tree.Node{Kind: tree.KindPost, Children: post, Start: post[0].Start, End: post[len(post)-1].End}
		loop.Children = append(loop.Children, arm)
	}
	return append(hoisted, span(loop, n)), nil
}

// expressionList maps an expression_list onto a single value node: the sole
// expression when there is one, a tuple otherwise.
func (p *Parser) expressionList(n *sitter.Node, src []byte) (*tree.Node, error) {
	exprs, err := p.expressions(n, src)
	if err != nil {
		return nil, err
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return span(&tree.Node{Kind: tree.KindTuple, Children: exprs}, n), nil
}

func (p *Parser) expressions(n *sitter.Node, src []byte) ([]*tree.Node, error) {
	if n.Type() != "expression_list" {
		expr, err := p.expression(n, src)
		if err != nil {
			return nil, err
		}
		return []*tree.Node{expr}, nil
	}
	var exprs []*tree.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		expr, err := p.expression(n.NamedChild(i), src)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func (p *Parser) expression(n *sitter.Node, src []byte) (*tree.Node, error) {
	if n == nil {
		return nil, &UnsupportedSyntaxError{Construct: "missing expression", Offset: 0}
	}
	switch n.Type() {
	case "identifier", "field_identifier":
		return leaf(tree.KindName, n, src), nil

	case "int_literal", "float_literal", "imaginary_literal", "rune_literal",
		"interpreted_string_literal", "raw_string_literal", "true", "false", "nil", "iota":
		return leaf(tree.KindLiteral, n, src), nil

	case "selector_expression":
		operand, err := p.expression(n.ChildByFieldName("operand"), src)
		if err != nil {
			return nil, err
		}
		field := n.ChildByFieldName("field")
		return span(&tree.Node{Kind: tree.KindAttr, Text: text(field, src), Children: []*tree.Node{operand}}, n), nil

	case "index_expression":
		operand, err := p.expression(n.ChildByFieldName("operand"), src)
		if err != nil {
			return nil, err
		}
		index, err := p.expression(n.ChildByFieldName("index"), src)
		if err != nil {
			return nil, err
		}
		return span(&tree.Node{Kind: tree.KindIndex, Children: []*tree.Node{operand, index}}, n), nil

	case "call_expression":
		callee, err := p.expression(n.ChildByFieldName("function"), src)
		if err != nil {
			return nil, err
		}
		call := &tree.Node{Kind: tree.KindCall, Children: []*tree.Node{callee}}
		if args := n.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				arg, err := p.expression(args.NamedChild(i), src)
				if err != nil {
					return nil, err
				}
				call.Children = append(call.Children, arg)
			}
		}
		return span(call, n), nil

	case "binary_expression":
		left, err := p.expression(n.ChildByFieldName("left"), src)
		if err != nil {
			return nil, err
		}
		right, err := p.expression(n.ChildByFieldName("right"), src)
		if err != nil {
			return nil, err
		}
		operator := n.ChildByFieldName("operator")
		return span(&tree.Node{Kind: tree.KindBinary, Text: text(operator, src), Children: []*tree.Node{left, right}}, n), nil

	case "unary_expression":
		operand, err := p.expression(n.ChildByFieldName("operand"), src)
		if err != nil {
			return nil, err
		}
		operator := n.ChildByFieldName("operator")
		return span(&tree.Node{Kind: tree.KindUnary, Text: text(operator, src), Children: []*tree.Node{operand}}, n), nil

	case "parenthesized_expression":
		return p.expression(n.NamedChild(0), src)

	case "func_literal":
		return p.function(n, src)

	default:
		// unknown expression forms keep their mapped named children so reads
		// inside them stay visible; a bare unknown leaf keeps its source text
		if n.NamedChildCount() == 0 {
			return leaf(tree.KindLiteral, n, src), nil
		}
		group := &tree.Node{Kind: tree.KindTuple}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child, err := p.expression(n.NamedChild(i), src)
			if err != nil {
				return nil, err
			}
			group.Children = append(group.Children, child)
		}
		return span(group, n), nil
	}
}

func text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}

func leaf(kind tree.Kind, n *sitter.Node, src []byte) *tree.Node {
	return &tree.Node{Kind: kind, Text: text(n, src), Start: int(n.StartByte()), End: int(n.EndByte())}
}

func span(node *tree.Node, n *sitter.Node) *tree.Node {
	node.Start = int(n.StartByte())
	node.End = int(n.EndByte())
	return node
}
