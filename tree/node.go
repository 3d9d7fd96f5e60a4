// Package tree defines the language-neutral program representation the analysis
// passes operate on. Nodes are produced by an external parser (or test fixtures)
// and are immutable from the analysis core's perspective: passes inspect kinds
// and children and attach results through an annotation store, never reshaping
// the tree.
package tree

// Node is a single node of the program tree. A node carries a Kind
// discriminant, the source token text where relevant (identifiers, literals,
// operators, attribute names) and an ordered child list.
//
// Child layout conventions by kind:
//
//	function/lambda: leading KindName children are parameters, the rest is the body
//	assign:          all children but the last are targets, the last is the value
//	aug_assign:      [target, value], operator in Text
//	if:              [cond, then-statements..., optional trailing KindElse]
//	else:            false-branch statements
//	loop:            [cond, body-statements..., optional trailing KindPost]
//	post:            statements run between the body's end and the header
//	return:          zero or one value child
//	scope_decl:      KindName children; Text is "global" or "nonlocal"
//	call:            [callee, arguments...]
//	attr:            [operand], attribute name in Text
//	index:           [operand, index-expression]
type Node struct {
	Kind     Kind
	Text     string
	Children []*Node

	// Start and End are byte offsets into the originating source, when known.
	Start int
	End   int

	id int // 1-based, assigned once by Index
}

// ID returns the stable identifier assigned by NewIndex, or zero when the node
// has not been indexed yet.
func (n *Node) ID() int { return n.id }

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Params returns the parameter names of a function or lambda node.
func (n *Node) Params() []*Node {
	if !n.Kind.IsScope() {
		return nil
	}
	var params []*Node
	for _, c := range n.Children {
		if c.Kind != KindName {
			break
		}
		params = append(params, c)
	}
	return params
}

// Body returns the statement children of a scope, if, else, loop or post node.
func (n *Node) Body() []*Node {
	switch n.Kind {
	case KindFunction, KindLambda:
		return n.Children[len(n.Params()):]
	case KindIf:
		body := n.Children[1:]
		if arm := n.ElseArm(); arm != nil {
			body = body[:len(body)-1]
		}
		return body
	case KindElse, KindPost:
		return n.Children
	case KindLoop:
		body := n.Children[1:]
		if arm := n.PostArm(); arm != nil {
			body = body[:len(body)-1]
		}
		return body
	}
	return nil
}

// Cond returns the branch-test expression of an if or loop node.
func (n *Node) Cond() *Node {
	if n.Kind == KindIf || n.Kind == KindLoop {
		return n.Child(0)
	}
	return nil
}

// ElseArm returns the trailing else node of a conditional, or nil.
func (n *Node) ElseArm() *Node {
	if n.Kind != KindIf {
		return nil
	}
	if last := n.Child(len(n.Children) - 1); last != nil && last.Kind == KindElse {
		return last
	}
	return nil
}

// PostArm returns the trailing post node of a loop, or nil. Its statements run
// on every path back to the header, including continue.
func (n *Node) PostArm() *Node {
	if n.Kind != KindLoop {
		return nil
	}
	if last := n.Child(len(n.Children) - 1); last != nil && last.Kind == KindPost {
		return last
	}
	return nil
}

// Targets returns the assignment targets of an assign or aug_assign node.
func (n *Node) Targets() []*Node {
	switch n.Kind {
	case KindAssign:
		if len(n.Children) < 2 {
			return nil
		}
		return n.Children[:len(n.Children)-1]
	case KindAugAssign:
		if len(n.Children) != 2 {
			return nil
		}
		return n.Children[:1]
	}
	return nil
}

// Value returns the assigned or returned value expression, or nil.
func (n *Node) Value() *Node {
	switch n.Kind {
	case KindAssign, KindAugAssign:
		return n.Child(len(n.Children) - 1)
	case KindReturn:
		return n.Child(0)
	}
	return nil
}
