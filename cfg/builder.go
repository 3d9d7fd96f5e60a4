package cfg

import (
	"github.com/viant/flowage"
	"github.com/viant/flowage/tree"
)

type builder struct {
	ctx   *flowage.Context
	graph *Graph
	loops []*loopFrame
}

// loopFrame tracks the enclosing loop for break/continue statements.
type loopFrame struct {
	header    *Node
	breaks    []*Node // pending edges to wherever the loop exits to
	continues []*Node // pending edges to the post arm, or to the header
}

// Build constructs the control-flow graph for the scope rooted at scopeRoot
// and stores it on the root under KeyCFG. Any statement kind the builder does
// not model fails the whole build; no partial graph is returned.
func Build(ctx *flowage.Context, scopeRoot *tree.Node) (*Graph, error) {
	if !scopeRoot.Kind.IsScope() {
		return nil, &flowage.InvalidScopeError{Node: scopeRoot}
	}
	b := &builder{
		ctx:   ctx,
		graph: &Graph{byTree: make(map[int]*Node)},
	}
	if _, err := b.statements(scopeRoot.Body(), nil); err != nil {
		return nil, err
	}
	if len(b.graph.nodes) > 0 {
		b.graph.Entry = b.graph.nodes[0]
	}
	b.graph.markReachability()
	ctx.Annotations.Set(scopeRoot, KeyCFG, b.graph)
	return b.graph, nil
}

// statements threads control through a statement list. frontier holds the
// nodes whose next edge is still pending; the returned slice is the frontier
// after the last statement. An empty frontier means control cannot fall
// through, so later statements become disconnected, unreachable nodes.
func (b *builder) statements(stmts []*tree.Node, frontier []*Node) ([]*Node, error) {
	for _, stmt := range stmts {
		var err error
		frontier, err = b.statement(stmt, frontier)
		if err != nil {
			return nil, err
		}
	}
	return frontier, nil
}

func (b *builder) statement(stmt *tree.Node, frontier []*Node) ([]*Node, error) {
	switch stmt.Kind {
	case tree.KindAssign, tree.KindAugAssign, tree.KindExprStmt, tree.KindFunction:
		node := b.graph.newNode(stmt)
		b.join(frontier, node)
		return []*Node{node}, nil

	case tree.KindScopeDecl:
		if !b.ctx.Features.ScopeDecls {
			return nil, &flowage.UnsupportedConstructError{Pass: "cfg", Node: stmt}
		}
		node := b.graph.newNode(stmt)
		b.join(frontier, node)
		return []*Node{node}, nil

	case tree.KindReturn:
		// sink: zero outgoing edges
		node := b.graph.newNode(stmt)
		b.join(frontier, node)
		return nil, nil

	case tree.KindBreak:
		loop := b.currentLoop()
		if loop == nil {
			return nil, &flowage.UnsupportedConstructError{Pass: "cfg", Node: stmt}
		}
		node := b.graph.newNode(stmt)
		b.join(frontier, node)
		loop.breaks = append(loop.breaks, node)
		return nil, nil

	case tree.KindContinue:
		loop := b.currentLoop()
		if loop == nil {
			return nil, &flowage.UnsupportedConstructError{Pass: "cfg", Node: stmt}
		}
		node := b.graph.newNode(stmt)
		b.join(frontier, node)
		// the edge target depends on whether the loop carries a post arm, so
		// it is resolved when the loop's own build completes
		loop.continues = append(loop.continues, node)
		return nil, nil

	case tree.KindIf:
		cond := b.graph.newNode(stmt.Cond())
		b.join(frontier, cond)
		// true branch first so its entry edge takes index 0
		thenExits, err := b.statements(stmt.Body(), []*Node{cond})
		if err != nil {
			return nil, err
		}
		elseExits := []*Node{cond}
		if arm := stmt.ElseArm(); arm != nil {
			elseExits, err = b.statements(arm.Body(), []*Node{cond})
			if err != nil {
				return nil, err
			}
		}
		return append(thenExits, elseExits...), nil

	case tree.KindLoop:
		header := b.graph.newNode(stmt.Cond())
		b.join(frontier, header)
		b.loops = append(b.loops, &loopFrame{header: header})
		bodyExits, err := b.statements(stmt.Body(), []*Node{header})
		if err != nil {
			return nil, err
		}
		loop := b.loops[len(b.loops)-1]
		b.loops = b.loops[:len(b.loops)-1]
		// every path back to the header runs the post arm first, continue
		// included
		backFrontier := append(bodyExits, loop.continues...)
		if arm := stmt.PostArm(); arm != nil {
			backFrontier, err = b.statements(arm.Body(), backFrontier)
			if err != nil {
				return nil, err
			}
		}
		// back-edges reuse the header node rather than copying it
		b.join(backFrontier, header)
		// loop exit: the header's second edge, plus any breaks
		return append([]*Node{header}, loop.breaks...), nil

	default:
		return nil, &flowage.UnsupportedConstructError{Pass: "cfg", Node: stmt}
	}
}

func (b *builder) join(frontier []*Node, to *Node) {
	for _, from := range frontier {
		connect(from, to)
	}
}

func (b *builder) currentLoop() *loopFrame {
	if len(b.loops) == 0 {
		return nil
	}
	return b.loops[len(b.loops)-1]
}
