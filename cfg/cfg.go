package cfg

import (
	"github.com/viant/flowage/anno"
	"github.com/viant/flowage/tree"
)

// KeyCFG stores the built *Graph on the scope root node.
const KeyCFG anno.Key = "cfg"

// Node is one control point of the graph. It wraps exactly one tree node:
// a statement, or the branch-test expression of a conditional or loop.
type Node struct {
	Stmt *tree.Node

	succs       []*Node // ordered; index 0 is the taken branch of a two-way fork
	preds       map[*Node]struct{}
	unreachable bool
}

// Succs returns the outgoing edges in branch order.
func (n *Node) Succs() []*Node { return n.succs }

// Preds returns the incoming edges; order is not meaningful.
func (n *Node) Preds() []*Node {
	out := make([]*Node, 0, len(n.preds))
	for p := range n.preds {
		out = append(out, p)
	}
	return out
}

// IsSink reports whether the node has no outgoing edges: a return statement,
// or the last control point before falling off the end of the scope.
func (n *Node) IsSink() bool { return len(n.succs) == 0 }

// Unreachable reports whether no path from the entry reaches this node.
func (n *Node) Unreachable() bool { return n.unreachable }

// Graph is the control-flow graph of one scope. It has exactly one entry node
// (nil only for an empty scope body) and a set of sink nodes.
type Graph struct {
	Entry *Node

	nodes  []*Node
	byTree map[int]*Node
}

// Nodes returns every control point in construction order, unreachable ones
// included.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Sinks returns the reachable nodes with zero outgoing edges.
func (g *Graph) Sinks() []*Node {
	var sinks []*Node
	for _, n := range g.nodes {
		if n.IsSink() && !n.unreachable {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// NodeFor returns the control point wrapping the given tree node, or nil.
func (g *Graph) NodeFor(t *tree.Node) *Node {
	return g.byTree[t.ID()]
}

func (g *Graph) newNode(stmt *tree.Node) *Node {
	n := &Node{Stmt: stmt, preds: make(map[*Node]struct{})}
	g.nodes = append(g.nodes, n)
	g.byTree[stmt.ID()] = n
	return n
}

func connect(from, to *Node) {
	from.succs = append(from.succs, to)
	to.preds[from] = struct{}{}
}

// markReachability flags every node not reachable from the entry.
func (g *Graph) markReachability() {
	visited := make(map[*Node]struct{}, len(g.nodes))
	var frontier []*Node
	if g.Entry != nil {
		visited[g.Entry] = struct{}{}
		frontier = append(frontier, g.Entry)
	}
	for len(frontier) > 0 {
		n := frontier[0]
		frontier = frontier[1:]
		for _, s := range n.succs {
			if _, seen := visited[s]; seen {
				continue
			}
			visited[s] = struct{}{}
			frontier = append(frontier, s)
		}
	}
	for _, n := range g.nodes {
		_, seen := visited[n]
		n.unreachable = !seen
	}
}
