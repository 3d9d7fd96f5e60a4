package tree

// Index owns the stable node identifiers for one tree. Identifiers are
// assigned once, in pre-order, the first time a tree is indexed; they make node
// identity a plain integer so side tables can key on it instead of pointer
// identity.
type Index struct {
	nodes []*Node
}

// NewIndex walks root in pre-order and assigns a 1-based identifier to every
// node that does not have one yet. Indexing the same tree again is a no-op for
// already-numbered nodes, so identifiers stay stable for the lifetime of the
// analysis session.
func NewIndex(root *Node) *Index {
	ix := &Index{}
	ix.number(root)
	return ix
}

func (ix *Index) number(n *Node) {
	if n == nil {
		return
	}
	if n.id == 0 {
		n.id = len(ix.nodes) + 1
	}
	ix.nodes = append(ix.nodes, n)
	for _, c := range n.Children {
		ix.number(c)
	}
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return len(ix.nodes) }

// Nodes returns all indexed nodes in pre-order.
func (ix *Index) Nodes() []*Node { return ix.nodes }

// Root returns the root node of the indexed tree.
func (ix *Index) Root() *Node {
	if len(ix.nodes) == 0 {
		return nil
	}
	return ix.nodes[0]
}

// Walk visits every node under root in pre-order, stopping descent into a
// subtree when fn returns false.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil || !fn(root) {
		return
	}
	for _, c := range root.Children {
		Walk(c, fn)
	}
}
