package flowage

import (
	"fmt"

	"github.com/viant/flowage/tree"
)

// UnsupportedConstructError reports a node kind a pass does not model. The
// pass returns no partial result; the whole scope fails.
type UnsupportedConstructError struct {
	Pass string
	Node *tree.Node
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("%s: unsupported construct %s at node #%d", e.Pass, e.Node.Kind, e.Node.ID())
}

// InvalidScopeError reports that a pass was handed a root node that does not
// introduce a scope.
type InvalidScopeError struct {
	Node *tree.Node
}

func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("node #%d (%s) does not introduce a scope", e.Node.ID(), e.Node.Kind)
}
