// Package anno implements the per-session annotation store: a side table
// attaching pass results to tree nodes by node identity. Passes communicate
// exclusively through it, so the tree itself stays untouched.
package anno

import (
	"fmt"

	"github.com/viant/flowage/tree"
)

// Key names one annotation namespace. Every pass owns its keys and only
// overwrites values under keys it owns.
type Key string

type entryKey struct {
	node int
	key  Key
}

// Store holds at most one value per (node, key) pair. A store belongs to one
// analysis session; concurrent sessions each own their own instance.
type Store struct {
	entries map[entryKey]interface{}
}

// NewStore creates an empty annotation store.
func NewStore() *Store {
	return &Store{entries: make(map[entryKey]interface{})}
}

// Set stores value under (n, key), overwriting any prior value for that pair.
// The node must have been indexed; unindexed nodes all carry ID 0 and would
// collapse into a single entry.
func (s *Store) Set(n *tree.Node, key Key, value interface{}) {
	s.entries[entryKey{node: mustID(n), key: key}] = value
}

// Get returns the value stored under (n, key) or a MissingAnnotationError when
// nothing was stored, typically because passes ran out of order.
func (s *Store) Get(n *tree.Node, key Key) (interface{}, error) {
	if value, ok := s.entries[entryKey{node: mustID(n), key: key}]; ok {
		return value, nil
	}
	return nil, &MissingAnnotationError{Node: n, Key: key}
}

// Has reports whether a value exists under (n, key) without failing.
func (s *Store) Has(n *tree.Node, key Key) bool {
	_, ok := s.entries[entryKey{node: mustID(n), key: key}]
	return ok
}

func mustID(n *tree.Node) int {
	id := n.ID()
	if id == 0 {
		panic(fmt.Sprintf("anno: %s node was never indexed", n.Kind))
	}
	return id
}

// Len returns the number of stored entries.
func (s *Store) Len() int { return len(s.entries) }

// MissingAnnotationError reports a query for an annotation that was never
// written.
type MissingAnnotationError struct {
	Node *tree.Node
	Key  Key
}

func (e *MissingAnnotationError) Error() string {
	return fmt.Sprintf("missing annotation %q on %s node #%d", e.Key, e.Node.Kind, e.Node.ID())
}
