package anno

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowage/tree"
)

func TestStore(t *testing.T) {
	node := &tree.Node{Kind: tree.KindName, Text: "x"}
	other := &tree.Node{Kind: tree.KindName, Text: "y"}
	tree.NewIndex(&tree.Node{Kind: tree.KindFunction, Children: []*tree.Node{node, other}})

	store := NewStore()
	const key Key = "test/value"

	assert.False(t, store.Has(node, key))
	_, err := store.Get(node, key)
	var missing *MissingAnnotationError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, key, missing.Key)

	store.Set(node, key, 42)
	assert.True(t, store.Has(node, key))
	value, err := store.Get(node, key)
	assert.NoError(t, err)
	assert.Equal(t, 42, value)

	// one value per (node, key): overwrite replaces
	store.Set(node, key, 43)
	value, _ = store.Get(node, key)
	assert.Equal(t, 43, value)
	assert.Equal(t, 1, store.Len())

	// keyed by node identity, not value
	assert.False(t, store.Has(other, key))

	// distinct keys on the same node do not collide
	const otherKey Key = "other/value"
	store.Set(node, otherKey, "a")
	value, _ = store.Get(node, key)
	assert.Equal(t, 43, value)
}

func TestStoreRejectsUnindexedNode(t *testing.T) {
	// every unindexed node carries ID 0; annotating one would collapse all of
	// them into a single entry, so the store refuses outright
	orphan := &tree.Node{Kind: tree.KindName, Text: "x"}
	store := NewStore()
	const key Key = "test/value"

	assert.Panics(t, func() { store.Set(orphan, key, 1) })
	assert.Panics(t, func() { _, _ = store.Get(orphan, key) })
	assert.Panics(t, func() { store.Has(orphan, key) })
}
