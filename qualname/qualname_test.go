package qualname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowage"
	"github.com/viant/flowage/tree"
)

func name(text string) *tree.Node {
	return &tree.Node{Kind: tree.KindName, Text: text}
}

func attr(operand *tree.Node, field string) *tree.Node {
	return &tree.Node{Kind: tree.KindAttr, Text: field, Children: []*tree.Node{operand}}
}

func index(operand, idx *tree.Node) *tree.Node {
	return &tree.Node{Kind: tree.KindIndex, Children: []*tree.Node{operand, idx}}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		description string
		node        *tree.Node
		expect      string
		opaque      bool
	}{
		{
			description: "plain name",
			node:        name("a"),
			expect:      "a",
		},
		{
			description: "attribute chain",
			node:        attr(attr(name("a"), "b"), "c"),
			expect:      "a.b.c",
		},
		{
			description: "literal index",
			node:        index(name("a"), &tree.Node{Kind: tree.KindLiteral, Text: "0"}),
			expect:      "a[0]",
		},
		{
			description: "computed index degrades to opaque",
			node:        index(name("a"), name("i")),
			expect:      "a[?]",
			opaque:      true,
		},
		{
			description: "opaque step terminates the chain",
			node:        attr(index(name("a"), name("i")), "b"),
			expect:      "a[?]",
			opaque:      true,
		},
		{
			description: "non-chain node is maximally conservative",
			node:        &tree.Node{Kind: tree.KindCall, Children: []*tree.Node{name("f")}},
			expect:      "?",
			opaque:      true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			got := Resolve(tc.node)
			assert.Equal(t, tc.expect, got.String())
			assert.Equal(t, tc.opaque, got.IsOpaque())
		})
	}
}

func TestResolveIdentity(t *testing.T) {
	chain := func() *tree.Node { return attr(attr(name("a"), "b"), "c") }

	// two occurrences of the same literal chain resolve to equal symbols
	first := Resolve(chain())
	second := Resolve(chain())
	assert.Equal(t, first, second)
	assert.Equal(t, first.Digest(), second.Digest())

	// a.b.c is distinct from both a and a.b
	assert.NotEqual(t, first, Resolve(name("a")))
	assert.NotEqual(t, first, Resolve(attr(name("a"), "b")))

	// an opaque chain never aliases a literal-indexed one
	literal := Resolve(index(name("a"), &tree.Node{Kind: tree.KindLiteral, Text: "0"}))
	computed := Resolve(index(name("a"), name("i")))
	assert.NotEqual(t, literal, computed)

	// names are usable as map keys
	seen := map[QualName]int{first: 1}
	assert.Equal(t, 1, seen[second])
}

func TestAnnotate(t *testing.T) {
	chain := attr(name("a"), "b")
	ret := &tree.Node{Kind: tree.KindReturn, Children: []*tree.Node{chain}}
	scope := &tree.Node{Kind: tree.KindFunction, Text: "f", Children: []*tree.Node{ret}}
	tree.NewIndex(scope)

	ctx := flowage.NewContext("f")
	Annotate(ctx, scope)

	value, err := ctx.Annotations.Get(chain, KeyCanonicalName)
	assert.NoError(t, err)
	assert.Equal(t, "a.b", value.(QualName).String())

	// interior chain nodes are annotated too
	inner, err := ctx.Annotations.Get(chain.Child(0), KeyCanonicalName)
	assert.NoError(t, err)
	assert.Equal(t, "a", inner.(QualName).String())

	// statement nodes are not reference chains
	assert.False(t, ctx.Annotations.Has(ret, KeyCanonicalName))
}

func TestSet(t *testing.T) {
	a := Resolve(name("a"))
	b := Resolve(name("b"))
	c := Resolve(name("c"))

	s := NewSet(a, b)
	assert.True(t, s.Has(a))
	assert.False(t, s.Has(c))
	assert.False(t, s.Add(a))
	assert.True(t, s.Add(c))

	other := NewSet(b, c)
	assert.Equal(t, []string{"a"}, s.Diff(other).Sorted())
	assert.Equal(t, []string{"a", "b", "c"}, s.Union(other).Sorted())
	assert.True(t, s.Equal(NewSet(a, b, c)))
	assert.False(t, s.Equal(other))

	clone := s.Clone()
	clone.Add(Resolve(name("d")))
	assert.False(t, s.Has(Resolve(name("d"))))
}
