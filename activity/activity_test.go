package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/flowage"
	"github.com/viant/flowage/activity"
	"github.com/viant/flowage/anno"
	"github.com/viant/flowage/parse"
	"github.com/viant/flowage/qualname"
	"github.com/viant/flowage/tree"
)

// analyzeSource parses the first function of src and runs the qualname and
// activity passes over it.
func analyzeSource(t *testing.T, src string, options ...flowage.Option) (*flowage.Context, *tree.Node, *activity.ScopeActivity) {
	t.Helper()
	scope, err := parse.New().Scope(context.Background(), []byte(src), "")
	require.NoError(t, err)
	tree.NewIndex(scope)
	ctx := flowage.NewContext(scope.Text, options...)
	qualname.Annotate(ctx, scope)
	act, err := activity.Resolve(ctx, scope)
	require.NoError(t, err)
	return ctx, scope, act
}

func TestResolve(t *testing.T) {
	tests := []struct {
		description string
		code        string
		read        []string
		modified    []string
		bound       []string
	}{
		{
			description: "straight-line read and write",
			code: `package main
func f(a int) int {
	b := a + 1
	return b
}`,
			read:     []string{"a", "b"},
			modified: []string{"b"},
			bound:    []string{"a", "b"},
		},
		{
			description: "conditional with early return",
			code: `package main
func f(a int) int {
	if a > 0 {
		return a
	} else {
		b := -a
	}
	return 0
}`,
			read:     []string{"a"},
			modified: []string{"b"},
			bound:    []string{"a", "b"},
		},
		{
			description: "compound assignment reads its target",
			code: `package main
func f(total, n int) int {
	total += n
	return total
}`,
			read:     []string{"n", "total"},
			modified: []string{"total"},
			bound:    []string{"n", "total"},
		},
		{
			description: "attribute chain targets",
			code: `package main
func f(p Point) {
	p.x = p.y
}`,
			read:     []string{"p", "p.y"},
			modified: []string{"p.x"},
			bound:    []string{"p"},
		},
		{
			description: "computed index degrades and reads the index variable",
			code: `package main
func f(a []int, i int) int {
	a[i] = a[0]
	return a[i]
}`,
			read:     []string{"a", "a[0]", "a[?]", "i"},
			modified: []string{"a[?]"},
			bound:    []string{"a", "i"},
		},
		{
			description: "three-clause loop counts its post statement",
			code: `package main
func f(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += i
	}
	return total
}`,
			read:     []string{"i", "n", "total"},
			modified: []string{"i", "total"},
			bound:    []string{"i", "n", "total"},
		},
		{
			description: "loop with call",
			code: `package main
func f(n int) int {
	total := 0
	i := 0
	for i < n {
		total += step(i)
		i += 1
	}
	return total
}`,
			read:     []string{"i", "n", "step", "total"},
			modified: []string{"i", "total"},
			bound:    []string{"i", "n", "total"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			_, _, act := analyzeSource(t, tc.code)
			assert.Equal(t, tc.read, act.Read.Sorted(), "read")
			assert.Equal(t, tc.modified, act.Modified.Sorted(), "modified")
			assert.Equal(t, tc.bound, act.Bound.Sorted(), "bound")
		})
	}
}

func TestStatementActivity(t *testing.T) {
	ctx, scope, _ := analyzeSource(t, `package main
func f(a int) int {
	b := a + 1
	return b
}`)
	body := scope.Body()

	assignValue, err := ctx.Annotations.Get(body[0], activity.KeyStatementActivity)
	require.NoError(t, err)
	assign := assignValue.(*activity.StatementActivity)
	assert.Equal(t, []string{"a"}, assign.Read.Sorted())
	assert.Equal(t, []string{"b"}, assign.Modified.Sorted())

	retValue, err := ctx.Annotations.Get(body[1], activity.KeyStatementActivity)
	require.NoError(t, err)
	ret := retValue.(*activity.StatementActivity)
	assert.Equal(t, []string{"b"}, ret.Read.Sorted())
	assert.Empty(t, ret.Modified.Sorted())
}

func TestBranchTestActivity(t *testing.T) {
	// the branch-test expression carries its own activity, separate from the
	// branch bodies
	ctx, scope, _ := analyzeSource(t, `package main
func f(a, b int) int {
	if a > 0 {
		b = 1
	}
	return b
}`)
	cond := scope.Body()[0].Cond()

	value, err := ctx.Annotations.Get(cond, activity.KeyStatementActivity)
	require.NoError(t, err)
	act := value.(*activity.StatementActivity)
	assert.Equal(t, []string{"a"}, act.Read.Sorted())
	assert.Empty(t, act.Modified.Sorted())
}

func TestInvalidScope(t *testing.T) {
	stmt := &tree.Node{Kind: tree.KindReturn}
	tree.NewIndex(stmt)
	ctx := flowage.NewContext("broken")

	_, err := activity.Resolve(ctx, stmt)
	var invalid *flowage.InvalidScopeError
	assert.True(t, errors.As(err, &invalid))
}

func TestMissingCanonicalNames(t *testing.T) {
	// running activity before qualname surfaces the ordering mistake
	scope, err := parse.New().Scope(context.Background(), []byte(`package main
func f(a int) int {
	return a
}`), "")
	require.NoError(t, err)
	tree.NewIndex(scope)
	ctx := flowage.NewContext("f")

	_, err = activity.Resolve(ctx, scope)
	var missing *anno.MissingAnnotationError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, qualname.KeyCanonicalName, missing.Key)
}

func TestScopeDecls(t *testing.T) {
	scope := func() *tree.Node {
		return &tree.Node{Kind: tree.KindFunction, Text: "f", Children: []*tree.Node{
			{Kind: tree.KindScopeDecl, Text: "global", Children: []*tree.Node{
				{Kind: tree.KindName, Text: "counter"},
			}},
			{Kind: tree.KindAugAssign, Text: "+", Children: []*tree.Node{
				{Kind: tree.KindName, Text: "counter"},
				{Kind: tree.KindLiteral, Text: "1"},
			}},
		}}
	}

	t.Run("disabled scope declarations are unsupported", func(t *testing.T) {
		root := scope()
		tree.NewIndex(root)
		ctx := flowage.NewContext("f")
		qualname.Annotate(ctx, root)

		_, err := activity.Resolve(ctx, root)
		var unsupported *flowage.UnsupportedConstructError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, tree.KindScopeDecl, unsupported.Node.Kind)
	})

	t.Run("declared names are tracked but not bound", func(t *testing.T) {
		root := scope()
		tree.NewIndex(root)
		ctx := flowage.NewContext("f", flowage.WithScopeDecls())
		qualname.Annotate(ctx, root)

		act, err := activity.Resolve(ctx, root)
		require.NoError(t, err)
		assert.Equal(t, []string{"counter"}, act.ScopeDecls.Sorted())
		assert.Equal(t, []string{"counter"}, act.Modified.Sorted())
		assert.Empty(t, act.Bound.Sorted())
	})
}

func TestNestedScope(t *testing.T) {
	// def outer(a): def inner(): nonlocal a; a = a + 1
	inner := &tree.Node{Kind: tree.KindFunction, Text: "inner", Children: []*tree.Node{
		{Kind: tree.KindScopeDecl, Text: "nonlocal", Children: []*tree.Node{
			{Kind: tree.KindName, Text: "a"},
		}},
		{Kind: tree.KindAssign, Children: []*tree.Node{
			{Kind: tree.KindName, Text: "a"},
			{Kind: tree.KindBinary, Text: "+", Children: []*tree.Node{
				{Kind: tree.KindName, Text: "a"},
				{Kind: tree.KindLiteral, Text: "1"},
			}},
		}},
	}}
	outer := &tree.Node{Kind: tree.KindFunction, Text: "outer", Children: []*tree.Node{
		{Kind: tree.KindName, Text: "a"},
		inner,
	}}
	tree.NewIndex(outer)
	ctx := flowage.NewContext("outer", flowage.WithScopeDecls())
	qualname.Annotate(ctx, outer)

	act, err := activity.Resolve(ctx, outer)
	require.NoError(t, err)

	// the nested scope was analyzed independently
	innerValue, err := ctx.Annotations.Get(inner, activity.KeyScopeActivity)
	require.NoError(t, err)
	innerAct := innerValue.(*activity.ScopeActivity)
	assert.Equal(t, []string{"a"}, innerAct.Read.Sorted())
	assert.Equal(t, []string{"a"}, innerAct.Modified.Sorted())

	// the encloser binds the nested scope's name and adopts only the
	// explicitly declared symbols
	assert.Equal(t, []string{"a", "inner"}, act.Bound.Sorted())
	assert.Equal(t, []string{"a"}, act.Read.Sorted())
	assert.Equal(t, []string{"a", "inner"}, act.Modified.Sorted())
}

func TestAdoptFree(t *testing.T) {
	// a nested scope reading a free variable does not touch the encloser
	// unless the caller opts in
	inner := &tree.Node{Kind: tree.KindFunction, Text: "inner", Children: []*tree.Node{
		{Kind: tree.KindReturn, Children: []*tree.Node{
			{Kind: tree.KindName, Text: "captured"},
		}},
	}}
	outer := &tree.Node{Kind: tree.KindFunction, Text: "outer", Children: []*tree.Node{inner}}
	tree.NewIndex(outer)
	ctx := flowage.NewContext("outer")
	qualname.Annotate(ctx, outer)

	act, err := activity.Resolve(ctx, outer)
	require.NoError(t, err)
	assert.Empty(t, act.Read.Sorted())

	innerValue, err := ctx.Annotations.Get(inner, activity.KeyScopeActivity)
	require.NoError(t, err)
	innerAct := innerValue.(*activity.ScopeActivity)
	assert.Equal(t, []string{"captured"}, innerAct.Free().Sorted())

	act.AdoptFree(innerAct)
	assert.Equal(t, []string{"captured"}, act.Read.Sorted())
}
