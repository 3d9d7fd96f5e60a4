package flowage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("f")
	assert.Equal(t, "f", ctx.ScopeName)
	assert.NotNil(t, ctx.Annotations)
	assert.False(t, ctx.Features.ScopeDecls)

	configured := NewContext("g",
		WithSource("return a"),
		WithUnit("github.com/example/app"),
		WithScopeDecls())
	assert.Equal(t, "return a", configured.Source)
	assert.Equal(t, "github.com/example/app", configured.Unit)
	assert.True(t, configured.Features.ScopeDecls)

	// sessions own independent annotation stores
	assert.NotSame(t, ctx.Annotations, configured.Annotations)
}
