// Package flowage is a scope-level static-analysis toolkit for tree-structured
// program representations. For one function-like scope it produces canonical
// qualified names for reference chains, read/modified/bound activity sets, a
// statement-level control-flow graph and backward liveness over that graph.
//
// The passes share nothing but the tree and a per-session annotation store and
// must run in dependency order: qualname before activity, cfg before liveness.
// The caller sequences them; see cmd/flowage for the canonical pipeline.
package flowage

import (
	"github.com/viant/flowage/anno"
)

// Features enables optional language constructs. A disabled construct is not a
// recognized statement kind and fails analysis as unsupported.
type Features struct {
	// ScopeDecls recognizes global/nonlocal declaration statements.
	ScopeDecls bool
}

// Context carries one analysis session: caller-owned configuration plus the
// session's annotation store. Passes read it and write only to Annotations;
// two sessions over different scopes share no mutable state.
type Context struct {
	ScopeName   string
	Source      string
	Unit        string // originating unit identifier, e.g. a module path
	Features    Features
	Annotations *anno.Store
}

// Option configures a Context.
type Option func(*Context)

// WithSource attaches the scope's source text for diagnostics.
func WithSource(source string) Option {
	return func(c *Context) {
		c.Source = source
	}
}

// WithUnit sets the originating unit identifier.
func WithUnit(unit string) Option {
	return func(c *Context) {
		c.Unit = unit
	}
}

// WithScopeDecls recognizes global/nonlocal declarations as statements.
func WithScopeDecls() Option {
	return func(c *Context) {
		c.Features.ScopeDecls = true
	}
}

// NewContext creates a session context for one scope with a fresh annotation
// store.
func NewContext(scopeName string, options ...Option) *Context {
	ctx := &Context{
		ScopeName:   scopeName,
		Annotations: anno.NewStore(),
	}
	for _, option := range options {
		option(ctx)
	}
	return ctx
}
