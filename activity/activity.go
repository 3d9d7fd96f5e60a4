// Package activity computes per-scope read/modified/bound symbol sets in a
// single deterministic pre-order traversal, consuming the canonical names the
// qualname pass stored. Besides the scope-wide aggregate it annotates every
// control point (statement or branch-test expression) with its own read and
// modified sets so downstream passes can reason per statement.
package activity

import (
	"github.com/viant/flowage"
	"github.com/viant/flowage/anno"
	"github.com/viant/flowage/qualname"
	"github.com/viant/flowage/tree"
)

const (
	// KeyScopeActivity stores the *ScopeActivity on a scope root node.
	KeyScopeActivity anno.Key = "scope-activity"
	// KeyStatementActivity stores a *StatementActivity on every control point.
	KeyStatementActivity anno.Key = "statement-activity"
)

// ScopeActivity aggregates the symbol activity of one function-like scope.
type ScopeActivity struct {
	Read       qualname.Set // symbols read anywhere in the scope
	Modified   qualname.Set // symbols assigned anywhere in the scope
	Bound      qualname.Set // plain names bound locally (params, assignments, nested defs)
	ScopeDecls qualname.Set // names declared global/nonlocal
}

// StatementActivity is the activity of a single control point, excluding any
// nested statement bodies.
type StatementActivity struct {
	Read     qualname.Set
	Modified qualname.Set
}

// Free returns the names the scope reads without binding them locally.
func (s *ScopeActivity) Free() qualname.Set {
	return s.Read.Diff(s.Bound).Diff(s.ScopeDecls)
}

// AdoptFree merges an inner scope's free reads into the receiver's read set.
// This is the closure propagation capability: callers invoke it only when the
// language's closure rule makes the enclosing scope account for the inner
// scope's free variables.
func (s *ScopeActivity) AdoptFree(inner *ScopeActivity) {
	s.Read.AddAll(inner.Free())
}

type analyzer struct {
	ctx   *flowage.Context
	scope *ScopeActivity
}

// Resolve analyzes the scope rooted at scopeRoot, stores the aggregate under
// KeyScopeActivity and per-control-point sets under KeyStatementActivity, and
// returns the aggregate. Nested function definitions start an independent
// invocation; the enclosing scope picks up only the nested scope's name
// binding and the symbols the nested scope explicitly declares
// global/nonlocal.
func Resolve(ctx *flowage.Context, scopeRoot *tree.Node) (*ScopeActivity, error) {
	if !scopeRoot.Kind.IsScope() {
		return nil, &flowage.InvalidScopeError{Node: scopeRoot}
	}
	a := &analyzer{
		ctx: ctx,
		scope: &ScopeActivity{
			Read:       qualname.NewSet(),
			Modified:   qualname.NewSet(),
			Bound:      qualname.NewSet(),
			ScopeDecls: qualname.NewSet(),
		},
	}
	for _, param := range scopeRoot.Params() {
		a.scope.Bound.Add(qualname.Resolve(param))
	}
	if err := a.statements(scopeRoot.Body()); err != nil {
		return nil, err
	}
	ctx.Annotations.Set(scopeRoot, KeyScopeActivity, a.scope)
	return a.scope, nil
}

func (a *analyzer) statements(stmts []*tree.Node) error {
	for _, stmt := range stmts {
		if err := a.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) statement(stmt *tree.Node) error {
	switch stmt.Kind {
	case tree.KindAssign:
		act := newStatementActivity()
		for _, target := range stmt.Targets() {
			if err := a.modify(act, target); err != nil {
				return err
			}
		}
		if err := a.reads(act, stmt.Value()); err != nil {
			return err
		}
		a.record(stmt, act)

	case tree.KindAugAssign:
		// target is both read and rewritten
		act := newStatementActivity()
		target := stmt.Child(0)
		if err := a.reads(act, target); err != nil {
			return err
		}
		if err := a.modify(act, target); err != nil {
			return err
		}
		if err := a.reads(act, stmt.Value()); err != nil {
			return err
		}
		a.record(stmt, act)

	case tree.KindReturn:
		act := newStatementActivity()
		if err := a.reads(act, stmt.Value()); err != nil {
			return err
		}
		a.record(stmt, act)

	case tree.KindExprStmt:
		act := newStatementActivity()
		if err := a.reads(act, stmt.Child(0)); err != nil {
			return err
		}
		a.record(stmt, act)

	case tree.KindIf:
		act := newStatementActivity()
		if err := a.reads(act, stmt.Cond()); err != nil {
			return err
		}
		a.record(stmt.Cond(), act)
		if err := a.statements(stmt.Body()); err != nil {
			return err
		}
		if arm := stmt.ElseArm(); arm != nil {
			if err := a.statements(arm.Body()); err != nil {
				return err
			}
		}

	case tree.KindLoop:
		act := newStatementActivity()
		if err := a.reads(act, stmt.Cond()); err != nil {
			return err
		}
		a.record(stmt.Cond(), act)
		if err := a.statements(stmt.Body()); err != nil {
			return err
		}
		if arm := stmt.PostArm(); arm != nil {
			if err := a.statements(arm.Body()); err != nil {
				return err
			}
		}

	case tree.KindBreak, tree.KindContinue:
		a.record(stmt, newStatementActivity())

	case tree.KindScopeDecl:
		if !a.ctx.Features.ScopeDecls {
			return &flowage.UnsupportedConstructError{Pass: "activity", Node: stmt}
		}
		for _, name := range stmt.Children {
			a.scope.ScopeDecls.Add(qualname.Resolve(name))
		}
		a.record(stmt, newStatementActivity())

	case tree.KindFunction:
		return a.nestedScope(stmt)

	default:
		return &flowage.UnsupportedConstructError{Pass: "activity", Node: stmt}
	}
	return nil
}

// nestedScope analyzes a nested function definition independently and updates
// the enclosing scope with the nested scope's name binding plus the symbols
// the nested scope declares global/nonlocal.
func (a *analyzer) nestedScope(def *tree.Node) error {
	inner, err := Resolve(a.ctx, def)
	if err != nil {
		return err
	}
	act := newStatementActivity()
	name := qualname.Resolve(&tree.Node{Kind: tree.KindName, Text: def.Text})
	if def.Text != "" {
		act.Modified.Add(name)
		a.scope.Bound.Add(name)
	}
	for decl := range inner.ScopeDecls {
		if inner.Read.Has(decl) {
			act.Read.Add(decl)
		}
		if inner.Modified.Has(decl) {
			act.Modified.Add(decl)
		}
	}
	a.record(def, act)
	return nil
}

// record annotates the control point and folds its sets into the scope
// aggregate.
func (a *analyzer) record(point *tree.Node, act *StatementActivity) {
	a.ctx.Annotations.Set(point, KeyStatementActivity, act)
	a.scope.Read.AddAll(act.Read)
	a.scope.Modified.AddAll(act.Modified)
}

// modify resolves an assignment target and marks it modified; a plain-name
// target is additionally bound locally.
func (a *analyzer) modify(act *StatementActivity, target *tree.Node) error {
	name, err := a.canonical(target)
	if err != nil {
		return err
	}
	act.Modified.Add(name)
	// a plain-name target binds locally unless declared global/nonlocal
	if target.Kind == tree.KindName && !a.scope.ScopeDecls.Has(name) {
		a.scope.Bound.Add(name)
	}
	// writing through a chain still reads the chain's base and any computed
	// index expressions
	if target.Kind != tree.KindName {
		if err := a.chainExtras(act, target); err != nil {
			return err
		}
		if base := chainBase(target); base != nil && base.Kind == tree.KindName {
			baseName, err := a.canonical(base)
			if err != nil {
				return err
			}
			act.Read.Add(baseName)
		}
	}
	return nil
}

// reads collects every symbol the expression reads into act.
func (a *analyzer) reads(act *StatementActivity, expr *tree.Node) error {
	if expr == nil {
		return nil
	}
	switch expr.Kind {
	case tree.KindName, tree.KindAttr, tree.KindIndex:
		name, err := a.canonical(expr)
		if err != nil {
			return err
		}
		act.Read.Add(name)
		return a.chainExtras(act, expr)
	case tree.KindLambda:
		// anonymous nested scope in expression position: analyzed
		// independently, contributes nothing to this statement
		_, err := Resolve(a.ctx, expr)
		return err
	case tree.KindLiteral:
		return nil
	default:
		for _, child := range expr.Children {
			if err := a.reads(act, child); err != nil {
				return err
			}
		}
		return nil
	}
}

// chainExtras collects reads hidden inside a reference chain: computed index
// expressions and non-name chain bases.
func (a *analyzer) chainExtras(act *StatementActivity, chain *tree.Node) error {
	switch chain.Kind {
	case tree.KindAttr:
		return a.chainExtras(act, chain.Child(0))
	case tree.KindIndex:
		if index := chain.Child(1); index != nil && index.Kind != tree.KindLiteral {
			if err := a.reads(act, index); err != nil {
				return err
			}
		}
		return a.chainExtras(act, chain.Child(0))
	case tree.KindName:
		return nil
	default:
		// chain rooted in a computed value, e.g. f().x
		return a.reads(act, chain)
	}
}

func chainBase(chain *tree.Node) *tree.Node {
	for chain != nil && (chain.Kind == tree.KindAttr || chain.Kind == tree.KindIndex) {
		chain = chain.Child(0)
	}
	return chain
}

// canonical fetches the qualname pass's stored name for a reference chain.
func (a *analyzer) canonical(chain *tree.Node) (qualname.QualName, error) {
	value, err := a.ctx.Annotations.Get(chain, qualname.KeyCanonicalName)
	if err != nil {
		return qualname.QualName{}, err
	}
	return value.(qualname.QualName), nil
}

func newStatementActivity() *StatementActivity {
	return &StatementActivity{Read: qualname.NewSet(), Modified: qualname.NewSet()}
}
