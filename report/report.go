// Package report turns a fully analyzed scope into a serializable summary. It
// is a read-only consumer of the annotation store: it queries the documented
// keys and fails with the underlying missing-annotation error when the pass
// pipeline was not run first.
package report

import (
	"github.com/viant/flowage"
	"github.com/viant/flowage/activity"
	"github.com/viant/flowage/cfg"
	"github.com/viant/flowage/liveness"
	"github.com/viant/flowage/qualname"
	"github.com/viant/flowage/tree"
)

// Report summarizes one analyzed scope.
type Report struct {
	Scope    string       `yaml:"scope"`
	Unit     string       `yaml:"unit,omitempty"`
	Activity ActivityView `yaml:"activity"`
	Points   []PointView  `yaml:"points"`
}

// ActivityView is the scope-wide symbol activity in deterministic order.
type ActivityView struct {
	Read       []string `yaml:"read,omitempty"`
	Modified   []string `yaml:"modified,omitempty"`
	Bound      []string `yaml:"bound,omitempty"`
	ScopeDecls []string `yaml:"scopeDecls,omitempty"`
}

// PointView is one control point of the scope's CFG.
type PointView struct {
	Kind        string   `yaml:"kind"`
	Source      string   `yaml:"source,omitempty"`
	Read        []string `yaml:"read,omitempty"`
	Modified    []string `yaml:"modified,omitempty"`
	LiveIn      []string `yaml:"liveIn,omitempty"`
	Succs       []int    `yaml:"succs,omitempty"`
	Unreachable bool     `yaml:"unreachable,omitempty"`
}

// Build assembles the report for an analyzed scope root. The qualname,
// activity, cfg and liveness passes must all have run for this session.
func Build(ctx *flowage.Context, scopeRoot *tree.Node) (*Report, error) {
	scopeValue, err := ctx.Annotations.Get(scopeRoot, activity.KeyScopeActivity)
	if err != nil {
		return nil, err
	}
	scopeActivity := scopeValue.(*activity.ScopeActivity)
	graphValue, err := ctx.Annotations.Get(scopeRoot, cfg.KeyCFG)
	if err != nil {
		return nil, err
	}
	graph := graphValue.(*cfg.Graph)

	out := &Report{
		Scope: ctx.ScopeName,
		Unit:  ctx.Unit,
		Activity: ActivityView{
			Read:       scopeActivity.Read.Sorted(),
			Modified:   scopeActivity.Modified.Sorted(),
			Bound:      scopeActivity.Bound.Sorted(),
			ScopeDecls: scopeActivity.ScopeDecls.Sorted(),
		},
	}

	nodes := graph.Nodes()
	index := make(map[*cfg.Node]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}
	for _, n := range nodes {
		actValue, err := ctx.Annotations.Get(n.Stmt, activity.KeyStatementActivity)
		if err != nil {
			return nil, err
		}
		act := actValue.(*activity.StatementActivity)
		liveValue, err := ctx.Annotations.Get(n.Stmt, liveness.KeyLiveIn)
		if err != nil {
			return nil, err
		}
		point := PointView{
			Kind:        n.Stmt.Kind.String(),
			Source:      snippet(ctx.Source, n.Stmt),
			Read:        act.Read.Sorted(),
			Modified:    act.Modified.Sorted(),
			LiveIn:      liveValue.(qualname.Set).Sorted(),
			Unreachable: n.Unreachable(),
		}
		for _, s := range n.Succs() {
			point.Succs = append(point.Succs, index[s])
		}
		out.Points = append(out.Points, point)
	}
	return out, nil
}

// snippet extracts the control point's source text when offsets are in range.
func snippet(source string, n *tree.Node) string {
	if n.Start < 0 || n.End > len(source) || n.Start >= n.End {
		return ""
	}
	return source[n.Start:n.End]
}
