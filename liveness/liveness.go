// Package liveness runs a backward may-dataflow analysis over a scope's
// control-flow graph, annotating every control point with the set of symbols
// live on entry to it. A symbol is live at a point when some path from that
// point reads it before it is next overwritten.
package liveness

import (
	"errors"
	"fmt"

	"github.com/viant/flowage"
	"github.com/viant/flowage/activity"
	"github.com/viant/flowage/anno"
	"github.com/viant/flowage/cfg"
	"github.com/viant/flowage/qualname"
)

// KeyLiveIn stores a qualname.Set of live-on-entry symbols per control point.
const KeyLiveIn anno.Key = "live-in"

// ErrInternal marks a fixpoint that failed to converge within its theoretical
// bound. That is an implementation invariant violation, never a retryable
// condition.
var ErrInternal = errors.New("liveness: internal invariant violation")

// Resolve computes live-in sets for every node of g and writes them to the
// annotation store under KeyLiveIn, keyed by each control point's tree node.
// It consumes the per-statement activity sets, so the activity pass must have
// run first.
//
// The equations, evaluated to a fixpoint with an explicit worklist (recursion
// would grow the call stack with graph depth):
//
//	live_out(n) = union of live_in(s) over every successor s of n
//	live_in(n)  = (live_out(n) \ modified(n)) ∪ read(n)
//
// Sink nodes have empty live_out. Termination: the value domain is the
// powerset of the scope's finite symbol set ordered by inclusion and the
// transfer function is monotone, so each node's live_in can only grow and the
// number of updates per node is bounded by the symbol count.
func Resolve(ctx *flowage.Context, g *cfg.Graph) error {
	nodes := g.Nodes()
	liveIn := make(map[*cfg.Node]qualname.Set, len(nodes))
	reads := make(map[*cfg.Node]qualname.Set, len(nodes))
	writes := make(map[*cfg.Node]qualname.Set, len(nodes))

	symbols := qualname.NewSet()
	for _, n := range nodes {
		value, err := ctx.Annotations.Get(n.Stmt, activity.KeyStatementActivity)
		if err != nil {
			return err
		}
		act := value.(*activity.StatementActivity)
		reads[n] = act.Read
		writes[n] = act.Modified
		symbols.AddAll(act.Read)
		symbols.AddAll(act.Modified)
		liveIn[n] = qualname.NewSet()
	}

	// Seed with every node; each requeue means some live_in grew, which can
	// happen at most len(symbols) times per node, plus the initial visits.
	worklist := make([]*cfg.Node, len(nodes))
	copy(worklist, nodes)
	queued := make(map[*cfg.Node]bool, len(nodes))
	for _, n := range nodes {
		queued[n] = true
	}
	// generous relative to nodes × symbols: every pop either converges a node
	// or precedes one of at most nodes×symbols growth events
	bound := (len(nodes) + 1) * (len(nodes) + 1) * (len(symbols) + 2)

	for steps := 0; len(worklist) > 0; steps++ {
		if steps > bound {
			return fmt.Errorf("%w: no fixpoint after %d steps over %d nodes and %d symbols",
				ErrInternal, steps, len(nodes), len(symbols))
		}
		n := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		queued[n] = false

		liveOut := qualname.NewSet()
		for _, s := range n.Succs() {
			liveOut.AddAll(liveIn[s])
		}
		in := liveOut.Diff(writes[n]).Union(reads[n])
		if in.Equal(liveIn[n]) {
			continue
		}
		liveIn[n] = in
		for _, p := range n.Preds() {
			if !queued[p] {
				queued[p] = true
				worklist = append(worklist, p)
			}
		}
	}

	for _, n := range nodes {
		ctx.Annotations.Set(n.Stmt, KeyLiveIn, liveIn[n])
	}
	return nil
}
