// # Description
//
// Package cfg constructs a Control Flow Graph (CFG) for one function-like
// scope of the tree representation.
//
// ## Control Flow Graph (CFG)
//
// A CFG is a representation, using graph notation, of all paths that might be
// traversed through a program during its execution. In this package:
//
//   - Each graph node wraps exactly one tree node acting as a control point:
//     a statement, or the branch-test expression of a conditional or loop.
//   - Directed edges represent possible control transfers. Outgoing edges are
//     ordered: for a two-way branch, index 0 is the taken branch and index 1
//     the fallthrough.
//
// The model is deliberately approximate: control forks at conditionals and
// cycles only through explicit loop back-edges. No edges model non-local
// transfers out of called routines; calls stay part of their enclosing
// statement's control point because no modeled operation can transfer control
// out of an expression.
//
// ## Package Functionality
//
//  1. CFG construction: Build produces the graph for a scope root, failing
//     atomically on any unrecognized statement kind.
//  2. Statements that can never execute are still represented, flagged
//     unreachable rather than silently dropped.
//  3. The liveness pass and other backward analyses traverse the graph via
//     Nodes, Succs and Preds.
package cfg
