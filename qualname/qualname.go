// Package qualname canonicalizes compound reference chains (attribute and
// index access sequences) into hashable, comparable symbols. Resolution is
// total: a chain step that cannot be resolved statically degrades the name to
// an opaque symbol instead of failing, so downstream passes stay total over
// well-formed trees.
package qualname

import (
	"github.com/minio/highwayhash"
	"github.com/viant/flowage"
	"github.com/viant/flowage/anno"
	"github.com/viant/flowage/tree"
)

// KeyCanonicalName stores the QualName of a reference-chain node.
const KeyCanonicalName anno.Key = "canonical-name"

// QualName is the canonical identity of a reference chain. Two names are equal
// iff their chains are structurally equal; an opaque name never equals a
// fully-literal one. The zero value is the empty, non-opaque name.
type QualName struct {
	repr   string
	opaque bool
}

// Opaque builds the maximally conservative unresolved symbol.
func Opaque() QualName {
	return QualName{repr: "?", opaque: true}
}

// String returns the canonical textual form, e.g. "a.b.c" or "a[0]".
// An opaque remainder renders as "?", e.g. "a[?]".
func (q QualName) String() string { return q.repr }

// IsOpaque reports whether the chain contains an unresolved step.
func (q QualName) IsOpaque() bool { return q.opaque }

// IsZero reports whether q is the empty name.
func (q QualName) IsZero() bool { return q.repr == "" }

var digestKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Digest returns a stable 64-bit digest of the canonical form, usable as a
// compact cross-session identity.
func (q QualName) Digest() uint64 {
	hash, err := highwayhash.New64(digestKey)
	if err != nil {
		// the key is a compile-time constant of the required length
		panic(err)
	}
	_, _ = hash.Write([]byte(q.repr))
	return hash.Sum64()
}

// Resolve canonicalizes the reference chain rooted at n. It walks from the
// base name outward, appending literal attribute/index steps verbatim; the
// first non-literal step terminates the chain with an opaque remainder. A node
// that is not a reference chain at all resolves to the fully opaque symbol.
func Resolve(n *tree.Node) QualName {
	if n == nil {
		return Opaque()
	}
	switch n.Kind {
	case tree.KindName:
		return QualName{repr: n.Text}
	case tree.KindAttr:
		base := Resolve(n.Child(0))
		if base.opaque {
			return base
		}
		return QualName{repr: base.repr + "." + n.Text}
	case tree.KindIndex:
		base := Resolve(n.Child(0))
		if base.opaque {
			return base
		}
		index := n.Child(1)
		if index == nil || index.Kind != tree.KindLiteral {
			return QualName{repr: base.repr + "[?]", opaque: true}
		}
		return QualName{repr: base.repr + "[" + index.Text + "]"}
	default:
		return Opaque()
	}
}

// Annotate resolves every reference-chain node under root and stores the
// result under KeyCanonicalName. It never fails; run it before the activity
// pass, which consumes the stored names.
func Annotate(ctx *flowage.Context, root *tree.Node) {
	tree.Walk(root, func(n *tree.Node) bool {
		switch n.Kind {
		case tree.KindName, tree.KindAttr, tree.KindIndex:
			ctx.Annotations.Set(n, KeyCanonicalName, Resolve(n))
		}
		return true
	})
}
