package tree

// Kind discriminates tree node variants. Analysis passes switch over Kind
// exhaustively; an unlisted kind is a construct the pass does not model.
type Kind int

const (
	// KindInvalid is the zero Kind; no well-formed node carries it.
	KindInvalid Kind = iota

	// Scope-introducing kinds.
	KindFunction // named function definition
	KindLambda   // anonymous function expression

	// Statement kinds.
	KindAssign    // target(s) = value(s)
	KindAugAssign // target op= value
	KindIf        // two-way conditional: cond, then-stmts..., optional KindElse
	KindElse      // else arm grouping the false-branch statements
	KindLoop      // condition-headed loop: cond, body-stmts..., optional KindPost
	KindPost      // post arm grouping statements run before each new iteration
	KindBreak
	KindContinue
	KindReturn    // optional value child
	KindExprStmt  // expression evaluated for effect
	KindScopeDecl // global/nonlocal declaration naming KindName children

	// Expression kinds.
	KindCall    // callee, args...
	KindAttr    // operand child, attribute name in Text
	KindIndex   // operand child, index expression child
	KindBinary  // left, right; operator in Text
	KindUnary   // operand; operator in Text
	KindName    // identifier, Text holds the name
	KindLiteral // literal token, Text holds the source text
	KindTuple   // expression grouping, e.g. a multi-value right-hand side
)

var kindNames = map[Kind]string{
	KindInvalid:   "invalid",
	KindFunction:  "function",
	KindLambda:    "lambda",
	KindAssign:    "assign",
	KindAugAssign: "aug_assign",
	KindIf:        "if",
	KindElse:      "else",
	KindLoop:      "loop",
	KindPost:      "post",
	KindBreak:     "break",
	KindContinue:  "continue",
	KindReturn:    "return",
	KindExprStmt:  "expr_stmt",
	KindScopeDecl: "scope_decl",
	KindCall:      "call",
	KindAttr:      "attr",
	KindIndex:     "index",
	KindBinary:    "binary",
	KindUnary:     "unary",
	KindName:      "name",
	KindLiteral:   "literal",
	KindTuple:     "tuple",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsScope reports whether the kind introduces a new lexical scope.
func (k Kind) IsScope() bool {
	return k == KindFunction || k == KindLambda
}

// IsStatement reports whether the kind is a statement-level control point.
func (k Kind) IsStatement() bool {
	switch k {
	case KindAssign, KindAugAssign, KindIf, KindLoop, KindBreak, KindContinue,
		KindReturn, KindExprStmt, KindScopeDecl, KindFunction:
		return true
	}
	return false
}
