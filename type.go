package tstype

import "fmt"

// Kind identifies the variant of a Type.
type Kind int

const (
	KindKeyword Kind = iota + 1
	KindLit
	KindUnion
	KindIntersection
	KindArray
	KindTuple
	KindFunction
	KindConstructor
	KindTypeLit
	KindInterface
	KindAlias
	KindConditional
	KindMapped
	KindOperator
	KindIndexedAccess
	KindQuery
	KindOptional
	KindRest
	KindInfer
	KindImport
	KindRef
	KindTpl
	KindPredicate
	KindSymbol
	KindIntrinsic
	KindParam
	KindThis
	KindModule
)

var kindNames = [...]string{
	KindKeyword:       "keyword",
	KindLit:           "literal",
	KindUnion:         "union",
	KindIntersection:  "intersection",
	KindArray:         "array",
	KindTuple:         "tuple",
	KindFunction:      "function",
	KindConstructor:   "constructor",
	KindTypeLit:       "type literal",
	KindInterface:     "interface",
	KindAlias:         "alias",
	KindConditional:   "conditional",
	KindMapped:        "mapped",
	KindOperator:      "operator",
	KindIndexedAccess: "indexed access",
	KindQuery:         "query",
	KindOptional:      "optional",
	KindRest:          "rest",
	KindInfer:         "infer",
	KindImport:        "import",
	KindRef:           "reference",
	KindTpl:           "template literal",
	KindPredicate:     "predicate",
	KindSymbol:        "symbol",
	KindIntrinsic:     "intrinsic",
	KindParam:         "type parameter",
	KindThis:          "this",
	KindModule:        "module",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type is the semantic value produced by elaborating type syntax.  A Type
// is uniquely owned and mutable until it is frozen by Context.Freeze; a
// frozen Type has a non-zero ID and must not be modified.  Use Clone to
// derive a mutable copy.
type Type interface {
	Kind() Kind
	ID() int
	Span() Span
	Meta() Metadata
	common() *Common
}

// Span is a byte range in module source text.
type Span struct {
	First int
	Last  int
}

func (s Span) Pos() int { return s.First }
func (s Span) End() int { return s.Last }

// Metadata holds flags that travel with a Type but do not take part in
// structural equality.
type Metadata struct {
	// ContainsInfer is set if the type transitively contains an infer
	// capture.
	ContainsInfer         bool
	Implicit              bool
	PreventGeneralization bool
	PreventTupleToArray   bool
	PreventExpansion      bool
	Specified             bool
}

// Common is embedded in every Type variant.
type Common struct {
	Loc      Span
	Metadata Metadata
	id       int
}

func (c *Common) ID() int         { return c.id }
func (c *Common) Span() Span      { return c.Loc }
func (c *Common) Meta() Metadata  { return c.Metadata }
func (c *Common) common() *Common { return c }

// IsFrozen returns true if t has been finalized by a Context.
func IsFrozen(t Type) bool {
	return t != nil && t.ID() != 0
}

// SetMeta returns t with its metadata replaced by f(meta).  If t is frozen,
// a mutable copy is modified and returned instead.
func SetMeta(t Type, f func(*Metadata)) Type {
	if IsFrozen(t) {
		t = Clone(t)
	}
	f(&t.common().Metadata)
	return t
}

// TypeID returns the ID of t or zero for a nil or mutable type.
func TypeID(t Type) int {
	if t == nil {
		return 0
	}
	return t.ID()
}
