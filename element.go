package tstype

import (
	"strconv"
)

// TypeElement is a member of a type literal, interface or class body.
type TypeElement interface {
	Span() Span
	element()
}

// Key is a property key.  Computed is set for computed keys such as
// [Symbol.iterator] and holds the key's elaborated type.
type Key struct {
	Loc      Span
	Name     string
	Numeric  bool
	Computed Type
}

// IsSymbol returns true if the key is a symbol-typed computed key.
func (k Key) IsSymbol() bool {
	switch t := k.Computed.(type) {
	case *Symbol:
		return true
	case *Keyword:
		return t.Keyword == KeywordSymbol
	case *Operator:
		return t.Op == OpUnique
	}
	return false
}

// Text returns the key as it would be written as a property name, and
// false if the key is a computed key with no literal text.
func (k Key) Text() (string, bool) {
	if k.Computed == nil {
		if k.Numeric {
			return canonicalNumber(k.Name), true
		}
		return k.Name, true
	}
	if lit, ok := k.Computed.(*Lit); ok && (lit.Lit == LitString || lit.Lit == LitNumber) {
		if lit.Lit == LitNumber {
			return canonicalNumber(lit.Value), true
		}
		return lit.Value, true
	}
	return "", false
}

// SameKey returns true if a and b name the same property.
func SameKey(a, b Key) bool {
	at, aok := a.Text()
	bt, bok := b.Text()
	if aok || bok {
		return aok && bok && at == bt
	}
	return Equal(a.Computed, b.Computed)
}

func canonicalNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

type Accessor struct {
	Getter bool
	Setter bool
}

type CallSignature struct {
	Loc        Span
	TypeParams *TypeParamDecl
	Params     []FnParam
	Return     Type
}

type ConstructSignature struct {
	Loc        Span
	TypeParams *TypeParamDecl
	Params     []FnParam
	Return     Type
}

type PropertySignature struct {
	Loc      Span
	Key      Key
	Optional bool
	Readonly bool
	Static   bool
	Accessor Accessor
	Type     Type
}

type MethodSignature struct {
	Loc        Span
	Key        Key
	Optional   bool
	Readonly   bool
	Static     bool
	TypeParams *TypeParamDecl
	Params     []FnParam
	Return     Type
}

type IndexSignature struct {
	Loc      Span
	Params   []FnParam
	Readonly bool
	Static   bool
	Type     Type
}

func (e *CallSignature) Span() Span      { return e.Loc }
func (e *ConstructSignature) Span() Span { return e.Loc }
func (e *PropertySignature) Span() Span  { return e.Loc }
func (e *MethodSignature) Span() Span    { return e.Loc }
func (e *IndexSignature) Span() Span     { return e.Loc }

func (*CallSignature) element()      {}
func (*ConstructSignature) element() {}
func (*PropertySignature) element()  {}
func (*MethodSignature) element()    {}
func (*IndexSignature) element()     {}

// ElementKey returns the key of a property or method element.
func ElementKey(e TypeElement) (Key, bool) {
	switch e := e.(type) {
	case *PropertySignature:
		return e.Key, true
	case *MethodSignature:
		return e.Key, true
	}
	return Key{}, false
}
