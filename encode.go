package tstype

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"
	"sync"
)

var keyPool = sync.Pool{
	New: func() interface{} {
		// Return a pointer to avoid allocation on conversion to
		// interface.
		buf := make([]byte, 0, 128)
		return &buf
	},
}

// encoder serializes the structure of a Type into a byte key.  Spans are
// never encoded.  With meta set, metadata flags are part of the key.  With
// ids set, frozen children are encoded by ID, which is how Context keys a
// node whose children are already interned.
type encoder struct {
	buf  []byte
	meta bool
	ids  bool
}

const (
	tagNil = iota
	tagID
	tagType
)

// Equal returns true if a and b are structurally equal, ignoring source
// spans and metadata.
func Equal(a, b Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	ka := keyPool.Get().(*[]byte)
	kb := keyPool.Get().(*[]byte)
	defer keyPool.Put(ka)
	defer keyPool.Put(kb)
	ea := encoder{buf: (*ka)[:0]}
	ea.typ(a)
	eb := encoder{buf: (*kb)[:0]}
	eb.typ(b)
	*ka, *kb = ea.buf, eb.buf
	return bytes.Equal(ea.buf, eb.buf)
}

// EqualSurface returns true if a and b export the same names bound to
// structurally equal types.
func EqualSurface(a, b *ModuleTypeData) bool {
	if a.Empty() || b.Empty() {
		return a.Empty() && b.Empty()
	}
	var ea, eb encoder
	ea.surface(a)
	eb.surface(b)
	return bytes.Equal(ea.buf, eb.buf)
}

func (e *encoder) uint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

func (e *encoder) bool(b bool) {
	if b {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

func (e *encoder) string(s string) {
	e.uint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) strings(ss []string) {
	e.uint(uint64(len(ss)))
	for _, s := range ss {
		e.string(s)
	}
}

func (e *encoder) metadata(m Metadata) {
	var b byte
	for i, f := range []bool{m.ContainsInfer, m.Implicit, m.PreventGeneralization, m.PreventTupleToArray, m.PreventExpansion, m.Specified} {
		if f {
			b |= 1 << i
		}
	}
	e.buf = append(e.buf, b)
}

// child encodes a nested type.
func (e *encoder) child(t Type) {
	if t == nil {
		e.buf = append(e.buf, tagNil)
		return
	}
	if e.ids && IsFrozen(t) {
		e.buf = append(e.buf, tagID)
		e.uint(uint64(t.ID()))
		return
	}
	e.buf = append(e.buf, tagType)
	e.typ(t)
}

func (e *encoder) types(ts []Type) {
	e.uint(uint64(len(ts)))
	for _, t := range ts {
		e.child(t)
	}
}

func (e *encoder) param(p *Param) {
	if p == nil {
		e.buf = append(e.buf, tagNil)
		return
	}
	e.child(p)
}

func (e *encoder) typeParams(d *TypeParamDecl) {
	if d == nil {
		e.buf = append(e.buf, tagNil)
		return
	}
	e.buf = append(e.buf, tagType)
	e.uint(uint64(len(d.Params)))
	for _, p := range d.Params {
		e.param(p)
	}
}

func (e *encoder) fnParams(params []FnParam) {
	e.uint(uint64(len(params)))
	for _, p := range params {
		e.string(p.Name)
		e.bool(p.Required)
		e.bool(p.Rest)
		e.child(p.Type)
	}
}

func (e *encoder) key(k Key) {
	e.string(k.Name)
	e.bool(k.Numeric)
	e.child(k.Computed)
}

func (e *encoder) elements(elems []TypeElement) {
	e.uint(uint64(len(elems)))
	for _, elem := range elems {
		e.element(elem)
	}
}

func (e *encoder) element(elem TypeElement) {
	switch elem := elem.(type) {
	case *CallSignature:
		e.buf = append(e.buf, 1)
		e.typeParams(elem.TypeParams)
		e.fnParams(elem.Params)
		e.child(elem.Return)
	case *ConstructSignature:
		e.buf = append(e.buf, 2)
		e.typeParams(elem.TypeParams)
		e.fnParams(elem.Params)
		e.child(elem.Return)
	case *PropertySignature:
		e.buf = append(e.buf, 3)
		e.key(elem.Key)
		e.bool(elem.Optional)
		e.bool(elem.Readonly)
		e.bool(elem.Static)
		e.bool(elem.Accessor.Getter)
		e.bool(elem.Accessor.Setter)
		e.child(elem.Type)
	case *MethodSignature:
		e.buf = append(e.buf, 4)
		e.key(elem.Key)
		e.bool(elem.Optional)
		e.bool(elem.Readonly)
		e.bool(elem.Static)
		e.typeParams(elem.TypeParams)
		e.fnParams(elem.Params)
		e.child(elem.Return)
	case *IndexSignature:
		e.buf = append(e.buf, 5)
		e.fnParams(elem.Params)
		e.bool(elem.Readonly)
		e.bool(elem.Static)
		e.child(elem.Type)
	default:
		panic(fmt.Sprintf("unknown type element %T", elem))
	}
}

func (e *encoder) surface(d *ModuleTypeData) {
	names := d.TypeNames()
	e.uint(uint64(len(names)))
	for _, name := range names {
		e.string(name)
		e.types(d.Types[name])
	}
	names = d.VarNames()
	e.uint(uint64(len(names)))
	for _, name := range names {
		e.string(name)
		e.child(d.Vars[name])
	}
}

// typ encodes the body of t.  Nested types are written with child.
func (e *encoder) typ(t Type) {
	e.buf = append(e.buf, byte(t.Kind()))
	if e.meta {
		e.metadata(t.Meta())
	}
	switch t := t.(type) {
	case *Keyword:
		e.uint(uint64(t.Keyword))
	case *Lit:
		e.uint(uint64(t.Lit))
		e.string(t.Value)
	case *Union:
		e.types(t.Types)
	case *Intersection:
		e.types(t.Types)
	case *Array:
		e.child(t.Elem)
	case *Tuple:
		e.uint(uint64(len(t.Elems)))
		for _, elem := range t.Elems {
			e.string(elem.Label)
			e.child(elem.Type)
		}
	case *Function:
		e.typeParams(t.TypeParams)
		e.fnParams(t.Params)
		e.child(t.Return)
	case *Constructor:
		e.bool(t.Abstract)
		e.typeParams(t.TypeParams)
		e.fnParams(t.Params)
		e.child(t.Return)
	case *TypeLit:
		e.elements(t.Members)
	case *Interface:
		e.string(t.Name)
		e.typeParams(t.TypeParams)
		e.uint(uint64(len(t.Extends)))
		for _, h := range t.Extends {
			e.strings(h.Name)
			e.types(h.TypeArgs)
		}
		e.elements(t.Body)
	case *Alias:
		e.string(t.Name)
		e.typeParams(t.TypeParams)
		e.child(t.Target)
	case *Conditional:
		e.child(t.Check)
		e.child(t.Extends)
		e.child(t.True)
		e.child(t.False)
	case *Mapped:
		e.uint(uint64(t.Readonly))
		e.uint(uint64(t.Optional))
		e.param(t.Param)
		e.child(t.NameType)
		e.child(t.Type)
	case *Operator:
		e.uint(uint64(t.Op))
		e.child(t.Type)
	case *IndexedAccess:
		e.bool(t.Readonly)
		e.child(t.Object)
		e.child(t.Index)
	case *Query:
		e.strings(t.Name)
		if t.Import != nil {
			e.child(t.Import)
		} else {
			e.buf = append(e.buf, tagNil)
		}
		e.types(t.TypeArgs)
	case *Optional:
		e.child(t.Type)
	case *Rest:
		e.child(t.Type)
	case *Infer:
		e.param(t.Param)
	case *Import:
		e.string(t.Arg)
		e.strings(t.Qualifier)
		e.types(t.TypeArgs)
	case *Ref:
		e.uint(uint64(t.Module))
		e.strings(t.Name)
		e.types(t.TypeArgs)
	case *Tpl:
		e.strings(t.Quasis)
		e.types(t.Types)
	case *Predicate:
		e.bool(t.Asserts)
		e.string(t.ParamName)
		e.bool(t.This)
		e.child(t.Type)
	case *Symbol:
		e.string(t.Name)
	case *Intrinsic:
		e.uint(uint64(t.Intrinsic))
		e.types(t.TypeArgs)
	case *Param:
		e.string(t.Name)
		e.child(t.Constraint)
		e.child(t.Default)
	case *This:
	case *Module:
		e.uint(uint64(t.Module))
		e.string(t.Name)
		if t.Exports == nil {
			e.buf = append(e.buf, tagNil)
		} else {
			e.buf = append(e.buf, tagType)
			e.surface(t.Exports)
		}
	default:
		panic(fmt.Sprintf("unknown type %T", t))
	}
}

// Dedup returns types with structural duplicates removed, keeping the first
// occurrence of each.
func Dedup(types []Type) []Type {
	out := make([]Type, 0, len(types))
	for _, t := range types {
		if !slices.ContainsFunc(out, func(u Type) bool { return Equal(t, u) }) {
			out = append(out, t)
		}
	}
	return out
}
