package tstype

import (
	"fmt"
	"slices"
)

// Clone returns a mutable shallow copy of t.  Slices owned by t are copied
// so the result may be modified without touching t.
func Clone(t Type) Type {
	var out Type
	switch t := t.(type) {
	case *Keyword:
		c := *t
		out = &c
	case *Lit:
		c := *t
		out = &c
	case *Union:
		c := *t
		c.Types = slices.Clone(t.Types)
		out = &c
	case *Intersection:
		c := *t
		c.Types = slices.Clone(t.Types)
		out = &c
	case *Array:
		c := *t
		out = &c
	case *Tuple:
		c := *t
		c.Elems = slices.Clone(t.Elems)
		out = &c
	case *Function:
		c := *t
		c.TypeParams = cloneDecl(t.TypeParams)
		c.Params = slices.Clone(t.Params)
		out = &c
	case *Constructor:
		c := *t
		c.TypeParams = cloneDecl(t.TypeParams)
		c.Params = slices.Clone(t.Params)
		out = &c
	case *TypeLit:
		c := *t
		c.Members = cloneElements(t.Members)
		out = &c
	case *Interface:
		c := *t
		c.TypeParams = cloneDecl(t.TypeParams)
		c.Extends = slices.Clone(t.Extends)
		for i := range c.Extends {
			c.Extends[i].TypeArgs = slices.Clone(c.Extends[i].TypeArgs)
		}
		c.Body = cloneElements(t.Body)
		out = &c
	case *Alias:
		c := *t
		c.TypeParams = cloneDecl(t.TypeParams)
		out = &c
	case *Conditional:
		c := *t
		out = &c
	case *Mapped:
		c := *t
		out = &c
	case *Operator:
		c := *t
		out = &c
	case *IndexedAccess:
		c := *t
		out = &c
	case *Query:
		c := *t
		c.TypeArgs = slices.Clone(t.TypeArgs)
		out = &c
	case *Optional:
		c := *t
		out = &c
	case *Rest:
		c := *t
		out = &c
	case *Infer:
		c := *t
		out = &c
	case *Import:
		c := *t
		c.TypeArgs = slices.Clone(t.TypeArgs)
		out = &c
	case *Ref:
		c := *t
		c.TypeArgs = slices.Clone(t.TypeArgs)
		out = &c
	case *Tpl:
		c := *t
		c.Types = slices.Clone(t.Types)
		out = &c
	case *Predicate:
		c := *t
		out = &c
	case *Symbol:
		c := *t
		out = &c
	case *Intrinsic:
		c := *t
		c.TypeArgs = slices.Clone(t.TypeArgs)
		out = &c
	case *Param:
		c := *t
		out = &c
	case *This:
		c := *t
		out = &c
	case *Module:
		c := *t
		c.Exports = t.Exports.Clone()
		out = &c
	default:
		panic(fmt.Sprintf("unknown type %T", t))
	}
	out.common().id = 0
	return out
}

func cloneDecl(d *TypeParamDecl) *TypeParamDecl {
	if d == nil {
		return nil
	}
	return &TypeParamDecl{Loc: d.Loc, Params: slices.Clone(d.Params)}
}

func cloneElements(elems []TypeElement) []TypeElement {
	out := make([]TypeElement, 0, len(elems))
	for _, e := range elems {
		out = append(out, cloneElement(e))
	}
	return out
}

func cloneElement(e TypeElement) TypeElement {
	switch e := e.(type) {
	case *CallSignature:
		c := *e
		c.TypeParams = cloneDecl(e.TypeParams)
		c.Params = slices.Clone(e.Params)
		return &c
	case *ConstructSignature:
		c := *e
		c.TypeParams = cloneDecl(e.TypeParams)
		c.Params = slices.Clone(e.Params)
		return &c
	case *PropertySignature:
		c := *e
		return &c
	case *MethodSignature:
		c := *e
		c.TypeParams = cloneDecl(e.TypeParams)
		c.Params = slices.Clone(e.Params)
		return &c
	case *IndexSignature:
		c := *e
		c.Params = slices.Clone(e.Params)
		return &c
	}
	panic(fmt.Sprintf("unknown type element %T", e))
}

// mapper applies typ to every child type of a node and decl to every
// type parameter declared by the node.
type mapper struct {
	typ  func(Type) (Type, error)
	decl func(*Param) (*Param, error)
}

func (m *mapper) opt(t Type) (Type, error) {
	if t == nil {
		return nil, nil
	}
	return m.typ(t)
}

func (m *mapper) list(ts []Type) ([]Type, error) {
	for i, t := range ts {
		out, err := m.opt(t)
		if err != nil {
			return nil, err
		}
		ts[i] = out
	}
	return ts, nil
}

func (m *mapper) typeParams(d *TypeParamDecl) error {
	if d == nil {
		return nil
	}
	for i, p := range d.Params {
		out, err := m.decl(p)
		if err != nil {
			return err
		}
		d.Params[i] = out
	}
	return nil
}

func (m *mapper) fnParams(params []FnParam) error {
	for i := range params {
		t, err := m.opt(params[i].Type)
		if err != nil {
			return err
		}
		params[i].Type = t
	}
	return nil
}

func (m *mapper) key(k *Key) error {
	t, err := m.opt(k.Computed)
	k.Computed = t
	return err
}

func (m *mapper) elements(elems []TypeElement) error {
	for _, elem := range elems {
		var err error
		switch e := elem.(type) {
		case *CallSignature:
			if err = m.typeParams(e.TypeParams); err == nil {
				if err = m.fnParams(e.Params); err == nil {
					e.Return, err = m.opt(e.Return)
				}
			}
		case *ConstructSignature:
			if err = m.typeParams(e.TypeParams); err == nil {
				if err = m.fnParams(e.Params); err == nil {
					e.Return, err = m.opt(e.Return)
				}
			}
		case *PropertySignature:
			if err = m.key(&e.Key); err == nil {
				e.Type, err = m.opt(e.Type)
			}
		case *MethodSignature:
			if err = m.key(&e.Key); err == nil {
				if err = m.typeParams(e.TypeParams); err == nil {
					if err = m.fnParams(e.Params); err == nil {
						e.Return, err = m.opt(e.Return)
					}
				}
			}
		case *IndexSignature:
			if err = m.fnParams(e.Params); err == nil {
				e.Type, err = m.opt(e.Type)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// apply returns a copy of t whose children have been replaced through m,
// or t itself when no child changed.
func (m *mapper) apply(t Type) (Type, error) {
	out := Clone(t)
	var changed bool
	inner := &mapper{
		typ: func(c Type) (Type, error) {
			r, err := m.typ(c)
			if r != c {
				changed = true
			}
			return r, err
		},
		decl: func(p *Param) (*Param, error) {
			r, err := m.decl(p)
			if r != p {
				changed = true
			}
			return r, err
		},
	}
	if err := inner.children(out); err != nil {
		return nil, err
	}
	if !changed {
		return t, nil
	}
	return out, nil
}

func (m *mapper) children(t Type) error {
	var err error
	switch t := t.(type) {
	case *Keyword, *Lit, *Symbol, *This:
	case *Union:
		t.Types, err = m.list(t.Types)
	case *Intersection:
		t.Types, err = m.list(t.Types)
	case *Array:
		t.Elem, err = m.opt(t.Elem)
	case *Tuple:
		for i := range t.Elems {
			if t.Elems[i].Type, err = m.opt(t.Elems[i].Type); err != nil {
				break
			}
		}
	case *Function:
		if err = m.typeParams(t.TypeParams); err == nil {
			if err = m.fnParams(t.Params); err == nil {
				t.Return, err = m.opt(t.Return)
			}
		}
	case *Constructor:
		if err = m.typeParams(t.TypeParams); err == nil {
			if err = m.fnParams(t.Params); err == nil {
				t.Return, err = m.opt(t.Return)
			}
		}
	case *TypeLit:
		err = m.elements(t.Members)
	case *Interface:
		if err = m.typeParams(t.TypeParams); err == nil {
			for i := range t.Extends {
				if t.Extends[i].TypeArgs, err = m.list(t.Extends[i].TypeArgs); err != nil {
					break
				}
			}
			if err == nil {
				err = m.elements(t.Body)
			}
		}
	case *Alias:
		if err = m.typeParams(t.TypeParams); err == nil {
			t.Target, err = m.opt(t.Target)
		}
	case *Conditional:
		if t.Check, err = m.opt(t.Check); err == nil {
			if t.Extends, err = m.opt(t.Extends); err == nil {
				if t.True, err = m.opt(t.True); err == nil {
					t.False, err = m.opt(t.False)
				}
			}
		}
	case *Mapped:
		if t.Param != nil {
			t.Param, err = m.decl(t.Param)
		}
		if err == nil {
			if t.NameType, err = m.opt(t.NameType); err == nil {
				t.Type, err = m.opt(t.Type)
			}
		}
	case *Operator:
		t.Type, err = m.opt(t.Type)
	case *IndexedAccess:
		if t.Object, err = m.opt(t.Object); err == nil {
			t.Index, err = m.opt(t.Index)
		}
	case *Query:
		if t.Import != nil {
			var imp Type
			if imp, err = m.typ(t.Import); err == nil {
				var ok bool
				if t.Import, ok = imp.(*Import); !ok {
					err = fmt.Errorf("typeof import replaced by %s", imp.Kind())
				}
			}
		}
		if err == nil {
			t.TypeArgs, err = m.list(t.TypeArgs)
		}
	case *Optional:
		t.Type, err = m.opt(t.Type)
	case *Rest:
		t.Type, err = m.opt(t.Type)
	case *Infer:
		if t.Param != nil {
			t.Param, err = m.decl(t.Param)
		}
	case *Import:
		t.TypeArgs, err = m.list(t.TypeArgs)
	case *Ref:
		t.TypeArgs, err = m.list(t.TypeArgs)
	case *Tpl:
		t.Types, err = m.list(t.Types)
	case *Predicate:
		t.Type, err = m.opt(t.Type)
	case *Intrinsic:
		t.TypeArgs, err = m.list(t.TypeArgs)
	case *Param:
		if t.Constraint, err = m.opt(t.Constraint); err == nil {
			t.Default, err = m.opt(t.Default)
		}
	case *Module:
		if t.Exports != nil {
			for name, types := range t.Exports.Types {
				if t.Exports.Types[name], err = m.list(types); err != nil {
					break
				}
			}
			for name, v := range t.Exports.Vars {
				if err != nil {
					break
				}
				t.Exports.Vars[name], err = m.opt(v)
			}
		}
	default:
		panic(fmt.Sprintf("unknown type %T", t))
	}
	return err
}

// Transform rebuilds t bottom-up.  f is called on every node after its
// children have been transformed and returns the node to use in its
// place.  Declared type parameters have their constraints and defaults
// transformed but are never replaced themselves.  Nodes whose children
// are unchanged are not copied, so frozen subtrees are shared.
func Transform(t Type, f func(Type) (Type, error)) (Type, error) {
	if t == nil {
		return nil, nil
	}
	m := &mapper{}
	m.typ = func(t Type) (Type, error) {
		out, err := m.apply(t)
		if err != nil {
			return nil, err
		}
		return f(out)
	}
	m.decl = func(p *Param) (*Param, error) {
		out, err := m.apply(p)
		if err != nil {
			return nil, err
		}
		return out.(*Param), nil
	}
	return m.typ(t)
}

// Walk calls visit on t and its descendants in depth-first order.  If visit
// returns false, the children of that node are skipped.
func Walk(t Type, visit func(Type) bool) {
	if t == nil || !visit(t) {
		return
	}
	m := &mapper{
		typ: func(c Type) (Type, error) {
			Walk(c, visit)
			return c, nil
		},
		decl: func(p *Param) (*Param, error) {
			Walk(p, visit)
			return p, nil
		},
	}
	// children writes into its argument, so walk a copy.
	m.children(Clone(t))
}

// ContainsInfer returns true if t contains an infer capture.
func ContainsInfer(t Type) bool {
	var found bool
	Walk(t, func(t Type) bool {
		if found {
			return false
		}
		if _, ok := t.(*Infer); ok || t.Meta().ContainsInfer {
			found = true
		}
		return !found
	})
	return found
}
