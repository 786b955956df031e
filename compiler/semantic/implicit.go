package semantic

import (
	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/ast"
	"github.com/brimdata/tstype/compiler/diag"
)

// Mutations records the types inferred for unannotated binding patterns.
// The syntax tree is never modified; later passes consult TypeOf instead.
type Mutations struct {
	types map[ast.Pattern]tstype.Type
}

func NewMutations() *Mutations {
	return &Mutations{types: make(map[ast.Pattern]tstype.Type)}
}

func (m *Mutations) TypeOf(p ast.Pattern) (tstype.Type, bool) {
	t, ok := m.types[p]
	return t, ok
}

func (m *Mutations) Set(p ast.Pattern, t tstype.Type) {
	m.types[p] = t
}

func (m *Mutations) Len() int {
	return len(m.types)
}

// DefaultAnyPat records an implicit type for an unannotated binding
// pattern.  Identifiers become an implicit any, array patterns a tuple with
// one element per slot and object patterns a type literal with one property
// per named binding.  A pattern that already has a recorded type is left
// alone.
func (a *Analyzer) DefaultAnyPat(p ast.Pattern) error {
	if _, ok := a.muts.TypeOf(p); ok {
		return nil
	}
	switch p := p.(type) {
	case *ast.IdentPat:
		return a.defaultAnyIdent(p)
	case *ast.ArrayPat:
		return a.defaultAnyArray(p)
	case *ast.ObjectPat:
		return a.defaultAnyObject(p)
	}
	return nil
}

func (a *Analyzer) defaultAnyIdent(p *ast.IdentPat) error {
	if p.TypeAnn != nil {
		return nil
	}
	if a.opts.NoImplicitAny && !a.contextuallyTyped() {
		a.error(p.Name, diag.ImplicitAny, p.Name.Name)
	}
	return a.record(p, tstype.ImplicitAny(span(p.Name)))
}

// contextuallyTyped returns true if the surrounding expression supplies a
// type for unannotated bindings.
func (a *Analyzer) contextuallyTyped() bool {
	return a.ctx.InArgument || a.ctx.InReturnArg && a.ctx.InFnWithReturnType || a.ctx.InAssignRHS
}

func (a *Analyzer) defaultAnyArray(p *ast.ArrayPat) error {
	if p.TypeAnn != nil {
		return nil
	}
	tuple := &tstype.Tuple{}
	for _, elem := range p.Elems {
		var t tstype.Type = tstype.TypeAny
		switch elem.(type) {
		case *ast.ArrayPat, *ast.ObjectPat:
			if err := a.DefaultAnyPat(elem); err != nil {
				return err
			}
			if inner, ok := a.muts.TypeOf(elem); ok {
				t = inner
			}
		}
		// Holes are nil and have no span.
		tuple.Elems = append(tuple.Elems, tstype.TupleElement{Loc: span(elem), Type: t})
	}
	tuple.Metadata.Implicit = true
	return a.record(p, tuple)
}

func (a *Analyzer) defaultAnyObject(p *ast.ObjectPat) error {
	if p.TypeAnn != nil {
		return nil
	}
	lit := &tstype.TypeLit{}
	for _, prop := range p.Props {
		switch prop := prop.(type) {
		case *ast.KeyValueProp:
			key, err := a.key(prop.Key)
			if err != nil {
				return err
			}
			value := prop.Value
			_, optional := value.(*ast.AssignPat)
			if assign, ok := value.(*ast.AssignPat); ok {
				value = assign.Left
			}
			var t tstype.Type
			switch value.(type) {
			case *ast.ArrayPat, *ast.ObjectPat:
				if err := a.DefaultAnyPat(value); err != nil {
					return err
				}
				t, _ = a.muts.TypeOf(value)
			}
			lit.Members = append(lit.Members, &tstype.PropertySignature{
				Loc:      span(prop),
				Key:      key,
				Optional: optional,
				Type:     t,
			})
		case *ast.AssignProp:
			lit.Members = append(lit.Members, &tstype.PropertySignature{
				Loc:      span(prop),
				Key:      tstype.Key{Loc: span(prop.Key), Name: prop.Key.Name},
				Optional: prop.Default != nil,
			})
		}
	}
	lit.Metadata.Implicit = true
	return a.record(p, lit)
}

func (a *Analyzer) record(p ast.Pattern, t tstype.Type) error {
	frozen, err := a.freeze(t)
	if err != nil {
		return err
	}
	a.muts.Set(p, frozen)
	return nil
}
