package semantic

import (
	"fmt"

	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/ast"
	"github.com/brimdata/tstype/compiler/diag"
)

func (a *Analyzer) elements(nodes []ast.TypeElement) ([]tstype.TypeElement, error) {
	var out []tstype.TypeElement
	for _, n := range nodes {
		e, err := a.element(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// element elaborates one member.  Members that declare parameters, and
// static members, get their own frame so class type parameters can be
// checked against static use.
func (a *Analyzer) element(n ast.TypeElement) (tstype.TypeElement, error) {
	switch n := n.(type) {
	case *ast.PropertySignature:
		key, err := a.key(n.Key)
		if err != nil {
			return nil, err
		}
		prop := &tstype.PropertySignature{
			Loc:      span(n),
			Key:      key,
			Optional: n.Optional,
			Readonly: n.Readonly,
			Static:   n.Static,
		}
		err = a.withMember(n.Static, func() error {
			prop.Type, err = a.annotation(n.Type, n)
			return err
		})
		if err != nil {
			return nil, err
		}
		return prop, nil
	case *ast.MethodSignature:
		key, err := a.key(n.Key)
		if err != nil {
			return nil, err
		}
		method := &tstype.MethodSignature{
			Loc:      span(n),
			Key:      key,
			Optional: n.Optional,
			Static:   n.Static,
		}
		err = a.withMember(n.Static, func() error {
			var err error
			method.TypeParams, method.Params, method.Return, err = a.signature(n.TypeParams, n.Params, n.Return)
			return err
		})
		if err != nil {
			return nil, err
		}
		return method, nil
	case *ast.CallSignature:
		sig := &tstype.CallSignature{Loc: span(n)}
		err := a.withMember(false, func() error {
			var err error
			sig.TypeParams, sig.Params, sig.Return, err = a.signature(n.TypeParams, n.Params, n.Return)
			return err
		})
		if err != nil {
			return nil, err
		}
		return sig, nil
	case *ast.ConstructSignature:
		sig := &tstype.ConstructSignature{Loc: span(n)}
		err := a.withMember(false, func() error {
			var err error
			sig.TypeParams, sig.Params, sig.Return, err = a.signature(n.TypeParams, n.Params, n.Return)
			return err
		})
		if err != nil {
			return nil, err
		}
		return sig, nil
	case *ast.IndexSignature:
		sig := &tstype.IndexSignature{Loc: span(n), Readonly: n.Readonly, Static: n.Static}
		err := a.withMember(n.Static, func() error {
			var err error
			if sig.Params, err = a.fnParams(n.Params); err != nil {
				return err
			}
			sig.Type, err = a.annotation(n.Type, n)
			return err
		})
		if err != nil {
			return nil, err
		}
		return sig, nil
	case *ast.GetterSignature:
		key, err := a.key(n.Key)
		if err != nil {
			return nil, err
		}
		prop := &tstype.PropertySignature{
			Loc:      span(n),
			Key:      key,
			Static:   n.Static,
			Accessor: tstype.Accessor{Getter: true},
		}
		err = a.withMember(n.Static, func() error {
			prop.Type, err = a.annotation(n.Type, n)
			return err
		})
		if err != nil {
			return nil, err
		}
		return prop, nil
	case *ast.SetterSignature:
		key, err := a.key(n.Key)
		if err != nil {
			return nil, err
		}
		prop := &tstype.PropertySignature{
			Loc:      span(n),
			Key:      key,
			Static:   n.Static,
			Accessor: tstype.Accessor{Setter: true},
		}
		err = a.withMember(n.Static, func() error {
			params, err := a.fnParams([]ast.Pattern{n.Param})
			if err != nil {
				return err
			}
			if len(params) == 1 {
				prop.Type = params[0].Type
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return prop, nil
	}
	return nil, fmt.Errorf("internal error: unknown type element %T", n)
}

func (a *Analyzer) withMember(static bool, body func() error) error {
	return a.withScope(ScopeMethod, func(scope *Scope) error {
		scope.static = static
		return body()
	})
}

// annotation elaborates an optional type annotation of n.  A missing
// annotation is an implicit any.
func (a *Analyzer) annotation(t ast.Type, n ast.Node) (tstype.Type, error) {
	if t == nil {
		return tstype.ImplicitAny(span(n)), nil
	}
	return a.typ(t)
}

func (a *Analyzer) signature(d *ast.TypeParamDecl, params []ast.Pattern, ret ast.Type) (*tstype.TypeParamDecl, []tstype.FnParam, tstype.Type, error) {
	typeParams, err := a.TypeParams(d)
	if err != nil {
		return nil, nil, nil, err
	}
	fnParams, err := a.fnParams(params)
	if err != nil {
		return nil, nil, nil, err
	}
	var out tstype.Type
	if ret != nil {
		if out, err = a.typ(ret); err != nil {
			return nil, nil, nil, err
		}
	}
	return typeParams, fnParams, out, nil
}

func (a *Analyzer) key(n ast.Key) (tstype.Key, error) {
	switch n := n.(type) {
	case *ast.IdentKey:
		return tstype.Key{Loc: span(n), Name: n.Name}, nil
	case *ast.StrKey:
		return tstype.Key{Loc: span(n), Name: n.Value}, nil
	case *ast.NumKey:
		return tstype.Key{Loc: span(n), Name: n.Value, Numeric: true}, nil
	case *ast.ComputedKey:
		key := tstype.Key{Loc: span(n)}
		if n.Lit != nil {
			key.Computed = a.lit(n.Lit)
			return key, nil
		}
		names := ast.Names(n.Name)
		if len(names) == 2 && names[0] == "Symbol" {
			// Symbol.x names a well-known symbol unless Symbol is shadowed
			// by a local binding.
			if frame, _ := a.scope.lookupVarFrame("Symbol"); frame == nil || frame.kind == ScopeGlobal {
				key.Computed = &tstype.Symbol{Common: tstype.Common{Loc: span(n)}, Name: names[1]}
				return key, nil
			}
		}
		key.Computed = &tstype.Query{Common: tstype.Common{Loc: span(n)}, Name: names}
		return key, nil
	}
	return tstype.Key{}, fmt.Errorf("internal error: unknown key %T", n)
}

// fnParams elaborates a parameter list and binds the parameter names in
// the current scope.  Unannotated parameters get their implicit type.
func (a *Analyzer) fnParams(patterns []ast.Pattern) ([]tstype.FnParam, error) {
	a.reportDuplicateParams(patterns)
	var out []tstype.FnParam
	for _, p := range patterns {
		param := tstype.FnParam{Loc: span(p), Required: true}
		target := p
		switch pat := p.(type) {
		case *ast.RestPat:
			param.Rest = true
			param.Required = false
			target = pat.Arg
		case *ast.AssignPat:
			param.Required = false
			target = pat.Left
		}
		if id, ok := target.(*ast.IdentPat); ok {
			param.Name = id.Name.Name
			if id.Optional {
				param.Required = false
			}
		}
		t, err := a.paramType(p, target)
		if err != nil {
			return nil, err
		}
		param.Type = t
		out = append(out, param)
		for _, id := range bindingNames(target) {
			v := tstype.Type(tstype.TypeAny)
			if id.Name == param.Name {
				v = t
			}
			// Duplicates were reported above.
			_ = a.scope.DefineVar(id.Name, v)
		}
	}
	return out, nil
}

func (a *Analyzer) paramType(p, target ast.Pattern) (tstype.Type, error) {
	if ann := ast.TypeAnnOf(p); ann != nil {
		return a.typ(ann)
	}
	if err := a.DefaultAnyPat(target); err != nil {
		return nil, err
	}
	t, ok := a.muts.TypeOf(target)
	if !ok {
		t = tstype.ImplicitAny(span(target))
	}
	if _, ok := p.(*ast.RestPat); ok {
		arr := &tstype.Array{Common: tstype.Common{Loc: span(p)}, Elem: t}
		arr.Metadata.Implicit = true
		t = arr
	}
	return t, nil
}

func (a *Analyzer) reportDuplicateParams(patterns []ast.Pattern) {
	var ids []*ast.ID
	for _, p := range patterns {
		ids = append(ids, bindingNames(p)...)
	}
	counts := make(map[string]int, len(ids))
	for _, id := range ids {
		counts[id.Name]++
	}
	for _, id := range ids {
		if counts[id.Name] > 1 {
			a.error(id, diag.DuplicateParam, id.Name)
		}
	}
}

// bindingNames returns the identifiers bound by a pattern in source order.
func bindingNames(p ast.Pattern) []*ast.ID {
	switch p := p.(type) {
	case *ast.IdentPat:
		return []*ast.ID{p.Name}
	case *ast.ArrayPat:
		var ids []*ast.ID
		for _, elem := range p.Elems {
			ids = append(ids, bindingNames(elem)...)
		}
		return ids
	case *ast.ObjectPat:
		var ids []*ast.ID
		for _, prop := range p.Props {
			switch prop := prop.(type) {
			case *ast.KeyValueProp:
				ids = append(ids, bindingNames(prop.Value)...)
			case *ast.AssignProp:
				ids = append(ids, prop.Key)
			case *ast.RestProp:
				ids = append(ids, bindingNames(prop.Arg)...)
			}
		}
		return ids
	case *ast.RestPat:
		return bindingNames(p.Arg)
	case *ast.AssignPat:
		return bindingNames(p.Left)
	}
	return nil
}

// reportDuplicateMembers reports every property whose key is declared more
// than once.  Accessors and symbol keys are exempt.
func (a *Analyzer) reportDuplicateMembers(members []tstype.TypeElement) {
	if a.opts.Builtin {
		return
	}
	var props []*tstype.PropertySignature
	counts := make(map[string]int)
	for _, m := range members {
		prop, ok := m.(*tstype.PropertySignature)
		if !ok || prop.Accessor != (tstype.Accessor{}) || prop.Key.IsSymbol() {
			continue
		}
		text, ok := prop.Key.Text()
		if !ok {
			continue
		}
		props = append(props, prop)
		counts[staticKey(prop.Static, text)]++
	}
	for _, prop := range props {
		text, _ := prop.Key.Text()
		if counts[staticKey(prop.Static, text)] > 1 {
			a.diags.Add(diag.DuplicateMember, prop.Key.Loc.Pos(), prop.Key.Loc.End(), text)
		}
	}
}

func staticKey(static bool, text string) string {
	if static {
		return "static " + text
	}
	return text
}

// reportMixedOptionalMethods reports overloads of a method that disagree
// with the first overload on optionality.
func (a *Analyzer) reportMixedOptionalMethods(members []tstype.TypeElement) {
	first := make(map[string]bool)
	for _, m := range members {
		method, ok := m.(*tstype.MethodSignature)
		if !ok {
			continue
		}
		text, ok := method.Key.Text()
		if !ok {
			continue
		}
		key := staticKey(method.Static, text)
		optional, seen := first[key]
		if !seen {
			first[key] = method.Optional
			continue
		}
		if optional != method.Optional {
			a.diags.Add(diag.MixedOptionalMethod, method.Key.Loc.Pos(), method.Key.Loc.End(), text)
		}
	}
}
