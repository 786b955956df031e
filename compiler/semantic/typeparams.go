package semantic

import (
	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/ast"
	"github.com/brimdata/tstype/compiler/diag"
)

// TypeParams elaborates a type parameter list and registers its parameters
// in the current scope.  Parameters may refer to each other and to
// themselves: each is first registered as an opaque placeholder, then
// constraints and defaults are elaborated, and finally every constraint
// and default is re-expanded once against the elaborated parameters.
// Duplicate names are reported but kept in the result.
func (a *Analyzer) TypeParams(d *ast.TypeParamDecl) (*tstype.TypeParamDecl, error) {
	if d == nil {
		return nil, nil
	}
	out := &tstype.TypeParamDecl{Loc: span(d)}
	if a.opts.Builtin {
		for _, p := range d.Params {
			param, err := a.typeParam(p)
			if err != nil {
				return nil, err
			}
			out.Params = append(out.Params, param)
		}
		return out, nil
	}
	a.reportDuplicateTypeParams(d.Params)
	for _, p := range d.Params {
		placeholder, err := a.freeze(&tstype.Param{Common: tstype.Common{Loc: span(p)}, Name: p.Name.Name})
		if err != nil {
			return nil, err
		}
		a.scope.OverrideType(p.Name.Name, placeholder)
	}
	resolved := make(map[string]*tstype.Param, len(d.Params))
	for _, p := range d.Params {
		param, err := a.typeParam(p)
		if err != nil {
			return nil, err
		}
		out.Params = append(out.Params, param)
		resolved[param.Name] = param
	}
	for i, param := range out.Params {
		expanded, err := expandTypeParams(param, resolved)
		if err != nil {
			return nil, err
		}
		frozen, err := a.freeze(expanded)
		if err != nil {
			return nil, err
		}
		out.Params[i] = frozen.(*tstype.Param)
	}
	for _, param := range out.Params {
		a.scope.OverrideType(param.Name, param)
	}
	return out, nil
}

func (a *Analyzer) reportDuplicateTypeParams(params []*ast.TypeParam) {
	counts := make(map[string]int, len(params))
	for _, p := range params {
		counts[p.Name.Name]++
	}
	for _, p := range params {
		if counts[p.Name.Name] > 1 {
			a.error(p.Name, diag.DuplicateName, p.Name.Name)
		}
	}
}

// typeParam elaborates one parameter and registers it.
func (a *Analyzer) typeParam(p *ast.TypeParam) (*tstype.Param, error) {
	param := &tstype.Param{
		Common: tstype.Common{Loc: span(p)},
		Name:   p.Name.Name,
	}
	if p.Constraint != nil {
		c, err := a.typ(p.Constraint)
		if err != nil {
			return nil, err
		}
		param.Constraint = c
	}
	if p.Default != nil {
		def, err := a.typ(p.Default)
		if err != nil {
			return nil, err
		}
		param.Default = def
	}
	frozen, err := a.freeze(param)
	if err != nil {
		return nil, err
	}
	a.scope.OverrideType(param.Name, frozen)
	return frozen.(*tstype.Param), nil
}

// expandTypeParams replaces placeholder references in the constraint and
// default of param with the elaborated parameters in resolved.  It does
// not recurse into the replacements.
func expandTypeParams(param *tstype.Param, resolved map[string]*tstype.Param) (*tstype.Param, error) {
	replace := func(t tstype.Type) (tstype.Type, error) {
		p, ok := t.(*tstype.Param)
		if !ok || p.Constraint != nil || p.Default != nil {
			return t, nil
		}
		if r, ok := resolved[p.Name]; ok {
			return r, nil
		}
		return t, nil
	}
	c, err := tstype.Transform(param.Constraint, replace)
	if err != nil {
		return nil, err
	}
	def, err := tstype.Transform(param.Default, replace)
	if err != nil {
		return nil, err
	}
	if c == param.Constraint && def == param.Default {
		return param, nil
	}
	out := tstype.Clone(param).(*tstype.Param)
	out.Constraint = c
	out.Default = def
	return out, nil
}
