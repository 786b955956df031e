package semantic

import (
	"fmt"
	"strconv"

	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/ast"
	"github.com/brimdata/tstype/compiler/diag"
	"go.uber.org/zap"
)

// Type elaborates the outermost type expression of a statement.  The
// result is frozen.
func (a *Analyzer) Type(n ast.Type) (tstype.Type, error) {
	t, err := a.typ(n)
	if err != nil {
		return nil, err
	}
	return a.freeze(t)
}

// typ elaborates a type expression.  The result is mutable unless it is a
// registered declaration, so a parent may still adjust it before freezing.
func (a *Analyzer) typ(n ast.Type) (tstype.Type, error) {
	switch n := n.(type) {
	case nil:
		return tstype.TypeAny, nil
	case *ast.KeywordType:
		return a.keyword(n), nil
	case *ast.LitType:
		return a.lit(n), nil
	case *ast.TypeRef:
		return a.typeRef(n)
	case *ast.UnionType:
		return a.union(n)
	case *ast.IntersectionType:
		types, err := a.types(n.Types)
		if err != nil {
			return nil, err
		}
		return &tstype.Intersection{Common: a.common(n, types...), Types: types}, nil
	case *ast.ArrayType:
		elem, err := a.typ(n.Elem)
		if err != nil {
			return nil, err
		}
		return &tstype.Array{Common: a.common(n, elem), Elem: elem}, nil
	case *ast.TupleType:
		return a.tuple(n)
	case *ast.OptionalType:
		inner, err := a.typ(n.Type)
		if err != nil {
			return nil, err
		}
		return &tstype.Optional{Common: a.common(n, inner), Type: inner}, nil
	case *ast.RestType:
		inner, err := a.typ(n.Type)
		if err != nil {
			return nil, err
		}
		return &tstype.Rest{Common: a.common(n, inner), Type: inner}, nil
	case *ast.ParenType:
		return a.typ(n.Type)
	case *ast.FunctionType:
		return a.functionType(n)
	case *ast.ConstructorType:
		return a.constructorType(n)
	case *ast.TypeLit:
		return a.typeLit(n)
	case *ast.ConditionalType:
		return a.conditional(n)
	case *ast.InferType:
		param, err := a.typeParam(n.Param)
		if err != nil {
			return nil, err
		}
		// Captures nested in member or signature frames stay visible to
		// the branches of their conditional.
		if flow := a.scope.enclosing(ScopeFlow); flow != nil {
			flow.OverrideType(param.Name, param)
		}
		infer := &tstype.Infer{Common: tstype.Common{Loc: span(n)}, Param: param}
		infer.Metadata.ContainsInfer = true
		return infer, nil
	case *ast.MappedType:
		return a.mapped(n)
	case *ast.TypeOperator:
		return a.operator(n)
	case *ast.IndexedAccessType:
		return a.indexedAccess(n)
	case *ast.TypeQuery:
		return a.query(n)
	case *ast.ImportType:
		return a.importType(n)
	case *ast.TplType:
		types, err := a.types(n.Types)
		if err != nil {
			return nil, err
		}
		return &tstype.Tpl{Common: a.common(n, types...), Quasis: n.Quasis, Types: types}, nil
	case *ast.TypePredicate:
		return a.predicate(n)
	case *ast.ThisType:
		return &tstype.This{Common: tstype.Common{Loc: span(n)}}, nil
	}
	return nil, fmt.Errorf("internal error: unknown type node %T", n)
}

// common returns the Common of a node whose children are children.
func (a *Analyzer) common(n ast.Node, children ...tstype.Type) tstype.Common {
	c := tstype.Common{Loc: span(n)}
	for _, child := range children {
		if child != nil && child.Meta().ContainsInfer {
			c.Metadata.ContainsInfer = true
		}
	}
	return c
}

func (a *Analyzer) types(nodes []ast.Type) ([]tstype.Type, error) {
	var out []tstype.Type
	for _, n := range nodes {
		t, err := a.typ(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (a *Analyzer) keyword(n *ast.KeywordType) tstype.Type {
	k := tstype.LookupKeyword(n.Name)
	switch {
	case k == 0:
		a.error(n, diag.NoSuchType, n.Name)
		return tstype.NewKeyword(tstype.KeywordAny, span(n))
	case k == tstype.KeywordIntrinsic && !a.opts.Builtin:
		a.error(n, diag.IntrinsicIsBuiltinOnly, "")
		return tstype.NewKeyword(tstype.KeywordAny, span(n))
	}
	return tstype.NewKeyword(k, span(n))
}

func (a *Analyzer) lit(n *ast.LitType) tstype.Type {
	lit := &tstype.Lit{Common: tstype.Common{Loc: span(n)}, Value: n.Value}
	switch n.Lit {
	case "string":
		lit.Lit = tstype.LitString
	case "number":
		lit.Lit = tstype.LitNumber
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			lit.Value = strconv.FormatFloat(f, 'g', -1, 64)
		}
	case "boolean":
		lit.Lit = tstype.LitBool
	case "bigint":
		lit.Lit = tstype.LitBigInt
	default:
		a.logger.Warn("Unknown literal kind", zap.String("lit", n.Lit))
		return tstype.NewKeyword(tstype.KeywordAny, span(n))
	}
	return lit
}

func (a *Analyzer) union(n *ast.UnionType) (tstype.Type, error) {
	var types []tstype.Type
	for _, member := range n.Types {
		t, err := a.typ(member)
		if err != nil {
			return nil, err
		}
		// Parenthesized unions are flattened into their parent.
		if inner, ok := member.(*ast.ParenType); ok {
			if _, ok := inner.Type.(*ast.UnionType); ok {
				if u, ok := t.(*tstype.Union); ok {
					types = append(types, u.Types...)
					continue
				}
			}
		}
		types = append(types, t)
	}
	types = tstype.Dedup(types)
	if len(types) == 1 {
		return types[0], nil
	}
	return &tstype.Union{Common: a.common(n, types...), Types: types}, nil
}

func (a *Analyzer) tuple(n *ast.TupleType) (tstype.Type, error) {
	tuple := &tstype.Tuple{Common: tstype.Common{Loc: span(n)}}
	for _, elem := range n.Elems {
		t, err := a.typ(elem.Type)
		if err != nil {
			return nil, err
		}
		e := tstype.TupleElement{Loc: span(elem), Type: t}
		if elem.Label != nil {
			e.Label = elem.Label.Name
		}
		if t.Meta().ContainsInfer {
			tuple.Metadata.ContainsInfer = true
		}
		tuple.Elems = append(tuple.Elems, e)
	}
	tuple.Metadata.PreventTupleToArray = true
	return tuple, nil
}

// typeRef resolves a named reference.  Array<T> is canonicalized to an
// array, references to type parameters yield the parameter itself, and
// everything else becomes a Ref that is resolved by lookup at use sites.
func (a *Analyzer) typeRef(n *ast.TypeRef) (tstype.Type, error) {
	names := ast.Names(n.Name)
	if len(names) == 1 && names[0] == "Array" && len(n.TypeArgs) == 1 {
		elem, err := a.typ(n.TypeArgs[0])
		if err != nil {
			return nil, err
		}
		return &tstype.Array{Common: a.common(n, elem), Elem: elem}, nil
	}
	args, err := a.types(n.TypeArgs)
	if err != nil {
		return nil, err
	}
	ref := &tstype.Ref{
		Common:   a.common(n, args...),
		Module:   a.id,
		Name:     names,
		TypeArgs: args,
	}
	for _, t := range a.resolveName(n.Name) {
		if p, ok := t.(*tstype.Param); ok {
			return p, nil
		}
		if tstype.ContainsInfer(t) {
			ref.Metadata.ContainsInfer = true
		}
	}
	return ref, nil
}

// resolveName returns the declarations bound to a type name, reporting
// unresolved names and misuse of class type parameters.  Qualified names
// are checked against their namespace and yield nil.
func (a *Analyzer) resolveName(ids []*ast.ID) []tstype.Type {
	first := ids[0]
	if len(ids) > 1 {
		a.qualifiedRef(ids)
		return nil
	}
	if a.scope.inStaticMemberOf(first.Name) {
		a.error(first, diag.StaticMemberCannotUseTypeParamOfClass, first.Name)
	}
	types := a.scope.LookupType(first.Name)
	if len(types) == 0 && !a.opts.Builtin {
		a.unresolved(first)
		a.logger.Debug("Creating a dangling reference", zap.String("name", first.Name))
	}
	return types
}

// unresolved reports a type name that is not in scope.
func (a *Analyzer) unresolved(id *ast.ID) {
	if a.diags.Has(diag.NoSuchType, id.Pos()) || a.diags.Has(diag.NoSuchTypeButVarExists, id.Pos()) {
		return
	}
	if _, ok := a.scope.LookupVar(id.Name); ok {
		a.error(id, diag.NoSuchTypeButVarExists, id.Name)
		return
	}
	d := a.diags.Add(diag.NoSuchType, id.Pos(), id.End(), id.Name)
	if s := suggest(id.Name, a.scope.TypeNames()); s != "" {
		d.Msg = fmt.Sprintf("%s Did you mean '%s'?", d.Msg, s)
	}
}

// qualifiedRef checks the namespace of a qualified name such as ns.T.
func (a *Analyzer) qualifiedRef(ids []*ast.ID) {
	first := ids[0]
	if v, ok := a.scope.LookupVar(first.Name); ok {
		if exports, ok := tstype.Surface(v); ok && len(ids) == 2 {
			name := ids[1]
			if _, ok := exports.Types[name.Name]; !ok {
				a.error(name, diag.ExportNotFound, name.Name)
			}
		}
		return
	}
	if len(a.scope.LookupType(first.Name)) == 0 && !a.opts.Builtin {
		a.unresolved(first)
	}
}

func (a *Analyzer) functionType(n *ast.FunctionType) (tstype.Type, error) {
	fn := &tstype.Function{Common: tstype.Common{Loc: span(n)}}
	err := a.withScope(ScopeTypeParams, func(*Scope) error {
		var err error
		if fn.TypeParams, err = a.TypeParams(n.TypeParams); err != nil {
			return err
		}
		if fn.Params, err = a.fnParams(n.Params); err != nil {
			return err
		}
		fn.Return, err = a.typ(n.Return)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fn, nil
}

func (a *Analyzer) constructorType(n *ast.ConstructorType) (tstype.Type, error) {
	ctor := &tstype.Constructor{Common: tstype.Common{Loc: span(n)}, Abstract: n.Abstract}
	err := a.withScope(ScopeTypeParams, func(*Scope) error {
		var err error
		if ctor.TypeParams, err = a.TypeParams(n.TypeParams); err != nil {
			return err
		}
		if ctor.Params, err = a.fnParams(n.Params); err != nil {
			return err
		}
		ctor.Return, err = a.typ(n.Return)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ctor, nil
}

func (a *Analyzer) typeLit(n *ast.TypeLit) (tstype.Type, error) {
	members, err := a.elements(n.Members)
	if err != nil {
		return nil, err
	}
	a.reportDuplicateMembers(members)
	a.reportMixedOptionalMethods(members)
	lit := &tstype.TypeLit{Common: tstype.Common{Loc: span(n)}, Members: members}
	lit.Metadata.Specified = true
	return lit, nil
}

// conditional elaborates check, extends, true and false in that order.
// Captures introduced by infer in the extends clause are registered in a
// scope shared by the branches.
func (a *Analyzer) conditional(n *ast.ConditionalType) (tstype.Type, error) {
	cond := &tstype.Conditional{Common: tstype.Common{Loc: span(n)}}
	err := a.withScope(ScopeFlow, func(*Scope) error {
		var err error
		if cond.Check, err = a.typ(n.Check); err != nil {
			return err
		}
		if cond.Extends, err = a.typ(n.Extends); err != nil {
			return err
		}
		if cond.True, err = a.typ(n.True); err != nil {
			return err
		}
		cond.False, err = a.typ(n.False)
		return err
	})
	if err != nil {
		return nil, err
	}
	cond.Common = a.common(n, cond.Check, cond.Extends, cond.True, cond.False)
	return cond, nil
}

func modifier(s string) tstype.Modifier {
	switch s {
	case "true":
		return tstype.ModifierTrue
	case "+":
		return tstype.ModifierPlus
	case "-":
		return tstype.ModifierMinus
	}
	return tstype.ModifierNone
}

func (a *Analyzer) mapped(n *ast.MappedType) (tstype.Type, error) {
	m := &tstype.Mapped{
		Readonly: modifier(n.Readonly),
		Optional: modifier(n.Optional),
	}
	err := a.withScope(ScopeTypeParams, func(*Scope) error {
		var err error
		if m.Param, err = a.typeParam(n.Param); err != nil {
			return err
		}
		if n.NameType != nil {
			if m.NameType, err = a.typ(n.NameType); err != nil {
				return err
			}
		}
		if n.Type != nil {
			m.Type, err = a.typ(n.Type)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	m.Common = a.common(n, m.Param, m.NameType, m.Type)
	return m, nil
}

func (a *Analyzer) operator(n *ast.TypeOperator) (tstype.Type, error) {
	var op tstype.OpKind
	switch n.Op {
	case "keyof":
		op = tstype.OpKeyOf
	case "unique":
		op = tstype.OpUnique
	case "readonly":
		op = tstype.OpReadonly
	default:
		return nil, fmt.Errorf("internal error: unknown type operator %q", n.Op)
	}
	inner, err := a.typ(n.Type)
	if err != nil {
		return nil, err
	}
	return &tstype.Operator{Common: a.common(n, inner), Op: op, Type: inner}, nil
}

func (a *Analyzer) indexedAccess(n *ast.IndexedAccessType) (tstype.Type, error) {
	obj, err := a.typ(n.Object)
	if err != nil {
		return nil, err
	}
	index, err := a.typ(n.Index)
	if err != nil {
		return nil, err
	}
	if !a.ctx.SkipIndexedAccessCheck && !a.opts.Builtin {
		a.checkIndexedAccess(n, obj, index)
	}
	return &tstype.IndexedAccess{
		Common:   a.common(n, obj, index),
		Readonly: n.Readonly,
		Object:   obj,
		Index:    index,
	}, nil
}

func (a *Analyzer) query(n *ast.TypeQuery) (tstype.Type, error) {
	args, err := a.types(n.TypeArgs)
	if err != nil {
		return nil, err
	}
	q := &tstype.Query{Common: a.common(n, args...), TypeArgs: args}
	if n.Import != nil {
		imp, err := a.importType(n.Import)
		if err != nil {
			return nil, err
		}
		q.Import = imp
	} else {
		q.Name = ast.Names(n.Name)
	}
	return q, nil
}

func (a *Analyzer) importType(n *ast.ImportType) (*tstype.Import, error) {
	args, err := a.types(n.TypeArgs)
	if err != nil {
		return nil, err
	}
	return &tstype.Import{
		Common:    a.common(n, args...),
		Arg:       n.Arg,
		Qualifier: ast.Names(n.Qualifier),
		TypeArgs:  args,
	}, nil
}

func (a *Analyzer) predicate(n *ast.TypePredicate) (tstype.Type, error) {
	p := &tstype.Predicate{Common: tstype.Common{Loc: span(n)}, Asserts: n.Asserts}
	if n.Param == nil {
		p.This = true
	} else {
		p.ParamName = n.Param.Name
	}
	if n.Type != nil {
		t, err := a.typ(n.Type)
		if err != nil {
			return nil, err
		}
		p.Type = t
		p.Common = a.common(n, t)
	}
	return p, nil
}
