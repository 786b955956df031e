package semantic

import (
	"fmt"
	"slices"

	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/ast"
	"github.com/brimdata/tstype/compiler/diag"
	"github.com/brimdata/tstype/loader"
	"go.uber.org/zap"
)

// Result is the outcome of elaborating a module.
type Result struct {
	// Exports is the module's exported surface.
	Exports *tstype.ModuleTypeData
	// Locals holds every type and variable bound in the module scope,
	// including imports.
	Locals      *tstype.ModuleTypeData
	Diagnostics *diag.List
	Mutations   *Mutations
	// Ambient holds the results of the module's ambient module
	// declarations keyed by module name.
	Ambient map[string]*AmbientResult
}

type AmbientResult struct {
	ModuleID tstype.ModuleID
	*Result
}

var reservedInterfaceNames = []string{
	"any", "void", "never", "string", "number", "boolean", "null", "undefined", "symbol",
}

// Module elaborates every declaration of the module.  Imports are bound
// first and declaration names are hoisted so declarations may refer to
// each other in any order.  Imports from the module's own circular group
// are bound by identity and their surfaces are loaded last, once this
// module's partial surface is known.
func (a *Analyzer) Module() (*Result, error) {
	a.hoist(a.module.Decls)
	for _, d := range a.module.Decls {
		if imp, ok := d.(*ast.ImportDecl); ok {
			if err := a.importDecl(imp); err != nil {
				return nil, err
			}
		}
	}
	var exports []*ast.ExportDecl
	for _, d := range a.module.Decls {
		switch d := d.(type) {
		case *ast.ImportDecl:
		case *ast.ExportDecl:
			exports = append(exports, d)
		default:
			if err := a.decl(d); err != nil {
				return nil, err
			}
		}
	}
	for _, d := range exports {
		a.exportDecl(d)
	}
	for _, d := range a.circular {
		if err := a.loadCircular(d); err != nil {
			return nil, err
		}
	}
	locals := &tstype.ModuleTypeData{
		Types: a.scope.Types(),
		Vars:  a.scope.Vars(),
	}
	return &Result{
		Exports:     a.exports,
		Locals:      locals.Clone(),
		Diagnostics: a.diags,
		Mutations:   a.muts,
		Ambient:     a.ambient,
	}, nil
}

func (a *Analyzer) decl(d ast.Decl) error {
	switch d := d.(type) {
	case *ast.TypeAliasDecl:
		return a.typeAlias(d)
	case *ast.InterfaceDecl:
		return a.interfaceDecl(d)
	case *ast.VarDecl:
		return a.varDecl(d)
	case *ast.FunctionDecl:
		return a.functionDecl(d)
	case *ast.ClassDecl:
		return a.classDecl(d)
	case *ast.ModuleDecl:
		return a.moduleDecl(d)
	case *ast.ImportDecl, *ast.ExportDecl:
		return fmt.Errorf("internal error: %T is not allowed here", d)
	}
	return fmt.Errorf("internal error: unknown declaration %T", d)
}

// hoist binds placeholder entries for the module's declarations.  Type
// placeholders are references to the declaration itself.
func (a *Analyzer) hoist(decls []ast.Decl) {
	hoistType := func(id *ast.ID) {
		if _, ok := a.scope.Types()[id.Name]; ok {
			return
		}
		ref := &tstype.Ref{Common: tstype.Common{Loc: span(id)}, Module: a.id, Name: []string{id.Name}}
		a.scope.OverrideType(id.Name, a.sctx.MustFreeze(ref))
		a.hoisted[id.Name] = true
	}
	hoistVar := func(id *ast.ID) {
		if _, ok := a.scope.Vars()[id.Name]; ok {
			return
		}
		a.scope.SetVar(id.Name, tstype.TypeAny)
		a.hoistedVars[id.Name] = true
	}
	for _, d := range decls {
		switch d := d.(type) {
		case *ast.TypeAliasDecl:
			hoistType(d.Name)
		case *ast.InterfaceDecl:
			hoistType(d.Name)
		case *ast.ClassDecl:
			hoistType(d.Name)
			hoistVar(d.Name)
		case *ast.FunctionDecl:
			hoistVar(d.Name)
		case *ast.VarDecl:
			for _, decl := range d.Decls {
				for _, id := range bindingNames(decl.Name) {
					hoistVar(id)
				}
			}
		}
	}
}

// registerType binds a declaration in the module scope.  Interfaces merge;
// anything else declared twice is a duplicate, reported at every
// declaration.
func (a *Analyzer) registerType(id *ast.ID, t tstype.Type, export bool) {
	name := id.Name
	if _, ok := a.firstType[name]; !ok {
		a.firstType[name] = id
	}
	if a.hoisted[name] {
		delete(a.hoisted, name)
		a.scope.OverrideType(name, t)
	} else {
		existing := a.scope.Types()[name]
		if len(existing) > 0 && !a.opts.Builtin && !mergeable(existing, t) {
			if first := a.firstType[name]; first != nil {
				a.error(first, diag.DuplicateName, name)
				a.firstType[name] = nil
			}
			a.error(id, diag.DuplicateName, name)
		}
		a.scope.DefineType(name, t)
	}
	if export || a.isAmbient {
		a.exports.Types[name] = append(a.exports.Types[name], t)
	}
}

func mergeable(existing []tstype.Type, t tstype.Type) bool {
	isInterface := func(t tstype.Type) bool {
		_, ok := t.(*tstype.Interface)
		return ok
	}
	return isInterface(t) && !slices.ContainsFunc(existing, func(t tstype.Type) bool {
		return !isInterface(t)
	})
}

// registerVar binds a variable in the module scope.  The first
// declaration of a name wins.
func (a *Analyzer) registerVar(name string, t tstype.Type, export bool) {
	if a.hoistedVars[name] {
		delete(a.hoistedVars, name)
		a.scope.SetVar(name, t)
	} else if _, ok := a.scope.Vars()[name]; !ok {
		a.scope.SetVar(name, t)
	}
	if export || a.isAmbient {
		if _, ok := a.exports.Vars[name]; !ok {
			a.exports.Vars[name] = t
		}
	}
}

func (a *Analyzer) typeAlias(d *ast.TypeAliasDecl) error {
	alias := &tstype.Alias{Common: tstype.Common{Loc: span(d)}, Name: d.Name.Name}
	err := a.withScope(ScopeTypeParams, func(*Scope) error {
		var err error
		if alias.TypeParams, err = a.TypeParams(d.TypeParams); err != nil {
			return err
		}
		if t, ok := a.intrinsic(d, alias.TypeParams); ok {
			alias.Target = t
			return nil
		}
		alias.Target, err = a.typ(d.Type)
		return err
	})
	if err != nil {
		return err
	}
	alias.Metadata.ContainsInfer = tstype.ContainsInfer(alias.Target)
	alias.Metadata.PreventExpansion = !alias.Metadata.ContainsInfer
	t, err := a.freeze(alias)
	if err != nil {
		return err
	}
	a.registerType(d.Name, t, d.Export)
	return nil
}

// intrinsic returns the intrinsic type declared by a builtin alias such as
// type Uppercase<S extends string> = intrinsic.
func (a *Analyzer) intrinsic(d *ast.TypeAliasDecl, params *tstype.TypeParamDecl) (tstype.Type, bool) {
	kw, ok := d.Type.(*ast.KeywordType)
	if !ok || kw.Name != "intrinsic" || !a.opts.Builtin {
		return nil, false
	}
	kind := tstype.LookupIntrinsic(d.Name.Name)
	if kind == 0 {
		return nil, false
	}
	t := &tstype.Intrinsic{Common: tstype.Common{Loc: span(kw)}, Intrinsic: kind}
	if params != nil {
		for _, p := range params.Params {
			t.TypeArgs = append(t.TypeArgs, p)
		}
	}
	return t, true
}

func (a *Analyzer) interfaceDecl(d *ast.InterfaceDecl) error {
	if slices.Contains(reservedInterfaceNames, d.Name.Name) {
		a.error(d.Name, diag.InvalidInterfaceName, d.Name.Name)
	}
	iface := &tstype.Interface{Common: tstype.Common{Loc: span(d)}, Name: d.Name.Name}
	err := a.withScope(ScopeTypeParams, func(*Scope) error {
		var err error
		if iface.TypeParams, err = a.TypeParams(d.TypeParams); err != nil {
			return err
		}
		for _, h := range d.Extends {
			ref, err := a.heritage(h)
			if err != nil {
				return err
			}
			iface.Extends = append(iface.Extends, ref)
		}
		if iface.Body, err = a.elements(d.Body); err != nil {
			return err
		}
		a.reportDuplicateMembers(iface.Body)
		a.reportMixedOptionalMethods(iface.Body)
		return nil
	})
	if err != nil {
		return err
	}
	t, err := a.freeze(iface)
	if err != nil {
		return err
	}
	a.registerType(d.Name, t, d.Export)
	return nil
}

func (a *Analyzer) heritage(h *ast.Heritage) (tstype.HeritageRef, error) {
	args, err := a.types(h.TypeArgs)
	if err != nil {
		return tstype.HeritageRef{}, err
	}
	a.resolveName(h.Name)
	return tstype.HeritageRef{Loc: span(h), Name: ast.Names(h.Name), TypeArgs: args}, nil
}

func (a *Analyzer) varDecl(d *ast.VarDecl) error {
	return a.WithCtx(func(c *Ctx) { c.InDeclare = c.InDeclare || d.Declare }, func() error {
		for _, decl := range d.Decls {
			t, err := a.bindingType(decl)
			if err != nil {
				return err
			}
			_, isIdent := decl.Name.(*ast.IdentPat)
			for _, id := range bindingNames(decl.Name) {
				v := tstype.Type(tstype.TypeAny)
				if isIdent {
					v = t
				}
				a.registerVar(id.Name, v, d.Export)
			}
		}
		return nil
	})
}

// bindingType returns the declared type of a variable, or the type
// recorded for its unannotated pattern.
func (a *Analyzer) bindingType(decl *ast.VarDeclarator) (tstype.Type, error) {
	if ann := ast.TypeAnnOf(decl.Name); ann != nil {
		return a.Type(ann)
	}
	err := a.WithCtx(func(c *Ctx) { c.InAssignRHS = decl.Init != nil }, func() error {
		return a.DefaultAnyPat(decl.Name)
	})
	if err != nil {
		return nil, err
	}
	if t, ok := a.muts.TypeOf(decl.Name); ok {
		return t, nil
	}
	return tstype.TypeAny, nil
}

func (a *Analyzer) functionDecl(d *ast.FunctionDecl) error {
	fn := &tstype.Function{Common: tstype.Common{Loc: span(d)}}
	err := a.withScope(ScopeFunction, func(*Scope) error {
		return a.WithCtx(func(c *Ctx) {
			c.InDeclare = c.InDeclare || d.Declare
			c.InFnWithReturnType = d.Return != nil
		}, func() error {
			var err error
			fn.TypeParams, fn.Params, fn.Return, err = a.signature(d.TypeParams, d.Params, d.Return)
			return err
		})
	})
	if err != nil {
		return err
	}
	if fn.Return == nil {
		fn.Return = tstype.ImplicitAny(span(d.Name))
	}
	t, err := a.freeze(fn)
	if err != nil {
		return err
	}
	a.registerVar(d.Name.Name, t, d.Export)
	return nil
}

// classDecl publishes the instance side of a class as an interface and
// the static side, including its construct signatures, as the type of the
// class variable.
func (a *Analyzer) classDecl(d *ast.ClassDecl) error {
	name := d.Name.Name
	instance := &tstype.Interface{Common: tstype.Common{Loc: span(d)}, Name: name}
	static := &tstype.TypeLit{Common: tstype.Common{Loc: span(d)}}
	err := a.withScope(ScopeClass, func(scope *Scope) error {
		if d.TypeParams != nil {
			for _, p := range d.TypeParams.Params {
				scope.declare([]string{p.Name.Name})
			}
		}
		var err error
		if instance.TypeParams, err = a.TypeParams(d.TypeParams); err != nil {
			return err
		}
		if d.Extends != nil {
			ref, err := a.heritage(d.Extends)
			if err != nil {
				return err
			}
			instance.Extends = append(instance.Extends, ref)
		}
		for _, h := range d.Implements {
			if _, err := a.heritage(h); err != nil {
				return err
			}
		}
		members, err := a.elements(d.Members)
		if err != nil {
			return err
		}
		a.reportDuplicateMembers(members)
		a.reportMixedOptionalMethods(members)
		self := &tstype.Ref{Common: tstype.Common{Loc: span(d.Name)}, Module: a.id, Name: []string{name}}
		if instance.TypeParams != nil {
			for _, p := range instance.TypeParams.Params {
				self.TypeArgs = append(self.TypeArgs, p)
			}
		}
		var hasCtor bool
		for _, m := range members {
			switch m := m.(type) {
			case *tstype.ConstructSignature:
				hasCtor = true
				m.TypeParams = instance.TypeParams
				m.Return = self
				static.Members = append(static.Members, m)
			default:
				if isStatic(m) {
					static.Members = append(static.Members, m)
				} else {
					instance.Body = append(instance.Body, m)
				}
			}
		}
		if !hasCtor {
			static.Members = append(static.Members, &tstype.ConstructSignature{
				Loc:        span(d.Name),
				TypeParams: instance.TypeParams,
				Return:     self,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	t, err := a.freeze(instance)
	if err != nil {
		return err
	}
	a.registerType(d.Name, t, d.Export)
	v, err := a.freeze(static)
	if err != nil {
		return err
	}
	a.registerVar(name, v, d.Export)
	return nil
}

func isStatic(e tstype.TypeElement) bool {
	switch e := e.(type) {
	case *tstype.PropertySignature:
		return e.Static
	case *tstype.MethodSignature:
		return e.Static
	case *tstype.IndexSignature:
		return e.Static
	}
	return false
}

// moduleDecl elaborates an ambient module declaration in a child analyzer
// and publishes its surface through the loader.  Every declaration of an
// ambient module is exported.
func (a *Analyzer) moduleDecl(d *ast.ModuleDecl) error {
	id, ok := a.loader.ModuleID(a.module.Path, d.Name)
	if !ok {
		id = a.id
	}
	body := &ast.Module{Path: a.module.Path, Text: a.module.Text, Decls: d.Body}
	opts := a.opts
	opts.Global = a.scope
	opts.Logger = a.logger
	child := New(a.sctx, a.loader, body, id, opts)
	child.isAmbient = true
	child.ctx.InDeclare = true
	res, err := child.Module()
	if err != nil {
		return err
	}
	a.diags.Append(res.Diagnostics.Diagnostics()...)
	module, err := a.freeze(&tstype.Module{
		Common:  tstype.Common{Loc: span(d)},
		Module:  id,
		Name:    d.Name,
		Exports: res.Exports,
	})
	if err != nil {
		return err
	}
	a.logger.Debug("Declaring ambient module", zap.String("name", d.Name))
	a.loader.DeclareModule(d.Name, module)
	if a.ambient == nil {
		a.ambient = make(map[string]*AmbientResult)
	}
	a.ambient[d.Name] = &AmbientResult{ModuleID: id, Result: res}
	for name, r := range res.Ambient {
		a.ambient[name] = r
	}
	return nil
}

func (a *Analyzer) exportDecl(d *ast.ExportDecl) {
	for _, n := range d.Names {
		local := n.Local.Name
		exported := local
		if n.Exported != nil {
			exported = n.Exported.Name
		}
		types := a.scope.LookupType(local)
		v, ok := a.scope.LookupVar(local)
		if len(types) == 0 && !ok {
			a.error(n.Local, diag.ExportNotFound, local)
			continue
		}
		if len(types) != 0 {
			a.exports.Types[exported] = append(a.exports.Types[exported], types...)
		}
		if ok {
			a.exports.Vars[exported] = v
		}
	}
}

// importDecl binds the names imported by d.  Failures are reported and the
// names are bound to any.
func (a *Analyzer) importDecl(d *ast.ImportDecl) error {
	base, spec := a.module.Path, d.Specifier
	target, ok := a.loader.ModuleID(base, spec)
	if !ok {
		a.error(d, diag.ModuleNotFound, spec)
		a.bindImport(d, nil)
		return nil
	}
	if a.loader.IsInSameCircularGroup(base, spec) {
		a.bindCircular(d, target)
		a.circular = append(a.circular, d)
		return nil
	}
	m, err := a.load(d, func() (tstype.Type, error) {
		return a.loader.LoadNonCircularDep(base, spec)
	})
	if err != nil {
		return err
	}
	a.bindImport(d, m)
	return nil
}

// load runs a loader call and validates its result.  A failed load is
// reported and yields a nil module.
func (a *Analyzer) load(d *ast.ImportDecl, f func() (tstype.Type, error)) (*tstype.Module, error) {
	t, err := f()
	var m *tstype.Module
	if err == nil {
		m, err = loader.Validate(t)
	}
	if err != nil {
		a.logger.Warn("Failed to load dependency", zap.String("specifier", d.Specifier), zap.Error(err))
		report := a.diags.Add(diag.LoadFailed, d.Pos(), d.End(), d.Specifier)
		report.Msg = fmt.Sprintf("%s %s", report.Msg, err)
		return nil, nil
	}
	return m, nil
}

// bindImport binds the names of d to the exports of m, or to any if m is
// nil.
func (a *Analyzer) bindImport(d *ast.ImportDecl, m *tstype.Module) {
	bind := func(imported string, local *ast.ID) {
		if m == nil {
			a.scope.OverrideType(local.Name, tstype.TypeAny)
			a.scope.SetVar(local.Name, tstype.TypeAny)
			return
		}
		types := m.Exports.Types[imported]
		v, ok := m.Exports.Vars[imported]
		if len(types) == 0 && !ok {
			a.error(local, diag.ExportNotFound, imported)
			a.scope.OverrideType(local.Name, tstype.TypeAny)
			return
		}
		for _, t := range types {
			a.scope.DefineType(local.Name, t)
		}
		if ok {
			a.scope.SetVar(local.Name, v)
		}
	}
	if d.Default != nil {
		bind("default", d.Default)
	}
	for _, n := range d.Names {
		local := n.Local
		if local == nil {
			local = n.Imported
		}
		bind(n.Imported.Name, local)
	}
	if d.Namespace != nil {
		var v tstype.Type = tstype.TypeAny
		if m != nil {
			v = m
		}
		a.scope.SetVar(d.Namespace.Name, v)
	}
}

// bindCircular binds the names of d by identity so they can be resolved
// once the group reaches its fixpoint.
func (a *Analyzer) bindCircular(d *ast.ImportDecl, target tstype.ModuleID) {
	bind := func(imported string, local *ast.ID) {
		ref := a.sctx.MustFreeze(&tstype.Ref{
			Common: tstype.Common{Loc: span(local)},
			Module: target,
			Name:   []string{imported},
		})
		a.scope.OverrideType(local.Name, ref)
		a.scope.SetVar(local.Name, ref)
	}
	if d.Default != nil {
		bind("default", d.Default)
	}
	for _, n := range d.Names {
		local := n.Local
		if local == nil {
			local = n.Imported
		}
		bind(n.Imported.Name, local)
	}
	if d.Namespace != nil {
		ref := a.sctx.MustFreeze(&tstype.Ref{Common: tstype.Common{Loc: span(d.Namespace)}, Module: target})
		a.scope.SetVar(d.Namespace.Name, ref)
	}
}

// loadCircular loads the surface of a module in this module's circular
// group, handing over this module's partial surface, and checks that the
// imported names exist.  Surfaces of earlier rounds may be incomplete, so
// only the final round's diagnostics are meaningful.
func (a *Analyzer) loadCircular(d *ast.ImportDecl) error {
	base, spec := a.module.Path, d.Specifier
	m, err := a.load(d, func() (tstype.Type, error) {
		return a.loader.LoadCircularDep(base, spec, a.exports.Clone())
	})
	if err != nil || m == nil {
		return err
	}
	check := func(imported string, local *ast.ID) {
		_, hasType := m.Exports.Types[imported]
		_, hasVar := m.Exports.Vars[imported]
		if !hasType && !hasVar {
			a.error(local, diag.ExportNotFound, imported)
		}
	}
	if d.Default != nil {
		check("default", d.Default)
	}
	for _, n := range d.Names {
		local := n.Local
		if local == nil {
			local = n.Imported
		}
		check(n.Imported.Name, local)
	}
	return nil
}
