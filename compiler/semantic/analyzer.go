// Package semantic elaborates the type syntax of a module into tstype
// values.  An Analyzer walks one module's declarations, resolving names
// through a Scope chain and crossing module boundaries through a
// loader.Loader.  Problems are reported to a diag.List and elaboration
// continues with a best-effort placeholder, so a module with errors still
// yields a complete result.
package semantic

import (
	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/ast"
	"github.com/brimdata/tstype/compiler/diag"
	"github.com/brimdata/tstype/loader"
	"go.uber.org/zap"
)

type Options struct {
	// Builtin elaborates trusted library declarations: duplicate checks
	// and type parameter re-expansion are skipped and intrinsic is
	// allowed.
	Builtin                bool
	NoImplicitAny          bool
	SkipIndexedAccessCheck bool
	// Global is the parent of the module scope, typically built from
	// builtin libraries.  It is only read.
	Global *Scope
	Logger *zap.Logger
}

// Ctx holds the context flags of the construct being elaborated.  It is
// saved and restored around nested elaboration with WithCtx.
type Ctx struct {
	InDeclare              bool
	InArgument             bool
	InReturnArg            bool
	InFnWithReturnType     bool
	InAssignRHS            bool
	SkipIndexedAccessCheck bool
}

// Analyzer elaborates one module.  It is not safe for concurrent use.
type Analyzer struct {
	sctx    *tstype.Context
	loader  loader.Loader
	module  *ast.Module
	id      tstype.ModuleID
	opts    Options
	ctx     Ctx
	scope   *Scope
	diags   *diag.List
	muts    *Mutations
	logger  *zap.Logger
	exports *tstype.ModuleTypeData

	hoisted     map[string]bool
	hoistedVars map[string]bool
	circular    []*ast.ImportDecl
	ambient     map[string]*AmbientResult
	isAmbient   bool
	// firstType holds the name of the first declaration of each type
	// until a duplicate of it has been reported.
	firstType map[string]*ast.ID
}

func New(sctx *tstype.Context, l loader.Loader, module *ast.Module, id tstype.ModuleID, opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		sctx:    sctx,
		loader:  l,
		module:  module,
		id:      id,
		opts:    opts,
		ctx:     Ctx{SkipIndexedAccessCheck: opts.SkipIndexedAccessCheck},
		scope:   NewScope(opts.Global, ScopeModule),
		diags:   diag.NewList(module.Path, module.Text),
		muts:    NewMutations(),
		logger:  logger.With(zap.String("module", module.Path)),
		exports: tstype.NewModuleTypeData(),

		hoisted:     make(map[string]bool),
		hoistedVars: make(map[string]bool),
		firstType:   make(map[string]*ast.ID),
	}
}

func (a *Analyzer) Scope() *Scope             { return a.scope }
func (a *Analyzer) Diagnostics() *diag.List   { return a.diags }
func (a *Analyzer) Mutations() *Mutations     { return a.muts }
func (a *Analyzer) Context() *tstype.Context  { return a.sctx }
func (a *Analyzer) ModuleID() tstype.ModuleID { return a.id }

// Ctx returns the current context flags.
func (a *Analyzer) Ctx() Ctx {
	return a.ctx
}

// SetCtx replaces the context flags and returns a function restoring the
// previous ones.
func (a *Analyzer) SetCtx(ctx Ctx) (restore func()) {
	prev := a.ctx
	a.ctx = ctx
	return func() { a.ctx = prev }
}

// WithCtx runs body with the context flags adjusted by f.
func (a *Analyzer) WithCtx(f func(*Ctx), body func() error) error {
	prev := a.ctx
	f(&a.ctx)
	defer func() { a.ctx = prev }()
	return body()
}

// withScope runs body in a new child scope of the given kind.
func (a *Analyzer) withScope(kind ScopeKind, body func(*Scope) error) error {
	scope := NewScope(a.scope, kind)
	a.scope = scope
	defer func() { a.scope = scope.parent }()
	return body(scope)
}

func (a *Analyzer) error(n ast.Node, code diag.Code, name string) {
	a.diags.Add(code, n.Pos(), n.End(), name)
}

func (a *Analyzer) freeze(t tstype.Type) (tstype.Type, error) {
	return a.sctx.Freeze(t)
}

func span(n ast.Node) tstype.Span {
	if n == nil {
		return tstype.Span{}
	}
	return tstype.Span{First: n.Pos(), Last: n.End()}
}
