package driver_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/ast"
	"github.com/brimdata/tstype/compiler/diag"
	"github.com/brimdata/tstype/driver"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func parse(t *testing.T, srcs map[string]string) []*ast.Module {
	t.Helper()
	var modules []*ast.Module
	for path, src := range srcs {
		m, err := ast.UnmarshalModule([]byte(src))
		require.NoError(t, err, path)
		m.Path = path
		modules = append(modules, m)
	}
	return modules
}

func check(t *testing.T, cfg driver.Config, srcs map[string]string) (*driver.Program, *driver.Driver) {
	t.Helper()
	d := driver.New(cfg, zaptest.NewLogger(t))
	p, err := d.Check(context.Background(), parse(t, srcs))
	require.NoError(t, err)
	return p, d
}

func codes(diags []*diag.Diagnostic) []diag.Code {
	var out []diag.Code
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func resolveOne(t *testing.T, p *driver.Program, ref *tstype.Ref) tstype.Type {
	t.Helper()
	types, err := p.Resolve(ref)
	require.NoError(t, err)
	require.Len(t, types, 1)
	return types[0]
}

const (
	circularA = `{"decls": [
  {"kind": "ImportDecl", "specifier": "./b", "names": [{"imported": "B"}]},
  {"kind": "InterfaceDecl", "export": true, "name": "A", "body": [
    {"kind": "PropertySignature", "key": {"kind": "IdentKey", "name": "b"}, "type": {"kind": "TypeRef", "name": ["B"]}}
  ]}
]}`
	circularB = `{"decls": [
  {"kind": "ImportDecl", "specifier": "./a", "names": [{"imported": "A"}]},
  {"kind": "InterfaceDecl", "export": true, "name": "B", "body": [
    {"kind": "PropertySignature", "key": {"kind": "IdentKey", "name": "a"}, "type": {"kind": "TypeRef", "name": ["A"]}}
  ]}
]}`
)

func TestNonCircularImport(t *testing.T) {
	p, d := check(t, driver.Config{}, map[string]string{
		"/src/main.ts": `{"decls": [
  {"kind": "ImportDecl", "specifier": "./util/index.js", "names": [{"imported": "Point", "local": "P"}]},
  {"kind": "TypeAliasDecl", "export": true, "name": "Line", "type": {"kind": "ArrayType", "elem": {"kind": "TypeRef", "name": ["P"]}}}
]}`,
		"/src/util/index.ts": `{"decls": [
  {"kind": "TypeAliasDecl", "export": true, "name": "Point", "type": {"kind": "TupleType", "elems": [
    {"type": {"kind": "KeywordType", "name": "number"}},
    {"type": {"kind": "KeywordType", "name": "number"}}
  ]}}
]}`,
	})
	assert.Empty(t, p.Diagnostics())
	assert.Empty(t, p.Warnings)
	assert.Equal(t, []string{"/src/main.ts", "/src/util/index.ts"}, p.Paths())

	main, ok := p.Module("/src/main.ts")
	require.True(t, ok)
	util, ok := p.Module("/src/util/index.ts")
	require.True(t, ok)
	assert.Equal(t, tstype.ModuleID(1), main.ModuleID)
	assert.Equal(t, tstype.ModuleID(2), util.ModuleID)
	assert.True(t, tstype.IsFrozen(main.Module))
	assert.Same(t, util.Exports.Types["Point"][0], main.Locals.Types["P"][0])

	line := main.Exports.Types["Line"][0].(*tstype.Alias)
	ref := line.Target.(*tstype.Array).Elem.(*tstype.Ref)
	assert.Same(t, util.Exports.Types["Point"][0], resolveOne(t, p, ref))

	assert.Equal(t, 2.0, testutil.ToFloat64(d.Metrics().ModulesElaborated))
	assert.Equal(t, 1.0, testutil.ToFloat64(d.Metrics().Loads.WithLabelValues("noncircular")))
	assert.Zero(t, testutil.ToFloat64(d.Metrics().CircularIterations))
}

func TestCircularGroup(t *testing.T) {
	p, d := check(t, driver.Config{}, map[string]string{
		"/src/a.ts": circularA,
		"/src/b.ts": circularB,
	})
	// The first round sees an empty surface for b; only the last round's
	// diagnostics are kept.
	assert.Empty(t, p.Diagnostics())
	assert.Empty(t, p.Warnings)
	assert.Equal(t, 2.0, testutil.ToFloat64(d.Metrics().CircularIterations))
	assert.Equal(t, 4.0, testutil.ToFloat64(d.Metrics().ModulesElaborated))
	assert.Equal(t, 4.0, testutil.ToFloat64(d.Metrics().Loads.WithLabelValues("circular")))

	a, _ := p.Module("/src/a.ts")
	b, _ := p.Module("/src/b.ts")
	ifaceA := a.Exports.Types["A"][0].(*tstype.Interface)
	ifaceB := b.Exports.Types["B"][0].(*tstype.Interface)
	assert.True(t, tstype.IsFrozen(ifaceA))
	assert.True(t, tstype.IsFrozen(ifaceB))

	// A.b refers to B through a's import binding.
	refB := ifaceA.Body[0].(*tstype.PropertySignature).Type.(*tstype.Ref)
	assert.Equal(t, tstype.ModuleID(1), refB.Module)
	assert.Same(t, ifaceB, resolveOne(t, p, refB))
	refA := ifaceB.Body[0].(*tstype.PropertySignature).Type.(*tstype.Ref)
	assert.Same(t, ifaceA, resolveOne(t, p, refA))

	surface, ok := tstype.Surface(b.Module)
	require.True(t, ok)
	assert.True(t, tstype.EqualSurface(b.Exports, surface))
}

func TestIterationLimit(t *testing.T) {
	p, d := check(t, driver.Config{MaxCircularIterations: 1}, map[string]string{
		"/src/a.ts": circularA,
		"/src/b.ts": circularB,
	})
	require.Len(t, p.Warnings, 1)
	assert.ErrorIs(t, p.Warnings[0], driver.ErrIterationLimit)
	// The result of the only round is kept, stale view of b included.
	assert.Equal(t, []diag.Code{diag.ExportNotFound}, codes(p.Diagnostics()))
	assert.Equal(t, "B", p.Diagnostics()[0].Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.Metrics().CircularIterations))
	assert.Equal(t, 1.0, testutil.ToFloat64(d.Metrics().Diagnostics.WithLabelValues("ExportNotFound")))
}

func TestSelfImportIsCircular(t *testing.T) {
	p, d := check(t, driver.Config{}, map[string]string{
		"/src/self.ts": `{"decls": [
  {"kind": "ImportDecl", "specifier": "./self", "names": [{"imported": "T", "local": "U"}]},
  {"kind": "TypeAliasDecl", "export": true, "name": "T", "type": {"kind": "KeywordType", "name": "string"}}
]}`,
	})
	assert.Empty(t, p.Diagnostics())
	assert.Equal(t, 2.0, testutil.ToFloat64(d.Metrics().CircularIterations))
	self, _ := p.Module("/src/self.ts")
	u := self.Locals.Types["U"][0].(*tstype.Ref)
	alias := resolveOne(t, p, u).(*tstype.Alias)
	assert.True(t, tstype.IsKeyword(alias.Target, tstype.KeywordString))
}

func TestMissingModule(t *testing.T) {
	p, _ := check(t, driver.Config{}, map[string]string{
		"/src/a.ts": `{"decls": [
  {"kind": "ImportDecl", "specifier": "./nope", "names": [{"imported": "X"}]},
  {"kind": "ImportDecl", "specifier": "left-pad", "names": [{"imported": "Y"}]}
]}`,
	})
	assert.Equal(t, []diag.Code{diag.ModuleNotFound, diag.ModuleNotFound}, codes(p.Diagnostics()))
	assert.Equal(t, "Cannot find module 'left-pad'.", p.Diagnostics()[1].Msg)
}

func TestAmbientModules(t *testing.T) {
	lib := func(prop string) string {
		return fmt.Sprintf(`{"decls": [{"kind": "ModuleDecl", "name": "lib", "loc": {"first": 0, "last": 40}, "body": [
  {"kind": "InterfaceDecl", "name": "Options", "body": [
    {"kind": "PropertySignature", "key": {"kind": "IdentKey", "name": %q}, "type": {"kind": "KeywordType", "name": "boolean"}}
  ]}
]}]}`, prop)
	}
	p, _ := check(t, driver.Config{}, map[string]string{
		"/src/a-types.d.ts": lib("verbose"),
		"/src/main.ts": `{"decls": [
  {"kind": "ImportDecl", "specifier": "lib", "names": [{"imported": "Options"}]}
]}`,
		"/src/m-types.d.ts": lib("verbose"),
		"/src/z-types.d.ts": lib("quiet"),
	})
	amb, ok := p.Ambient("lib")
	require.True(t, ok)
	assert.Equal(t, tstype.ModuleID(5), amb.ModuleID)
	assert.Equal(t, "/src/a-types.d.ts", amb.Path)
	main, _ := p.Module("/src/main.ts")
	assert.Same(t, amb.Exports.Types["Options"][0], main.Locals.Types["Options"][0])

	// Only the declaration that differs from the first one conflicts.
	m, _ := p.Module("/src/m-types.d.ts")
	assert.Zero(t, m.Diagnostics.Len())
	z, _ := p.Module("/src/z-types.d.ts")
	assert.Equal(t, []diag.Code{diag.ConflictingAmbientModule}, z.Diagnostics.Codes())
	assert.Equal(t, 0, z.Diagnostics.Diagnostics()[0].Pos)
}

func TestLibs(t *testing.T) {
	const user = `{"decls": [
  {"kind": "TypeAliasDecl", "export": true, "name": "P", "type": {"kind": "TypeRef", "name": ["Promise"], "type_args": [{"kind": "KeywordType", "name": "string"}]}}
]}`
	srcs := map[string]string{
		"/lib/lib.d.ts": `{"decls": [
  {"kind": "InterfaceDecl", "name": "Promise", "type_params": {"params": [{"name": "T"}]}, "body": [
    {"kind": "PropertySignature", "key": {"kind": "IdentKey", "name": "value"}, "type": {"kind": "TypeRef", "name": ["T"]}}
  ]},
  {"kind": "TypeAliasDecl", "name": "Uppercase", "type_params": {"params": [{"name": "S", "constraint": {"kind": "KeywordType", "name": "string"}}]}, "type": {"kind": "KeywordType", "name": "intrinsic"}}
]}`,
		"/src/user.ts": user,
	}
	p, _ := check(t, driver.Config{Libs: []string{"/lib/lib.d.ts"}}, srcs)
	assert.Empty(t, p.Diagnostics())
	m, _ := p.Module("/src/user.ts")
	ref := m.Exports.Types["P"][0].(*tstype.Alias).Target.(*tstype.Ref)
	promise := resolveOne(t, p, ref).(*tstype.Interface)
	assert.Equal(t, "Promise", promise.Name)

	// Without the library the name is unknown and intrinsic is rejected.
	p, _ = check(t, driver.Config{}, srcs)
	assert.Equal(t, []diag.Code{diag.IntrinsicIsBuiltinOnly, diag.NoSuchType}, codes(p.Diagnostics()))
}

func TestUnknownLibrary(t *testing.T) {
	d := driver.New(driver.Config{Libs: []string{"/lib/missing.d.ts"}}, nil)
	_, err := d.Check(context.Background(), nil)
	assert.ErrorContains(t, err, `library "/lib/missing.d.ts" is not among the modules`)
}

func TestParallelChain(t *testing.T) {
	const n = 20
	srcs := make(map[string]string)
	for k := range n {
		decls := fmt.Sprintf(`{"kind": "TypeAliasDecl", "export": true, "name": "T%d", "type": {"kind": "LitType", "lit": "number", "value": "%d"}}`, k, k)
		if k > 0 {
			decls = fmt.Sprintf(`{"kind": "ImportDecl", "specifier": "./m%02d", "names": [{"imported": "T%d"}]}, `, k-1, k-1) + decls
		}
		srcs[fmt.Sprintf("/src/m%02d.ts", k)] = `{"decls": [` + decls + `]}`
	}
	p, d := check(t, driver.Config{Parallelism: 4}, srcs)
	assert.Empty(t, p.Diagnostics())
	assert.Equal(t, float64(n), testutil.ToFloat64(d.Metrics().ModulesElaborated))
	last, ok := p.Module(fmt.Sprintf("/src/m%02d.ts", n-1))
	require.True(t, ok)
	prev, _ := p.Module(fmt.Sprintf("/src/m%02d.ts", n-2))
	assert.Same(t, prev.Exports.Types[fmt.Sprintf("T%d", n-2)][0], last.Locals.Types[fmt.Sprintf("T%d", n-2)][0])
}

func TestDuplicatePaths(t *testing.T) {
	m := &ast.Module{Path: "/src/a.ts"}
	_, err := driver.New(driver.Config{}, nil).Check(context.Background(), []*ast.Module{m, m})
	assert.ErrorContains(t, err, "duplicate module path")
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := driver.New(driver.Config{}, nil)
	_, err := d.Check(ctx, parse(t, map[string]string{"/src/a.ts": circularA, "/src/b.ts": circularB}))
	assert.ErrorIs(t, err, context.Canceled)
}
