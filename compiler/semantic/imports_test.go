package semantic_test

import (
	"errors"
	"testing"

	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/diag"
	"github.com/brimdata/tstype/compiler/semantic"
	"github.com/brimdata/tstype/loader/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func frozenModule(sctx *tstype.Context, id tstype.ModuleID, name string, exports *tstype.ModuleTypeData) tstype.Type {
	return sctx.MustFreeze(&tstype.Module{Module: id, Name: name, Exports: exports})
}

func TestImportNonCircular(t *testing.T) {
	const src = `{"path": "/src/a.ts", "decls": [
  {"kind": "ImportDecl", "specifier": "./b", "names": [
    {"imported": "P"},
    {"imported": "Q", "local": "R"}
  ], "namespace": "ns"},
  {"kind": "TypeAliasDecl", "name": "T", "type": {"kind": "TypeRef", "name": ["R"]}},
  {"kind": "TypeAliasDecl", "name": "U", "type": {"kind": "TypeRef", "name": ["ns", {"name": "Nope", "loc": {"first": 80, "last": 84}}]}}
]}`
	sctx := tstype.NewContext()
	exports := tstype.NewModuleTypeData()
	exports.Types["P"] = []tstype.Type{sctx.MustFreeze(&tstype.Alias{Name: "P", Target: tstype.TypeString})}
	exports.Types["Q"] = []tstype.Type{sctx.MustFreeze(&tstype.Alias{Name: "Q", Target: tstype.TypeNumber})}
	b := frozenModule(sctx, 2, "/src/b.ts", exports)

	l := mock.NewMockLoader(gomock.NewController(t))
	l.EXPECT().ModuleID("/src/a.ts", "./b").Return(tstype.ModuleID(2), true)
	l.EXPECT().IsInSameCircularGroup("/src/a.ts", "./b").Return(false)
	l.EXPECT().LoadNonCircularDep("/src/a.ts", "./b").Return(b, nil)

	res, err := semantic.New(sctx, l, parseModule(t, src), 1, semantic.Options{}).Module()
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.ExportNotFound}, res.Diagnostics.Codes())
	assert.Equal(t, "Nope", res.Diagnostics.Diagnostics()[0].Name)
	assert.Same(t, exports.Types["P"][0], res.Locals.Types["P"][0])
	assert.Same(t, exports.Types["Q"][0], res.Locals.Types["R"][0])
	assert.Same(t, b, res.Locals.Vars["ns"])
}

func TestImportFailures(t *testing.T) {
	const src = `{"path": "/src/a.ts", "decls": [
  {"kind": "ImportDecl", "specifier": "./missing", "names": [{"imported": "A"}], "loc": {"first": 0, "last": 10}},
  {"kind": "ImportDecl", "specifier": "./broken", "names": [{"imported": "B"}], "loc": {"first": 11, "last": 20}},
  {"kind": "ImportDecl", "specifier": "./raw", "names": [{"imported": "C"}], "loc": {"first": 21, "last": 30}},
  {"kind": "TypeAliasDecl", "name": "T", "type": {"kind": "UnionType", "types": [
    {"kind": "TypeRef", "name": ["A"]},
    {"kind": "TypeRef", "name": ["B"]},
    {"kind": "TypeRef", "name": ["C"]}
  ]}}
]}`
	l := mock.NewMockLoader(gomock.NewController(t))
	l.EXPECT().ModuleID("/src/a.ts", "./missing").Return(tstype.ModuleID(0), false)
	l.EXPECT().ModuleID("/src/a.ts", "./broken").Return(tstype.ModuleID(2), true)
	l.EXPECT().IsInSameCircularGroup("/src/a.ts", "./broken").Return(false)
	l.EXPECT().LoadNonCircularDep("/src/a.ts", "./broken").Return(nil, errors.New("disk on fire"))
	l.EXPECT().ModuleID("/src/a.ts", "./raw").Return(tstype.ModuleID(3), true)
	l.EXPECT().IsInSameCircularGroup("/src/a.ts", "./raw").Return(false)
	// An unfrozen module must be rejected.
	l.EXPECT().LoadNonCircularDep("/src/a.ts", "./raw").Return(&tstype.Module{Module: 3, Name: "/src/raw.ts"}, nil)

	res, err := semantic.New(tstype.NewContext(), l, parseModule(t, src), 1, semantic.Options{}).Module()
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.ModuleNotFound, diag.LoadFailed, diag.LoadFailed}, res.Diagnostics.Codes())
	assert.Contains(t, res.Diagnostics.Diagnostics()[1].Msg, "disk on fire")
	for _, name := range []string{"A", "B", "C"} {
		assert.Same(t, tstype.TypeAny, res.Locals.Types[name][0], name)
	}
}

func TestImportCircular(t *testing.T) {
	const src = `{"path": "/src/a.ts", "decls": [
  {"kind": "ImportDecl", "specifier": "./b", "names": [{"imported": "B"}, {"imported": {"name": "Gone", "loc": {"first": 30, "last": 34}}}]},
  {"kind": "InterfaceDecl", "export": true, "name": "A", "body": [
    {"kind": "PropertySignature", "key": {"kind": "IdentKey", "name": "b"}, "type": {"kind": "TypeRef", "name": ["B"]}}
  ]}
]}`
	sctx := tstype.NewContext()
	bExports := tstype.NewModuleTypeData()
	bExports.Types["B"] = []tstype.Type{sctx.MustFreeze(&tstype.Interface{Name: "B"})}

	l := mock.NewMockLoader(gomock.NewController(t))
	l.EXPECT().ModuleID("/src/a.ts", "./b").Return(tstype.ModuleID(2), true)
	l.EXPECT().IsInSameCircularGroup("/src/a.ts", "./b").Return(true)
	l.EXPECT().LoadCircularDep("/src/a.ts", "./b", gomock.Any()).DoAndReturn(
		func(_, _ string, partial *tstype.ModuleTypeData) (tstype.Type, error) {
			// The partial surface holds everything declared so far.
			assert.Equal(t, []string{"A"}, partial.TypeNames())
			return frozenModule(sctx, 2, "/src/b.ts", bExports), nil
		})

	res, err := semantic.New(sctx, l, parseModule(t, src), 1, semantic.Options{}).Module()
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.ExportNotFound}, res.Diagnostics.Codes())
	ref := res.Locals.Types["B"][0].(*tstype.Ref)
	assert.Equal(t, tstype.ModuleID(2), ref.Module)
	assert.Equal(t, []string{"B"}, ref.Name)
	a := res.Exports.Types["A"][0].(*tstype.Interface)
	prop := a.Body[0].(*tstype.PropertySignature)
	assert.Equal(t, tstype.ModuleID(1), prop.Type.(*tstype.Ref).Module)
}

func TestAmbientModule(t *testing.T) {
	const src = `{"path": "/src/types.d.ts", "decls": [
  {"kind": "ModuleDecl", "name": "lib", "body": [
    {"kind": "InterfaceDecl", "name": "Options", "body": []},
    {"kind": "FunctionDecl", "name": "run", "params": [], "return": {"kind": "TypeRef", "name": ["Options"]}}
  ]}
]}`
	sctx := tstype.NewContext()
	l := mock.NewMockLoader(gomock.NewController(t))
	l.EXPECT().ModuleID("/src/types.d.ts", "lib").Return(tstype.ModuleID(7), true)
	var declared tstype.Type
	l.EXPECT().DeclareModule("lib", gomock.Any()).Do(func(_ string, m tstype.Type) {
		declared = m
	})

	res, err := semantic.New(sctx, l, parseModule(t, src), 1, semantic.Options{}).Module()
	require.NoError(t, err)
	assert.Zero(t, res.Diagnostics.Len())
	m, ok := declared.(*tstype.Module)
	require.True(t, ok)
	assert.True(t, tstype.IsFrozen(m))
	assert.Equal(t, tstype.ModuleID(7), m.Module)
	assert.Equal(t, []string{"Options"}, m.Exports.TypeNames())
	assert.Equal(t, []string{"run"}, m.Exports.VarNames())
	fn := m.Exports.Vars["run"].(*tstype.Function)
	assert.Equal(t, tstype.ModuleID(7), fn.Return.(*tstype.Ref).Module)
	require.Contains(t, res.Ambient, "lib")
	assert.Equal(t, tstype.ModuleID(7), res.Ambient["lib"].ModuleID)
}
