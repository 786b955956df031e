package semantic_test

import (
	"testing"

	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/ast"
	"github.com/brimdata/tstype/compiler/diag"
	"github.com/brimdata/tstype/compiler/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAnyNestedArrayPattern(t *testing.T) {
	a := newAnalyzer(t, tstype.NewContext(), parseModule(t, `{}`), semantic.Options{})
	p, err := ast.UnmarshalPattern([]byte(`{"kind": "ArrayPat", "elems": [
  {"kind": "IdentPat", "name": "a"},
  {"kind": "ArrayPat", "elems": [{"kind": "IdentPat", "name": "b"}, {"kind": "IdentPat", "name": "c"}]}
]}`))
	require.NoError(t, err)
	require.NoError(t, a.DefaultAnyPat(p))
	first, ok := a.Mutations().TypeOf(p)
	require.True(t, ok)
	tuple := first.(*tstype.Tuple)
	assert.True(t, tuple.Meta().Implicit)
	require.Len(t, tuple.Elems, 2)
	assert.True(t, tstype.IsAny(tuple.Elems[0].Type))
	inner := tuple.Elems[1].Type.(*tstype.Tuple)
	require.Len(t, inner.Elems, 2)
	assert.True(t, tstype.IsAny(inner.Elems[0].Type))
	assert.True(t, tstype.IsAny(inner.Elems[1].Type))

	require.NoError(t, a.DefaultAnyPat(p))
	second, ok := a.Mutations().TypeOf(p)
	require.True(t, ok)
	assert.Same(t, first, second)
	assert.Zero(t, a.Diagnostics().Len())
}

func TestDefaultAnyObjectPattern(t *testing.T) {
	a := newAnalyzer(t, tstype.NewContext(), parseModule(t, `{}`), semantic.Options{})
	p, err := ast.UnmarshalPattern([]byte(`{"kind": "ObjectPat", "props": [
  {"kind": "AssignProp", "key": "x"},
  {"kind": "AssignProp", "key": "y", "default": {"text": "1"}},
  {"kind": "KeyValueProp", "key": {"kind": "IdentKey", "name": "z"}, "value": {"kind": "ArrayPat", "elems": [{"kind": "IdentPat", "name": "w"}]}},
  {"kind": "RestProp", "arg": {"kind": "IdentPat", "name": "rest"}}
]}`))
	require.NoError(t, err)
	require.NoError(t, a.DefaultAnyPat(p))
	typ, ok := a.Mutations().TypeOf(p)
	require.True(t, ok)
	lit := typ.(*tstype.TypeLit)
	assert.True(t, lit.Meta().Implicit)
	require.Len(t, lit.Members, 3)
	x := lit.Members[0].(*tstype.PropertySignature)
	assert.Equal(t, "x", x.Key.Name)
	assert.False(t, x.Optional)
	assert.True(t, lit.Members[1].(*tstype.PropertySignature).Optional)
	z := lit.Members[2].(*tstype.PropertySignature)
	assert.Len(t, z.Type.(*tstype.Tuple).Elems, 1)
}

func TestImplicitAnyContexts(t *testing.T) {
	src := `{"kind": "IdentPat", "name": {"name": "x", "loc": {"first": 1, "last": 2}}}`
	tests := []struct {
		name string
		ctx  semantic.Ctx
		want int
	}{
		{"plain", semantic.Ctx{}, 1},
		{"argument", semantic.Ctx{InArgument: true}, 0},
		{"assignment", semantic.Ctx{InAssignRHS: true}, 0},
		{"return with type", semantic.Ctx{InReturnArg: true, InFnWithReturnType: true}, 0},
		{"return without type", semantic.Ctx{InReturnArg: true}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newAnalyzer(t, tstype.NewContext(), parseModule(t, `{}`), semantic.Options{NoImplicitAny: true})
			p, err := ast.UnmarshalPattern([]byte(src))
			require.NoError(t, err)
			restore := a.SetCtx(tc.ctx)
			require.NoError(t, a.DefaultAnyPat(p))
			restore()
			assert.Equal(t, tc.want, a.Diagnostics().Count(diag.ImplicitAny))
			typ, ok := a.Mutations().TypeOf(p)
			require.True(t, ok)
			assert.True(t, tstype.IsAny(typ))
			assert.True(t, typ.Meta().Implicit)
		})
	}
}

func TestImplicitAnyOffByDefault(t *testing.T) {
	const src = `{"decls": [{"kind": "FunctionDecl", "name": "f", "params": [{"kind": "IdentPat", "name": "x"}]}]}`
	res := check(t, src, semantic.Options{})
	assert.Zero(t, res.Diagnostics.Len())
	res = check(t, src, semantic.Options{NoImplicitAny: true})
	assert.Equal(t, []diag.Code{diag.ImplicitAny}, res.Diagnostics.Codes())
	fn := res.Locals.Vars["f"].(*tstype.Function)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "x", fn.Params[0].Name)
	assert.True(t, fn.Params[0].Type.Meta().Implicit)
}

func TestInterfaceDuplicateMembers(t *testing.T) {
	const src = `{"decls": [{
  "kind": "InterfaceDecl",
  "name": "I",
  "body": [
    {"kind": "PropertySignature", "key": {"kind": "IdentKey", "name": "a", "loc": {"first": 14, "last": 15}}, "type": {"kind": "KeywordType", "name": "string"}},
    {"kind": "PropertySignature", "key": {"kind": "IdentKey", "name": "a", "loc": {"first": 25, "last": 26}}, "type": {"kind": "KeywordType", "name": "number"}},
    {"kind": "GetterSignature", "key": {"kind": "IdentKey", "name": "b"}, "type": {"kind": "KeywordType", "name": "string"}},
    {"kind": "PropertySignature", "key": {"kind": "IdentKey", "name": "b"}, "type": {"kind": "KeywordType", "name": "string"}},
    {"kind": "PropertySignature", "key": {"kind": "ComputedKey", "name": ["Symbol", "iterator"]}, "type": {"kind": "KeywordType", "name": "string"}},
    {"kind": "PropertySignature", "key": {"kind": "ComputedKey", "name": ["Symbol", "iterator"]}, "type": {"kind": "KeywordType", "name": "number"}}
  ]
}]}`
	res := check(t, src, semantic.Options{})
	assert.Equal(t, []diag.Code{diag.DuplicateMember, diag.DuplicateMember}, res.Diagnostics.Codes())
	diags := res.Diagnostics.Diagnostics()
	assert.Equal(t, 14, diags[0].Pos)
	assert.Equal(t, 25, diags[1].Pos)
	iface := localType(t, res, "I").(*tstype.Interface)
	assert.Len(t, iface.Body, 6)
	getter := iface.Body[2].(*tstype.PropertySignature)
	assert.True(t, getter.Accessor.Getter)
	sym := iface.Body[4].(*tstype.PropertySignature)
	assert.Equal(t, "iterator", sym.Key.Computed.(*tstype.Symbol).Name)
}

func TestNumericKeysCollide(t *testing.T) {
	const src = `{"decls": [{
  "kind": "TypeAliasDecl",
  "name": "T",
  "type": {"kind": "TypeLit", "members": [
    {"kind": "PropertySignature", "key": {"kind": "NumKey", "value": "1"}, "type": {"kind": "KeywordType", "name": "string"}},
    {"kind": "PropertySignature", "key": {"kind": "StrKey", "value": "1"}, "type": {"kind": "KeywordType", "name": "string"}},
    {"kind": "PropertySignature", "key": {"kind": "NumKey", "value": "1.0"}, "type": {"kind": "KeywordType", "name": "string"}}
  ]}
}]}`
	res := check(t, src, semantic.Options{})
	assert.Equal(t, 3, res.Diagnostics.Count(diag.DuplicateMember))
}

func TestMixedOptionalMethod(t *testing.T) {
	const src = `{"decls": [{
  "kind": "InterfaceDecl",
  "name": "I",
  "body": [
    {"kind": "MethodSignature", "key": {"kind": "IdentKey", "name": "m"}, "params": []},
    {"kind": "MethodSignature", "key": {"kind": "IdentKey", "name": "m"}, "optional": true, "params": []},
    {"kind": "MethodSignature", "key": {"kind": "IdentKey", "name": "m"}, "params": []}
  ]
}]}`
	res := check(t, src, semantic.Options{})
	assert.Equal(t, []diag.Code{diag.MixedOptionalMethod}, res.Diagnostics.Codes())
}

func TestDuplicateParams(t *testing.T) {
	const src = `{"kind": "FunctionType",
  "params": [
    {"kind": "IdentPat", "name": "a", "type_ann": {"kind": "KeywordType", "name": "string"}},
    {"kind": "ObjectPat", "props": [{"kind": "AssignProp", "key": "a"}], "type_ann": {"kind": "KeywordType", "name": "object"}}
  ],
  "return": {"kind": "KeywordType", "name": "void"}
}`
	a := newAnalyzer(t, tstype.NewContext(), parseModule(t, `{}`), semantic.Options{})
	fn := elaborate(t, a, src).(*tstype.Function)
	assert.Equal(t, []diag.Code{diag.DuplicateParam, diag.DuplicateParam}, a.Diagnostics().Codes())
	require.Len(t, fn.Params, 2)
	assert.Same(t, tstype.TypeString, fn.Params[0].Type)
	assert.Same(t, tstype.TypeVoid, fn.Return)
}

func TestUnresolvedNameWithVariable(t *testing.T) {
	const src = `{"decls": [
  {"kind": "VarDecl", "keyword": "const", "decls": [{"name": {"kind": "IdentPat", "name": "x", "type_ann": {"kind": "KeywordType", "name": "string"}}}]},
  {"kind": "TypeAliasDecl", "name": "T", "type": {"kind": "TypeRef", "name": [{"name": "x", "loc": {"first": 30, "last": 31}}]}}
]}`
	res := check(t, src, semantic.Options{})
	assert.Equal(t, []diag.Code{diag.NoSuchTypeButVarExists}, res.Diagnostics.Codes())
	assert.Equal(t, "x", res.Diagnostics.Diagnostics()[0].Name)
	assert.Same(t, tstype.TypeString, res.Locals.Vars["x"])
}

func TestUnresolvedNameSuggestion(t *testing.T) {
	const src = `{"decls": [
  {"kind": "InterfaceDecl", "name": "Point", "body": []},
  {"kind": "TypeAliasDecl", "name": "T", "type": {"kind": "TypeRef", "name": [{"name": "Pont", "loc": {"first": 30, "last": 34}}]}},
  {"kind": "TypeAliasDecl", "name": "U", "type": {"kind": "TypeRef", "name": [{"name": "Zzzzzz", "loc": {"first": 50, "last": 56}}]}}
]}`
	res := check(t, src, semantic.Options{})
	require.Equal(t, []diag.Code{diag.NoSuchType, diag.NoSuchType}, res.Diagnostics.Codes())
	diags := res.Diagnostics.Diagnostics()
	assert.Equal(t, "Cannot find name 'Pont'. Did you mean 'Point'?", diags[0].Msg)
	assert.Equal(t, "Cannot find name 'Zzzzzz'.", diags[1].Msg)
	// A dangling reference is still produced.
	ref := localType(t, res, "U").(*tstype.Alias).Target.(*tstype.Ref)
	assert.Equal(t, []string{"Zzzzzz"}, ref.Name)
}

func TestForwardReference(t *testing.T) {
	const src = `{"decls": [
  {"kind": "TypeAliasDecl", "name": "A", "type": {"kind": "TypeRef", "name": ["B"]}},
  {"kind": "TypeAliasDecl", "name": "B", "type": {"kind": "KeywordType", "name": "string"}},
  {"kind": "TypeAliasDecl", "name": "List", "type": {"kind": "TypeLit", "members": [
    {"kind": "PropertySignature", "key": {"kind": "IdentKey", "name": "next"}, "type": {"kind": "TypeRef", "name": ["List"]}}
  ]}}
]}`
	res := check(t, src, semantic.Options{})
	assert.Zero(t, res.Diagnostics.Len())
	a := localType(t, res, "A").(*tstype.Alias)
	ref := a.Target.(*tstype.Ref)
	assert.Equal(t, tstype.ModuleID(1), ref.Module)
	assert.Equal(t, []string{"B"}, ref.Name)
	_, ok := localType(t, res, "B").(*tstype.Alias)
	assert.True(t, ok)
}

func TestDuplicateAlias(t *testing.T) {
	const src = `{"decls": [
  {"kind": "TypeAliasDecl", "name": {"name": "A", "loc": {"first": 3, "last": 4}}, "type": {"kind": "KeywordType", "name": "string"}},
  {"kind": "TypeAliasDecl", "name": {"name": "A", "loc": {"first": 20, "last": 21}}, "type": {"kind": "KeywordType", "name": "number"}},
  {"kind": "TypeAliasDecl", "name": {"name": "A", "loc": {"first": 40, "last": 41}}, "type": {"kind": "KeywordType", "name": "boolean"}},
  {"kind": "InterfaceDecl", "name": "I", "body": []},
  {"kind": "InterfaceDecl", "name": "I", "body": []}
]}`
	res := check(t, src, semantic.Options{})
	// Every declaration of A is reported once.
	assert.Equal(t, []diag.Code{diag.DuplicateName, diag.DuplicateName, diag.DuplicateName}, res.Diagnostics.Codes())
	diags := res.Diagnostics.Diagnostics()
	assert.Equal(t, 3, diags[0].Pos)
	assert.Equal(t, 20, diags[1].Pos)
	assert.Equal(t, 40, diags[2].Pos)
	assert.Len(t, res.Locals.Types["I"], 2)
}

func TestStaticMemberUsesClassTypeParam(t *testing.T) {
	const src = `{"decls": [{
  "kind": "ClassDecl",
  "name": "C",
  "type_params": {"params": [{"name": "T"}]},
  "members": [
    {"kind": "PropertySignature", "static": true, "key": {"kind": "IdentKey", "name": "s"}, "type": {"kind": "TypeRef", "name": [{"name": "T", "loc": {"first": 30, "last": 31}}]}},
    {"kind": "PropertySignature", "key": {"kind": "IdentKey", "name": "i"}, "type": {"kind": "TypeRef", "name": ["T"]}},
    {"kind": "MethodSignature", "static": true, "key": {"kind": "IdentKey", "name": "m"},
     "type_params": {"params": [{"name": "T"}]}, "params": [], "return": {"kind": "TypeRef", "name": ["T"]}}
  ]
}]}`
	res := check(t, src, semantic.Options{})
	require.Equal(t, []diag.Code{diag.StaticMemberCannotUseTypeParamOfClass}, res.Diagnostics.Codes())
	assert.Equal(t, 30, res.Diagnostics.Diagnostics()[0].Pos)

	instance := localType(t, res, "C").(*tstype.Interface)
	require.Len(t, instance.Body, 1)
	assert.Equal(t, "i", instance.Body[0].(*tstype.PropertySignature).Key.Name)
	static := res.Locals.Vars["C"].(*tstype.TypeLit)
	// s, m and the implicit construct signature.
	require.Len(t, static.Members, 3)
	ctor := static.Members[2].(*tstype.ConstructSignature)
	self := ctor.Return.(*tstype.Ref)
	assert.Equal(t, []string{"C"}, self.Name)
	assert.Len(t, self.TypeArgs, 1)
}

func TestIndexedAccessCheck(t *testing.T) {
	const src = `{"decls": [
  {"kind": "InterfaceDecl", "name": "I", "body": [
    {"kind": "PropertySignature", "key": {"kind": "IdentKey", "name": "a"}, "type": {"kind": "KeywordType", "name": "string"}}
  ]},
  {"kind": "TypeAliasDecl", "name": "J", "type": {"kind": "TypeRef", "name": ["I"]}},
  {"kind": "TypeAliasDecl", "name": "Ok", "type": {"kind": "IndexedAccessType",
    "object": {"kind": "TypeRef", "name": ["J"]},
    "index": {"kind": "LitType", "lit": "string", "value": "a"}}},
  {"kind": "TypeAliasDecl", "name": "Bad", "type": {"kind": "IndexedAccessType",
    "object": {"kind": "TypeRef", "name": ["I"]},
    "index": {"kind": "UnionType", "types": [
      {"kind": "LitType", "lit": "string", "value": "a"},
      {"kind": "LitType", "lit": "string", "value": "b"}
    ]}}},
  {"kind": "TypeAliasDecl", "name": "Open", "type": {"kind": "IndexedAccessType",
    "object": {"kind": "TypeRef", "name": ["I"]},
    "index": {"kind": "KeywordType", "name": "string"}}}
]}`
	res := check(t, src, semantic.Options{})
	require.Equal(t, []diag.Code{diag.NoSuchProperty}, res.Diagnostics.Codes())
	assert.Equal(t, "b", res.Diagnostics.Diagnostics()[0].Name)

	res = check(t, src, semantic.Options{SkipIndexedAccessCheck: true})
	assert.Zero(t, res.Diagnostics.Len())
}

func TestExports(t *testing.T) {
	const src = `{"decls": [
  {"kind": "TypeAliasDecl", "export": true, "name": "A", "type": {"kind": "KeywordType", "name": "string"}},
  {"kind": "TypeAliasDecl", "name": "B", "type": {"kind": "KeywordType", "name": "number"}},
  {"kind": "FunctionDecl", "name": "f", "params": [], "return": {"kind": "KeywordType", "name": "void"}},
  {"kind": "ExportDecl", "names": [
    {"local": "B", "exported": "C"},
    {"local": "f"},
    {"local": {"name": "missing", "loc": {"first": 90, "last": 97}}}
  ]}
]}`
	res := check(t, src, semantic.Options{})
	assert.Equal(t, []diag.Code{diag.ExportNotFound}, res.Diagnostics.Codes())
	assert.Equal(t, []string{"A", "C"}, res.Exports.TypeNames())
	assert.Equal(t, []string{"f"}, res.Exports.VarNames())
	assert.Same(t, localType(t, res, "B"), res.Exports.Types["C"][0])
}
