package tsfmt_test

import (
	"testing"

	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/tsfmt"
	"github.com/stretchr/testify/assert"
)

func prop(name string, t tstype.Type) *tstype.PropertySignature {
	return &tstype.PropertySignature{Key: tstype.Key{Name: name}, Type: t}
}

func TestFormatType(t *testing.T) {
	fn := &tstype.Function{
		Params: []tstype.FnParam{
			{Name: "x", Required: true, Type: tstype.TypeNumber},
			{Name: "y", Type: tstype.TypeString},
			{Name: "rest", Rest: true, Type: &tstype.Array{Elem: tstype.TypeAny}},
		},
		Return: tstype.TypeVoid,
	}
	param := &tstype.Param{Name: "K", Constraint: &tstype.Operator{Op: tstype.OpKeyOf, Type: &tstype.Ref{Name: []string{"T"}}}}
	tests := []struct {
		name string
		typ  tstype.Type
		want string
	}{
		{"keyword", tstype.TypeString, "string"},
		{"string literal", &tstype.Lit{Lit: tstype.LitString, Value: `a"b`}, `"a\"b"`},
		{"bigint literal", &tstype.Lit{Lit: tstype.LitBigInt, Value: "12"}, "12n"},
		{"union", &tstype.Union{Types: []tstype.Type{tstype.TypeString, fn}}, "string | ((x: number, y?: string, ...rest: any[]) => void)"},
		{"intersection of union", &tstype.Intersection{Types: []tstype.Type{
			&tstype.Union{Types: []tstype.Type{tstype.TypeString, tstype.TypeNumber}},
			&tstype.Ref{Name: []string{"A"}},
		}}, "(string | number) & A"},
		{"array of union", &tstype.Array{Elem: &tstype.Union{Types: []tstype.Type{tstype.TypeString, tstype.TypeNull}}}, "(string | null)[]"},
		{"array of keyof", &tstype.Array{Elem: &tstype.Operator{Op: tstype.OpKeyOf, Type: &tstype.Ref{Name: []string{"T"}}}}, "(keyof T)[]"},
		{"tuple", &tstype.Tuple{Elems: []tstype.TupleElement{
			{Label: "a", Type: tstype.TypeString},
			{Label: "b", Type: &tstype.Optional{Type: tstype.TypeNumber}},
			{Type: &tstype.Rest{Type: &tstype.Array{Elem: tstype.TypeBoolean}}},
		}}, "[a: string, b?: number, ...boolean[]]"},
		{"generic ref", &tstype.Ref{Name: []string{"ns", "Map"}, TypeArgs: []tstype.Type{tstype.TypeString, tstype.TypeNumber}}, "ns.Map<string, number>"},
		{"type literal", &tstype.TypeLit{Members: []tstype.TypeElement{
			prop("a", tstype.TypeString),
			&tstype.PropertySignature{Key: tstype.Key{Name: "b-c"}, Optional: true, Readonly: true, Type: tstype.TypeNumber},
			&tstype.MethodSignature{Key: tstype.Key{Name: "m"}, Return: tstype.TypeVoid},
			&tstype.IndexSignature{Params: []tstype.FnParam{{Name: "k", Type: tstype.TypeString}}, Type: tstype.TypeAny},
			&tstype.PropertySignature{Key: tstype.Key{Computed: &tstype.Symbol{Name: "iterator"}}, Type: fn},
		}}, `{ a: string; readonly "b-c"?: number; m(): void; [k: string]: any; [Symbol.iterator]: (x: number, y?: string, ...rest: any[]) => void }`},
		{"empty type literal", &tstype.TypeLit{}, "{}"},
		{"conditional", &tstype.Conditional{
			Check:   &tstype.Param{Name: "T"},
			Extends: &tstype.Array{Elem: &tstype.Infer{Param: &tstype.Param{Name: "U"}}},
			True:    &tstype.Param{Name: "U"},
			False:   tstype.TypeNever,
		}, "T extends (infer U)[] ? U : never"},
		{"mapped", &tstype.Mapped{
			Readonly: tstype.ModifierMinus,
			Optional: tstype.ModifierPlus,
			Param:    param,
			Type:     &tstype.IndexedAccess{Object: &tstype.Ref{Name: []string{"T"}}, Index: param},
		}, "{ -readonly [K in keyof T]+?: T[K] }"},
		{"template", &tstype.Tpl{Quasis: []string{"on", "`"}, Types: []tstype.Type{tstype.TypeString}}, "`on${string}\\``"},
		{"alias", &tstype.Alias{
			Name:       "Pick",
			TypeParams: &tstype.TypeParamDecl{Params: []*tstype.Param{{Name: "T"}, param}},
			Target:     &tstype.Ref{Name: []string{"T"}},
		}, "type Pick<T, K extends keyof T> = T"},
		{"interface", &tstype.Interface{
			Name:    "B",
			Extends: []tstype.HeritageRef{{Name: []string{"A"}}},
			Body: []tstype.TypeElement{
				&tstype.PropertySignature{Key: tstype.Key{Name: "x"}, Accessor: tstype.Accessor{Getter: true}, Type: tstype.TypeNumber},
				&tstype.ConstructSignature{Return: &tstype.Ref{Name: []string{"B"}}},
			},
		}, "interface B extends A { get x(): number; new (): B }"},
		{"predicate", &tstype.Predicate{Asserts: true, ParamName: "x", Type: tstype.TypeString}, "asserts x is string"},
		{"this predicate", &tstype.Predicate{This: true, Type: &tstype.Ref{Name: []string{"Node"}}}, "this is Node"},
		{"import", &tstype.Query{Import: &tstype.Import{Arg: "./a", Qualifier: []string{"b"}}}, `typeof import("./a").b`},
		{"constructor", &tstype.Constructor{Abstract: true, Return: tstype.TypeObject}, "abstract new () => object"},
		{"module", &tstype.Module{Name: "fs"}, `typeof import("fs")`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tsfmt.FormatType(tc.typ))
		})
	}
}

func TestPretty(t *testing.T) {
	typ := &tstype.TypeLit{Members: []tstype.TypeElement{
		prop("a", &tstype.TypeLit{Members: []tstype.TypeElement{prop("b", tstype.TypeString)}}),
		prop("c", tstype.TypeNumber),
	}}
	const want = `{
  a: {
    b: string;
  };
  c: number;
}`
	assert.Equal(t, want, tsfmt.NewFormatter(2).Format(typ))
}

func TestFormatSurface(t *testing.T) {
	d := tstype.NewModuleTypeData()
	assert.Equal(t, "{}", tsfmt.FormatSurface(d))
	d.Types["B"] = []tstype.Type{tstype.TypeString}
	d.Types["A"] = []tstype.Type{tstype.TypeNumber}
	d.Vars["f"] = tstype.TypeAny
	assert.Equal(t, "{ type A = number; type B = string; var f: any; }", tsfmt.String(d))
}
