package ast

import (
	"encoding/json"
	"fmt"

	"github.com/brimdata/tstype/pkg/unpack"
)

var unpacker = unpack.New(
	ArrayPat{},
	ArrayType{},
	AssignPat{},
	AssignProp{},
	CallSignature{},
	ClassDecl{},
	ComputedKey{},
	ConditionalType{},
	ConstructSignature{},
	ConstructorType{},
	ExportDecl{},
	FunctionDecl{},
	FunctionType{},
	GetterSignature{},
	IdentKey{},
	IdentPat{},
	ImportDecl{},
	ImportType{},
	IndexSignature{},
	IndexedAccessType{},
	InferType{},
	InterfaceDecl{},
	IntersectionType{},
	KeyValueProp{},
	KeywordType{},
	LitType{},
	MappedType{},
	MethodSignature{},
	ModuleDecl{},
	NumKey{},
	ObjectPat{},
	OptionalType{},
	ParenType{},
	PropertySignature{},
	RestPat{},
	RestProp{},
	RestType{},
	SetterSignature{},
	StrKey{},
	ThisType{},
	TplType{},
	TupleType{},
	TypeAliasDecl{},
	TypeLit{},
	TypeOperator{},
	TypePredicate{},
	TypeQuery{},
	TypeRef{},
	UnionType{},
	VarDecl{},
)

// UnmarshalModule transforms a JSON representation of a module into a Module.
func UnmarshalModule(buf []byte) (*Module, error) {
	var m Module
	if err := unpacker.Unmarshal(buf, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UnmarshalType transforms a JSON representation of a type expression into
// a Type.
func UnmarshalType(buf []byte) (Type, error) {
	var t Type
	if err := unpacker.Unmarshal(buf, &t); err != nil {
		return nil, err
	}
	return t, nil
}

func UnmarshalPattern(buf []byte) (Pattern, error) {
	var p Pattern
	if err := unpacker.Unmarshal(buf, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// UnmarshalObject converts a decoded JSON or YAML object into a Module.
func UnmarshalObject(anon any) (*Module, error) {
	b, err := json.Marshal(anon)
	if err != nil {
		return nil, fmt.Errorf("internal error: ast.UnmarshalObject: %w", err)
	}
	return UnmarshalModule(b)
}
