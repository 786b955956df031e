package ast

type Type interface {
	Node
	typeNode()
}

type (
	// KeywordType is a keyword type such as string, never or intrinsic.
	KeywordType struct {
		Kind string `json:"kind" unpack:""`
		Name string `json:"name"`
		Loc  `json:"loc"`
	}
	// LitType is a literal type.  Lit is one of "string", "number",
	// "boolean" or "bigint".  A negative number literal carries its sign
	// in Value.
	LitType struct {
		Kind  string `json:"kind" unpack:""`
		Lit   string `json:"lit"`
		Value string `json:"value"`
		Loc   `json:"loc"`
	}
	TypeRef struct {
		Kind     string `json:"kind" unpack:""`
		Name     []*ID  `json:"name"`
		TypeArgs []Type `json:"type_args"`
		Loc      `json:"loc"`
	}
	UnionType struct {
		Kind  string `json:"kind" unpack:""`
		Types []Type `json:"types"`
		Loc   `json:"loc"`
	}
	IntersectionType struct {
		Kind  string `json:"kind" unpack:""`
		Types []Type `json:"types"`
		Loc   `json:"loc"`
	}
	ArrayType struct {
		Kind string `json:"kind" unpack:""`
		Elem Type   `json:"elem"`
		Loc  `json:"loc"`
	}
	TupleType struct {
		Kind  string       `json:"kind" unpack:""`
		Elems []*TupleElem `json:"elems"`
		Loc   `json:"loc"`
	}
	TupleElem struct {
		Label *ID  `json:"label"`
		Type  Type `json:"type"`
		Loc   `json:"loc"`
	}
	OptionalType struct {
		Kind string `json:"kind" unpack:""`
		Type Type   `json:"type"`
		Loc  `json:"loc"`
	}
	RestType struct {
		Kind string `json:"kind" unpack:""`
		Type Type   `json:"type"`
		Loc  `json:"loc"`
	}
	ParenType struct {
		Kind string `json:"kind" unpack:""`
		Type Type   `json:"type"`
		Loc  `json:"loc"`
	}
	FunctionType struct {
		Kind       string         `json:"kind" unpack:""`
		TypeParams *TypeParamDecl `json:"type_params"`
		Params     []Pattern      `json:"params"`
		Return     Type           `json:"return"`
		Loc        `json:"loc"`
	}
	ConstructorType struct {
		Kind       string         `json:"kind" unpack:""`
		Abstract   bool           `json:"abstract"`
		TypeParams *TypeParamDecl `json:"type_params"`
		Params     []Pattern      `json:"params"`
		Return     Type           `json:"return"`
		Loc        `json:"loc"`
	}
	TypeLit struct {
		Kind    string        `json:"kind" unpack:""`
		Members []TypeElement `json:"members"`
		Loc     `json:"loc"`
	}
	ConditionalType struct {
		Kind    string `json:"kind" unpack:""`
		Check   Type   `json:"check"`
		Extends Type   `json:"extends"`
		True    Type   `json:"true"`
		False   Type   `json:"false"`
		Loc     `json:"loc"`
	}
	InferType struct {
		Kind  string     `json:"kind" unpack:""`
		Param *TypeParam `json:"param"`
		Loc   `json:"loc"`
	}
	// MappedType is {[P in K as N]: T}.  Readonly and Optional are "",
	// "true", "+" or "-".
	MappedType struct {
		Kind     string     `json:"kind" unpack:""`
		Readonly string     `json:"readonly"`
		Optional string     `json:"optional"`
		Param    *TypeParam `json:"param"`
		NameType Type       `json:"name_type"`
		Type     Type       `json:"type"`
		Loc      `json:"loc"`
	}
	// TypeOperator is keyof, unique or readonly applied to a type.
	TypeOperator struct {
		Kind string `json:"kind" unpack:""`
		Op   string `json:"op"`
		Type Type   `json:"type"`
		Loc  `json:"loc"`
	}
	IndexedAccessType struct {
		Kind     string `json:"kind" unpack:""`
		Readonly bool   `json:"readonly"`
		Object   Type   `json:"object"`
		Index    Type   `json:"index"`
		Loc      `json:"loc"`
	}
	// TypeQuery is typeof applied to an entity name or an import type.
	TypeQuery struct {
		Kind     string      `json:"kind" unpack:""`
		Name     []*ID       `json:"name"`
		Import   *ImportType `json:"import"`
		TypeArgs []Type      `json:"type_args"`
		Loc      `json:"loc"`
	}
	ImportType struct {
		Kind      string `json:"kind" unpack:""`
		Arg       string `json:"arg"`
		Qualifier []*ID  `json:"qualifier"`
		TypeArgs  []Type `json:"type_args"`
		Loc       `json:"loc"`
	}
	TplType struct {
		Kind   string   `json:"kind" unpack:""`
		Quasis []string `json:"quasis"`
		Types  []Type   `json:"types"`
		Loc    `json:"loc"`
	}
	// TypePredicate is "x is T", "asserts x is T", "asserts x" or the
	// same forms on this, in which case Param is nil.
	TypePredicate struct {
		Kind    string `json:"kind" unpack:""`
		Asserts bool   `json:"asserts"`
		Param   *ID    `json:"param"`
		Type    Type   `json:"type"`
		Loc     `json:"loc"`
	}
	ThisType struct {
		Kind string `json:"kind" unpack:""`
		Loc  `json:"loc"`
	}
)

type TypeParamDecl struct {
	Params []*TypeParam `json:"params"`
	Loc    `json:"loc"`
}

type TypeParam struct {
	Name       *ID  `json:"name"`
	Constraint Type `json:"constraint"`
	Default    Type `json:"default"`
	Loc        `json:"loc"`
}

func (*KeywordType) typeNode()       {}
func (*LitType) typeNode()           {}
func (*TypeRef) typeNode()           {}
func (*UnionType) typeNode()         {}
func (*IntersectionType) typeNode()  {}
func (*ArrayType) typeNode()         {}
func (*TupleType) typeNode()         {}
func (*OptionalType) typeNode()      {}
func (*RestType) typeNode()          {}
func (*ParenType) typeNode()         {}
func (*FunctionType) typeNode()      {}
func (*ConstructorType) typeNode()   {}
func (*TypeLit) typeNode()           {}
func (*ConditionalType) typeNode()   {}
func (*InferType) typeNode()         {}
func (*MappedType) typeNode()        {}
func (*TypeOperator) typeNode()      {}
func (*IndexedAccessType) typeNode() {}
func (*TypeQuery) typeNode()         {}
func (*ImportType) typeNode()        {}
func (*TplType) typeNode()           {}
func (*TypePredicate) typeNode()     {}
func (*ThisType) typeNode()          {}

// TypeElement is a member of a type literal, interface or class body.
type TypeElement interface {
	Node
	elementNode()
}

type (
	PropertySignature struct {
		Kind     string `json:"kind" unpack:""`
		Key      Key    `json:"key"`
		Optional bool   `json:"optional"`
		Readonly bool   `json:"readonly"`
		Static   bool   `json:"static"`
		Type     Type   `json:"type"`
		Loc      `json:"loc"`
	}
	MethodSignature struct {
		Kind       string         `json:"kind" unpack:""`
		Key        Key            `json:"key"`
		Optional   bool           `json:"optional"`
		Static     bool           `json:"static"`
		TypeParams *TypeParamDecl `json:"type_params"`
		Params     []Pattern      `json:"params"`
		Return     Type           `json:"return"`
		Loc        `json:"loc"`
	}
	CallSignature struct {
		Kind       string         `json:"kind" unpack:""`
		TypeParams *TypeParamDecl `json:"type_params"`
		Params     []Pattern      `json:"params"`
		Return     Type           `json:"return"`
		Loc        `json:"loc"`
	}
	ConstructSignature struct {
		Kind       string         `json:"kind" unpack:""`
		TypeParams *TypeParamDecl `json:"type_params"`
		Params     []Pattern      `json:"params"`
		Return     Type           `json:"return"`
		Loc        `json:"loc"`
	}
	IndexSignature struct {
		Kind     string    `json:"kind" unpack:""`
		Params   []Pattern `json:"params"`
		Readonly bool      `json:"readonly"`
		Static   bool      `json:"static"`
		Type     Type      `json:"type"`
		Loc      `json:"loc"`
	}
	GetterSignature struct {
		Kind   string `json:"kind" unpack:""`
		Key    Key    `json:"key"`
		Static bool   `json:"static"`
		Type   Type   `json:"type"`
		Loc    `json:"loc"`
	}
	SetterSignature struct {
		Kind   string  `json:"kind" unpack:""`
		Key    Key     `json:"key"`
		Static bool    `json:"static"`
		Param  Pattern `json:"param"`
		Loc    `json:"loc"`
	}
)

func (*PropertySignature) elementNode()  {}
func (*MethodSignature) elementNode()    {}
func (*CallSignature) elementNode()      {}
func (*ConstructSignature) elementNode() {}
func (*IndexSignature) elementNode()     {}
func (*GetterSignature) elementNode()    {}
func (*SetterSignature) elementNode()    {}

// Key is a property name in a type member or object pattern.
type Key interface {
	Node
	keyNode()
}

type (
	IdentKey struct {
		Kind string `json:"kind" unpack:""`
		Name string `json:"name"`
		Loc  `json:"loc"`
	}
	StrKey struct {
		Kind  string `json:"kind" unpack:""`
		Value string `json:"value"`
		Loc   `json:"loc"`
	}
	NumKey struct {
		Kind  string `json:"kind" unpack:""`
		Value string `json:"value"`
		Loc   `json:"loc"`
	}
	// ComputedKey is [expr] where expr is an entity name such as
	// Symbol.iterator or a literal.
	ComputedKey struct {
		Kind string   `json:"kind" unpack:""`
		Name []*ID    `json:"name"`
		Lit  *LitType `json:"lit"`
		Loc  `json:"loc"`
	}
)

func (*IdentKey) keyNode()    {}
func (*StrKey) keyNode()      {}
func (*NumKey) keyNode()      {}
func (*ComputedKey) keyNode() {}
