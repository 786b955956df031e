package tstype

type LitKind int

const (
	LitString LitKind = iota + 1
	LitNumber
	LitBool
	LitBigInt
)

// Lit is a literal type.  Value holds the literal's canonical text: the
// unquoted string, the number as formatted by strconv, "true"/"false", or
// the bigint digits.
type Lit struct {
	Common
	Lit   LitKind
	Value string
}

type Union struct {
	Common
	Types []Type
}

type Intersection struct {
	Common
	Types []Type
}

type Array struct {
	Common
	Elem Type
}

type TupleElement struct {
	Loc   Span
	Label string
	Type  Type
}

// Tuple is a fixed-arity list.  Metadata.PreventTupleToArray is set for
// tuples written in source so later passes keep their arity.
type Tuple struct {
	Common
	Elems []TupleElement
}

type FnParam struct {
	Loc      Span
	Name     string
	Required bool
	Rest     bool
	Type     Type
}

type Function struct {
	Common
	TypeParams *TypeParamDecl
	Params     []FnParam
	Return     Type
}

type Constructor struct {
	Common
	Abstract   bool
	TypeParams *TypeParamDecl
	Params     []FnParam
	Return     Type
}

type TypeLit struct {
	Common
	Members []TypeElement
}

// HeritageRef is a reference in an interface's extends clause.
type HeritageRef struct {
	Loc      Span
	Name     []string
	TypeArgs []Type
}

type Interface struct {
	Common
	Name       string
	TypeParams *TypeParamDecl
	Extends    []HeritageRef
	Body       []TypeElement
}

type Alias struct {
	Common
	Name       string
	TypeParams *TypeParamDecl
	Target     Type
}

type Conditional struct {
	Common
	Check   Type
	Extends Type
	True    Type
	False   Type
}

// Modifier is a mapped-type modifier, possibly with a + or - prefix.
type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierTrue
	ModifierPlus
	ModifierMinus
)

type Mapped struct {
	Common
	Readonly Modifier
	Optional Modifier
	Param    *Param
	NameType Type
	Type     Type
}

type OpKind int

const (
	OpKeyOf OpKind = iota + 1
	OpUnique
	OpReadonly
)

func (o OpKind) String() string {
	switch o {
	case OpKeyOf:
		return "keyof"
	case OpUnique:
		return "unique"
	case OpReadonly:
		return "readonly"
	}
	return "?"
}

type Operator struct {
	Common
	Op   OpKind
	Type Type
}

type IndexedAccess struct {
	Common
	Readonly bool
	Object   Type
	Index    Type
}

// Query is a typeof query on an entity name or an import type.
type Query struct {
	Common
	Name     []string
	Import   *Import
	TypeArgs []Type
}

type Optional struct {
	Common
	Type Type
}

type Rest struct {
	Common
	Type Type
}

type Infer struct {
	Common
	Param *Param
}

type Import struct {
	Common
	Arg       string
	Qualifier []string
	TypeArgs  []Type
}

// Ref is a named reference that is resolved by lookup at use sites.  Module
// is the module in whose scope Name is looked up.
type Ref struct {
	Common
	Module   ModuleID
	Name     []string
	TypeArgs []Type
}

// Tpl is a template literal type.  len(Quasis) == len(Types)+1.
type Tpl struct {
	Common
	Quasis []string
	Types  []Type
}

type Predicate struct {
	Common
	Asserts   bool
	ParamName string
	This      bool
	Type      Type
}

// Symbol is a unique symbol type such as Symbol.iterator.
type Symbol struct {
	Common
	Name string
}

type IntrinsicKind int

const (
	IntrinsicUppercase IntrinsicKind = iota + 1
	IntrinsicLowercase
	IntrinsicCapitalize
	IntrinsicUncapitalize
	IntrinsicNoInfer
)

var intrinsicNames = map[string]IntrinsicKind{
	"Uppercase":    IntrinsicUppercase,
	"Lowercase":    IntrinsicLowercase,
	"Capitalize":   IntrinsicCapitalize,
	"Uncapitalize": IntrinsicUncapitalize,
	"NoInfer":      IntrinsicNoInfer,
}

// LookupIntrinsic returns the intrinsic kind for an alias name or zero.
func LookupIntrinsic(name string) IntrinsicKind {
	return intrinsicNames[name]
}

func (k IntrinsicKind) String() string {
	for name, kind := range intrinsicNames {
		if kind == k {
			return name
		}
	}
	return "?"
}

type Intrinsic struct {
	Common
	Intrinsic IntrinsicKind
	TypeArgs  []Type
}

// Param is a type parameter.  It is both the declaration record held by a
// TypeParamDecl and the placeholder type that references to it resolve to.
type Param struct {
	Common
	Name       string
	Constraint Type
	Default    Type
}

type TypeParamDecl struct {
	Loc    Span
	Params []*Param
}

type This struct {
	Common
}

func (*Lit) Kind() Kind           { return KindLit }
func (*Union) Kind() Kind         { return KindUnion }
func (*Intersection) Kind() Kind  { return KindIntersection }
func (*Array) Kind() Kind         { return KindArray }
func (*Tuple) Kind() Kind         { return KindTuple }
func (*Function) Kind() Kind      { return KindFunction }
func (*Constructor) Kind() Kind   { return KindConstructor }
func (*TypeLit) Kind() Kind       { return KindTypeLit }
func (*Interface) Kind() Kind     { return KindInterface }
func (*Alias) Kind() Kind         { return KindAlias }
func (*Conditional) Kind() Kind   { return KindConditional }
func (*Mapped) Kind() Kind        { return KindMapped }
func (*Operator) Kind() Kind      { return KindOperator }
func (*IndexedAccess) Kind() Kind { return KindIndexedAccess }
func (*Query) Kind() Kind         { return KindQuery }
func (*Optional) Kind() Kind      { return KindOptional }
func (*Rest) Kind() Kind          { return KindRest }
func (*Infer) Kind() Kind         { return KindInfer }
func (*Import) Kind() Kind        { return KindImport }
func (*Ref) Kind() Kind           { return KindRef }
func (*Tpl) Kind() Kind           { return KindTpl }
func (*Predicate) Kind() Kind     { return KindPredicate }
func (*Symbol) Kind() Kind        { return KindSymbol }
func (*Intrinsic) Kind() Kind     { return KindIntrinsic }
func (*Param) Kind() Kind         { return KindParam }
func (*This) Kind() Kind          { return KindThis }

// Names returns the parameter names of d in order.
func (d *TypeParamDecl) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		names = append(names, p.Name)
	}
	return names
}
