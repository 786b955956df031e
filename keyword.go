package tstype

// KeywordKind enumerates the keyword types.
type KeywordKind int

const (
	KeywordAny KeywordKind = iota + 1
	KeywordUnknown
	KeywordNumber
	KeywordObject
	KeywordBoolean
	KeywordBigInt
	KeywordString
	KeywordSymbol
	KeywordVoid
	KeywordUndefined
	KeywordNull
	KeywordNever
	KeywordIntrinsic
)

var keywordNames = [...]string{
	KeywordAny:       "any",
	KeywordUnknown:   "unknown",
	KeywordNumber:    "number",
	KeywordObject:    "object",
	KeywordBoolean:   "boolean",
	KeywordBigInt:    "bigint",
	KeywordString:    "string",
	KeywordSymbol:    "symbol",
	KeywordVoid:      "void",
	KeywordUndefined: "undefined",
	KeywordNull:      "null",
	KeywordNever:     "never",
	KeywordIntrinsic: "intrinsic",
}

func (k KeywordKind) String() string {
	if k > 0 && int(k) < len(keywordNames) {
		return keywordNames[k]
	}
	return "unknown keyword"
}

// LookupKeyword returns the keyword kind for name or zero.
func LookupKeyword(name string) KeywordKind {
	for k, s := range keywordNames {
		if s == name && k != 0 {
			return KeywordKind(k)
		}
	}
	return 0
}

// The keyword types with default metadata are interned ahead of any
// Context, so their IDs are fixed and shared by every Context.
const (
	IDAny = iota + 1
	IDUnknown
	IDNumber
	IDObject
	IDBoolean
	IDBigInt
	IDString
	IDSymbol
	IDVoid
	IDUndefined
	IDNull
	IDNever
	IDIntrinsic
	IDThis

	IDTypeComplex = 32
)

type Keyword struct {
	Common
	Keyword KeywordKind
}

func (*Keyword) Kind() Kind { return KindKeyword }

func newKeyword(id int, k KeywordKind) *Keyword {
	return &Keyword{Common: Common{id: id}, Keyword: k}
}

var (
	TypeAny       = newKeyword(IDAny, KeywordAny)
	TypeUnknown   = newKeyword(IDUnknown, KeywordUnknown)
	TypeNumber    = newKeyword(IDNumber, KeywordNumber)
	TypeObject    = newKeyword(IDObject, KeywordObject)
	TypeBoolean   = newKeyword(IDBoolean, KeywordBoolean)
	TypeBigInt    = newKeyword(IDBigInt, KeywordBigInt)
	TypeString    = newKeyword(IDString, KeywordString)
	TypeSymbol    = newKeyword(IDSymbol, KeywordSymbol)
	TypeVoid      = newKeyword(IDVoid, KeywordVoid)
	TypeUndefined = newKeyword(IDUndefined, KeywordUndefined)
	TypeNull      = newKeyword(IDNull, KeywordNull)
	TypeNever     = newKeyword(IDNever, KeywordNever)
	TypeIntrinsic = newKeyword(IDIntrinsic, KeywordIntrinsic)

	TypeThis = &This{Common: Common{id: IDThis}}
)

// LookupKeywordType returns the shared frozen keyword type for k.
func LookupKeywordType(k KeywordKind) *Keyword {
	switch k {
	case KeywordAny:
		return TypeAny
	case KeywordUnknown:
		return TypeUnknown
	case KeywordNumber:
		return TypeNumber
	case KeywordObject:
		return TypeObject
	case KeywordBoolean:
		return TypeBoolean
	case KeywordBigInt:
		return TypeBigInt
	case KeywordString:
		return TypeString
	case KeywordSymbol:
		return TypeSymbol
	case KeywordVoid:
		return TypeVoid
	case KeywordUndefined:
		return TypeUndefined
	case KeywordNull:
		return TypeNull
	case KeywordNever:
		return TypeNever
	case KeywordIntrinsic:
		return TypeIntrinsic
	}
	return nil
}

func lookupFixedByID(id int) Type {
	if id == IDThis {
		return TypeThis
	}
	if t := LookupKeywordType(KeywordKind(id)); t != nil {
		return t
	}
	return nil
}

// NewKeyword returns a mutable keyword type with the given span.
func NewKeyword(k KeywordKind, loc Span) *Keyword {
	return &Keyword{Common: Common{Loc: loc}, Keyword: k}
}

// ImplicitAny returns a mutable any type marked as an implicit default.
func ImplicitAny(loc Span) *Keyword {
	k := NewKeyword(KeywordAny, loc)
	k.Metadata.Implicit = true
	return k
}

// IsKeyword returns true if t is the keyword type k.
func IsKeyword(t Type, k KeywordKind) bool {
	kw, ok := t.(*Keyword)
	return ok && kw.Keyword == k
}

// IsAny returns true if t is any.
func IsAny(t Type) bool {
	return IsKeyword(t, KeywordAny)
}
