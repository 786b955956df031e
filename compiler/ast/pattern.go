package ast

// Pattern is a binding pattern in a parameter list or variable declaration.
// Patterns are compared by identity, so they are always used by pointer.
type Pattern interface {
	Node
	patternNode()
}

type (
	IdentPat struct {
		Kind     string `json:"kind" unpack:""`
		Name     *ID    `json:"name"`
		Optional bool   `json:"optional"`
		TypeAnn  Type   `json:"type_ann"`
		Loc      `json:"loc"`
	}
	// ArrayPat is [a, , b].  Holes are nil elements.
	ArrayPat struct {
		Kind     string    `json:"kind" unpack:""`
		Elems    []Pattern `json:"elems"`
		Optional bool      `json:"optional"`
		TypeAnn  Type      `json:"type_ann"`
		Loc      `json:"loc"`
	}
	ObjectPat struct {
		Kind     string          `json:"kind" unpack:""`
		Props    []ObjectPatProp `json:"props"`
		Optional bool            `json:"optional"`
		TypeAnn  Type            `json:"type_ann"`
		Loc      `json:"loc"`
	}
	RestPat struct {
		Kind    string  `json:"kind" unpack:""`
		Arg     Pattern `json:"arg"`
		TypeAnn Type    `json:"type_ann"`
		Loc     `json:"loc"`
	}
	// AssignPat is a pattern with a default value, as in (a = 1) => a.
	AssignPat struct {
		Kind    string  `json:"kind" unpack:""`
		Left    Pattern `json:"left"`
		Default *Text   `json:"default"`
		Loc     `json:"loc"`
	}
)

func (*IdentPat) patternNode()  {}
func (*ArrayPat) patternNode()  {}
func (*ObjectPat) patternNode() {}
func (*RestPat) patternNode()   {}
func (*AssignPat) patternNode() {}

type ObjectPatProp interface {
	Node
	propNode()
}

type (
	// KeyValueProp is {key: value}.
	KeyValueProp struct {
		Kind  string  `json:"kind" unpack:""`
		Key   Key     `json:"key"`
		Value Pattern `json:"value"`
		Loc   `json:"loc"`
	}
	// AssignProp is the shorthand {key} or {key = default}.
	AssignProp struct {
		Kind    string `json:"kind" unpack:""`
		Key     *ID    `json:"key"`
		Default *Text  `json:"default"`
		Loc     `json:"loc"`
	}
	RestProp struct {
		Kind string  `json:"kind" unpack:""`
		Arg  Pattern `json:"arg"`
		Loc  `json:"loc"`
	}
)

func (*KeyValueProp) propNode() {}
func (*AssignProp) propNode()   {}
func (*RestProp) propNode()     {}

// TypeAnnOf returns the type annotation of p, if any.
func TypeAnnOf(p Pattern) Type {
	switch p := p.(type) {
	case *IdentPat:
		return p.TypeAnn
	case *ArrayPat:
		return p.TypeAnn
	case *ObjectPat:
		return p.TypeAnn
	case *RestPat:
		return p.TypeAnn
	case *AssignPat:
		return TypeAnnOf(p.Left)
	}
	return nil
}
