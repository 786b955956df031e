package ast

type Decl interface {
	Node
	declNode()
}

type TypeAliasDecl struct {
	Kind       string         `json:"kind" unpack:""`
	Export     bool           `json:"export"`
	Declare    bool           `json:"declare"`
	Name       *ID            `json:"name"`
	TypeParams *TypeParamDecl `json:"type_params"`
	Type       Type           `json:"type"`
	Loc        `json:"loc"`
}

type InterfaceDecl struct {
	Kind       string         `json:"kind" unpack:""`
	Export     bool           `json:"export"`
	Declare    bool           `json:"declare"`
	Name       *ID            `json:"name"`
	TypeParams *TypeParamDecl `json:"type_params"`
	Extends    []*Heritage    `json:"extends"`
	Body       []TypeElement  `json:"body"`
	Loc        `json:"loc"`
}

// Heritage is an entry of an extends or implements clause.
type Heritage struct {
	Name     []*ID  `json:"name"`
	TypeArgs []Type `json:"type_args"`
	Loc      `json:"loc"`
}

// VarDecl is a var, let or const declaration.  Keyword holds which.
type VarDecl struct {
	Kind    string           `json:"kind" unpack:""`
	Export  bool             `json:"export"`
	Declare bool             `json:"declare"`
	Keyword string           `json:"keyword"`
	Decls   []*VarDeclarator `json:"decls"`
	Loc     `json:"loc"`
}

type VarDeclarator struct {
	Name Pattern `json:"name"`
	Init *Text   `json:"init"`
	Loc  `json:"loc"`
}

type FunctionDecl struct {
	Kind       string         `json:"kind" unpack:""`
	Export     bool           `json:"export"`
	Declare    bool           `json:"declare"`
	Name       *ID            `json:"name"`
	TypeParams *TypeParamDecl `json:"type_params"`
	Params     []Pattern      `json:"params"`
	Return     Type           `json:"return"`
	Loc        `json:"loc"`
}

// ClassDecl is a class declaration.  Only its type-level shape is kept:
// members are signatures, some of them static.
type ClassDecl struct {
	Kind       string         `json:"kind" unpack:""`
	Export     bool           `json:"export"`
	Declare    bool           `json:"declare"`
	Abstract   bool           `json:"abstract"`
	Name       *ID            `json:"name"`
	TypeParams *TypeParamDecl `json:"type_params"`
	Extends    *Heritage      `json:"extends"`
	Implements []*Heritage    `json:"implements"`
	Members    []TypeElement  `json:"members"`
	Loc        `json:"loc"`
}

// ImportDecl is an import declaration.  Default, Namespace and Names may be
// combined as the language allows.
type ImportDecl struct {
	Kind      string        `json:"kind" unpack:""`
	TypeOnly  bool          `json:"type_only"`
	Specifier string        `json:"specifier"`
	Default   *ID           `json:"default"`
	Namespace *ID           `json:"namespace"`
	Names     []*ImportName `json:"names"`
	Loc       `json:"loc"`
}

type ImportName struct {
	Imported *ID `json:"imported"`
	Local    *ID `json:"local"`
	Loc      `json:"loc"`
}

// ExportDecl is export { a, b as c }.
type ExportDecl struct {
	Kind  string        `json:"kind" unpack:""`
	Names []*ExportName `json:"names"`
	Loc   `json:"loc"`
}

type ExportName struct {
	Local    *ID `json:"local"`
	Exported *ID `json:"exported"`
	Loc      `json:"loc"`
}

// ModuleDecl is an ambient module declaration, declare module "name" {...}.
type ModuleDecl struct {
	Kind string `json:"kind" unpack:""`
	Name string `json:"name"`
	Body []Decl `json:"body"`
	Loc  `json:"loc"`
}

func (*TypeAliasDecl) declNode() {}
func (*InterfaceDecl) declNode() {}
func (*VarDecl) declNode()       {}
func (*FunctionDecl) declNode()  {}
func (*ClassDecl) declNode()     {}
func (*ImportDecl) declNode()    {}
func (*ExportDecl) declNode()    {}
func (*ModuleDecl) declNode()    {}
