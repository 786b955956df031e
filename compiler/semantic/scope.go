package semantic

import (
	"fmt"
	"maps"
	"slices"

	"github.com/brimdata/tstype"
)

type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeModule
	ScopeTypeParams
	ScopeFunction
	ScopeClass
	ScopeMethod
	ScopeFlow
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeModule:
		return "module"
	case ScopeTypeParams:
		return "type params"
	case ScopeFunction:
		return "function"
	case ScopeClass:
		return "class"
	case ScopeMethod:
		return "method"
	case ScopeFlow:
		return "flow"
	}
	return fmt.Sprintf("ScopeKind(%d)", int(k))
}

// Scope is a frame of the lexical scope chain.  Types may bind several
// declarations under one name (interfaces merge), while variables bind
// one.  A Scope is confined to the goroutine elaborating its module; the
// global scope built from builtin libraries is only read once built.
type Scope struct {
	parent    *Scope
	kind      ScopeKind
	static    bool
	types     map[string][]tstype.Type
	vars      map[string]tstype.Type
	declaring []string
}

func NewScope(parent *Scope, kind ScopeKind) *Scope {
	return &Scope{
		parent: parent,
		kind:   kind,
		types:  make(map[string][]tstype.Type),
		vars:   make(map[string]tstype.Type),
	}
}

func (s *Scope) Parent() *Scope  { return s.parent }

// enclosing returns the nearest frame of kind k, starting at s, or nil.
func (s *Scope) enclosing(k ScopeKind) *Scope {
	for scope := s; scope != nil; scope = scope.parent {
		if scope.kind == k {
			return scope
		}
	}
	return nil
}
func (s *Scope) Kind() ScopeKind { return s.kind }
func (s *Scope) IsStatic() bool  { return s.static }

// DefineType adds typ to the declarations bound to name in this frame.
func (s *Scope) DefineType(name string, typ tstype.Type) {
	s.types[name] = append(s.types[name], typ)
}

// OverrideType replaces the declarations bound to name in this frame.
func (s *Scope) OverrideType(name string, typ tstype.Type) {
	s.types[name] = []tstype.Type{typ}
}

// LookupType returns the declarations bound to name in the nearest frame
// that binds it.
func (s *Scope) LookupType(name string) []tstype.Type {
	for scope := s; scope != nil; scope = scope.parent {
		if types, ok := scope.types[name]; ok {
			return types
		}
	}
	return nil
}

func (s *Scope) DefineVar(name string, typ tstype.Type) error {
	if _, ok := s.vars[name]; ok {
		return fmt.Errorf("symbol %q redefined", name)
	}
	s.vars[name] = typ
	return nil
}

// SetVar binds name in this frame, replacing any previous binding.
func (s *Scope) SetVar(name string, typ tstype.Type) {
	s.vars[name] = typ
}

func (s *Scope) LookupVar(name string) (tstype.Type, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if typ, ok := scope.vars[name]; ok {
			return typ, true
		}
	}
	return nil, false
}

// Types returns the type bindings of this frame only.
func (s *Scope) Types() map[string][]tstype.Type {
	return s.types
}

// Vars returns the variable bindings of this frame only.
func (s *Scope) Vars() map[string]tstype.Type {
	return s.vars
}

// TypeNames returns every type name visible from s, sorted.
func (s *Scope) TypeNames() []string {
	seen := make(map[string]struct{})
	for scope := s; scope != nil; scope = scope.parent {
		for name := range scope.types {
			seen[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// declare records names as the type parameters this frame is declaring.
func (s *Scope) declare(names []string) {
	s.declaring = append(s.declaring, names...)
}

func (s *Scope) isDeclaring(name string) bool {
	return slices.Contains(s.declaring, name)
}

// inStaticMemberOf returns true if name is a type parameter of an enclosing
// class and s is inside one of that class's static members.  A binding of
// name in a frame inside the member shadows the class parameter.
func (s *Scope) inStaticMemberOf(name string) bool {
	for scope := s; scope != nil && scope.parent != nil; scope = scope.parent {
		if _, ok := scope.types[name]; ok {
			return false
		}
		if parent := scope.parent; parent.kind == ScopeClass && parent.isDeclaring(name) {
			return scope.kind == ScopeMethod && scope.static
		}
	}
	return false
}

// lookupVarFrame is like LookupVar but also returns the binding frame.
func (s *Scope) lookupVarFrame(name string) (*Scope, tstype.Type) {
	for scope := s; scope != nil; scope = scope.parent {
		if typ, ok := scope.vars[name]; ok {
			return scope, typ
		}
	}
	return nil, nil
}
