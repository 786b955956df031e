package tstype

import (
	"maps"
	"slices"
)

// ModuleID is a stable identity of a module within one checking session.
type ModuleID uint32

// ModuleTypeData is the exported surface of a module.  During circular
// resolution it may be partial.  A name may bind several types when
// declarations merge.
type ModuleTypeData struct {
	Types map[string][]Type
	Vars  map[string]Type
}

func NewModuleTypeData() *ModuleTypeData {
	return &ModuleTypeData{
		Types: make(map[string][]Type),
		Vars:  make(map[string]Type),
	}
}

// Clone returns a copy of d whose maps may be modified independently.  The
// types themselves are shared.
func (d *ModuleTypeData) Clone() *ModuleTypeData {
	if d == nil {
		return NewModuleTypeData()
	}
	out := &ModuleTypeData{
		Types: make(map[string][]Type, len(d.Types)),
		Vars:  maps.Clone(d.Vars),
	}
	if out.Vars == nil {
		out.Vars = make(map[string]Type)
	}
	for name, types := range d.Types {
		out.Types[name] = slices.Clone(types)
	}
	return out
}

// TypeNames returns the exported type names in sorted order.
func (d *ModuleTypeData) TypeNames() []string {
	if d == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(d.Types))
}

// VarNames returns the exported variable names in sorted order.
func (d *ModuleTypeData) VarNames() []string {
	if d == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(d.Vars))
}

func (d *ModuleTypeData) Empty() bool {
	return d == nil || len(d.Types) == 0 && len(d.Vars) == 0
}

// Module is the module wrapper type published for each module.  Loaders
// only hand out frozen Modules.
type Module struct {
	Common
	Module  ModuleID
	Name    string
	Exports *ModuleTypeData
}

func (*Module) Kind() Kind { return KindModule }

// Surface returns the exports of t if t is a module wrapper.
func Surface(t Type) (*ModuleTypeData, bool) {
	m, ok := t.(*Module)
	if !ok || m.Exports == nil {
		return nil, false
	}
	return m.Exports, true
}
