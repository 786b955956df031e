package driver

import (
	"fmt"
	"maps"
	"slices"

	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/diag"
	"github.com/brimdata/tstype/compiler/semantic"
	"github.com/brimdata/tstype/loader"
	"github.com/segmentio/ksuid"
)

const maxResolveDepth = 64

// ModuleResult is the published outcome of a file module or of an ambient
// module declaration.
type ModuleResult struct {
	loader.ModuleInfo
	// Name is the path of a file module or the name of an ambient module.
	Name string
	// Path is the file holding the module.
	Path string
	*semantic.Result
}

// Program is the outcome of a Check.
type Program struct {
	RunID ksuid.KSUID
	// Warnings holds problems of the run that did not prevent a result,
	// such as circular groups stopped at the iteration limit.
	Warnings []error

	sctx    *tstype.Context
	graph   *graph
	modules map[tstype.ModuleID]*ModuleResult
	global  *semantic.Scope
}

func (p *Program) Context() *tstype.Context {
	return p.sctx
}

// Paths returns the paths of the file modules in module id order.
func (p *Program) Paths() []string {
	paths := make([]string, 0, len(p.graph.nodes))
	for _, n := range p.graph.nodes {
		paths = append(paths, n.module.Path)
	}
	return paths
}

func (p *Program) Module(path string) (*ModuleResult, bool) {
	n, ok := p.graph.byPath[path]
	if !ok {
		return nil, false
	}
	return p.ModuleByID(n.id)
}

func (p *Program) Ambient(name string) (*ModuleResult, bool) {
	a, ok := p.graph.ambients[name]
	if !ok {
		return nil, false
	}
	return p.ModuleByID(a.id)
}

// AmbientNames returns the names of the ambient modules in sorted order.
func (p *Program) AmbientNames() []string {
	return slices.Sorted(maps.Keys(p.graph.ambients))
}

func (p *Program) ModuleByID(id tstype.ModuleID) (*ModuleResult, bool) {
	m, ok := p.modules[id]
	return m, ok
}

// Diagnostics returns the diagnostics of every file module in path order.
func (p *Program) Diagnostics() []*diag.Diagnostic {
	var diags []*diag.Diagnostic
	for _, n := range p.graph.nodes {
		if m, ok := p.modules[n.id]; ok {
			diags = append(diags, m.Diagnostics.Diagnostics()...)
		}
	}
	return diags
}

// Resolve returns the declarations ref refers to.  Import bindings are
// followed to the declaring module, and names not bound in a module are
// looked up in the global scope.  A reference to a module itself resolves
// to its module type.
func (p *Program) Resolve(ref *tstype.Ref) ([]tstype.Type, error) {
	for range maxResolveDepth {
		m, ok := p.modules[ref.Module]
		if !ok {
			return nil, fmt.Errorf("%w: unknown module %d", ErrUnresolved, ref.Module)
		}
		if len(ref.Name) == 0 {
			return []tstype.Type{m.Module}, nil
		}
		types, err := p.lookup(m, ref.Name)
		if err != nil {
			return nil, err
		}
		next, ok := binding(types)
		if !ok {
			return types, nil
		}
		ref = next
	}
	return nil, fmt.Errorf("%w: %v: too many indirections", ErrUnresolved, ref.Name)
}

// binding returns the reference an import binding stands for.
func binding(types []tstype.Type) (*tstype.Ref, bool) {
	if len(types) != 1 {
		return nil, false
	}
	ref, ok := types[0].(*tstype.Ref)
	if !ok || len(ref.TypeArgs) != 0 {
		return nil, false
	}
	return ref, true
}

func (p *Program) lookup(m *ModuleResult, names []string) ([]tstype.Type, error) {
	if len(names) > 2 {
		return nil, fmt.Errorf("%w: %v: nested namespaces are not supported", ErrUnresolved, names)
	}
	if len(names) == 2 {
		surface, err := p.namespace(m, names[0])
		if err != nil {
			return nil, err
		}
		if types := surface.Types[names[1]]; len(types) != 0 {
			return types, nil
		}
		return nil, fmt.Errorf("%w: %s.%s", ErrUnresolved, names[0], names[1])
	}
	name := names[0]
	if types := m.Locals.Types[name]; len(types) != 0 {
		return types, nil
	}
	if types := m.Exports.Types[name]; len(types) != 0 {
		return types, nil
	}
	if types := p.global.LookupType(name); len(types) != 0 {
		return types, nil
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrUnresolved, name, m.Name)
}

// namespace returns the surface of the module bound to the namespace
// variable name in m.
func (p *Program) namespace(m *ModuleResult, name string) (*tstype.ModuleTypeData, error) {
	v, ok := m.Locals.Vars[name]
	if !ok {
		v, ok = p.global.LookupVar(name)
	}
	if !ok {
		return nil, fmt.Errorf("%w: namespace %s in %s", ErrUnresolved, name, m.Name)
	}
	if ref, ok := v.(*tstype.Ref); ok && len(ref.Name) == 0 {
		target, ok := p.modules[ref.Module]
		if !ok {
			return nil, fmt.Errorf("%w: unknown module %d", ErrUnresolved, ref.Module)
		}
		return target.Exports, nil
	}
	if surface, ok := tstype.Surface(v); ok {
		return surface, nil
	}
	return nil, fmt.Errorf("%w: %s is not a namespace", ErrUnresolved, name)
}
