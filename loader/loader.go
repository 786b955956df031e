// Package loader defines the contract between the elaborator and the
// whole-program driver that sequences modules against each other.
package loader

import (
	"errors"
	"fmt"

	"github.com/brimdata/tstype"
)

//go:generate go run go.uber.org/mock/mockgen -destination=mock/mock_loader.go -package=mock . Loader

// Loader is implemented by a driver and called by the elaborator when an
// import crosses a module boundary.  Specifiers are resolved relative to
// the path of the importing module, base.
//
// Modules of one circular group, the strongly connected component of the
// import graph containing base, are loaded with LoadCircularDep, which the
// driver must only ever call from one goroutine per group.  Other modules
// are loaded with LoadNonCircularDep, which may be called concurrently.
// Both return a frozen *tstype.Module.
type Loader interface {
	// ModuleID resolves specifier relative to base.  It returns false if
	// the specifier cannot be resolved.
	ModuleID(base, specifier string) (tstype.ModuleID, bool)
	// IsInSameCircularGroup reports whether the target of specifier is in
	// the circular group of base.  It is symmetric.
	IsInSameCircularGroup(base, specifier string) bool
	// LoadCircularDep returns the current surface of a module in the
	// circular group of base.  partial is the surface of base resolved so
	// far; the loader may retain it.
	LoadCircularDep(base, specifier string, partial *tstype.ModuleTypeData) (tstype.Type, error)
	LoadNonCircularDep(base, specifier string) (tstype.Type, error)
	// DeclareModule registers the surface of an ambient module declaration
	// under a global module name.
	DeclareModule(name string, module tstype.Type)
}

// ModuleInfo pairs a module identity with its published module type.
type ModuleInfo struct {
	ModuleID tstype.ModuleID
	Module   tstype.Type
}

var ErrNotModule = errors.New("loader did not return a frozen module")

// Validate checks that t may be handed out by a Loader and returns it as a
// module wrapper.
func Validate(t tstype.Type) (*tstype.Module, error) {
	m, ok := t.(*tstype.Module)
	if !ok {
		if t == nil {
			return nil, ErrNotModule
		}
		return nil, fmt.Errorf("%w: got %s", ErrNotModule, t.Kind())
	}
	if !tstype.IsFrozen(m) {
		return nil, fmt.Errorf("%w: module %q is not frozen", ErrNotModule, m.Name)
	}
	return m, nil
}
