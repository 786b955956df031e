package driver

import (
	"fmt"
	"sync/atomic"

	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/loader"
	"go.uber.org/zap"
)

// moduleLoader serves the loads of one elaboration of one module.
type moduleLoader struct {
	run      *run
	node     *node
	circular *circularRun
	declared map[string][]tstype.Type
}

var _ loader.Loader = (*moduleLoader)(nil)

func newModuleLoader(r *run, n *node, c *circularRun) *moduleLoader {
	return &moduleLoader{
		run:      r,
		node:     n,
		circular: c,
		declared: make(map[string][]tstype.Type),
	}
}

func (l *moduleLoader) ModuleID(base, specifier string) (tstype.ModuleID, bool) {
	return l.run.graph.resolve(base, specifier)
}

func (l *moduleLoader) IsInSameCircularGroup(base, specifier string) bool {
	return l.run.graph.sameGroup(base, specifier)
}

func (l *moduleLoader) LoadNonCircularDep(base, specifier string) (tstype.Type, error) {
	l.run.driver.metrics.Loads.WithLabelValues(loadNonCircular).Inc()
	id, ok := l.run.graph.resolve(base, specifier)
	if !ok {
		return nil, fmt.Errorf("cannot resolve %q from %s", specifier, base)
	}
	m, ok := l.run.lookup(id)
	if !ok {
		return nil, fmt.Errorf("module %s is not loaded", l.run.graph.name(id))
	}
	return m.Module, nil
}

func (l *moduleLoader) LoadCircularDep(base, specifier string, partial *tstype.ModuleTypeData) (tstype.Type, error) {
	if l.circular == nil {
		return nil, fmt.Errorf("%s is not in a circular group", base)
	}
	return l.circular.load(l.node, base, specifier, partial)
}

func (l *moduleLoader) DeclareModule(name string, module tstype.Type) {
	l.declared[name] = append(l.declared[name], module)
	a, ok := l.run.graph.ambients[name]
	if !ok || a.owner() != l.node.module.Path || len(l.declared[name]) > 1 {
		return
	}
	if l.circular != nil {
		if surface, ok := tstype.Surface(module); ok {
			l.circular.cur[a.id] = surface
		}
	}
	l.run.logger.Debug("Declared ambient module", zap.String("name", name), zap.String("path", l.node.module.Path))
}

// circularRun holds the surfaces of a circular group while it is iterated.
// Loads see the surface a module produced in the current round if it was
// already elaborated and its surface from the previous round otherwise.
type circularRun struct {
	run  *run
	busy atomic.Bool
	prev map[tstype.ModuleID]*tstype.ModuleTypeData
	cur  map[tstype.ModuleID]*tstype.ModuleTypeData
}

func (c *circularRun) load(from *node, base, specifier string, partial *tstype.ModuleTypeData) (tstype.Type, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrConcurrentCircularLoad
	}
	defer c.busy.Store(false)
	c.run.driver.metrics.Loads.WithLabelValues(loadCircular).Inc()
	id, ok := c.run.graph.resolve(base, specifier)
	if !ok {
		return nil, fmt.Errorf("cannot resolve %q from %s", specifier, base)
	}
	c.cur[from.id] = partial
	surface, ok := c.cur[id]
	if !ok {
		surface = c.prev[id]
	}
	return c.run.sctx.Freeze(&tstype.Module{
		Module:  id,
		Name:    c.run.graph.name(id),
		Exports: surface.Clone(),
	})
}

// converged reports whether every surface of the round equals the surface
// of the previous round, so each load of the round saw a final surface.
func (c *circularRun) converged() bool {
	for id, s := range c.cur {
		if !tstype.EqualSurface(c.prev[id], s) {
			return false
		}
	}
	for id, s := range c.prev {
		if _, ok := c.cur[id]; !ok && !s.Empty() {
			return false
		}
	}
	return true
}
