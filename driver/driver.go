// Package driver checks whole programs.  It orders modules by their
// imports, elaborates independent modules in parallel and iterates the
// modules of each import cycle until their exported surfaces agree.  The
// driver implements loader.Loader for the modules it elaborates.
package driver

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/ast"
	"github.com/brimdata/tstype/compiler/diag"
	"github.com/brimdata/tstype/compiler/semantic"
	"github.com/brimdata/tstype/loader"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrIterationLimit is reported in Program.Warnings for a circular
	// group whose surfaces did not settle within the iteration limit.
	ErrIterationLimit         = errors.New("circular group did not converge")
	ErrConcurrentCircularLoad = errors.New("concurrent load within a circular group")
	ErrUnresolved             = errors.New("unresolved reference")
)

type Driver struct {
	cfg     Config
	logger  *zap.Logger
	metrics *Metrics
}

// New returns a Driver.  Zero limits in cfg are replaced by their defaults.
func New(cfg Config, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxCircularIterations == 0 {
		cfg.MaxCircularIterations = DefaultMaxCircularIterations
	}
	if cfg.ResolveCacheSize == 0 {
		cfg.ResolveCacheSize = DefaultResolveCacheSize
	}
	return &Driver{
		cfg:     cfg,
		logger:  logger,
		metrics: NewMetrics(),
	}
}

func (d *Driver) Metrics() *Metrics {
	return d.metrics
}

// Check elaborates modules as one program.  Problems in the source are
// reported as diagnostics of the returned Program; an error means the run
// itself failed.
func (d *Driver) Check(ctx context.Context, modules []*ast.Module) (*Program, error) {
	if err := d.cfg.validate(); err != nil {
		return nil, err
	}
	g, err := newGraph(modules, d.cfg.Libs, d.cfg.ResolveCacheSize)
	if err != nil {
		return nil, err
	}
	id := ksuid.New()
	r := &run{
		driver:    d,
		id:        id,
		logger:    d.logger.With(zap.Stringer("run", id)),
		sctx:      tstype.NewContext(),
		graph:     g,
		global:    semantic.NewScope(nil, semantic.ScopeGlobal),
		published: make(map[tstype.ModuleID]*ModuleResult),
		declared:  make(map[string]map[string][]tstype.Type),
	}
	r.logger.Debug("Checking program",
		zap.Int("modules", len(g.nodes)),
		zap.Int("groups", len(g.groups)),
		zap.Int("ambient", len(g.ambients)))
	if err := r.elaborateLibs(ctx); err != nil {
		return nil, err
	}
	if err := r.elaborateGroups(ctx); err != nil {
		return nil, err
	}
	r.checkAmbient()
	for _, n := range g.nodes {
		d.metrics.countDiagnostics(r.published[n.id].Diagnostics.Diagnostics())
	}
	return &Program{
		RunID:    id,
		Warnings: r.warnings,
		sctx:     r.sctx,
		graph:    g,
		modules:  r.published,
		global:   r.global,
	}, nil
}

// run is the state of one Check.
type run struct {
	driver *Driver
	id     ksuid.KSUID
	logger *zap.Logger
	sctx   *tstype.Context
	graph  *graph
	global *semantic.Scope

	mu        sync.RWMutex
	published map[tstype.ModuleID]*ModuleResult
	// declared holds the ambient declarations of each file by name, in
	// source order.
	declared map[string]map[string][]tstype.Type
	warnings []error
}

func (r *run) lookup(id tstype.ModuleID) (*ModuleResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.published[id]
	return m, ok
}

func (r *run) warn(err error) {
	r.logger.Warn("Check warning", zap.Error(err))
	r.mu.Lock()
	r.warnings = append(r.warnings, err)
	r.mu.Unlock()
}

func (r *run) elaborate(n *node, l *moduleLoader, builtin bool) (*semantic.Result, error) {
	cfg := r.driver.cfg
	a := semantic.New(r.sctx, l, n.module, n.id, semantic.Options{
		Builtin:                builtin,
		NoImplicitAny:          cfg.NoImplicitAny,
		SkipIndexedAccessCheck: cfg.SkipIndexedAccessCheck,
		Global:                 r.global,
		Logger:                 r.logger,
	})
	res, err := a.Module()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.module.Path, err)
	}
	r.driver.metrics.ModulesElaborated.Inc()
	return res, nil
}

// publish makes the results of n and of the ambient modules it owns
// visible to other modules.
func (r *run) publish(n *node, res *semantic.Result, l *moduleLoader) error {
	path := n.module.Path
	m, err := r.sctx.Freeze(&tstype.Module{Module: n.id, Name: path, Exports: res.Exports.Clone()})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	results := []*ModuleResult{{
		ModuleInfo: loader.ModuleInfo{ModuleID: n.id, Module: m},
		Name:       path,
		Path:       path,
		Result:     res,
	}}
	for name, amb := range res.Ambient {
		a, ok := r.graph.ambients[name]
		if !ok || a.owner() != path || len(l.declared[name]) == 0 {
			continue
		}
		results = append(results, &ModuleResult{
			ModuleInfo: loader.ModuleInfo{ModuleID: a.id, Module: l.declared[name][0]},
			Name:       name,
			Path:       path,
			Result:     amb.Result,
		})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mr := range results {
		r.published[mr.ModuleID] = mr
	}
	r.declared[path] = l.declared
	return nil
}

// elaborateLibs elaborates the builtin libraries in configuration order.
// The declarations of each library are added to the global scope seen by
// the libraries after it and by every other module.
func (r *run) elaborateLibs(ctx context.Context) error {
	for _, path := range r.driver.cfg.Libs {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := r.graph.byPath[path]
		r.logger.Debug("Elaborating library", zap.String("path", path))
		l := newModuleLoader(r, n, nil)
		res, err := r.elaborate(n, l, true)
		if err != nil {
			return err
		}
		if err := r.publish(n, res, l); err != nil {
			return err
		}
		for name, types := range res.Locals.Types {
			for _, t := range types {
				r.global.DefineType(name, t)
			}
		}
		for name, v := range res.Locals.Vars {
			r.global.SetVar(name, v)
		}
	}
	return nil
}

// elaborateGroups runs one goroutine per group.  A group starts once the
// groups it imports from are published and a worker slot is free.
func (r *run) elaborateGroups(ctx context.Context) error {
	groups := r.graph.groups
	done := make([]chan struct{}, len(groups))
	for k := range done {
		done[k] = make(chan struct{})
	}
	sem := make(chan struct{}, r.driver.cfg.parallelism())
	g, ctx := errgroup.WithContext(ctx)
	for _, grp := range groups {
		g.Go(func() error {
			for _, dep := range grp.deps {
				select {
				case <-done[dep]:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			err := r.elaborateGroup(ctx, grp)
			<-sem
			if err != nil {
				return err
			}
			close(done[grp.index])
			return nil
		})
	}
	return g.Wait()
}

func (r *run) elaborateGroup(ctx context.Context, grp *group) error {
	logger := r.logger.With(zap.Int("group", grp.index))
	if !grp.circular {
		n := grp.members[0]
		logger.Debug("Elaborating module", zap.String("path", n.module.Path))
		l := newModuleLoader(r, n, nil)
		res, err := r.elaborate(n, l, false)
		if err != nil {
			return err
		}
		return r.publish(n, res, l)
	}
	paths := make([]string, 0, len(grp.members))
	for _, n := range grp.members {
		paths = append(paths, n.module.Path)
	}
	logger.Debug("Elaborating circular group", zap.Strings("modules", paths))
	c := &circularRun{
		run: r,
		cur: make(map[tstype.ModuleID]*tstype.ModuleTypeData),
	}
	type member struct {
		node   *node
		result *semantic.Result
		loader *moduleLoader
	}
	var members []member
	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.driver.metrics.CircularIterations.Inc()
		c.prev, c.cur = c.cur, make(map[tstype.ModuleID]*tstype.ModuleTypeData)
		members = members[:0]
		for _, n := range grp.members {
			l := newModuleLoader(r, n, c)
			res, err := r.elaborate(n, l, false)
			if err != nil {
				return err
			}
			c.cur[n.id] = res.Exports
			members = append(members, member{n, res, l})
		}
		converged := c.converged()
		logger.Debug("Circular round complete", zap.Int("round", round), zap.Bool("converged", converged))
		if converged {
			break
		}
		if round >= r.driver.cfg.MaxCircularIterations {
			r.warn(fmt.Errorf("%v after %d rounds: %w", paths, round, ErrIterationLimit))
			break
		}
	}
	for _, m := range members {
		if err := r.publish(m.node, m.result, m.loader); err != nil {
			return err
		}
	}
	return nil
}

// checkAmbient reports ambient modules declared more than once with
// different surfaces.  The owner's declaration is published and each
// conflicting declaration is reported in the file that made it.
func (r *run) checkAmbient() {
	for _, name := range slices.Sorted(maps.Keys(r.graph.ambients)) {
		a := r.graph.ambients[name]
		if len(a.decls) < 2 {
			continue
		}
		seen := make(map[string]int)
		var first tstype.Type
		for _, decl := range a.decls {
			k := seen[decl.path]
			seen[decl.path]++
			decls := r.declared[decl.path][a.name]
			if k >= len(decls) {
				continue
			}
			if first == nil {
				first = decls[k]
				continue
			}
			if tstype.Equal(first, decls[k]) {
				continue
			}
			n := r.graph.byPath[decl.path]
			r.published[n.id].Diagnostics.Add(diag.ConflictingAmbientModule, decl.loc.Pos(), decl.loc.End(), a.name)
		}
	}
}
