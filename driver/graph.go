package driver

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/ast"
	arc "github.com/hashicorp/golang-lru/arc/v2"
)

// node is a module of the program being checked.
type node struct {
	id      tstype.ModuleID
	module  *ast.Module
	lib     bool
	imports []tstype.ModuleID
	group   int
}

// ambientDecl locates one declaration of an ambient module.
type ambientDecl struct {
	path string
	loc  ast.Loc
}

type ambient struct {
	id    tstype.ModuleID
	name  string
	decls []ambientDecl
}

// owner returns the path of the file whose declaration of a is published.
func (a *ambient) owner() string {
	return a.decls[0].path
}

// group is a strongly connected component of the import graph.  Members
// are elaborated together.  A group is circular if it has more than one
// member or a member imports itself.
type group struct {
	index    int
	members  []*node
	set      *roaring.Bitmap
	deps     []int
	circular bool
}

type resolved struct {
	id tstype.ModuleID
	ok bool
}

// graph is the import graph of a program.  It is immutable once built and
// safe for concurrent use.
type graph struct {
	nodes    []*node
	byPath   map[string]*node
	byID     map[tstype.ModuleID]*node
	ambients map[string]*ambient
	ambByID  map[tstype.ModuleID]*ambient
	groups   []*group
	cache    *arc.ARCCache[string, resolved]
}

func newGraph(modules []*ast.Module, libs []string, cacheSize int) (*graph, error) {
	cache, err := arc.NewARC[string, resolved](cacheSize)
	if err != nil {
		return nil, err
	}
	g := &graph{
		byPath:   make(map[string]*node),
		byID:     make(map[tstype.ModuleID]*node),
		ambients: make(map[string]*ambient),
		ambByID:  make(map[tstype.ModuleID]*ambient),
		cache:    cache,
	}
	for _, m := range modules {
		if _, ok := g.byPath[m.Path]; ok {
			return nil, fmt.Errorf("duplicate module path %q", m.Path)
		}
		n := &node{module: m, group: -1}
		g.byPath[m.Path] = n
		g.nodes = append(g.nodes, n)
	}
	for _, lib := range libs {
		n, ok := g.byPath[lib]
		if !ok {
			return nil, fmt.Errorf("library %q is not among the modules", lib)
		}
		n.lib = true
	}
	// Ids follow path order so they are stable across runs.
	slices.SortFunc(g.nodes, func(a, b *node) int {
		return strings.Compare(a.module.Path, b.module.Path)
	})
	for k, n := range g.nodes {
		n.id = tstype.ModuleID(k + 1)
		g.byID[n.id] = n
	}
	for _, n := range g.nodes {
		scanAmbient(n.module.Path, n.module.Decls, g.ambients)
	}
	names := make([]string, 0, len(g.ambients))
	for name := range g.ambients {
		names = append(names, name)
	}
	slices.Sort(names)
	for k, name := range names {
		a := g.ambients[name]
		a.id = tstype.ModuleID(len(g.nodes) + k + 1)
		g.ambByID[a.id] = a
	}
	for _, n := range g.nodes {
		n.imports = g.scanImports(n.module.Path, n.module.Decls, n.imports)
	}
	g.groupModules()
	return g, nil
}

// scanAmbient records the ambient module declarations of decls, nested ones
// included.  Files are scanned in path order so the first declaration of a
// name is its owner.
func scanAmbient(path string, decls []ast.Decl, out map[string]*ambient) {
	for _, d := range decls {
		m, ok := d.(*ast.ModuleDecl)
		if !ok {
			continue
		}
		a, ok := out[m.Name]
		if !ok {
			a = &ambient{name: m.Name}
			out[m.Name] = a
		}
		a.decls = append(a.decls, ambientDecl{path: path, loc: m.Loc})
		scanAmbient(path, m.Body, out)
	}
}

func (g *graph) scanImports(base string, decls []ast.Decl, imports []tstype.ModuleID) []tstype.ModuleID {
	for _, d := range decls {
		switch d := d.(type) {
		case *ast.ImportDecl:
			id, ok := g.resolve(base, d.Specifier)
			if !ok {
				continue
			}
			if owner := g.file(id); owner != nil && !slices.Contains(imports, owner.id) {
				imports = append(imports, owner.id)
			}
		case *ast.ModuleDecl:
			imports = g.scanImports(base, d.Body, imports)
		}
	}
	return imports
}

// file returns the file module holding id, which is the owner for an
// ambient module.
func (g *graph) file(id tstype.ModuleID) *node {
	if n, ok := g.byID[id]; ok {
		return n
	}
	if a, ok := g.ambByID[id]; ok {
		return g.byPath[a.owner()]
	}
	return nil
}

// name returns the path of a file module or the name of an ambient module.
func (g *graph) name(id tstype.ModuleID) string {
	if n, ok := g.byID[id]; ok {
		return n.module.Path
	}
	if a, ok := g.ambByID[id]; ok {
		return a.name
	}
	return ""
}

// resolve maps specifier, as written in the module at base, to a module id.
func (g *graph) resolve(base, specifier string) (tstype.ModuleID, bool) {
	dir := path.Dir(base)
	key := dir + "\x00" + specifier
	if r, ok := g.cache.Get(key); ok {
		return r.id, r.ok
	}
	var r resolved
	if isRelative(specifier) {
		r = g.resolveFile(dir, specifier)
	} else if a, ok := g.ambients[specifier]; ok {
		r = resolved{id: a.id, ok: true}
	}
	g.cache.Add(key, r)
	return r.id, r.ok
}

func isRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../") ||
		strings.HasPrefix(specifier, "/")
}

var fileSuffixes = []string{"", ".ts", ".d.ts", "/index.ts", "/index.d.ts"}

func (g *graph) resolveFile(dir, specifier string) resolved {
	p := specifier
	if !path.IsAbs(p) {
		p = path.Join(dir, p)
	}
	candidates := []string{p}
	if trimmed, ok := strings.CutSuffix(p, ".js"); ok {
		// Imports of compiled output name the source module.
		candidates = append(candidates, trimmed)
	}
	for _, c := range candidates {
		for _, suffix := range fileSuffixes {
			if n, ok := g.byPath[c+suffix]; ok {
				return resolved{id: n.id, ok: true}
			}
		}
	}
	return resolved{}
}

// sameGroup reports whether the target of specifier is in the circular
// group of base.
func (g *graph) sameGroup(base, specifier string) bool {
	b, ok := g.byPath[base]
	if !ok || b.lib {
		return false
	}
	id, ok := g.resolve(base, specifier)
	if !ok {
		return false
	}
	target := g.file(id)
	if target == nil || target.lib {
		return false
	}
	return g.groups[b.group].set.Contains(uint32(target.id))
}

// groupModules partitions the non-library modules into the strongly
// connected components of the import graph.  Components are numbered in
// the order Tarjan's algorithm completes them, so a group's dependencies
// always have smaller indices.
func (g *graph) groupModules() {
	var index int
	var stack []*node
	indices := make(map[*node]int)
	lowlink := make(map[*node]int)
	onStack := make(map[*node]bool)
	var connect func(n *node)
	connect = func(n *node) {
		indices[n] = index
		lowlink[n] = index
		index++
		stack = append(stack, n)
		onStack[n] = true
		for _, id := range n.imports {
			m := g.byID[id]
			if m.lib {
				continue
			}
			if _, ok := indices[m]; !ok {
				connect(m)
				lowlink[n] = min(lowlink[n], lowlink[m])
			} else if onStack[m] {
				lowlink[n] = min(lowlink[n], indices[m])
			}
		}
		if lowlink[n] != indices[n] {
			return
		}
		grp := &group{index: len(g.groups), set: roaring.New()}
		for {
			m := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[m] = false
			m.group = grp.index
			grp.members = append(grp.members, m)
			grp.set.Add(uint32(m.id))
			if m == n {
				break
			}
		}
		slices.SortFunc(grp.members, func(a, b *node) int {
			return int(a.id) - int(b.id)
		})
		g.groups = append(g.groups, grp)
	}
	for _, n := range g.nodes {
		if _, ok := indices[n]; !ok && !n.lib {
			connect(n)
		}
	}
	for _, grp := range g.groups {
		grp.circular = len(grp.members) > 1
		for _, n := range grp.members {
			for _, id := range n.imports {
				m := g.byID[id]
				if m.lib {
					continue
				}
				if m.group == grp.index {
					grp.circular = true
				} else if !slices.Contains(grp.deps, m.group) {
					grp.deps = append(grp.deps, m.group)
				}
			}
		}
		slices.Sort(grp.deps)
	}
}
