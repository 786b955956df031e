package semantic

import (
	"github.com/brimdata/tstype"
	"github.com/brimdata/tstype/compiler/ast"
	"github.com/brimdata/tstype/compiler/diag"
)

// maxAliasDepth bounds alias chains followed by the indexed access check.
const maxAliasDepth = 16

// checkIndexedAccess reports literal keys that name no member of the
// object type.  Only objects whose members are all known locally are
// checked: interfaces with heritage clauses, objects with index signatures
// and anything that is not a local declaration are skipped.
func (a *Analyzer) checkIndexedAccess(n *ast.IndexedAccessType, obj, index tstype.Type) {
	members, ok := a.knownMembers(obj, 0)
	if !ok {
		return
	}
	for _, m := range members {
		if _, ok := m.(*tstype.IndexSignature); ok {
			return
		}
	}
	for _, key := range literalKeys(index) {
		if !hasMember(members, key) {
			a.error(n.Index, diag.NoSuchProperty, key)
		}
	}
}

func (a *Analyzer) knownMembers(t tstype.Type, depth int) ([]tstype.TypeElement, bool) {
	if depth > maxAliasDepth {
		return nil, false
	}
	switch t := t.(type) {
	case *tstype.TypeLit:
		return t.Members, true
	case *tstype.Ref:
		if t.Module != a.id || len(t.Name) != 1 || len(t.TypeArgs) != 0 {
			return nil, false
		}
		decls := a.scope.LookupType(t.Name[0])
		if len(decls) == 0 {
			return nil, false
		}
		if alias, ok := decls[0].(*tstype.Alias); ok && len(decls) == 1 {
			if alias.TypeParams != nil {
				return nil, false
			}
			return a.knownMembers(alias.Target, depth+1)
		}
		var members []tstype.TypeElement
		for _, d := range decls {
			iface, ok := d.(*tstype.Interface)
			if !ok || len(iface.Extends) != 0 || iface.TypeParams != nil {
				return nil, false
			}
			members = append(members, iface.Body...)
		}
		return members, true
	}
	return nil, false
}

// literalKeys returns the property names denoted by a literal index type
// or a union of them, or nil if the index is not entirely literal.
func literalKeys(t tstype.Type) []string {
	switch t := t.(type) {
	case *tstype.Lit:
		if t.Lit != tstype.LitString && t.Lit != tstype.LitNumber {
			return nil
		}
		text, _ := tstype.Key{Computed: t}.Text()
		return []string{text}
	case *tstype.Union:
		var keys []string
		for _, member := range t.Types {
			k := literalKeys(member)
			if k == nil {
				return nil
			}
			keys = append(keys, k...)
		}
		return keys
	}
	return nil
}

func hasMember(members []tstype.TypeElement, name string) bool {
	for _, m := range members {
		key, ok := tstype.ElementKey(m)
		if !ok {
			continue
		}
		if text, ok := key.Text(); ok && text == name {
			return true
		}
	}
	return false
}
