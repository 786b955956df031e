package tstype

import (
	"errors"
	"fmt"
	"sync"
)

const (
	MaxUnionTypes = 100_000
	MaxTupleElems = 100_000
)

var ErrTooManyTypes = errors.New("too many types")

type TypeFetcher interface {
	LookupType(id int) (Type, error)
}

// A Context interns frozen types.  Freezing a type enters it and its
// transitive closure into the Context so that structurally identical
// frozen types (including metadata) are represented by exactly one
// pointer.  Types frozen by distinct Contexts do not share this property.
//
// A Context is safe for concurrent use.  A single Context is typically
// shared by all modules of a checking session so published module
// surfaces can be compared and shared freely.
type Context struct {
	mu    sync.RWMutex
	byID  []Type
	table map[string]Type
}

var _ TypeFetcher = (*Context)(nil)

func NewContext() *Context {
	return &Context{
		byID:  make([]Type, IDTypeComplex, 2*IDTypeComplex),
		table: make(map[string]Type),
	}
}

func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = c.byID[:IDTypeComplex]
	c.table = make(map[string]Type)
}

// Len returns the number of types interned in c.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID) - IDTypeComplex
}

func (c *Context) LookupType(id int) (Type, error) {
	if id <= 0 {
		return nil, fmt.Errorf("type id (%d) must be positive", id)
	}
	if id < IDTypeComplex {
		if t := lookupFixedByID(id); t != nil {
			return t, nil
		}
		return nil, fmt.Errorf("no fixed type for type id %d", id)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id >= len(c.byID) {
		return nil, fmt.Errorf("type id (%d) not in type context (size %d)", id, len(c.byID))
	}
	return c.byID[id], nil
}

// owns returns true if t was frozen by c (or is a fixed type).
func (c *Context) owns(t Type) bool {
	id := t.ID()
	if id == 0 {
		return false
	}
	if id < IDTypeComplex {
		return lookupFixedByID(id) == t
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return id < len(c.byID) && c.byID[id] == t
}

// Freeze finalizes t and returns the canonical frozen value for it.  The
// children of t are frozen first.  A mutable t is consumed: the caller
// must use the returned value and must not modify t afterward.  A value
// frozen by another Context is copied into c.
func (c *Context) Freeze(t Type) (Type, error) {
	if t == nil {
		return nil, nil
	}
	if c.owns(t) {
		return t, nil
	}
	if IsFrozen(t) {
		t = Clone(t)
	}
	m := &mapper{
		typ: c.Freeze,
		decl: func(p *Param) (*Param, error) {
			out, err := c.Freeze(p)
			if err != nil {
				return nil, err
			}
			return out.(*Param), nil
		},
	}
	if err := m.children(t); err != nil {
		return nil, err
	}
	if err := checkLimits(t); err != nil {
		return nil, err
	}
	return c.enter(t), nil
}

// MustFreeze is like Freeze but panics on error.
func (c *Context) MustFreeze(t Type) Type {
	t, err := c.Freeze(t)
	if err != nil {
		panic(err)
	}
	return t
}

func checkLimits(t Type) error {
	switch t := t.(type) {
	case *Union:
		if len(t.Types) > MaxUnionTypes {
			return fmt.Errorf("union with %d members: %w", len(t.Types), ErrTooManyTypes)
		}
	case *Tuple:
		if len(t.Elems) > MaxTupleElems {
			return fmt.Errorf("tuple with %d elements: %w", len(t.Elems), ErrTooManyTypes)
		}
	}
	return nil
}

func (c *Context) enter(t Type) Type {
	if t.Meta() == (Metadata{}) {
		switch t := t.(type) {
		case *Keyword:
			if fixed := LookupKeywordType(t.Keyword); fixed != nil {
				return fixed
			}
		case *This:
			return TypeThis
		}
	}
	key := keyPool.Get().(*[]byte)
	e := encoder{buf: (*key)[:0], meta: true, ids: true}
	e.typ(t)
	*key = e.buf
	defer keyPool.Put(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	if typ, ok := c.table[string(e.buf)]; ok {
		return typ
	}
	t.common().id = len(c.byID)
	c.byID = append(c.byID, t)
	c.table[string(e.buf)] = t
	return t
}
