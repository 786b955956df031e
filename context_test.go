package tstype_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/brimdata/tstype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strLit(s string) *tstype.Lit {
	return &tstype.Lit{Lit: tstype.LitString, Value: s}
}

func union(types ...tstype.Type) *tstype.Union {
	return &tstype.Union{Types: types}
}

func TestContextFreezeInterns(t *testing.T) {
	sctx := tstype.NewContext()

	a, err := sctx.Freeze(union(strLit("a"), tstype.NewKeyword(tstype.KeywordNumber, tstype.Span{First: 3, Last: 9})))
	require.NoError(t, err)
	b, err := sctx.Freeze(union(strLit("a"), tstype.TypeNumber))
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.True(t, tstype.IsFrozen(a))
	assert.Same(t, tstype.TypeNumber, a.(*tstype.Union).Types[1])

	looked, err := sctx.LookupType(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, looked)
}

func TestContextFreezeKeepsMetadataDistinct(t *testing.T) {
	sctx := tstype.NewContext()

	implicit := sctx.MustFreeze(tstype.ImplicitAny(tstype.Span{}))
	assert.NotSame(t, tstype.TypeAny, implicit)
	assert.True(t, implicit.Meta().Implicit)
	assert.True(t, tstype.Equal(tstype.TypeAny, implicit))
	assert.Same(t, tstype.TypeAny, sctx.MustFreeze(tstype.NewKeyword(tstype.KeywordAny, tstype.Span{})))
}

func TestContextFreezeForeign(t *testing.T) {
	foreign := tstype.NewContext()
	arr := foreign.MustFreeze(&tstype.Array{Elem: tstype.TypeString})

	sctx := tstype.NewContext()
	local := sctx.MustFreeze(&tstype.Array{Elem: tstype.TypeString})
	twin, err := sctx.Freeze(arr)
	require.NoError(t, err)
	assert.Same(t, local, twin)
	assert.NotSame(t, arr, twin)
}

func TestContextFreezeLimits(t *testing.T) {
	sctx := tstype.NewContext()
	u := &tstype.Union{}
	for range tstype.MaxUnionTypes + 1 {
		u.Types = append(u.Types, tstype.TypeString)
	}
	_, err := sctx.Freeze(u)
	assert.True(t, errors.Is(err, tstype.ErrTooManyTypes))
}

func TestContextLookupTypeErrors(t *testing.T) {
	sctx := tstype.NewContext()
	_, err := sctx.LookupType(0)
	assert.EqualError(t, err, "type id (0) must be positive")
	_, err = sctx.LookupType(1000)
	assert.EqualError(t, err, "type id (1000) not in type context (size 32)")
	typ, err := sctx.LookupType(tstype.IDString)
	require.NoError(t, err)
	assert.Same(t, tstype.TypeString, typ)
}

func TestContextConcurrentFreeze(t *testing.T) {
	sctx := tstype.NewContext()
	var wg sync.WaitGroup
	out := make([]tstype.Type, 16)
	for i := range out {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = sctx.MustFreeze(&tstype.Tuple{Elems: []tstype.TupleElement{
				{Type: tstype.TypeString},
				{Label: "n", Type: &tstype.Array{Elem: tstype.TypeNumber}},
			}})
		}()
	}
	wg.Wait()
	for _, typ := range out[1:] {
		assert.Same(t, out[0], typ)
	}
}

func TestCloneIsMutable(t *testing.T) {
	sctx := tstype.NewContext()
	frozen := sctx.MustFreeze(union(tstype.TypeString, tstype.TypeNull)).(*tstype.Union)
	c := tstype.Clone(frozen).(*tstype.Union)
	assert.False(t, tstype.IsFrozen(c))
	c.Types[0] = tstype.TypeNumber
	assert.Same(t, tstype.TypeString, frozen.Types[0])

	marked := tstype.SetMeta(frozen, func(m *tstype.Metadata) { m.PreventGeneralization = true })
	assert.NotSame(t, frozen, marked)
	assert.False(t, frozen.Meta().PreventGeneralization)
}
