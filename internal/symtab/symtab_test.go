package symtab

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sclp/internal/sctypes"
)

func TestLayering(t *testing.T) {
	tab := New()
	tab.BeginScope()
	s := tab.Put(Symbol{Name: "x", Type: sctypes.MakeInt()})
	require.NotNil(t, s)
	require.NotNil(t, tab.Get("x"))
	tab.EndScope()
	require.Nil(t, tab.Get("x"), "x must not be visible after its scope ends")
}

func TestGlobalVsLocal(t *testing.T) {
	tab := New()
	g := tab.Put(Symbol{Name: "g", Type: sctypes.MakeInt()})
	require.True(t, g.IsGlobal)

	tab.BeginScope()
	l := tab.Put(Symbol{Name: "l", Type: sctypes.MakeInt()})
	require.False(t, l.IsGlobal)
	tab.EndScope()
}

func TestVariableCollision(t *testing.T) {
	tab := New()
	require.NotNil(t, tab.Put(Symbol{Name: "x", Type: sctypes.MakeInt()}))
	require.Nil(t, tab.Put(Symbol{Name: "x", Type: sctypes.MakeFloat()}), "duplicate var in same scope rejected")
}

func TestFunctionRedeclaration(t *testing.T) {
	r := sctypes.NewRegistry()
	tab := New()
	sig := r.MakeFunc(sctypes.MakeInt(), []*sctypes.Type{sctypes.MakeInt()})

	first := tab.Put(Symbol{Name: "f", Type: sig})
	require.NotNil(t, first)

	second := tab.Put(Symbol{Name: "f", Type: sig})
	require.Same(t, first, second, "same signature returns the original handle")

	otherSig := r.MakeFunc(sctypes.MakeFloat(), []*sctypes.Type{sctypes.MakeInt()})
	require.Nil(t, tab.Put(Symbol{Name: "f", Type: otherSig}), "different signature fails")
}

func TestFunctionCannotShadowVarAndViceVersa(t *testing.T) {
	r := sctypes.NewRegistry()
	tab := New()
	sig := r.MakeFunc(sctypes.MakeInt(), nil)

	require.NotNil(t, tab.Put(Symbol{Name: "x", Type: sctypes.MakeInt()}))
	require.Nil(t, tab.Put(Symbol{Name: "x", Type: sig}), "function can't shadow var in same scope")

	tab2 := New()
	require.NotNil(t, tab2.Put(Symbol{Name: "f", Type: sig}))
	require.Nil(t, tab2.Put(Symbol{Name: "f", Type: sctypes.MakeInt()}), "var can't shadow function in same scope")
}

func TestFunctionVisibleAcrossScopesForRedeclaration(t *testing.T) {
	r := sctypes.NewRegistry()
	tab := New()
	sig := r.MakeFunc(sctypes.MakeVoid(), nil)
	outer := tab.Put(Symbol{Name: "f", Type: sig})

	tab.BeginScope()
	inner := tab.Put(Symbol{Name: "f", Type: sig})
	require.Same(t, outer, inner, "re-declaration is visible from any nested scope")
	tab.EndScope()
}

func TestGlobals(t *testing.T) {
	tab := New()
	tab.Put(Symbol{Name: "a", Type: sctypes.MakeInt()})
	tab.Put(Symbol{Name: "b", Type: sctypes.MakeFloat()})
	tab.BeginScope()
	tab.Put(Symbol{Name: "c", Type: sctypes.MakeInt()})
	tab.EndScope()

	globals := tab.Globals()
	require.Len(t, globals, 2)
	require.Equal(t, "a", globals[0].Name)
	require.Equal(t, "b", globals[1].Name)
}

func TestEndScopeAtRootPanics(t *testing.T) {
	tab := New()
	require.Panics(t, func() { tab.EndScope() })
}
