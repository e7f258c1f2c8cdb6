package rtl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringPoolDedupesRepeatedLiterals(t *testing.T) {
	p := NewStringPool()
	id1 := p.GetStringID("hello")
	id2 := p.GetStringID("hello")
	require.Equal(t, id1, id2)
	require.Len(t, p.Entries(), 1)
}

func TestStringPoolAssignsSequentialIDs(t *testing.T) {
	p := NewStringPool()
	require.Equal(t, "_str_0", p.GetStringID("a"))
	require.Equal(t, "_str_1", p.GetStringID("b"))
	require.Equal(t, "_str_0", p.GetStringID("a"))
	require.Equal(t, []string{"a", "b"}, p.Entries())
}
