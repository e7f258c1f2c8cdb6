package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatWithoutAux(t *testing.T) {
	e := New(KindTypeMismatch, "foo.sc", 12, "cannot assign float to int")
	require.Equal(t, "sclp error: foo.sc:12\ncannot assign float to int", e.Error())
}

func TestErrorFormatWithAux(t *testing.T) {
	e := New(KindTypeMismatch, "foo.sc", 12, "cannot assign float to int").WithAux("found type float")
	require.Equal(t, "sclp error: foo.sc:12\ncannot assign float to int: found type float", e.Error())
}

func TestErrorFormatWithoutLocation(t *testing.T) {
	e := &Error{Message: "no location available"}
	require.Equal(t, "sclp error:\nno location available", e.Error())
}

func TestAssertPanicsInvariant(t *testing.T) {
	require.Panics(t, func() {
		Assert(false, "register bank %s exhausted", "int")
	})

	defer func() {
		r := recover()
		require.NotNil(t, r)
		inv, ok := r.(Invariant)
		require.True(t, ok)
		require.Contains(t, inv.Error(), "register bank int exhausted")
	}()
	Assert(false, "register bank %s exhausted", "int")
}

func TestAssertPassesThrough(t *testing.T) {
	require.NotPanics(t, func() {
		Assert(true, "unreachable")
	})
}
