package rtl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterPoolAllocatesDistinctNames(t *testing.T) {
	p := NewRegisterPool()
	a := p.AllocInt()
	b := p.AllocInt()
	require.NotEqual(t, a.Name, b.Name)
}

func TestRegisterPoolFreeAllowsReuse(t *testing.T) {
	p := NewRegisterPool()
	a := p.AllocInt()
	p.Free(a)
	b := p.AllocInt()
	require.Equal(t, a.Name, b.Name)
}

func TestRegisterPoolExhaustionPanics(t *testing.T) {
	p := NewRegisterPool()
	require.Panics(t, func() {
		for i := 0; i < 64; i++ {
			p.AllocInt()
		}
	})
}

func TestRegisterPoolResetClearsBothBanksAndLocks(t *testing.T) {
	p := NewRegisterPool()
	a := p.AllocInt()
	f := p.AllocFloat()
	p.Lock(a)
	p.Reset()
	require.False(t, p.Allocated(a.Name))
	// after Reset, a fresh Alloc should hand back the first pool slot again
	got := p.AllocInt()
	require.Equal(t, a.Name, got.Name)
	_ = f
}

func TestRegisterPoolLockPreventsFree(t *testing.T) {
	p := NewRegisterPool()
	a := p.AllocInt()
	p.Lock(a)
	p.Free(a)
	require.True(t, p.Allocated(a.Name), "a locked register must survive Free")

	p.Unlock(a)
	p.Free(a)
	require.False(t, p.Allocated(a.Name))
}

func TestRegisterPoolFreeingUnmanagedRegisterIsNoop(t *testing.T) {
	p := NewRegisterPool()
	require.NotPanics(t, func() {
		p.Free(RegV1)
		p.Free(RegZero)
	})
}

func TestRegisterPoolAllocPicksBankByType(t *testing.T) {
	p := NewRegisterPool()
	i := p.Alloc(false)
	f := p.Alloc(true)
	require.Equal(t, "v0", i.Name)
	require.Equal(t, "f2", f.Name)
}
