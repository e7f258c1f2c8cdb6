package rtl

import "sclp/internal/diag"

// Fixed-role registers outside either allocation bank: the calling
// convention and the syscall ABI both reach for these by name rather than
// drawing them from the free pool.
var (
	RegV1   = &Register{Name: "v1"}   // int/ptr/string/bool return value
	RegA0   = &Register{Name: "a0"}   // syscall integer argument
	RegZero = &Register{Name: "zero"} // hardware-wired zero
	RegF0   = &Register{Name: "f0"}   // float return value
)

// RegisterPool is the set of general-purpose registers available for
// allocation within one function body. It is reset at the start of every
// function, never shared across functions: a register free at the end of
// one function carries no meaning into the next.
type RegisterPool struct {
	intNames   []string
	intUsed    []bool
	floatNames []string
	floatUsed  []bool

	// locked mirrors sentra's compregister.RegisterAllocator: a register
	// named here survives a Free call, so a sibling subexpression's
	// allocation traffic can't steal it out from under an in-flight
	// evaluation (e.g. the left operand of a binary op, locked while the
	// right operand is generated). Keyed by register name since, unlike
	// compregister's int-indexed banks, sclp draws from two disjoint
	// named banks.
	locked map[string]bool
}

func NewRegisterPool() *RegisterPool {
	p := &RegisterPool{
		intNames:   []string{"v0", "t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9", "s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7"},
		floatNames: []string{"f2", "f4", "f6", "f8", "f10", "f12", "f14", "f16", "f18", "f20", "f22", "f24", "f26", "f28", "f30"},
		locked:     make(map[string]bool),
	}
	p.intUsed = make([]bool, len(p.intNames))
	p.floatUsed = make([]bool, len(p.floatNames))
	return p
}

// Reset frees every register in both banks and clears all locks, to be
// called once per function before that function's RTL is generated.
func (p *RegisterPool) Reset() {
	for i := range p.intUsed {
		p.intUsed[i] = false
	}
	for i := range p.floatUsed {
		p.floatUsed[i] = false
	}
	for k := range p.locked {
		delete(p.locked, k)
	}
}

// Lock pins a register so Free becomes a no-op against it until Unlock.
func (p *RegisterPool) Lock(r *Register) {
	p.locked[r.Name] = true
}

// Unlock releases a previous Lock. It does not itself free the register.
func (p *RegisterPool) Unlock(r *Register) {
	delete(p.locked, r.Name)
}

func (p *RegisterPool) AllocInt() *Register {
	for i, used := range p.intUsed {
		if !used {
			p.intUsed[i] = true
			return &Register{Name: p.intNames[i]}
		}
	}
	diag.Assert(false, "rtl: out of integer registers")
	return nil
}

func (p *RegisterPool) AllocFloat() *Register {
	for i, used := range p.floatUsed {
		if !used {
			p.floatUsed[i] = true
			return &Register{Name: p.floatNames[i]}
		}
	}
	diag.Assert(false, "rtl: out of float registers")
	return nil
}

// Alloc picks the bank by TAC type: floats come from the float bank,
// everything else (bool/int/string/ptr) from the int bank.
func (p *RegisterPool) Alloc(float bool) *Register {
	if float {
		return p.AllocFloat()
	}
	return p.AllocInt()
}

// Free returns a register to its bank. Freeing a register that isn't
// pool-managed (v1, a0, zero, f0) is a harmless no-op, mirroring the
// reference allocator's behavior. Freeing a locked register is also a
// no-op until it is unlocked.
func (p *RegisterPool) Free(r *Register) {
	if p.locked[r.Name] {
		return
	}
	for i, name := range p.intNames {
		if name == r.Name {
			p.intUsed[i] = false
			return
		}
	}
	for i, name := range p.floatNames {
		if name == r.Name {
			p.floatUsed[i] = false
			return
		}
	}
}

// Allocated reports whether a named int-bank register is currently held.
func (p *RegisterPool) Allocated(name string) bool {
	for i, n := range p.intNames {
		if n == name {
			return p.intUsed[i]
		}
	}
	return false
}
