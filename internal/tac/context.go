package tac

import (
	"fmt"

	"sclp/internal/ast"
	"sclp/internal/sctypes"
)

// LabelAllocator hands out unique label names across an entire compilation.
// One is shared by every function's Context so that no two labels in the
// emitted program ever collide, mirroring the single process-wide counter
// the system this is ported from keeps for the same reason.
type LabelAllocator struct {
	next int
}

func NewLabelAllocator() *LabelAllocator { return &LabelAllocator{} }

func (a *LabelAllocator) New() *Label {
	a.next++
	return &Label{Name: fmt.Sprintf("_L%d", a.next)}
}

// Context holds everything specific to generating TAC for one function:
// its temporary counters, its symbol-to-Sym table, frame-size bookkeeping,
// and the labels the current statement needs to branch to (return, and —
// while inside a loop body — break/continue).
type Context struct {
	labels *LabelAllocator

	nextTemp  int
	nextStemp int
	table     map[*ast.Symbol]*Sym

	ParamFrameSize int
	StackFrameSize int

	ReturnLabel *Label
	ReturnSym   *Sym

	BreakLabel    *Label
	ContinueLabel *Label

	// BreakUsed and ContinueUsed record whether a break/continue targeting
	// the current loop was actually lowered, so the generator can skip
	// emitting a label nothing jumps to.
	BreakUsed    bool
	ContinueUsed bool
}

func NewContext(labels *LabelAllocator) *Context {
	return &Context{labels: labels, table: make(map[*ast.Symbol]*Sym), StackFrameSize: 4, ParamFrameSize: 8}
}

// AddParam gives an incoming parameter its frame slot, in declaration
// order starting at offset 8 (past the saved $ra/$fp pair the callee's
// prologue pushes) and growing upward, matching the caller's argument
// push order.
func (c *Context) AddParam(sym *ast.Symbol) *Sym {
	s := &Sym{
		Name:     sym.Name,
		Ty:       sym.Type.TACType(),
		InMem:    true,
		FPOffset: c.ParamFrameSize,
	}
	c.ParamFrameSize += sym.Type.ByteSize()
	c.table[sym] = s
	return s
}

// GetSymbol returns the Sym for a local or global variable, allocating it
// a new frame slot on first use. Locals grow downward from the frame
// pointer starting at offset -4; globals live in the data segment and
// carry no frame offset.
func (c *Context) GetSymbol(sym *ast.Symbol) *Sym {
	if s, ok := c.table[sym]; ok {
		return s
	}
	s := &Sym{Name: sym.Name, Ty: sym.Type.TACType(), InMem: true, IsGlobal: sym.IsGlobal}
	if sym.IsGlobal {
		s.FPOffset = -1
	} else {
		sz := sym.Type.ByteSize()
		s.FPOffset = -(c.StackFrameSize + sz - 4)
		c.StackFrameSize += sz
	}
	c.table[sym] = s
	return s
}

// GetTemp allocates a fresh register-class temporary: a value live only
// across the statements between its definition and its uses, never given
// a frame slot of its own.
func (c *Context) GetTemp(ty sctypes.TACType) *Sym {
	c.nextTemp++
	return &Sym{Name: fmt.Sprintf("_t%d", c.nextTemp), Ty: ty}
}

// GetStemp allocates a "spilled temp": a temporary that, unlike an
// ordinary temp, must live at a fixed frame offset for the duration of
// the function (used for a function's return-value slot, and for a
// ternary's result, which must survive the join of its two arms).
func (c *Context) GetStemp(ty sctypes.TACType) *Sym {
	c.nextStemp++
	sz := tacTypeSize(ty)
	s := &Sym{
		Name:     fmt.Sprintf("_s%d", c.nextStemp),
		Ty:       ty,
		InMem:    true,
		FPOffset: -(c.StackFrameSize + sz - 4),
	}
	c.StackFrameSize += sz
	return s
}

func (c *Context) GetLabel() *Label { return c.labels.New() }

// tacTypeSize is the storage size of a TAC-level type tag, used where only
// the tag (not the full semantic type) is available.
func tacTypeSize(ty sctypes.TACType) int {
	if ty == sctypes.TACFloat {
		return 8
	}
	return 4
}
