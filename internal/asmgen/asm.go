// Package asmgen lowers RTL into SPIM/MIPS assembly text: the register-
// transfer level's symbolic registers and memory references become
// concrete MIPS operand syntax, and the fixed per-function prologue/
// epilogue and the data segment are assembled around the instruction
// stream.
package asmgen

import (
	"fmt"
	"io"
)

// Val is an assembly operand.
type Val interface {
	Print(w io.Writer)
}

type Register struct{ Name string }

func (r *Register) Print(w io.Writer) { fmt.Fprintf(w, "$%s", r.Name) }

// Mem is a data-segment label, printed bare (its address is what the label
// itself denotes in SPIM's assembler).
type Mem struct{ Name string }

func (m *Mem) Print(w io.Writer) { fmt.Fprint(w, m.Name) }

type IntLit struct{ Val int64 }

func (l *IntLit) Print(w io.Writer) { fmt.Fprintf(w, "%d", l.Val) }

type FloatLit struct{ Val float64 }

func (l *FloatLit) Print(w io.Writer) { fmt.Fprintf(w, "%g", l.Val) }

// Stmt is one line of assembly.
type Stmt interface {
	Print(w io.Writer)
}

type LabelStmt struct{ Label string }

func (s *LabelStmt) Print(w io.Writer) { fmt.Fprintf(w, "%s:\n", s.Label) }

type SyscallStmt struct{}

func (s *SyscallStmt) Print(w io.Writer) { fmt.Fprint(w, "\tsyscall\n") }

type JRStmt struct{ Reg *Register }

func (s *JRStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tjr ")
	s.Reg.Print(w)
	fmt.Fprint(w, "\n")
}

type JStmt struct{ Label string }

func (s *JStmt) Print(w io.Writer) { fmt.Fprintf(w, "\tj %s\n", s.Label) }

type JalStmt struct{ FuncName string }

func (s *JalStmt) Print(w io.Writer) { fmt.Fprintf(w, "\tjal %s\n", s.FuncName) }

type JalrStmt struct{ FuncPtr *Register }

func (s *JalrStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tjalr ")
	s.FuncPtr.Print(w)
	fmt.Fprint(w, "\n")
}

type BGTZStmt struct {
	Reg   *Register
	Label string
}

func (s *BGTZStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tbgtz ")
	s.Reg.Print(w)
	fmt.Fprintf(w, ", %s\n", s.Label)
}

type twoRegStmt struct {
	mnemonic string
	Reg1, Reg2 *Register
}

func (s *twoRegStmt) Print(w io.Writer) {
	fmt.Fprintf(w, "\t%s ", s.mnemonic)
	s.Reg1.Print(w)
	fmt.Fprint(w, ", ")
	s.Reg2.Print(w)
	fmt.Fprint(w, "\n")
}

type NegStmt struct{ twoRegStmt }

func NewNegStmt(r1, r2 *Register) *NegStmt { return &NegStmt{twoRegStmt{"neg", r1, r2}} }

type NegDStmt struct{ twoRegStmt }

func NewNegDStmt(r1, r2 *Register) *NegDStmt { return &NegDStmt{twoRegStmt{"neg.d", r1, r2}} }

type MovStmt struct{ twoRegStmt }

func NewMovStmt(r1, r2 *Register) *MovStmt { return &MovStmt{twoRegStmt{"move", r1, r2}} }

type MovDStmt struct{ twoRegStmt }

func NewMovDStmt(r1, r2 *Register) *MovDStmt { return &MovDStmt{twoRegStmt{"mov.d", r1, r2}} }

type CLTDStmt struct{ twoRegStmt }

func NewCLTDStmt(r1, r2 *Register) *CLTDStmt { return &CLTDStmt{twoRegStmt{"c.lt.d", r1, r2}} }

type CLEDStmt struct{ twoRegStmt }

func NewCLEDStmt(r1, r2 *Register) *CLEDStmt { return &CLEDStmt{twoRegStmt{"c.le.d", r1, r2}} }

type CEQDStmt struct{ twoRegStmt }

func NewCEQDStmt(r1, r2 *Register) *CEQDStmt { return &CEQDStmt{twoRegStmt{"c.eq.d", r1, r2}} }

type DerefStmt struct {
	Reg1, Reg2 *Register
}

func (s *DerefStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tlw ")
	s.Reg1.Print(w)
	fmt.Fprint(w, ", 0(")
	s.Reg2.Print(w)
	fmt.Fprint(w, ")\n")
}

type DerefDStmt struct {
	Reg1, Reg2 *Register
}

func (s *DerefDStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tl.d ")
	s.Reg1.Print(w)
	fmt.Fprint(w, ", 0(")
	s.Reg2.Print(w)
	fmt.Fprint(w, ")\n")
}

// DRFSStmt/DRFSDStmt write through a pointer: operand order is reversed
// relative to Deref/DerefD (Reg2's value is stored at the address in
// Reg1), matching the reference compiler's convention.
type DRFSStmt struct {
	Reg1, Reg2 *Register
}

func (s *DRFSStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tsw ")
	s.Reg2.Print(w)
	fmt.Fprint(w, ", 0(")
	s.Reg1.Print(w)
	fmt.Fprint(w, ")\n")
}

type DRFSDStmt struct {
	Reg1, Reg2 *Register
}

func (s *DRFSDStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\ts.d ")
	s.Reg2.Print(w)
	fmt.Fprint(w, ", 0(")
	s.Reg1.Print(w)
	fmt.Fprint(w, ")\n")
}

// memStmt factors sw/s.d/lw/l.d's shared "offset(operand)" print shape,
// where an offset of -1 means "print the operand bare" (used for globals,
// which are referenced by label rather than by $fp-relative offset).
type memStmt struct {
	mnemonic string
	Reg      *Register
	Operand  Val
	Offset   int
}

func (s *memStmt) Print(w io.Writer) {
	fmt.Fprintf(w, "\t%s ", s.mnemonic)
	s.Reg.Print(w)
	fmt.Fprint(w, ", ")
	if s.Offset == -1 {
		s.Operand.Print(w)
	} else {
		fmt.Fprintf(w, "%d(", s.Offset)
		s.Operand.Print(w)
		fmt.Fprint(w, ")")
	}
	fmt.Fprint(w, "\n")
}

type SWStmt struct{ memStmt }

func NewSWStmt(r *Register, v Val, off int) *SWStmt { return &SWStmt{memStmt{"sw", r, v, off}} }

type SDStmt struct{ memStmt }

func NewSDStmt(r *Register, v Val, off int) *SDStmt { return &SDStmt{memStmt{"s.d", r, v, off}} }

type LWStmt struct{ memStmt }

func NewLWStmt(r *Register, v Val, off int) *LWStmt { return &LWStmt{memStmt{"lw", r, v, off}} }

type LDStmt struct{ memStmt }

func NewLDStmt(r *Register, v Val, off int) *LDStmt { return &LDStmt{memStmt{"l.d", r, v, off}} }

type LIStmt struct {
	Reg *Register
	Val int64
}

func (s *LIStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tli ")
	s.Reg.Print(w)
	fmt.Fprintf(w, ", %d\n", s.Val)
}

type LIDStmt struct {
	Reg *Register
	Val float64
}

func (s *LIDStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tli.d ")
	s.Reg.Print(w)
	fmt.Fprintf(w, ", %g\n", s.Val)
}

type LAStmt struct {
	Reg *Register
	Mem *Mem
}

func (s *LAStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tla ")
	s.Reg.Print(w)
	fmt.Fprint(w, ", ")
	s.Mem.Print(w)
	fmt.Fprint(w, "\n")
}

// LAAddrStmt computes the address of a $fp-relative local, as opposed to
// LAStmt's data-segment label address.
type LAAddrStmt struct {
	Reg    *Register
	Val    Val
	Offset int
}

func (s *LAAddrStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tla ")
	s.Reg.Print(w)
	fmt.Fprint(w, ", ")
	if s.Offset == -1 {
		s.Val.Print(w)
	} else {
		fmt.Fprintf(w, "%d($fp)", s.Offset)
	}
	fmt.Fprint(w, "\n")
}

// threeOpStmt factors every "reg, val1, val2" arithmetic/comparison/
// logical instruction's print shape.
type threeOpStmt struct {
	mnemonic   string
	Reg        *Register
	Val1, Val2 Val
}

func (s *threeOpStmt) Print(w io.Writer) {
	fmt.Fprintf(w, "\t%s ", s.mnemonic)
	s.Reg.Print(w)
	fmt.Fprint(w, ", ")
	s.Val1.Print(w)
	fmt.Fprint(w, ", ")
	s.Val2.Print(w)
	fmt.Fprint(w, "\n")
}

func newThreeOp(mnemonic string, reg *Register, v1, v2 Val) threeOpStmt {
	return threeOpStmt{mnemonic: mnemonic, Reg: reg, Val1: v1, Val2: v2}
}

type AddStmt struct{ threeOpStmt }

func NewAddStmt(r *Register, v1, v2 Val) *AddStmt { return &AddStmt{newThreeOp("add", r, v1, v2)} }

type AddDStmt struct{ threeOpStmt }

func NewAddDStmt(r *Register, v1, v2 Val) *AddDStmt {
	return &AddDStmt{newThreeOp("add.d", r, v1, v2)}
}

type SubStmt struct{ threeOpStmt }

func NewSubStmt(r *Register, v1, v2 Val) *SubStmt { return &SubStmt{newThreeOp("sub", r, v1, v2)} }

type SubDStmt struct{ threeOpStmt }

func NewSubDStmt(r *Register, v1, v2 Val) *SubDStmt {
	return &SubDStmt{newThreeOp("sub.d", r, v1, v2)}
}

type MulStmt struct{ threeOpStmt }

func NewMulStmt(r *Register, v1, v2 Val) *MulStmt { return &MulStmt{newThreeOp("mul", r, v1, v2)} }

type MulDStmt struct{ threeOpStmt }

func NewMulDStmt(r *Register, v1, v2 Val) *MulDStmt {
	return &MulDStmt{newThreeOp("mul.d", r, v1, v2)}
}

type DivStmt struct{ threeOpStmt }

func NewDivStmt(r *Register, v1, v2 Val) *DivStmt { return &DivStmt{newThreeOp("div", r, v1, v2)} }

type DivDStmt struct{ threeOpStmt }

func NewDivDStmt(r *Register, v1, v2 Val) *DivDStmt {
	return &DivDStmt{newThreeOp("div.d", r, v1, v2)}
}

type SLTStmt struct{ threeOpStmt }

func NewSLTStmt(r *Register, v1, v2 Val) *SLTStmt { return &SLTStmt{newThreeOp("slt", r, v1, v2)} }

type SLEStmt struct{ threeOpStmt }

func NewSLEStmt(r *Register, v1, v2 Val) *SLEStmt { return &SLEStmt{newThreeOp("sle", r, v1, v2)} }

type SGTStmt struct{ threeOpStmt }

func NewSGTStmt(r *Register, v1, v2 Val) *SGTStmt { return &SGTStmt{newThreeOp("sgt", r, v1, v2)} }

type SGEStmt struct{ threeOpStmt }

func NewSGEStmt(r *Register, v1, v2 Val) *SGEStmt { return &SGEStmt{newThreeOp("sge", r, v1, v2)} }

type SNEStmt struct{ threeOpStmt }

func NewSNEStmt(r *Register, v1, v2 Val) *SNEStmt { return &SNEStmt{newThreeOp("sne", r, v1, v2)} }

type SEQStmt struct{ threeOpStmt }

func NewSEQStmt(r *Register, v1, v2 Val) *SEQStmt { return &SEQStmt{newThreeOp("seq", r, v1, v2)} }

type OrStmt struct{ threeOpStmt }

func NewOrStmt(r *Register, v1, v2 Val) *OrStmt { return &OrStmt{newThreeOp("or", r, v1, v2)} }

type AndStmt struct{ threeOpStmt }

func NewAndStmt(r *Register, v1, v2 Val) *AndStmt { return &AndStmt{newThreeOp("and", r, v1, v2)} }

type XorIStmt struct{ threeOpStmt }

func NewXorIStmt(r *Register, v1, v2 Val) *XorIStmt {
	return &XorIStmt{newThreeOp("xori", r, v1, v2)}
}

type condMoveStmt struct {
	mnemonic   string
	Reg1, Reg2 *Register
	Val        *IntLit
}

func (s *condMoveStmt) Print(w io.Writer) {
	fmt.Fprintf(w, "\t%s ", s.mnemonic)
	s.Reg1.Print(w)
	fmt.Fprint(w, ", ")
	s.Reg2.Print(w)
	fmt.Fprint(w, ", ")
	s.Val.Print(w)
	fmt.Fprint(w, "\n")
}

type MovTStmt struct{ condMoveStmt }

func NewMovTStmt(r1, r2 *Register, v *IntLit) *MovTStmt {
	return &MovTStmt{condMoveStmt{"movt", r1, r2, v}}
}

type MovFStmt struct{ condMoveStmt }

func NewMovFStmt(r1, r2 *Register, v *IntLit) *MovFStmt {
	return &MovFStmt{condMoveStmt{"movf", r1, r2, v}}
}
