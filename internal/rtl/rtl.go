// Package rtl defines the register-transfer-level intermediate
// representation this compiler lowers three-address code into, and the
// Generator that performs that lowering. Unlike TAC, every RTL value has
// already been assigned a concrete (if still symbolic) machine register or
// memory location; the assembly emitter's job is purely textual from here.
package rtl

import (
	"fmt"
	"io"
)

// Val is an RTL operand: a register, a memory reference, or a literal.
type Val interface {
	Print(w io.Writer)
}

type Register struct{ Name string }

func (r *Register) Print(w io.Writer) { fmt.Fprint(w, r.Name) }

// Mem is a named memory location: a global variable's data-segment label,
// or a local's/stemp's/param's frame-pointer-relative slot. Only Name is
// used when printing RTL dump output; IsGlobal and FPOffset are consumed
// later, by the assembly emitter.
type Mem struct {
	Name     string
	IsGlobal bool
	FPOffset int
}

func (m *Mem) Print(w io.Writer) { fmt.Fprint(w, m.Name) }

type IntLit struct{ Val int64 }

func (l *IntLit) Print(w io.Writer) { fmt.Fprintf(w, "%d", l.Val) }

type FloatLit struct{ Val float64 }

// Print renders with two decimal places: this value only ever reaches the
// textual .rtl dump (the assembly emitter lowers through asmgen.FloatLit
// instead), and that dump format fixes float precision at two places.
func (l *FloatLit) Print(w io.Writer) { fmt.Fprintf(w, "%.2f", l.Val) }

type StrLit struct{ Val string }

func (l *StrLit) Print(w io.Writer) { fmt.Fprintf(w, "%q", l.Val) }

// Label names a program point. A GotoStmt/BGTZStmt branches to one by name,
// not by pointer identity, mirroring how this is ported: it wraps a bare
// name string, not a reference to wherever that name was declared.
type Label struct{ Name string }

// Stmt is one RTL instruction.
type Stmt interface {
	Print(w io.Writer)
}

type LabelStmt struct{ Name string }

func (s *LabelStmt) Print(w io.Writer) { fmt.Fprintf(w, "\n  %s:      \n", s.Name) }

type GotoStmt struct{ Label *Label }

func (s *GotoStmt) Print(w io.Writer) { fmt.Fprintf(w, "\tgoto:        %s\n", s.Label.Name) }

type BGTZStmt struct {
	Reg   *Register
	Label *Label
}

func (s *BGTZStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tbgtz:        ")
	s.Reg.Print(w)
	fmt.Fprintf(w, " , %s\n", s.Label.Name)
}

type WriteStmt struct{}

func (s *WriteStmt) Print(w io.Writer) { fmt.Fprint(w, "\twrite        \n") }

type ReadStmt struct{}

func (s *ReadStmt) Print(w io.Writer) { fmt.Fprint(w, "\tread         \n") }

type CallStmt struct{ FuncName string }

func (s *CallStmt) Print(w io.Writer) { fmt.Fprintf(w, "\tcall %s\n", s.FuncName) }

type AssignCallStmt struct {
	Reg      *Register
	FuncName string
}

func (s *AssignCallStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\t")
	s.Reg.Print(w)
	fmt.Fprintf(w, " = call %s\n", s.FuncName)
}

type CallPtrStmt struct{ FuncPtr *Register }

func (s *CallPtrStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tcallptr ")
	s.FuncPtr.Print(w)
	fmt.Fprint(w, "\n")
}

type AssignCallPtrStmt struct {
	Reg     *Register
	FuncPtr *Register
}

func (s *AssignCallPtrStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\t")
	s.Reg.Print(w)
	fmt.Fprint(w, " = callptr ")
	s.FuncPtr.Print(w)
	fmt.Fprint(w, "\n")
}

// ReturnStmt marks a function's value-bearing exit point; Reg is nil for a
// void function. The jump to the function's epilogue label is synthesized
// by the assembly emitter, which alone tracks which function is currently
// being emitted.
type ReturnStmt struct{ Reg *Register }

func (s *ReturnStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\treturn      ")
	if s.Reg != nil {
		s.Reg.Print(w)
	}
	fmt.Fprint(w, "\n")
}

type PopStmt struct{ IsFloat bool }

func (s *PopStmt) Print(w io.Writer) { fmt.Fprint(w, "\tpop\n") }

type PushStmt struct {
	Reg     *Register
	IsFloat bool
}

func (s *PushStmt) Print(w io.Writer) {
	fmt.Fprint(w, "\tpush:        ")
	s.Reg.Print(w)
	fmt.Fprint(w, "\n")
}

// binaryStmt factors the "lhs <- rhs" print shape shared by every two-
// operand instruction (moves and loads/stores).
type binaryStmt struct {
	cmd, op  string
	Lhs, Rhs Val
}

func (s *binaryStmt) Print(w io.Writer) {
	fmt.Fprint(w, s.cmd)
	s.Lhs.Print(w)
	fmt.Fprintf(w, " %s ", s.op)
	s.Rhs.Print(w)
	fmt.Fprint(w, "\n")
}

func newBinary(cmd, op string, lhs, rhs Val) binaryStmt {
	return binaryStmt{cmd: cmd, op: op, Lhs: lhs, Rhs: rhs}
}

type MoveStmt struct{ binaryStmt }

func NewMoveStmt(l, r Val) *MoveStmt { return &MoveStmt{newBinary("\tmove:        ", "<-", l, r)} }

type MoveDStmt struct{ binaryStmt }

func NewMoveDStmt(l, r Val) *MoveDStmt {
	return &MoveDStmt{newBinary("\tmove.d:      ", "<-", l, r)}
}

type LoadStmt struct{ binaryStmt }

func NewLoadStmt(l, r Val) *LoadStmt { return &LoadStmt{newBinary("\tload:        ", "<-", l, r)} }

type ILoadStmt struct{ binaryStmt }

func NewILoadStmt(l, r Val) *ILoadStmt {
	return &ILoadStmt{newBinary("\tiLoad:       ", "<-", l, r)}
}

type LoadDStmt struct{ binaryStmt }

func NewLoadDStmt(l, r Val) *LoadDStmt {
	return &LoadDStmt{newBinary("\tload.d:      ", "<-", l, r)}
}

type ILoadDStmt struct{ binaryStmt }

func NewILoadDStmt(l, r Val) *ILoadDStmt {
	return &ILoadDStmt{newBinary("\tiLoad.d:     ", "<-", l, r)}
}

type LoadAddrStmt struct{ binaryStmt }

func NewLoadAddrStmt(l, r Val) *LoadAddrStmt {
	return &LoadAddrStmt{newBinary("\tload_addr:   ", "<-", l, r)}
}

type StoreStmt struct{ binaryStmt }

func NewStoreStmt(l, r Val) *StoreStmt {
	return &StoreStmt{newBinary("\tstore:       ", "<-", l, r)}
}

type StoreDStmt struct{ binaryStmt }

func NewStoreDStmt(l, r Val) *StoreDStmt {
	return &StoreDStmt{newBinary("\tstore.d:     ", "<-", l, r)}
}

type UMinusStmt struct{ binaryStmt }

func NewUMinusStmt(l, r Val) *UMinusStmt {
	return &UMinusStmt{newBinary("\tuminus:      ", "<-", l, r)}
}

type UMinusDStmt struct{ binaryStmt }

func NewUMinusDStmt(l, r Val) *UMinusDStmt {
	return &UMinusDStmt{newBinary("\tuminus.d:    ", "<-", l, r)}
}

type NotStmt struct{ binaryStmt }

func NewNotStmt(l, r Val) *NotStmt { return &NotStmt{newBinary("\tnot:         ", "<-", l, r)} }

type SLTDStmt struct{ binaryStmt }

func NewSLTDStmt(l, r Val) *SLTDStmt { return &SLTDStmt{newBinary("\tslt.d:       ", ",", l, r)} }

type SLEDStmt struct{ binaryStmt }

func NewSLEDStmt(l, r Val) *SLEDStmt { return &SLEDStmt{newBinary("\tsle.d:       ", ",", l, r)} }

type SEQDStmt struct{ binaryStmt }

func NewSEQDStmt(l, r Val) *SEQDStmt { return &SEQDStmt{newBinary("\tseq.d:       ", ",", l, r)} }

type GetAddrStmt struct{ binaryStmt }

func NewGetAddrStmt(l, r Val) *GetAddrStmt {
	return &GetAddrStmt{newBinary("\tget_addr:    ", "<-", l, r)}
}

type DerefStmt struct{ binaryStmt }

func NewDerefStmt(l, r Val) *DerefStmt { return &DerefStmt{newBinary("\tderef:       ", "<-", l, r)} }

type DerefDStmt struct{ binaryStmt }

func NewDerefDStmt(l, r Val) *DerefDStmt {
	return &DerefDStmt{newBinary("\tderef.d:     ", "<-", l, r)}
}

type AddrAssignStmt struct{ binaryStmt }

func NewAddrAssignStmt(l, r Val) *AddrAssignStmt {
	return &AddrAssignStmt{newBinary("\tdrfs:        ", "*<-", l, r)}
}

type AddrAssignDStmt struct{ binaryStmt }

func NewAddrAssignDStmt(l, r Val) *AddrAssignDStmt {
	return &AddrAssignDStmt{newBinary("\tdrfs.d:      ", "*<-", l, r)}
}

// ternaryStmt factors the "lhs <- rhs op2 rrhs" print shape shared by every
// three-operand arithmetic, comparison, and conditional-move instruction.
type ternaryStmt struct {
	cmd, op1, op2  string
	Lhs, Rhs, RRhs Val
}

func (s *ternaryStmt) Print(w io.Writer) {
	fmt.Fprint(w, s.cmd)
	s.Lhs.Print(w)
	fmt.Fprintf(w, " %s ", s.op1)
	s.Rhs.Print(w)
	fmt.Fprintf(w, " %s ", s.op2)
	s.RRhs.Print(w)
	fmt.Fprint(w, "\n")
}

func newTernary(cmd, op1, op2 string, l, r, rr Val) ternaryStmt {
	return ternaryStmt{cmd: cmd, op1: op1, op2: op2, Lhs: l, Rhs: r, RRhs: rr}
}

type AddStmt struct{ ternaryStmt }

func NewAddStmt(l, r, rr Val) *AddStmt {
	return &AddStmt{newTernary("\tadd:         ", "<-", ",", l, r, rr)}
}

type AddDStmt struct{ ternaryStmt }

func NewAddDStmt(l, r, rr Val) *AddDStmt {
	return &AddDStmt{newTernary("\tadd.d:       ", "<-", ",", l, r, rr)}
}

type SubStmt struct{ ternaryStmt }

func NewSubStmt(l, r, rr Val) *SubStmt {
	return &SubStmt{newTernary("\tsub:         ", "<-", ",", l, r, rr)}
}

type SubDStmt struct{ ternaryStmt }

func NewSubDStmt(l, r, rr Val) *SubDStmt {
	return &SubDStmt{newTernary("\tsub.d:       ", "<-", ",", l, r, rr)}
}

type MulStmt struct{ ternaryStmt }

func NewMulStmt(l, r, rr Val) *MulStmt {
	return &MulStmt{newTernary("\tmul:         ", "<-", ",", l, r, rr)}
}

type MulDStmt struct{ ternaryStmt }

func NewMulDStmt(l, r, rr Val) *MulDStmt {
	return &MulDStmt{newTernary("\tmul.d:       ", "<-", ",", l, r, rr)}
}

type DivStmt struct{ ternaryStmt }

func NewDivStmt(l, r, rr Val) *DivStmt {
	return &DivStmt{newTernary("\tdiv:         ", "<-", ",", l, r, rr)}
}

type DivDStmt struct{ ternaryStmt }

func NewDivDStmt(l, r, rr Val) *DivDStmt {
	return &DivDStmt{newTernary("\tdiv.d:       ", "<-", ",", l, r, rr)}
}

type SLTStmt struct{ ternaryStmt }

func NewSLTStmt(l, r, rr Val) *SLTStmt {
	return &SLTStmt{newTernary("\tslt:         ", "<-", ",", l, r, rr)}
}

type SLEStmt struct{ ternaryStmt }

func NewSLEStmt(l, r, rr Val) *SLEStmt {
	return &SLEStmt{newTernary("\tsle:         ", "<-", ",", l, r, rr)}
}

type SGTStmt struct{ ternaryStmt }

func NewSGTStmt(l, r, rr Val) *SGTStmt {
	return &SGTStmt{newTernary("\tsgt:         ", "<-", ",", l, r, rr)}
}

type SGEStmt struct{ ternaryStmt }

func NewSGEStmt(l, r, rr Val) *SGEStmt {
	return &SGEStmt{newTernary("\tsge:         ", "<-", ",", l, r, rr)}
}

type SEQStmt struct{ ternaryStmt }

func NewSEQStmt(l, r, rr Val) *SEQStmt {
	return &SEQStmt{newTernary("\tseq:         ", "<-", ",", l, r, rr)}
}

type SNEStmt struct{ ternaryStmt }

func NewSNEStmt(l, r, rr Val) *SNEStmt {
	return &SNEStmt{newTernary("\tsne:         ", "<-", ",", l, r, rr)}
}

type OrStmt struct{ ternaryStmt }

func NewOrStmt(l, r, rr Val) *OrStmt {
	return &OrStmt{newTernary("\tor:          ", "<-", ",", l, r, rr)}
}

type AndStmt struct{ ternaryStmt }

func NewAndStmt(l, r, rr Val) *AndStmt {
	return &AndStmt{newTernary("\tand:         ", "<-", ",", l, r, rr)}
}

type MovTStmt struct{ ternaryStmt }

func NewMovTStmt(l, r, rr Val) *MovTStmt {
	return &MovTStmt{newTernary("\tmovt:        ", "<-", ",", l, r, rr)}
}

type MovFStmt struct{ ternaryStmt }

func NewMovFStmt(l, r, rr Val) *MovFStmt {
	return &MovFStmt{newTernary("\tmovf:        ", "<-", ",", l, r, rr)}
}
