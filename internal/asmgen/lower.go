package asmgen

import (
	"sclp/internal/diag"
	"sclp/internal/rtl"
)

var fpReg = &Register{Name: "fp"}
var spReg = &Register{Name: "sp"}

func convReg(v rtl.Val) *Register {
	r, ok := v.(*rtl.Register)
	diag.Assert(ok, "asmgen: expected a register operand, got %T", v)
	return &Register{Name: r.Name}
}

func convVal(v rtl.Val) Val {
	switch t := v.(type) {
	case *rtl.Register:
		return &Register{Name: t.Name}
	case *rtl.IntLit:
		return &IntLit{Val: t.Val}
	case *rtl.FloatLit:
		return &FloatLit{Val: t.Val}
	case *rtl.Mem:
		return &Mem{Name: t.Name}
	}
	diag.Assert(false, "asmgen: unsupported operand %T", v)
	return nil
}

// memOperand picks how a Mem reference is addressed: a global by its
// data-segment label (offset -1, printed bare), a local/param/stemp by a
// $fp-relative offset.
func memOperand(m *rtl.Mem) (Val, int) {
	if m.IsGlobal {
		return &Mem{Name: m.Name}, -1
	}
	return fpReg, m.FPOffset
}

// Lower translates one function's RTL instruction stream into assembly
// instructions. funcName resolves the return statement's jump target,
// since RTL's ReturnStmt carries no label of its own — the epilogue jump
// is synthesized here, the way the reference compiler threads the
// function currently being emitted through this same pass.
func Lower(stmts []rtl.Stmt, funcName string) []Stmt {
	var out []Stmt
	emit := func(s Stmt) { out = append(out, s) }

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *rtl.LabelStmt:
			emit(&LabelStmt{Label: s.Name})
		case *rtl.GotoStmt:
			emit(&JStmt{Label: s.Label.Name})
		case *rtl.BGTZStmt:
			emit(&BGTZStmt{Reg: convReg(s.Reg), Label: s.Label.Name})
		case *rtl.WriteStmt:
			emit(&SyscallStmt{})
		case *rtl.ReadStmt:
			emit(&SyscallStmt{})
		case *rtl.CallStmt:
			emit(&JalStmt{FuncName: s.FuncName})
		case *rtl.AssignCallStmt:
			emit(&JalStmt{FuncName: s.FuncName})
		case *rtl.CallPtrStmt:
			emit(&JalrStmt{FuncPtr: convReg(s.FuncPtr)})
		case *rtl.AssignCallPtrStmt:
			emit(&JalrStmt{FuncPtr: convReg(s.FuncPtr)})
		case *rtl.ReturnStmt:
			emit(&JStmt{Label: "epilogue_" + funcName})
		case *rtl.PopStmt:
			n := int64(4)
			if s.IsFloat {
				n = 8
			}
			emit(NewAddStmt(spReg, spReg, &IntLit{Val: n}))
		case *rtl.PushStmt:
			reg := convReg(s.Reg)
			if s.IsFloat {
				emit(NewSDStmt(reg, spReg, -4))
				emit(NewSubStmt(spReg, spReg, &IntLit{Val: 8}))
			} else {
				emit(NewSWStmt(reg, spReg, 0))
				emit(NewSubStmt(spReg, spReg, &IntLit{Val: 4}))
			}
		case *rtl.MoveStmt:
			emit(NewMovStmt(convReg(s.Lhs), convReg(s.Rhs)))
		case *rtl.MoveDStmt:
			emit(NewMovDStmt(convReg(s.Lhs), convReg(s.Rhs)))
		case *rtl.LoadStmt:
			m := s.Rhs.(*rtl.Mem)
			v, off := memOperand(m)
			emit(NewLWStmt(convReg(s.Lhs), v, off))
		case *rtl.ILoadStmt:
			emit(&LIStmt{Reg: convReg(s.Lhs), Val: s.Rhs.(*rtl.IntLit).Val})
		case *rtl.LoadDStmt:
			m := s.Rhs.(*rtl.Mem)
			v, off := memOperand(m)
			emit(NewLDStmt(convReg(s.Lhs), v, off))
		case *rtl.ILoadDStmt:
			emit(&LIDStmt{Reg: convReg(s.Lhs), Val: s.Rhs.(*rtl.FloatLit).Val})
		case *rtl.LoadAddrStmt:
			m := s.Rhs.(*rtl.Mem)
			emit(&LAStmt{Reg: convReg(s.Lhs), Mem: &Mem{Name: m.Name}})
		case *rtl.StoreStmt:
			m := s.Lhs.(*rtl.Mem)
			v, off := memOperand(m)
			emit(NewSWStmt(convReg(s.Rhs), v, off))
		case *rtl.StoreDStmt:
			m := s.Lhs.(*rtl.Mem)
			v, off := memOperand(m)
			emit(NewSDStmt(convReg(s.Rhs), v, off))
		case *rtl.UMinusStmt:
			emit(NewNegStmt(convReg(s.Lhs), convReg(s.Rhs)))
		case *rtl.UMinusDStmt:
			emit(NewNegDStmt(convReg(s.Lhs), convReg(s.Rhs)))
		case *rtl.NotStmt:
			emit(NewXorIStmt(convReg(s.Lhs), convVal(s.Rhs), &IntLit{Val: 1}))
		case *rtl.SLTDStmt:
			emit(NewCLTDStmt(convReg(s.Lhs), convReg(s.Rhs)))
		case *rtl.SLEDStmt:
			emit(NewCLEDStmt(convReg(s.Lhs), convReg(s.Rhs)))
		case *rtl.SEQDStmt:
			emit(NewCEQDStmt(convReg(s.Lhs), convReg(s.Rhs)))
		case *rtl.GetAddrStmt:
			m := s.Rhs.(*rtl.Mem)
			v, off := memOperand(m)
			emit(&LAAddrStmt{Reg: convReg(s.Lhs), Val: v, Offset: off})
		case *rtl.DerefStmt:
			emit(&DerefStmt{Reg1: convReg(s.Lhs), Reg2: convReg(s.Rhs)})
		case *rtl.DerefDStmt:
			emit(&DerefDStmt{Reg1: convReg(s.Lhs), Reg2: convReg(s.Rhs)})
		case *rtl.AddrAssignStmt:
			emit(&DRFSStmt{Reg1: convReg(s.Lhs), Reg2: convReg(s.Rhs)})
		case *rtl.AddrAssignDStmt:
			emit(&DRFSDStmt{Reg1: convReg(s.Lhs), Reg2: convReg(s.Rhs)})
		case *rtl.AddStmt:
			emit(NewAddStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.AddDStmt:
			emit(NewAddDStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.SubStmt:
			emit(NewSubStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.SubDStmt:
			emit(NewSubDStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.MulStmt:
			emit(NewMulStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.MulDStmt:
			emit(NewMulDStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.DivStmt:
			emit(NewDivStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.DivDStmt:
			emit(NewDivDStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.SLTStmt:
			emit(NewSLTStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.SLEStmt:
			emit(NewSLEStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.SGTStmt:
			emit(NewSGTStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.SGEStmt:
			emit(NewSGEStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.SEQStmt:
			emit(NewSEQStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.SNEStmt:
			emit(NewSNEStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.OrStmt:
			emit(NewOrStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.AndStmt:
			emit(NewAndStmt(convReg(s.Lhs), convVal(s.Rhs), convVal(s.RRhs)))
		case *rtl.MovTStmt:
			emit(NewMovTStmt(convReg(s.Lhs), convReg(s.Rhs), &IntLit{Val: s.RRhs.(*rtl.IntLit).Val}))
		case *rtl.MovFStmt:
			emit(NewMovFStmt(convReg(s.Lhs), convReg(s.Rhs), &IntLit{Val: s.RRhs.(*rtl.IntLit).Val}))
		default:
			diag.Assert(false, "asmgen: unhandled RTL statement %T", stmt)
		}
	}
	return out
}
