package rtl

import (
	"sclp/internal/diag"
	"sclp/internal/sctypes"
	"sclp/internal/tac"
)

// Generate lowers a complete TAC program into RTL. strs is the process-wide
// string pool the lexer already populated; functions share one
// RegisterPool but it is reset between them, since a register free at the
// end of one function carries no meaning into the next.
func Generate(prog *tac.Program, strs *StringPool) *Program {
	globals := make([]*Global, len(prog.Globals))
	for i, g := range prog.Globals {
		globals[i] = &Global{Name: g.Name, Float: g.Ty == sctypes.TACFloat}
	}

	regs := NewRegisterPool()
	functions := make([]*Function, len(prog.Functions))
	for i, fn := range prog.Functions {
		regs.Reset()
		g := &Generator{regs: regs, strs: strs, regOf: make(map[*tac.Sym]*Register)}
		for _, stmt := range fn.Body {
			stmt.Accept(g)
		}
		functions[i] = &Function{Name: fn.Name, Body: g.out, StackFrameSize: fn.StackFrameSize}
	}
	return &Program{Globals: globals, Functions: functions}
}

// Generator implements tac.ExprVisitor and tac.StmtVisitor, lowering one
// function's TAC statement stream into RTL. regOf replaces the mutable
// per-node "reg" field the system this is ported from caches a
// materialized register on: Go's tac package must not import rtl (rtl
// already imports tac for its IR), so the cache lives here instead, keyed
// by the *tac.Sym pointer whose value it holds.
type Generator struct {
	regs  *RegisterPool
	strs  *StringPool
	out   []Stmt
	regOf map[*tac.Sym]*Register
}

func (g *Generator) emit(s Stmt) { g.out = append(g.out, s) }

func (g *Generator) mem(s *tac.Sym) *Mem {
	return &Mem{Name: s.Name, IsGlobal: s.IsGlobal, FPOffset: s.FPOffset}
}

// materialize evaluates any TAC value into a register. For a register-
// class symbol (one not already resolved through a prior Accept) this
// goes through the normal dispatch rather than trusting a field that
// might be stale or unset — a deliberate hardening of the reference
// compiler's DerefExpr/AddrAssignStmt lowering, which reads a symbol's
// cached register directly and never re-derives it if that cache happens
// to be empty.
func (g *Generator) materialize(v tac.Val) *Register {
	r, ok := v.Accept(g).(*Register)
	diag.Assert(ok, "rtl: %T did not materialize to a register", v)
	return r
}

var v0 = &Register{Name: "v0"}
var f12 = &Register{Name: "f12"}

// --- tac.ExprVisitor ---

func (g *Generator) VisitSym(e *tac.Sym) interface{} {
	if !e.InMem {
		r, ok := g.regOf[e]
		diag.Assert(ok, "rtl: register-class symbol %s used before definition", e.Name)
		return r
	}
	reg := g.regs.Alloc(e.Ty == sctypes.TACFloat)
	if e.Ty == sctypes.TACFloat {
		g.emit(NewLoadDStmt(reg, g.mem(e)))
	} else {
		g.emit(NewLoadStmt(reg, g.mem(e)))
	}
	g.regOf[e] = reg
	return reg
}

func (g *Generator) VisitIntLit(e *tac.IntLit) interface{} {
	reg := g.regs.AllocInt()
	g.emit(NewILoadStmt(reg, &IntLit{Val: e.Value}))
	return reg
}

func (g *Generator) VisitFloatLit(e *tac.FloatLit) interface{} {
	reg := g.regs.AllocFloat()
	g.emit(NewILoadDStmt(reg, &FloatLit{Val: e.Value}))
	return reg
}

func (g *Generator) VisitStrLit(e *tac.StrLit) interface{} {
	reg := g.regs.AllocInt()
	id := g.strs.GetStringID(e.Value)
	g.emit(NewLoadAddrStmt(reg, &Mem{Name: id, IsGlobal: true}))
	return reg
}

func (g *Generator) VisitBinExpr(e *tac.BinExpr) interface{} {
	switch e.Op {
	case tac.Add, tac.Sub, tac.Mul, tac.Div:
		return g.genArith(e)
	case tac.Equal, tac.NotEqual, tac.Greater, tac.Less, tac.GreaterEqual, tac.LessEqual:
		return g.genCompare(e)
	case tac.And, tac.Or:
		return g.genLogical(e)
	}
	diag.Assert(false, "rtl: unknown binary operator %d", e.Op)
	return nil
}

func (g *Generator) genArith(e *tac.BinExpr) *Register {
	float := e.Ty == sctypes.TACFloat
	lhs := g.materialize(e.Lhs)
	g.regs.Lock(lhs)
	res := g.regs.Alloc(float)
	rhs := g.materialize(e.Rhs)
	g.regs.Unlock(lhs)
	switch {
	case e.Op == tac.Add && float:
		g.emit(NewAddDStmt(res, lhs, rhs))
	case e.Op == tac.Add:
		g.emit(NewAddStmt(res, lhs, rhs))
	case e.Op == tac.Sub && float:
		g.emit(NewSubDStmt(res, lhs, rhs))
	case e.Op == tac.Sub:
		g.emit(NewSubStmt(res, lhs, rhs))
	case e.Op == tac.Mul && float:
		g.emit(NewMulDStmt(res, lhs, rhs))
	case e.Op == tac.Mul:
		g.emit(NewMulStmt(res, lhs, rhs))
	case e.Op == tac.Div && float:
		g.emit(NewDivDStmt(res, lhs, rhs))
	case e.Op == tac.Div:
		g.emit(NewDivStmt(res, lhs, rhs))
	}
	g.regs.Free(lhs)
	g.regs.Free(rhs)
	return res
}

func (g *Generator) genCompare(e *tac.BinExpr) *Register {
	if e.Rhs.Type() != sctypes.TACFloat {
		lhs := g.materialize(e.Lhs)
		g.regs.Lock(lhs)
		res := g.regs.AllocInt()
		rhs := g.materialize(e.Rhs)
		g.regs.Unlock(lhs)
		switch e.Op {
		case tac.Equal:
			g.emit(NewSEQStmt(res, lhs, rhs))
		case tac.NotEqual:
			g.emit(NewSNEStmt(res, lhs, rhs))
		case tac.Greater:
			g.emit(NewSGTStmt(res, lhs, rhs))
		case tac.Less:
			g.emit(NewSLTStmt(res, lhs, rhs))
		case tac.GreaterEqual:
			g.emit(NewSGEStmt(res, lhs, rhs))
		case tac.LessEqual:
			g.emit(NewSLEStmt(res, lhs, rhs))
		}
		g.regs.Free(lhs)
		g.regs.Free(rhs)
		return res
	}

	// Float compares set a hardware condition flag rather than yielding a
	// register directly; materialize it into a 0/1 int via a conditional
	// move. The flag instruction and movt-vs-movf choice are per operator:
	// equal/not-equal share one seq.d flag (movt for ==, movf for !=);
	// greater/greater-or-equal share sle.d/slt.d negated via movf; less/
	// less-or-equal use slt.d/sle.d directly via movt.
	lhs := g.materialize(e.Lhs)
	g.regs.Lock(lhs)
	rhs := g.materialize(e.Rhs)
	g.regs.Unlock(lhs)
	useMovT := false
	switch e.Op {
	case tac.Equal:
		g.emit(NewSEQDStmt(lhs, rhs))
		useMovT = true
	case tac.NotEqual:
		g.emit(NewSEQDStmt(lhs, rhs))
	case tac.Greater:
		g.emit(NewSLEDStmt(lhs, rhs))
	case tac.GreaterEqual:
		g.emit(NewSLTDStmt(lhs, rhs))
	case tac.Less:
		g.emit(NewSLTDStmt(lhs, rhs))
		useMovT = true
	case tac.LessEqual:
		g.emit(NewSLEDStmt(lhs, rhs))
		useMovT = true
	}
	g.regs.Free(lhs)
	g.regs.Free(rhs)

	one := g.regs.AllocInt()
	res := g.regs.AllocInt()
	g.emit(NewILoadStmt(one, &IntLit{Val: 1}))
	g.emit(NewMoveStmt(res, RegZero))
	if useMovT {
		g.emit(NewMovTStmt(res, one, &IntLit{Val: 0}))
	} else {
		g.emit(NewMovFStmt(res, one, &IntLit{Val: 0}))
	}
	g.regs.Free(one)
	return res
}

// genLogical lowers && and ||. Both operands are always fully evaluated —
// the system this is ported from never short-circuits at this level,
// relying on side-effect-free operands, and this keeps the register
// discipline uniform with the arithmetic/comparison cases above.
func (g *Generator) genLogical(e *tac.BinExpr) *Register {
	lhs := g.materialize(e.Lhs)
	g.regs.Lock(lhs)
	res := g.regs.AllocInt()
	rhs := g.materialize(e.Rhs)
	g.regs.Unlock(lhs)
	if e.Op == tac.And {
		g.emit(NewAndStmt(res, lhs, rhs))
	} else {
		g.emit(NewOrStmt(res, lhs, rhs))
	}
	g.regs.Free(lhs)
	g.regs.Free(rhs)
	return res
}

func (g *Generator) VisitUnExpr(e *tac.UnExpr) interface{} {
	float := e.Ty == sctypes.TACFloat
	lhs := g.materialize(e.Lhs)
	if e.Op == tac.Neg {
		res := g.regs.Alloc(float)
		if float {
			g.emit(NewUMinusDStmt(res, lhs))
		} else {
			g.emit(NewUMinusStmt(res, lhs))
		}
		g.regs.Free(lhs)
		return res
	}
	res := g.regs.AllocInt()
	g.emit(NewNotStmt(res, lhs))
	g.regs.Free(lhs)
	return res
}

func (g *Generator) pushArgsReverse(args []tac.Val) {
	for i := len(args) - 1; i >= 0; i-- {
		g.pushArg(args[i])
	}
}

func (g *Generator) popArgsForward(args []tac.Val) {
	for _, a := range args {
		g.emit(&PopStmt{IsFloat: a.Type() == sctypes.TACFloat})
	}
}

func (g *Generator) pushArg(v tac.Val) {
	switch a := v.(type) {
	case *tac.IntLit:
		reg := g.regs.AllocInt()
		g.emit(NewILoadStmt(reg, &IntLit{Val: a.Value}))
		g.emit(&PushStmt{Reg: reg, IsFloat: false})
		g.regs.Free(reg)
	case *tac.FloatLit:
		reg := g.regs.AllocFloat()
		g.emit(NewILoadDStmt(reg, &FloatLit{Val: a.Value}))
		g.emit(&PushStmt{Reg: reg, IsFloat: true})
		g.regs.Free(reg)
	case *tac.StrLit:
		reg := g.regs.AllocInt()
		id := g.strs.GetStringID(a.Value)
		g.emit(NewLoadAddrStmt(reg, &Mem{Name: id, IsGlobal: true}))
		g.emit(&PushStmt{Reg: reg, IsFloat: false})
		g.regs.Free(reg)
	case *tac.Sym:
		float := a.Ty == sctypes.TACFloat
		if a.InMem {
			reg := g.regs.Alloc(float)
			if float {
				g.emit(NewLoadDStmt(reg, g.mem(a)))
			} else {
				g.emit(NewLoadStmt(reg, g.mem(a)))
			}
			g.emit(&PushStmt{Reg: reg, IsFloat: float})
			g.regs.Free(reg)
			return
		}
		reg, ok := g.regOf[a]
		diag.Assert(ok, "rtl: register-class symbol %s pushed before definition", a.Name)
		g.emit(&PushStmt{Reg: reg, IsFloat: float})
		g.regs.Free(reg)
		delete(g.regOf, a)
	default:
		diag.Assert(false, "rtl: %T is not a pushable call argument", v)
	}
}

func (g *Generator) VisitFuncCallExpr(e *tac.FuncCallExpr) interface{} {
	g.pushArgsReverse(e.Args)
	float := e.Ty == sctypes.TACFloat
	capture := RegV1
	if float {
		capture = RegF0
	}
	g.emit(&AssignCallStmt{Reg: capture, FuncName: e.FuncName})
	g.popArgsForward(e.Args)
	res := g.regs.Alloc(float)
	if float {
		g.emit(NewMoveDStmt(res, RegF0))
	} else {
		g.emit(NewMoveStmt(res, RegV1))
	}
	return res
}

func (g *Generator) VisitFuncPtrCallExpr(e *tac.FuncPtrCallExpr) interface{} {
	g.pushArgsReverse(e.Args)
	ptr := g.materialize(e.FuncPtr)
	float := e.Ty == sctypes.TACFloat
	capture := RegV1
	if float {
		capture = RegF0
	}
	g.emit(&AssignCallPtrStmt{Reg: capture, FuncPtr: ptr})
	g.regs.Free(ptr)
	g.popArgsForward(e.Args)
	res := g.regs.Alloc(float)
	if float {
		g.emit(NewMoveDStmt(res, RegF0))
	} else {
		g.emit(NewMoveStmt(res, RegV1))
	}
	return res
}

func (g *Generator) VisitDerefExpr(e *tac.DerefExpr) interface{} {
	arg := g.materialize(e.Arg)
	float := e.Ty == sctypes.TACFloat
	res := g.regs.Alloc(float)
	if float {
		g.emit(NewDerefDStmt(res, arg))
	} else {
		g.emit(NewDerefStmt(res, arg))
	}
	g.regs.Free(arg)
	return res
}

func (g *Generator) VisitAddrExpr(e *tac.AddrExpr) interface{} {
	reg := g.regs.AllocInt()
	g.emit(NewGetAddrStmt(reg, g.mem(e.Arg)))
	return reg
}

// --- tac.StmtVisitor ---

func (g *Generator) VisitPrintStmt(s *tac.PrintStmt) {
	switch a := s.Arg.(type) {
	case *tac.IntLit:
		g.emit(NewILoadStmt(v0, &IntLit{Val: 1}))
		g.emit(NewILoadStmt(RegA0, &IntLit{Val: a.Value}))
		g.emit(&WriteStmt{})
	case *tac.FloatLit:
		g.emit(NewILoadStmt(v0, &IntLit{Val: 3}))
		g.emit(NewILoadDStmt(f12, &FloatLit{Val: a.Value}))
		g.emit(&WriteStmt{})
	case *tac.StrLit:
		g.emit(NewILoadStmt(v0, &IntLit{Val: 4}))
		id := g.strs.GetStringID(a.Value)
		g.emit(NewLoadAddrStmt(RegA0, &Mem{Name: id, IsGlobal: true}))
		g.emit(&WriteStmt{})
	case *tac.Sym:
		g.printSym(a)
	default:
		diag.Assert(false, "rtl: %T is not printable", s.Arg)
	}
}

func (g *Generator) printSym(a *tac.Sym) {
	switch {
	case a.Ty == sctypes.TACString:
		g.emit(NewILoadStmt(v0, &IntLit{Val: 4}))
		g.emit(NewLoadStmt(RegA0, g.mem(a)))
		g.emit(&WriteStmt{})
	case a.Ty == sctypes.TACFloat && a.InMem:
		g.emit(NewILoadStmt(v0, &IntLit{Val: 3}))
		g.emit(NewLoadDStmt(f12, g.mem(a)))
		g.emit(&WriteStmt{})
	case a.Ty == sctypes.TACFloat:
		reg, ok := g.regOf[a]
		diag.Assert(ok, "rtl: register-class symbol %s printed before definition", a.Name)
		g.emit(NewILoadStmt(v0, &IntLit{Val: 3}))
		g.emit(NewMoveDStmt(f12, reg))
		g.emit(&WriteStmt{})
		g.regs.Free(reg)
		delete(g.regOf, a)
	case a.InMem:
		g.emit(NewILoadStmt(v0, &IntLit{Val: 1}))
		g.emit(NewLoadStmt(RegA0, g.mem(a)))
		g.emit(&WriteStmt{})
	default:
		reg, ok := g.regOf[a]
		diag.Assert(ok, "rtl: register-class symbol %s printed before definition", a.Name)
		if reg.Name == "v0" {
			// The symbol's own value lives in v0, the very register the
			// syscall-number load is about to clobber: move it out first.
			fresh := g.regs.AllocInt()
			g.emit(NewMoveStmt(fresh, reg))
			g.regs.Free(reg)
			g.regOf[a] = fresh
			reg = fresh
		}
		g.emit(NewILoadStmt(v0, &IntLit{Val: 1}))
		g.emit(NewMoveStmt(RegA0, reg))
		g.emit(&WriteStmt{})
		g.regs.Free(reg)
		delete(g.regOf, a)
	}
}

func (g *Generator) VisitReadIntStmt(s *tac.ReadIntStmt) {
	if s.Indirect {
		loc := g.materialize(s.Loc)
		g.emit(NewILoadStmt(v0, &IntLit{Val: 5}))
		g.emit(&ReadStmt{})
		g.emit(NewAddrAssignStmt(loc, v0))
		g.regs.Free(loc)
		return
	}
	sym, ok := s.Loc.(*tac.Sym)
	diag.Assert(ok, "rtl: direct read target must be a symbol")
	g.emit(NewILoadStmt(v0, &IntLit{Val: 5}))
	g.emit(&ReadStmt{})
	g.emit(NewStoreStmt(v0, g.mem(sym)))
}

func (g *Generator) VisitReadFloatStmt(s *tac.ReadFloatStmt) {
	if s.Indirect {
		loc := g.materialize(s.Loc)
		g.emit(NewILoadStmt(v0, &IntLit{Val: 7}))
		g.emit(&ReadStmt{})
		g.emit(NewAddrAssignDStmt(loc, RegF0))
		g.regs.Free(loc)
		return
	}
	sym, ok := s.Loc.(*tac.Sym)
	diag.Assert(ok, "rtl: direct read target must be a symbol")
	g.emit(NewILoadStmt(v0, &IntLit{Val: 7}))
	g.emit(&ReadStmt{})
	g.emit(NewStoreDStmt(RegF0, g.mem(sym)))
}

func (g *Generator) VisitAssignStmt(s *tac.AssignStmt) {
	rhs := g.genExpr(s.Rhs)
	if s.Lhs.InMem {
		if s.Lhs.Ty == sctypes.TACFloat {
			g.emit(NewStoreDStmt(rhs, g.mem(s.Lhs)))
		} else {
			g.emit(NewStoreStmt(rhs, g.mem(s.Lhs)))
		}
		g.regs.Free(rhs)
		return
	}
	// ASSUMPTION (matching the reference compiler): when the LHS is
	// register-class, the RHS value just computed becomes its home
	// register directly — no store is ever needed.
	g.regOf[s.Lhs] = rhs
}

func (g *Generator) VisitAddrAssignStmt(s *tac.AddrAssignStmt) {
	rhs := g.genExpr(s.Rhs)
	lhs := g.materialize(s.Lhs)
	if s.Rhs.Type() == sctypes.TACFloat {
		g.emit(NewAddrAssignDStmt(lhs, rhs))
	} else {
		g.emit(NewAddrAssignStmt(lhs, rhs))
	}
	g.regs.Free(rhs)
	g.regs.Free(lhs)
}

func (g *Generator) genExpr(e tac.Expr) *Register {
	r, ok := e.Accept(g).(*Register)
	diag.Assert(ok, "rtl: %T did not materialize to a register", e)
	return r
}

func (g *Generator) VisitLabel(s *tac.Label) { g.emit(&LabelStmt{Name: s.Name}) }

func (g *Generator) VisitGotoStmt(s *tac.GotoStmt) {
	g.emit(&GotoStmt{Label: &Label{Name: s.Label.Name}})
}

func (g *Generator) VisitIfGotoStmt(s *tac.IfGotoStmt) {
	cond := g.materialize(s.Cond)
	g.emit(&BGTZStmt{Reg: cond, Label: &Label{Name: s.Label.Name}})
	g.regs.Free(cond)
}

func (g *Generator) VisitCallStmt(s *tac.CallStmt) {
	switch c := s.Call.(type) {
	case *tac.FuncCallExpr:
		g.pushArgsReverse(c.Args)
		g.emit(&CallStmt{FuncName: c.FuncName})
		g.popArgsForward(c.Args)
	case *tac.FuncPtrCallExpr:
		g.pushArgsReverse(c.Args)
		ptr := g.materialize(c.FuncPtr)
		g.emit(&CallPtrStmt{FuncPtr: ptr})
		g.regs.Free(ptr)
		g.popArgsForward(c.Args)
	default:
		diag.Assert(false, "rtl: %T is not a callable statement", s.Call)
	}
}

func (g *Generator) VisitReturnStmt(s *tac.ReturnStmt) {
	if s.Ret == nil {
		g.emit(&ReturnStmt{Reg: nil})
		return
	}
	float := s.Ret.Ty == sctypes.TACFloat
	reg := RegV1
	if float {
		reg = RegF0
	}
	if float {
		g.emit(NewLoadDStmt(reg, g.mem(s.Ret)))
	} else {
		g.emit(NewLoadStmt(reg, g.mem(s.Ret)))
	}
	g.emit(&ReturnStmt{Reg: reg})
}
